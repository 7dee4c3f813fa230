package pkg

const (
	INF_WEIGHT float64 = 1e15

	// edge weight defaults, applied when a road record carries a non-positive value
	DEFAULT_LENGTH_KM       = 1.0
	DEFAULT_MAX_SPEED_KMH   = 60.0
	SECONDS_PER_HOUR        = 3600.0
	DEFAULT_WEIGHT_ALPHA    = 0.6
	DEFAULT_WEIGHT_BETA     = 0.4
	MIN_SOFTMAX_TEMPERATURE = 1e-10

	DEFAULT_K                   = 5
	DEFAULT_SOFTMAX_TEMPERATURE = 1.0

	DEFAULT_GRAPH_CACHE_TTL_SECOND     = 300
	DEFAULT_GRAPH_FETCH_TIMEOUT_SECOND = 10
	DEFAULT_PATH_CACHE_TTL_SECOND      = 600
	DEFAULT_PATH_CACHE_CAPACITY        = 1000

	// traffic report -> congestion mapping
	CONGESTION_PER_VEHICLE  = 2.0
	MAX_REPORTED_CONGESTION = 100.0
)

type VehicleClass string

const (
	VEHICLE_NORMAL    VehicleClass = "normal"
	VEHICLE_CAR       VehicleClass = "car"
	VEHICLE_TRUCK     VehicleClass = "truck"
	VEHICLE_BUS       VehicleClass = "bus"
	VEHICLE_EMERGENCY VehicleClass = "emergency"
)

func (v VehicleClass) IsEmergency() bool {
	return v == VEHICLE_EMERGENCY
}

type OsmHighwayType uint8

// enum for osm highway used by routing: https://wiki.openstreetmap.org/wiki/OSM_tags_for_routing/Telenav
const (
	MOTORWAY       OsmHighwayType = 0
	TRUNK          OsmHighwayType = 1
	PRIMARY        OsmHighwayType = 2
	SECONDARY      OsmHighwayType = 3
	TERTIARY       OsmHighwayType = 4
	RESIDENTIAL    OsmHighwayType = 5
	SERVICE        OsmHighwayType = 6
	UNCLASSIFIED   OsmHighwayType = 7
	MOTORWAY_LINK  OsmHighwayType = 8
	TRUNK_LINK     OsmHighwayType = 9
	PRIMARY_LINK   OsmHighwayType = 10
	SECONDARY_LINK OsmHighwayType = 11
	TERTIARY_LINK  OsmHighwayType = 12
	LIVING_STREET  OsmHighwayType = 13
	ROAD           OsmHighwayType = 14
	TRACK          OsmHighwayType = 15
	MOTORROAD      OsmHighwayType = 16
	UNKNOWN        OsmHighwayType = 17
)

func GetHighwayType(roadType string) OsmHighwayType {
	switch roadType {
	case "motorway":
		return MOTORWAY
	case "trunk":
		return TRUNK
	case "primary":
		return PRIMARY
	case "secondary":
		return SECONDARY
	case "tertiary":
		return TERTIARY
	case "unclassified":
		return UNCLASSIFIED
	case "residential":
		return RESIDENTIAL
	case "service":
		return SERVICE
	case "motorway_link":
		return MOTORWAY_LINK
	case "trunk_link":
		return TRUNK_LINK
	case "primary_link":
		return PRIMARY_LINK
	case "secondary_link":
		return SECONDARY_LINK
	case "tertiary_link":
		return TERTIARY_LINK
	case "living_street":
		return LIVING_STREET
	case "road":
		return ROAD
	case "track":
		return TRACK
	case "motorroad":
		return MOTORROAD
	default:
		return UNKNOWN
	}
}

// HighwayMaxSpeed. default max speed (km/h) of an osm highway type without maxspeed tag
func HighwayMaxSpeed(highway OsmHighwayType) float64 {
	switch highway {
	case MOTORWAY:
		return 100
	case TRUNK:
		return 70
	case PRIMARY:
		return 65
	case SECONDARY:
		return 60
	case TERTIARY:
		return 50
	case UNCLASSIFIED:
		return 40
	case RESIDENTIAL:
		return 30
	case SERVICE:
		return 20
	case MOTORWAY_LINK:
		return 70
	case TRUNK_LINK:
		return 65
	case PRIMARY_LINK:
		return 60
	case SECONDARY_LINK:
		return 50
	case TERTIARY_LINK:
		return 40
	case LIVING_STREET:
		return 5
	case ROAD:
		return 20
	case TRACK:
		return 15
	case MOTORROAD:
		return 90
	default:
		return 30
	}
}
