package osmparser

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lintang-b-s/dynroute/pkg"
	da "github.com/lintang-b-s/dynroute/pkg/datastructure"
	"github.com/lintang-b-s/dynroute/pkg/geo"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"go.uber.org/zap"
)

type nodeType uint8

const (
	END_NODE nodeType = iota
	BETWEEN_NODE
	JUNCTION_NODE
)

var (
	// https://wiki.openstreetmap.org/wiki/OSM_tags_for_routing/Telenav
	acceptedHighway = map[string]struct{}{
		"motorway":         {},
		"motorway_link":    {},
		"trunk":            {},
		"trunk_link":       {},
		"primary":          {},
		"primary_link":     {},
		"secondary":        {},
		"secondary_link":   {},
		"residential":      {},
		"residential_link": {},
		"service":          {},
		"tertiary":         {},
		"tertiary_link":    {},
		"road":             {},
		"track":            {},
		"unclassified":     {},
		"undefined":        {},
		"unknown":          {},
		"living_street":    {},
		"private":          {},
		"motorroad":        {},
	}
)

// OsmParser extracts directed road segments between junctions from an openstreetmap pbf file.
// intersections are named by their osm node id.
type OsmParser struct {
	wayNodeMap      map[int64]nodeType
	acceptedNodeMap map[int64]geo.Coordinate
	log             *zap.Logger
}

func NewOsmParser(log *zap.Logger) *OsmParser {
	return &OsmParser{
		wayNodeMap:      make(map[int64]nodeType),
		acceptedNodeMap: make(map[int64]geo.Coordinate),
		log:             log,
	}
}

// Parse scans mapFile twice: the first pass marks junction nodes, the second reads node coordinates and
// splits every accepted way at its junctions.
func (p *OsmParser) Parse(ctx context.Context, mapFile string) ([]da.RoadSegment, error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return nil, fmt.Errorf("open osm file %s: %w", mapFile, err)
	}
	defer f.Close()

	p.wayNodeMap = make(map[int64]nodeType)
	p.acceptedNodeMap = make(map[int64]geo.Coordinate)

	scanner := osmpbf.New(ctx, f, 1)
	scanner.SkipNodes = true
	scanner.SkipRelations = true
	countWays := 0
	for scanner.Scan() {
		way, ok := scanner.Object().(*osm.Way)
		if !ok || len(way.Nodes) < 2 || !acceptOsmWay(way) {
			continue
		}
		countWays++
		p.markWayNodes(way)
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("scan osm ways: %w", err)
	}
	scanner.Close()
	p.log.Info("reading openstreetmap ways done", zap.Int("ways", countWays))

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	scanner = osmpbf.New(ctx, f, 1)
	scanner.SkipRelations = true
	defer scanner.Close()

	segments := make([]da.RoadSegment, 0, countWays)
	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			if _, ok := p.wayNodeMap[int64(o.ID)]; ok {
				p.acceptedNodeMap[int64(o.ID)] = geo.NewCoordinate(o.Lat, o.Lon)
			}
		case *osm.Way:
			if len(o.Nodes) < 2 || !acceptOsmWay(o) {
				continue
			}
			waySegments, err := p.processWay(o)
			if err != nil {
				p.log.Warn("skipping osm way", zap.Int64("way_id", int64(o.ID)), zap.Error(err))
				continue
			}
			segments = append(segments, waySegments...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan osm file: %w", err)
	}

	p.log.Info("openstreetmap road segments extracted", zap.Int("segments", len(segments)))
	return segments, nil
}

func (p *OsmParser) markWayNodes(way *osm.Way) {
	for i, node := range way.Nodes {
		id := int64(node.ID)
		if _, ok := p.wayNodeMap[id]; ok {
			p.wayNodeMap[id] = JUNCTION_NODE
			continue
		}
		if i == 0 || i == len(way.Nodes)-1 {
			p.wayNodeMap[id] = END_NODE
		} else {
			p.wayNodeMap[id] = BETWEEN_NODE
		}
	}
}

func (p *OsmParser) isSplitNode(nodeID int64) bool {
	t, ok := p.wayNodeMap[nodeID]
	return ok && (t == JUNCTION_NODE || t == END_NODE)
}

// processWay splits way at junction nodes into segments, one per travel direction.
func (p *OsmParser) processWay(way *osm.Way) ([]da.RoadSegment, error) {
	maxSpeed, err := wayMaxSpeed(way)
	if err != nil {
		return nil, err
	}
	forward, backward := wayDirections(way)
	name := way.Tags.Find("name")

	segments := make([]da.RoadSegment, 0, 2)
	part := 0
	waySegment := make([]int64, 0, len(way.Nodes))

	var emit func(nodeIDs []int64)
	emit = func(nodeIDs []int64) {
		if len(nodeIDs) < 2 {
			return
		}
		if nodeIDs[0] == nodeIDs[len(nodeIDs)-1] {
			if len(nodeIDs) > 2 {
				// closed way, split before the last node so no arc is a self loop
				emit(nodeIDs[:len(nodeIDs)-1])
				emit(nodeIDs[len(nodeIDs)-2:])
			}
			return
		}
		coords := make([]geo.Coordinate, 0, len(nodeIDs))
		for _, id := range nodeIDs {
			coords = append(coords, p.acceptedNodeMap[id])
		}
		length := geo.PolylineLengthKm(coords)
		from := strconv.FormatInt(nodeIDs[0], 10)
		to := strconv.FormatInt(nodeIDs[len(nodeIDs)-1], 10)
		id := fmt.Sprintf("%d_%d", way.ID, part)
		part++

		if forward {
			seg := da.NewRoadSegment(id, from, to, length, maxSpeed, 0)
			seg.Name = name
			segments = append(segments, seg)
		}
		if backward {
			seg := da.NewRoadSegment(id+"_reverse", to, from, length, maxSpeed, 0)
			seg.Name = name
			segments = append(segments, seg)
		}
	}

	for i, wayNode := range way.Nodes {
		id := int64(wayNode.ID)
		waySegment = append(waySegment, id)
		if i > 0 && i < len(way.Nodes)-1 && p.isSplitNode(id) {
			emit(waySegment)
			waySegment = []int64{id}
		}
	}
	emit(waySegment)

	return segments, nil
}

func acceptOsmWay(way *osm.Way) bool {
	highway := way.Tags.Find("highway")
	junction := way.Tags.Find("junction")
	if highway != "" {
		if _, ok := acceptedHighway[highway]; ok {
			return true
		}
	} else if junction != "" {
		return true
	}
	return false
}

func isRestricted(value string) bool {
	return value == "no" || value == "restricted"
}

// wayDirections returns whether the way may be travelled along and against its node order.
func wayDirections(way *osm.Way) (bool, bool) {
	forwardRestricted := isRestricted(way.Tags.Find("vehicle:forward")) ||
		isRestricted(way.Tags.Find("motor_vehicle:forward"))
	backwardRestricted := isRestricted(way.Tags.Find("vehicle:backward")) ||
		isRestricted(way.Tags.Find("motor_vehicle:backward"))

	switch way.Tags.Find("oneway") {
	case "yes", "true", "1":
		return !forwardRestricted, false
	case "-1", "reverse":
		return false, !backwardRestricted
	}
	if way.Tags.Find("junction") == "roundabout" {
		return true, false
	}
	return !forwardRestricted, !backwardRestricted
}

// wayMaxSpeed parses the maxspeed tag (km/h, mph, knots), falling back to the highway type default.
func wayMaxSpeed(way *osm.Way) (float64, error) {
	maxSpeed, err := parseMaxSpeed(way.Tags.Find("maxspeed"))
	if err != nil {
		return 0, err
	}
	if maxSpeed == 0 {
		maxSpeed = pkg.HighwayMaxSpeed(pkg.GetHighwayType(way.Tags.Find("highway")))
	}
	return maxSpeed, nil
}

func parseMaxSpeed(value string) (float64, error) {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return 0, nil
	case strings.HasSuffix(value, "mph"):
		speed, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(value, "mph")), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid maxspeed %q: %w", value, err)
		}
		return speed * 1.60934, nil
	case strings.HasSuffix(value, "knots"):
		speed, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(value, "knots")), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid maxspeed %q: %w", value, err)
		}
		return speed * 1.852, nil
	case strings.HasSuffix(value, "km/h"):
		speed, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(value, "km/h")), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid maxspeed %q: %w", value, err)
		}
		return speed, nil
	default:
		// plain number is km/h, symbolic values (walk, none, signals) use the highway default
		speed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, nil
		}
		return speed, nil
	}
}
