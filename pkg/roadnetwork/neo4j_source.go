package roadnetwork

import (
	"context"
	"fmt"

	da "github.com/lintang-b-s/dynroute/pkg/datastructure"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

const (
	loadRoadsQuery = `MATCH (a:Intersection)-[r:ROAD]->(b:Intersection)
RETURN r.road_id AS id, a.node_id AS start_node, b.node_id AS end_node,
       r.length AS length, r.max_speed AS max_speed,
       coalesce(r.current_congestion, 0.0) AS current_congestion, r.name AS name`

	updateCongestionQuery = `MATCH ()-[r:ROAD {road_id: $road_id}]->()
SET r.current_congestion = $congestion
RETURN count(r) AS updated`
)

// Neo4jRunner executes a cypher query and buffers the whole result.
type Neo4jRunner interface {
	Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error)
}

// Neo4jExecutor runs queries through the official driver against one database.
type Neo4jExecutor struct {
	driver neo4j.DriverWithContext
	dbName string
}

func NewNeo4jExecutor(uri, username, password, dbName string) (*Neo4jExecutor, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("could not create neo4j driver: %w", err)
	}
	return &Neo4jExecutor{driver: driver, dbName: dbName}, nil
}

func (e *Neo4jExecutor) Verify(ctx context.Context) error {
	return e.driver.VerifyConnectivity(ctx)
}

func (e *Neo4jExecutor) Close(ctx context.Context) error {
	return e.driver.Close(ctx)
}

func (e *Neo4jExecutor) Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(
		ctx,
		e.driver,
		query,
		params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(e.dbName),
	)
	if err != nil {
		return nil, fmt.Errorf("error executing neo4j query: %w", err)
	}
	return result, nil
}

// Neo4jSource reads (:Intersection)-[:ROAD]->(:Intersection) relationships as road records.
type Neo4jSource struct {
	runner Neo4jRunner
}

func NewNeo4jSource(runner Neo4jRunner) *Neo4jSource {
	return &Neo4jSource{runner: runner}
}

func (ns *Neo4jSource) LoadRoadSegments(ctx context.Context) ([]da.RoadSegment, error) {
	result, err := ns.runner.Run(ctx, loadRoadsQuery, nil)
	if err != nil {
		return nil, err
	}

	segments := make([]da.RoadSegment, 0, len(result.Records))
	for i, record := range result.Records {
		seg, err := recordToRoadSegment(record)
		if err != nil {
			return nil, fmt.Errorf("road record %d: %w", i, err)
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

// UpdateCongestion writes the congestion of road roadID back to the ROAD relationship.
func (ns *Neo4jSource) UpdateCongestion(ctx context.Context, roadID string, congestion float64) (bool, error) {
	if congestion < 0 {
		congestion = 0
	}
	result, err := ns.runner.Run(ctx, updateCongestionQuery, map[string]any{
		"road_id":    roadID,
		"congestion": congestion,
	})
	if err != nil {
		return false, err
	}
	if len(result.Records) == 0 {
		return false, nil
	}
	updated, _ := result.Records[0].Get("updated")
	n, err := toFloat(updated)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func recordToRoadSegment(record *neo4j.Record) (da.RoadSegment, error) {
	var seg da.RoadSegment
	var err error

	if seg.ID, err = recordString(record, "id", false); err != nil {
		return seg, err
	}
	if seg.StartNode, err = recordString(record, "start_node", false); err != nil {
		return seg, err
	}
	if seg.EndNode, err = recordString(record, "end_node", false); err != nil {
		return seg, err
	}
	if seg.Name, err = recordString(record, "name", true); err != nil {
		return seg, err
	}
	if seg.LengthKm, err = recordFloat(record, "length"); err != nil {
		return seg, err
	}
	if seg.MaxSpeedKmh, err = recordFloat(record, "max_speed"); err != nil {
		return seg, err
	}
	if seg.CurrentCongestion, err = recordFloat(record, "current_congestion"); err != nil {
		return seg, err
	}
	return seg, nil
}

func recordString(record *neo4j.Record, key string, optional bool) (string, error) {
	v, ok := record.Get(key)
	if !ok || v == nil {
		if optional {
			return "", nil
		}
		return "", fmt.Errorf("missing %q", key)
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case int64:
		return fmt.Sprintf("%d", s), nil
	default:
		return "", fmt.Errorf("%q has unexpected type %T", key, v)
	}
}

// recordFloat returns 0 for a missing or null property, defaults are applied by the graph builder.
func recordFloat(record *neo4j.Record, key string) (float64, error) {
	v, ok := record.Get(key)
	if !ok || v == nil {
		return 0, nil
	}
	f, err := toFloat(v)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", key, err)
	}
	return f, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("unexpected numeric type %T", v)
	}
}
