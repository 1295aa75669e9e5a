package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
)

// Querier reads the exported technology graph back from Neo4j.
type Querier struct {
	driver neo4j.DriverWithContext
}

// NewQuerier creates a new graph querier.
func NewQuerier(driver neo4j.DriverWithContext) *Querier {
	return &Querier{driver: driver}
}

// Prerequisites returns the ids of every technology the given one
// transitively requires, sorted by id.
func (q *Querier) Prerequisites(ctx context.Context, id string) ([]string, error) {
	session := q.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (:Technology {id: $id})-[:REQUIRES*1..]->(p:Technology)
		RETURN DISTINCT p.id AS id
		ORDER BY id
	`, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("query prerequisites: %w", err)
	}

	var ids []string
	for result.Next(ctx) {
		record := result.Record()
		v, _ := record.Get("id")
		ids = append(ids, fmt.Sprintf("%v", v))
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("read prerequisites: %w", err)
	}

	log.Debug().Str("id", id).Int("prerequisites", len(ids)).Msg("Graph query complete")
	return ids, nil
}
