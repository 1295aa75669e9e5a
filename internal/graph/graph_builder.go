package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"

	"stellaris-techtree/internal/localisation"
	"stellaris-techtree/internal/worker"
)

const defaultExportBatch = 500

// Exporter mirrors a Tree into Neo4j: one :Technology node per graph node
// and a [:REQUIRES] relationship from each technology to its prerequisites.
type Exporter struct {
	driver    neo4j.DriverWithContext
	batchSize int
}

// NewExporter creates a new exporter.
func NewExporter(driver neo4j.DriverWithContext) *Exporter {
	return &Exporter{driver: driver, batchSize: defaultExportBatch}
}

// EnsureSchema creates the uniqueness constraint on technology ids.
func (e *Exporter) EnsureSchema(ctx context.Context) error {
	session := e.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	_, err := session.Run(ctx,
		"CREATE CONSTRAINT IF NOT EXISTS FOR (t:Technology) REQUIRE t.id IS UNIQUE",
		nil,
	)
	if err != nil {
		return fmt.Errorf("create technology constraint: %w", err)
	}

	log.Info().Msg("Graph schema ensured")
	return nil
}

// Export upserts every node, then every edge.
func (e *Exporter) Export(ctx context.Context, tree *Tree) error {
	session := e.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	nodes := NodeRows(tree)
	for _, batch := range worker.Batch(nodes, e.batchSize) {
		_, err := session.Run(ctx, `
			UNWIND $rows AS row
			MERGE (t:Technology {id: row.id})
			SET t += row.props
		`, map[string]any{"rows": batch})
		if err != nil {
			return fmt.Errorf("upsert technology nodes: %w", err)
		}
	}

	edges := EdgeRows(tree)
	for _, batch := range worker.Batch(edges, e.batchSize) {
		_, err := session.Run(ctx, `
			UNWIND $rows AS row
			MATCH (t:Technology {id: row.tech})
			MATCH (p:Technology {id: row.prerequisite})
			MERGE (t)-[:REQUIRES]->(p)
		`, map[string]any{"rows": batch})
		if err != nil {
			return fmt.Errorf("upsert prerequisite edges: %w", err)
		}
	}

	log.Info().
		Int("nodes", len(nodes)).
		Int("edges", len(edges)).
		Msg("Exported technology graph to Neo4j")
	return nil
}

// NodeRows renders the nodes of tree as Cypher parameters.
func NodeRows(tree *Tree) []any {
	rows := make([]any, 0, tree.Len())
	for _, n := range tree.Nodes() {
		props := map[string]any{"dangling": n.Dangling()}
		if d := n.Data; d != nil {
			props["package_id"] = d.PackageID
			props["cost"] = d.SignedCost()
			props["area"] = d.Area.String()
			props["start_tech"] = d.StartTech
			props["tier"] = optional(d.Tier)
			props["category"] = optional(d.Category)
			if text, ok := d.Localisation[localisation.English]; ok {
				props["name"] = text.Value
			}
		}
		rows = append(rows, map[string]any{"id": n.Name, "props": props})
	}
	return rows
}

// EdgeRows renders every prerequisite link of tree as Cypher parameters.
func EdgeRows(tree *Tree) []any {
	var rows []any
	for _, n := range tree.Nodes() {
		for _, prev := range n.Predecessors {
			rows = append(rows, map[string]any{
				"tech":         n.Name,
				"prerequisite": tree.Node(prev).Name,
			})
		}
	}
	return rows
}

func optional(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
