package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"jackut/backend/internal/constants"
	"jackut/backend/internal/state"
	"jackut/backend/pkg/logger"
)

// Repository mirrors the persisted social graph into Neo4j so it can be
// explored with Cypher. The in-memory Graph stays authoritative; the mirror
// is rewritten wholesale on every sync.
type Repository struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewRepository creates a new graph mirror repository
func NewRepository(driver neo4j.DriverWithContext) *Repository {
	return &Repository{
		driver: driver,
		logger: logger.Named("neo4j"),
	}
}

// Close closes the Neo4j driver connection
func (r *Repository) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

// relationshipTypes maps relation record kinds to Cypher relationship types.
// Inverse kinds (fan, crush-received) are implied by their forward edge.
var relationshipTypes = map[string]string{
	constants.RelationIdol:  "IDOLIZES",
	constants.RelationCrush: "CRUSHES_ON",
	constants.RelationEnemy: "ENEMY_OF",
}

// Sync replaces the mirrored graph with the content of snap
func (r *Repository) Sync(ctx context.Context, snap *state.Snapshot) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx, `MATCH (n) WHERE n:JackutUser OR n:JackutCommunity DETACH DELETE n`, nil); err != nil {
			return nil, fmt.Errorf("failed to clear mirror: %w", err)
		}

		users := make([]map[string]any, 0, len(snap.Accounts))
		for _, acc := range snap.Accounts {
			users = append(users, map[string]any{"login": acc.Login, "name": acc.Name})
		}
		if _, err := tx.Run(ctx, `
			UNWIND $users AS u
			CREATE (:JackutUser {login: u.login, name: u.name})
		`, map[string]any{"users": users}); err != nil {
			return nil, fmt.Errorf("failed to create users: %w", err)
		}

		friends := make([]map[string]any, 0)
		requests := make([]map[string]any, 0)
		for _, rec := range snap.Friends {
			for _, f := range rec.Friends {
				// each friendship appears in both lines; keep one direction
				if rec.Login < f {
					friends = append(friends, map[string]any{"from": rec.Login, "to": f})
				}
			}
			for _, p := range rec.Pending {
				requests = append(requests, map[string]any{"from": rec.Login, "to": p})
			}
		}
		if err := runEdges(ctx, tx, "FRIENDS_WITH", friends); err != nil {
			return nil, err
		}
		if err := runEdges(ctx, tx, "REQUESTED_FRIENDSHIP", requests); err != nil {
			return nil, err
		}

		typed := make(map[string][]map[string]any)
		for _, rel := range snap.Relations {
			relType, ok := relationshipTypes[rel.Kind]
			if !ok {
				continue
			}
			typed[relType] = append(typed[relType], map[string]any{"from": rel.From, "to": rel.To})
		}
		for relType, edges := range typed {
			if err := runEdges(ctx, tx, relType, edges); err != nil {
				return nil, err
			}
		}

		communities := make([]map[string]any, 0, len(snap.Communities))
		for _, c := range snap.Communities {
			communities = append(communities, map[string]any{
				"name":        c.Name,
				"description": c.Description,
				"owner":       c.Owner,
				"members":     c.Members,
			})
		}
		if _, err := tx.Run(ctx, `
			UNWIND $communities AS c
			MATCH (o:JackutUser {login: c.owner})
			CREATE (g:JackutCommunity {name: c.name, description: c.description})
			CREATE (o)-[:OWNS]->(g)
			WITH g, c
			UNWIND c.members AS m
			MATCH (u:JackutUser {login: m})
			CREATE (u)-[:MEMBER_OF]->(g)
		`, map[string]any{"communities": communities}); err != nil {
			return nil, fmt.Errorf("failed to create communities: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to sync graph mirror: %w", err)
	}

	r.logger.Info("Graph mirror synced",
		zap.Int("users", len(snap.Accounts)),
		zap.Int("communities", len(snap.Communities)),
	)
	return nil
}

// relType is always one of our fixed constants; Cypher cannot parameterize it
func runEdges(ctx context.Context, tx neo4j.ManagedTransaction, relType string, edges []map[string]any) error {
	if len(edges) == 0 {
		return nil
	}
	query := fmt.Sprintf(`
		UNWIND $edges AS e
		MATCH (a:JackutUser {login: e.from})
		MATCH (b:JackutUser {login: e.to})
		CREATE (a)-[:%s]->(b)
	`, relType)
	if _, err := tx.Run(ctx, query, map[string]any{"edges": edges}); err != nil {
		return fmt.Errorf("failed to create %s edges: %w", relType, err)
	}
	return nil
}

// fetchFriends reads the mirrored friends of login, sorted by login
func (r *Repository) fetchFriends(ctx context.Context, login string) ([]string, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (u:JackutUser {login: $login})-[:FRIENDS_WITH]-(f:JackutUser)
		WITH f.login AS friend ORDER BY friend
		RETURN collect(friend) AS friends
	`, map[string]any{"login": login})
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	record, err := result.Single(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch record: %w", err)
	}
	return getStringSliceFromRecord(record, "friends"), nil
}

// CountUsers returns the number of mirrored accounts
func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `MATCH (u:JackutUser) RETURN count(u) AS total`, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to execute query: %w", err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch record: %w", err)
	}
	return getInt64FromRecord(record, "total"), nil
}

// EnsureSchema creates the constraints and indexes the mirror relies on.
// Existing ones are left alone.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	statements := []string{
		"CREATE CONSTRAINT jackut_user_login_unique IF NOT EXISTS FOR (u:JackutUser) REQUIRE u.login IS UNIQUE",
		"CREATE CONSTRAINT jackut_community_name_unique IF NOT EXISTS FOR (c:JackutCommunity) REQUIRE c.name IS UNIQUE",
		"CREATE INDEX jackut_user_name IF NOT EXISTS FOR (u:JackutUser) ON (u.name)",
	}

	failed := 0
	for _, stmt := range statements {
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			// Log but don't fail - older servers may reject IF NOT EXISTS
			r.logger.Warn("Schema statement failed", zap.String("statement", stmt), zap.Error(err))
			failed++
		}
	}
	if failed == len(statements) {
		return fmt.Errorf("failed to create any mirror schema statement")
	}
	return nil
}
