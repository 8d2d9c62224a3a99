package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// ============================================================================
// Mirror Queries
// ============================================================================

// Suggestion is a friend-of-a-friend candidate ranked by shared friends
type Suggestion struct {
	Login  string   `json:"login"`
	Name   string   `json:"name"`
	Mutual []string `json:"mutual"`
}

// UserMatch is a mirrored account matched by SearchUsers
type UserMatch struct {
	Login string `json:"login"`
	Name  string `json:"name"`
}

// SuggestFriends returns accounts two friendship hops away from login that
// are neither friends nor enemies of login, most shared friends first.
func (r *Repository) SuggestFriends(ctx context.Context, login string, limit int) ([]Suggestion, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	if limit < 1 {
		limit = 10
	}

	query := `
		MATCH (u:JackutUser {login: $login})-[:FRIENDS_WITH]-(f:JackutUser)-[:FRIENDS_WITH]-(c:JackutUser)
		WHERE c <> u
		  AND NOT (u)-[:FRIENDS_WITH]-(c)
		  AND NOT (u)-[:ENEMY_OF]-(c)
		WITH c, f.login AS via ORDER BY via
		WITH c, collect(DISTINCT via) AS mutual
		RETURN c.login AS login, c.name AS name, mutual
		ORDER BY size(mutual) DESC, login
		LIMIT $limit
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"login": login,
		"limit": limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to suggest friends: %w", err)
	}

	suggestions := []Suggestion{}
	for result.Next(ctx) {
		record := result.Record()
		suggestions = append(suggestions, Suggestion{
			Login:  getStringFromRecord(record, "login"),
			Name:   getStringFromRecord(record, "name"),
			Mutual: getStringSliceFromRecord(record, "mutual"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read suggestions: %w", err)
	}
	return suggestions, nil
}

// SearchUsers finds mirrored accounts whose login or name contains query,
// ignoring case.
func (r *Repository) SearchUsers(ctx context.Context, query string, limit int) ([]UserMatch, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	if limit < 1 {
		limit = 10
	}

	result, err := session.Run(ctx, `
		MATCH (u:JackutUser)
		WHERE toLower(u.login) CONTAINS toLower($query)
		   OR toLower(COALESCE(u.name, '')) CONTAINS toLower($query)
		RETURN u.login AS login, u.name AS name
		ORDER BY login
		LIMIT $limit
	`, map[string]interface{}{
		"query": query,
		"limit": limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	matches := []UserMatch{}
	for result.Next(ctx) {
		record := result.Record()
		matches = append(matches, UserMatch{
			Login: getStringFromRecord(record, "login"),
			Name:  getStringFromRecord(record, "name"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read search results: %w", err)
	}
	return matches, nil
}
