package graph

import "jackut/backend/internal/constants"

// ============================================================================
// Relationship Graph Types
// ============================================================================

// Relation identifies one kind of edge. Each relation is stored once with a
// forward and an inverse adjacency index.
type Relation int

const (
	// Friendship is symmetric: A in friends(B) iff B in friends(A)
	Friendship Relation = iota
	// FriendRequest is a pending handshake; forward = sent, inverse = received
	FriendRequest
	// Idol: forward = idols, inverse = fans
	Idol
	// Crush: forward = crushes, inverse = crushes received
	Crush
	// Enemy is symmetric and always recorded bilaterally
	Enemy
)

// Relations lists every relation kind
var Relations = []Relation{Friendship, FriendRequest, Idol, Crush, Enemy}

// String returns the user-visible relation name
func (r Relation) String() string {
	switch r {
	case Friendship:
		return constants.RelationFriend
	case FriendRequest:
		return "friend request"
	case Idol:
		return constants.RelationIdol
	case Crush:
		return constants.RelationCrush
	case Enemy:
		return constants.RelationEnemy
	}
	return "unknown"
}

// Symmetric reports whether the relation has no distinct inverse view
func (r Relation) Symmetric() bool {
	return r == Friendship || r == Enemy
}

// Member is the part of an account the graph needs: its key and the name used
// in enemy-gate errors.
type Member struct {
	Login string
	Name  string
}

// FriendOutcome tells the caller what a friend request did
type FriendOutcome int

const (
	// RequestSent records a new pending edge
	RequestSent FriendOutcome = iota
	// FriendshipFormed completes a handshake started by the other side
	FriendshipFormed
)

// PurgeStats counts the edges dropped when an account is removed
type PurgeStats struct {
	Edges map[Relation]int
}

// Total returns the number of edges removed across all relations
func (p PurgeStats) Total() int {
	total := 0
	for _, n := range p.Edges {
		total += n
	}
	return total
}
