package graph

import (
	"jackut/backend/internal/constants"
	apperrors "jackut/backend/pkg/errors"
)

// ============================================================================
// User-to-User Relationship Operations
// ============================================================================

// Graph holds every relation between accounts, keyed by login. It performs no
// locking; the owning System is driven by one actor at a time.
type Graph struct {
	edges map[Relation]*edgeIndex
}

// New creates an empty relationship graph
func New() *Graph {
	g := &Graph{}
	g.Reset()
	return g
}

// Reset drops every edge
func (g *Graph) Reset() {
	g.edges = make(map[Relation]*edgeIndex, len(Relations))
	for _, r := range Relations {
		g.edges[r] = newEdgeIndex(r.Symmetric())
	}
}

// Has reports whether the forward edge from->to exists
func (g *Graph) Has(r Relation, from, to string) bool {
	return g.edges[r].has(from, to)
}

// Outgoing returns the forward view of login for relation r
func (g *Graph) Outgoing(r Relation, login string) []string {
	return g.edges[r].outgoing(login)
}

// Incoming returns the inverse view of login for relation r
func (g *Graph) Incoming(r Relation, login string) []string {
	return g.edges[r].incoming(login)
}

func (g *Graph) Friends(login string) []string          { return g.Outgoing(Friendship, login) }
func (g *Graph) RequestsSent(login string) []string     { return g.Outgoing(FriendRequest, login) }
func (g *Graph) RequestsReceived(login string) []string { return g.Incoming(FriendRequest, login) }
func (g *Graph) Idols(login string) []string            { return g.Outgoing(Idol, login) }
func (g *Graph) Fans(login string) []string             { return g.Incoming(Idol, login) }
func (g *Graph) Crushes(login string) []string          { return g.Outgoing(Crush, login) }
func (g *Graph) CrushesReceived(login string) []string  { return g.Incoming(Crush, login) }
func (g *Graph) Enemies(login string) []string          { return g.Outgoing(Enemy, login) }

// CheckEnemy is the enemy-block gate. It fails when b is an enemy of a and
// names b in the error.
func (g *Graph) CheckEnemy(a, b Member) error {
	if g.Has(Enemy, a.Login, b.Login) {
		return apperrors.NewBlocked(b.Name)
	}
	return nil
}

// RequestFriend runs one step of the friendship handshake. A request towards
// someone who already asked us is taken as acceptance.
func (g *Graph) RequestFriend(a, b Member) (FriendOutcome, error) {
	if a.Login == b.Login {
		return RequestSent, apperrors.NewSelfRelation(constants.RelationFriend)
	}
	if g.Has(Friendship, a.Login, b.Login) || g.Has(Friendship, b.Login, a.Login) {
		return RequestSent, apperrors.NewAlreadyRelated(constants.RelationFriend)
	}
	if err := g.CheckEnemy(a, b); err != nil {
		return RequestSent, err
	}

	requests := g.edges[FriendRequest]
	switch {
	case requests.has(a.Login, b.Login):
		return RequestSent, apperrors.ErrDuplicateRequest
	case requests.has(b.Login, a.Login):
		requests.unlink(b.Login, a.Login)
		g.edges[Friendship].link(a.Login, b.Login)
		return FriendshipFormed, nil
	default:
		requests.link(a.Login, b.Login)
		return RequestSent, nil
	}
}

// AddIdol makes b an idol of a and a a fan of b
func (g *Graph) AddIdol(a, b Member) error {
	if err := g.checkNewEdge(Idol, a, b, true); err != nil {
		return err
	}
	g.edges[Idol].link(a.Login, b.Login)
	return nil
}

// AddCrush records a crush from a to b. It reports true when b already had a
// crush on a, so the caller can announce the match to both parties.
func (g *Graph) AddCrush(a, b Member) (bool, error) {
	if err := g.checkNewEdge(Crush, a, b, true); err != nil {
		return false, err
	}
	mutual := g.Has(Crush, b.Login, a.Login)
	g.edges[Crush].link(a.Login, b.Login)
	return mutual, nil
}

// AddEnemy records a bilateral enmity. Existing enmity is AlreadyRelated, never Blocked.
func (g *Graph) AddEnemy(a, b Member) error {
	if err := g.checkNewEdge(Enemy, a, b, false); err != nil {
		return err
	}
	g.edges[Enemy].link(a.Login, b.Login)
	return nil
}

func (g *Graph) checkNewEdge(r Relation, a, b Member, gated bool) error {
	if a.Login == b.Login {
		return apperrors.NewSelfRelation(r.String())
	}
	if g.Has(r, a.Login, b.Login) {
		return apperrors.NewAlreadyRelated(r.String())
	}
	if gated {
		return g.CheckEnemy(a, b)
	}
	return nil
}

// Purge removes every edge that references login, in both directions and for
// every relation, including pending requests.
func (g *Graph) Purge(login string) PurgeStats {
	stats := PurgeStats{Edges: make(map[Relation]int, len(Relations))}
	for _, r := range Relations {
		if n := g.edges[r].purge(login); n > 0 {
			stats.Edges[r] = n
		}
	}
	return stats
}

// ============================================================================
// Load support
// ============================================================================

// RestoreOutgoing appends other to the forward view of owner only. Used while
// loading so that each list keeps its saved order; call Repair afterwards.
func (g *Graph) RestoreOutgoing(r Relation, owner, other string) {
	ix := g.edges[r]
	if ix.symmetric && !ix.has(other, owner) && !ix.has(owner, other) {
		ix.pairs = append(ix.pairs, [2]string{owner, other})
	}
	setFor(ix.out, owner).add(other)
}

// RestoreIncoming appends other to the inverse view of owner only.
func (g *Graph) RestoreIncoming(r Relation, owner, other string) {
	ix := g.edges[r]
	if ix.symmetric {
		g.RestoreOutgoing(r, owner, other)
		return
	}
	setFor(ix.in, owner).add(other)
}

// Pairs returns each edge of a symmetric relation once, oldest first. Replaying
// them through Link rebuilds every list in its original order.
func (g *Graph) Pairs(r Relation) [][2]string {
	ix := g.edges[r]
	out := make([][2]string, len(ix.pairs))
	copy(out, ix.pairs)
	return out
}

// Link records a full edge in both views
func (g *Graph) Link(r Relation, from, to string) {
	g.edges[r].link(from, to)
}

// Repair completes any half-restored edge and returns the number of entries added
func (g *Graph) Repair() int {
	fixed := 0
	for _, r := range Relations {
		fixed += g.edges[r].repair()
	}
	return fixed
}
