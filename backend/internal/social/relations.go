package social

import (
	"fmt"

	"go.uber.org/zap"

	"jackut/backend/internal/constants"
	"jackut/backend/internal/graph"
)

// ============================================================================
// Friendship
// ============================================================================

// RequestFriend sends a friend request from the session's account to other,
// or accepts the request other already sent.
func (s *System) RequestFriend(token, other string) (graph.FriendOutcome, error) {
	a, b, err := s.sessionPair(token, other)
	if err != nil {
		return graph.RequestSent, err
	}
	outcome, err := s.graph.RequestFriend(member(a), member(b))
	if err != nil {
		return outcome, err
	}
	if outcome == graph.FriendshipFormed {
		s.logger.Debug("Friendship formed", zap.String("a", a.Login), zap.String("b", b.Login))
	}
	return outcome, nil
}

// AreFriends reports whether the two accounts are mutual friends
func (s *System) AreFriends(login, other string) (bool, error) {
	return s.hasEdge(graph.Friendship, login, other)
}

// Friends lists the friends of login in the order the friendships formed
func (s *System) Friends(login string) ([]string, error) {
	return s.edgeList(login, s.graph.Friends)
}

// PendingRequests lists who asked login for friendship and is still waiting
func (s *System) PendingRequests(login string) ([]string, error) {
	return s.edgeList(login, s.graph.RequestsReceived)
}

// SentRequests lists the requests login sent that were not yet accepted
func (s *System) SentRequests(login string) ([]string, error) {
	return s.edgeList(login, s.graph.RequestsSent)
}

// ============================================================================
// Idols and fans
// ============================================================================

// AddIdol makes other an idol of the session's account
func (s *System) AddIdol(token, other string) error {
	a, b, err := s.sessionPair(token, other)
	if err != nil {
		return err
	}
	return s.graph.AddIdol(member(a), member(b))
}

// IsFan reports whether login is a fan of idol
func (s *System) IsFan(login, idol string) (bool, error) {
	return s.hasEdge(graph.Idol, login, idol)
}

// Fans lists the fans of login
func (s *System) Fans(login string) ([]string, error) {
	return s.edgeList(login, s.graph.Fans)
}

// Idols lists the idols of login
func (s *System) Idols(login string) ([]string, error) {
	return s.edgeList(login, s.graph.Idols)
}

// ============================================================================
// Crushes
// ============================================================================

// AddCrush records a crush of the session's account on other. When the crush
// is mutual each party receives a note from the other announcing the match.
func (s *System) AddCrush(token, other string) error {
	a, b, err := s.sessionPair(token, other)
	if err != nil {
		return err
	}
	mutual, err := s.graph.AddCrush(member(a), member(b))
	if err != nil {
		return err
	}
	if mutual {
		s.deliverNote(b, a, fmt.Sprintf(constants.CrushMatchNote, b.Name))
		s.deliverNote(a, b, fmt.Sprintf(constants.CrushMatchNote, a.Name))
		s.logger.Info("Mutual crush", zap.String("a", a.Login), zap.String("b", b.Login))
	}
	return nil
}

// IsCrush reports whether the session's account has a crush on other
func (s *System) IsCrush(token, other string) (bool, error) {
	a, b, err := s.sessionPair(token, other)
	if err != nil {
		return false, err
	}
	return s.graph.Has(graph.Crush, a.Login, b.Login), nil
}

// Crushes lists the crushes of the session's account
func (s *System) Crushes(token string) ([]string, error) {
	a, err := s.sessionAccount(token)
	if err != nil {
		return nil, err
	}
	return s.graph.Crushes(a.Login), nil
}

// CrushesReceived lists who has a crush on login
func (s *System) CrushesReceived(login string) ([]string, error) {
	return s.edgeList(login, s.graph.CrushesReceived)
}

// ============================================================================
// Enemies
// ============================================================================

// AddEnemy records a bilateral enmity between the session's account and other
func (s *System) AddEnemy(token, other string) error {
	a, b, err := s.sessionPair(token, other)
	if err != nil {
		return err
	}
	return s.graph.AddEnemy(member(a), member(b))
}

// IsEnemy reports whether the two accounts are enemies
func (s *System) IsEnemy(login, other string) (bool, error) {
	return s.hasEdge(graph.Enemy, login, other)
}

// Enemies lists the enemies of login
func (s *System) Enemies(login string) ([]string, error) {
	return s.edgeList(login, s.graph.Enemies)
}

// ============================================================================
// Helpers
// ============================================================================

func (s *System) hasEdge(r graph.Relation, from, to string) (bool, error) {
	if _, err := s.account(from); err != nil {
		return false, err
	}
	if _, err := s.account(to); err != nil {
		return false, err
	}
	return s.graph.Has(r, from, to), nil
}

func (s *System) edgeList(login string, view func(string) []string) ([]string, error) {
	if _, err := s.account(login); err != nil {
		return nil, err
	}
	return view(login), nil
}
