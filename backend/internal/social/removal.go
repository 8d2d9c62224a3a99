package social

import (
	"go.uber.org/zap"

	"jackut/backend/internal/state"
)

// RemovalStats summarizes what an account removal cascaded into
type RemovalStats struct {
	Edges       int
	Communities []string
	Notes       int
	Sessions    int
}

// RemoveAccount deletes the session's account and every reference to it:
// relation edges and pending requests, communities it owns, memberships in
// other communities, undelivered notes it sent and every session it had.
func (s *System) RemoveAccount(token string) (RemovalStats, error) {
	acc, err := s.sessionAccount(token)
	if err != nil {
		return RemovalStats{}, err
	}
	login := acc.Login

	stats := RemovalStats{Edges: s.graph.Purge(login).Total()}

	kept := s.communityOrder[:0]
	for _, name := range s.communityOrder {
		c := s.communities[name]
		if c.Owner != login {
			c.RemoveMember(login)
			kept = append(kept, name)
			continue
		}
		for _, m := range c.Members {
			if other, ok := s.accounts[m]; ok {
				other.LeaveCommunity(name)
			}
		}
		delete(s.communities, name)
		stats.Communities = append(stats.Communities, name)
	}
	s.communityOrder = kept

	for _, other := range s.accounts {
		if other.Login == login {
			continue
		}
		stats.Notes += other.Notes.RemoveFunc(func(n state.Note) bool { return n.Sender == login })
	}

	for t, l := range s.sessions {
		if l == login {
			delete(s.sessions, t)
			stats.Sessions++
		}
	}

	delete(s.accounts, login)
	for i, l := range s.accountOrder {
		if l == login {
			s.accountOrder = append(s.accountOrder[:i], s.accountOrder[i+1:]...)
			break
		}
	}

	s.logger.Info("Account removed",
		zap.String("login", login),
		zap.Int("edges", stats.Edges),
		zap.Strings("communities", stats.Communities),
		zap.Int("notes", stats.Notes),
		zap.Int("sessions", stats.Sessions),
	)
	return stats, nil
}
