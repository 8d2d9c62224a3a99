package social

import (
	"fmt"

	"go.uber.org/zap"

	"jackut/backend/internal/constants"
	"jackut/backend/internal/graph"
	"jackut/backend/internal/state"
	apperrors "jackut/backend/pkg/errors"
)

// Export captures the full state as a Snapshot. Accounts and communities keep
// creation order and every list keeps its display order.
func (s *System) Export() *state.Snapshot {
	snap := &state.Snapshot{}

	for _, login := range s.accountOrder {
		acc := s.accounts[login]
		snap.Accounts = append(snap.Accounts, state.AccountRecord{
			Login:       acc.Login,
			Password:    acc.Password,
			Name:        acc.Name,
			Attributes:  acc.Profile.Attributes(),
			Communities: append([]string{}, acc.Communities...),
		})
		snap.Friends = append(snap.Friends, state.FriendRecord{
			Login:   login,
			Friends: s.graph.Friends(login),
			Pending: s.graph.RequestsSent(login),
		})
		for _, n := range acc.Notes.Items() {
			snap.Notes = append(snap.Notes, state.NoteRecord{Recipient: n.Recipient, Sender: n.Sender, Body: n.Body})
		}
		for _, body := range acc.Broadcasts.Items() {
			snap.Broadcasts = append(snap.Broadcasts, state.BroadcastRecord{Recipient: login, Body: body})
		}
		snap.Relations = appendRelations(snap.Relations, login, constants.RelationIdol, s.graph.Idols(login))
		snap.Relations = appendRelations(snap.Relations, login, constants.RelationFan, s.graph.Fans(login))
		snap.Relations = appendRelations(snap.Relations, login, constants.RelationCrush, s.graph.Crushes(login))
		snap.Relations = appendRelations(snap.Relations, login, constants.RelationCrushReceived, s.graph.CrushesReceived(login))
	}

	for _, p := range s.graph.Pairs(graph.Enemy) {
		snap.Relations = append(snap.Relations, state.RelationRecord{From: p[0], To: p[1], Kind: constants.RelationEnemy})
	}

	for _, name := range s.communityOrder {
		c := s.communities[name]
		snap.Communities = append(snap.Communities, state.CommunityRecord{
			Owner:       c.Owner,
			Name:        c.Name,
			Description: c.Description,
			Members:     append([]string{}, c.Members...),
		})
	}
	return snap
}

func appendRelations(recs []state.RelationRecord, from, kind string, to []string) []state.RelationRecord {
	for _, t := range to {
		recs = append(recs, state.RelationRecord{From: from, To: t, Kind: kind})
	}
	return recs
}

// loader rebuilds a System from a Snapshot, record by record in load order
type loader struct {
	s       *System
	record  string
	skipped int
}

func (l *loader) corrupt(index int, format string, args ...any) error {
	return apperrors.NewStorageCorrupt(l.record, index+1, fmt.Sprintf(format, args...))
}

func (l *loader) account(index int, login string) (*state.Account, error) {
	acc, ok := l.s.accounts[login]
	if !ok {
		return nil, l.corrupt(index, "unknown account %q", login)
	}
	return acc, nil
}

func (l *loader) pair(index int, from, to string) (*state.Account, *state.Account, error) {
	a, err := l.account(index, from)
	if err != nil {
		return nil, nil, err
	}
	b, err := l.account(index, to)
	if err != nil {
		return nil, nil, err
	}
	if a.Login == b.Login {
		return nil, nil, l.corrupt(index, "%q relates to itself", from)
	}
	return a, b, nil
}

// Load replaces the current state with snap. References are resolved in load
// order and any that cannot be resolved fail with StorageCorrupt, leaving the
// System empty. Sessions never survive a load.
func (s *System) Load(snap *state.Snapshot) error {
	s.clear()
	l := &loader{s: s}
	if err := l.load(snap); err != nil {
		s.clear()
		return err
	}
	if fixed := s.graph.Repair(); fixed > 0 {
		s.logger.Warn("Repaired half-restored relation edges", zap.Int("entries", fixed))
	}
	s.logger.Info("State loaded",
		zap.Int("accounts", len(s.accounts)),
		zap.Int("communities", len(s.communities)),
		zap.Int("skipped", l.skipped),
	)
	return nil
}

func (l *loader) load(snap *state.Snapshot) error {
	s := l.s

	l.record = constants.RecordAccounts
	for i, rec := range snap.Accounts {
		acc, err := state.NewAccount(rec.Login, rec.Password, rec.Name)
		if err != nil {
			return l.corrupt(i, "%v", err)
		}
		if _, exists := s.accounts[rec.Login]; exists {
			return l.corrupt(i, "duplicate account %q", rec.Login)
		}
		for _, attr := range rec.Attributes {
			acc.Profile.Set(attr.Key, attr.Value)
		}
		s.addAccount(acc)
	}

	l.record = constants.RecordFriends
	for i, rec := range snap.Friends {
		if _, err := l.account(i, rec.Login); err != nil {
			return err
		}
		for _, f := range rec.Friends {
			if _, _, err := l.pair(i, rec.Login, f); err != nil {
				return err
			}
			s.graph.RestoreOutgoing(graph.Friendship, rec.Login, f)
		}
		for _, p := range rec.Pending {
			if _, _, err := l.pair(i, rec.Login, p); err != nil {
				return err
			}
			s.graph.Link(graph.FriendRequest, rec.Login, p)
		}
	}

	l.record = constants.RecordNotes
	for i, rec := range snap.Notes {
		to, err := l.account(i, rec.Recipient)
		if err != nil {
			return err
		}
		from, err := l.account(i, rec.Sender)
		if err != nil {
			return err
		}
		if err := s.checkNote(from, to); err != nil {
			l.skip(i, err)
			continue
		}
		s.deliverNote(from, to, rec.Body)
	}

	l.record = constants.RecordCommunities
	for i, rec := range snap.Communities {
		if _, err := l.account(i, rec.Owner); err != nil {
			return err
		}
		if _, exists := s.communities[rec.Name]; exists {
			return l.corrupt(i, "duplicate community %q", rec.Name)
		}
		c := state.NewCommunity(rec.Owner, rec.Name, rec.Description)
		for _, m := range rec.Members {
			if _, err := l.account(i, m); err != nil {
				return err
			}
			c.AddMember(m)
		}
		s.addCommunity(c)
	}

	// participation lists can only be resolved once every community exists
	l.record = constants.RecordAccounts
	for i, rec := range snap.Accounts {
		acc := s.accounts[rec.Login]
		for _, name := range rec.Communities {
			if _, ok := s.communities[name]; !ok {
				return l.corrupt(i, "unknown community %q", name)
			}
			acc.JoinCommunity(name)
		}
	}

	l.record = constants.RecordBroadcasts
	for i, rec := range snap.Broadcasts {
		acc, err := l.account(i, rec.Recipient)
		if err != nil {
			return err
		}
		acc.Broadcasts.Push(rec.Body)
	}

	l.record = constants.RecordRelations
	for i, rec := range snap.Relations {
		if _, _, err := l.pair(i, rec.From, rec.To); err != nil {
			return err
		}
		switch rec.Kind {
		case constants.RelationIdol:
			s.graph.RestoreOutgoing(graph.Idol, rec.From, rec.To)
		case constants.RelationFan:
			s.graph.RestoreIncoming(graph.Idol, rec.From, rec.To)
		case constants.RelationCrush:
			s.graph.RestoreOutgoing(graph.Crush, rec.From, rec.To)
		case constants.RelationCrushReceived:
			s.graph.RestoreIncoming(graph.Crush, rec.From, rec.To)
		case constants.RelationEnemy:
			s.graph.Link(graph.Enemy, rec.From, rec.To)
		default:
			return l.corrupt(i, "unknown relation kind %q", rec.Kind)
		}
	}
	return nil
}

func (l *loader) skip(index int, err error) {
	l.skipped++
	l.s.logger.Warn("Skipping inconsistent line",
		zap.String("record", l.record),
		zap.Int("line", index+1),
		zap.Error(err),
	)
}
