package social

import (
	"go.uber.org/zap"

	"jackut/backend/internal/state"
	apperrors "jackut/backend/pkg/errors"
)

// CreateCommunity creates a community owned by the session's account, which
// becomes its first member.
func (s *System) CreateCommunity(token, name, description string) error {
	owner, err := s.sessionAccount(token)
	if err != nil {
		return err
	}
	if name == "" {
		return apperrors.ErrInvalidCommunityName
	}
	if _, exists := s.communities[name]; exists {
		return apperrors.ErrDuplicateCommunityName
	}
	s.addCommunity(state.NewCommunity(owner.Login, name, description))
	owner.JoinCommunity(name)
	return nil
}

func (s *System) addCommunity(c *state.Community) {
	s.communities[c.Name] = c
	s.communityOrder = append(s.communityOrder, c.Name)
}

// JoinCommunity adds the session's account to the named community
func (s *System) JoinCommunity(token, name string) error {
	acc, err := s.sessionAccount(token)
	if err != nil {
		return err
	}
	c, err := s.community(name)
	if err != nil {
		return err
	}
	if c.HasMember(acc.Login) || acc.Participates(name) {
		return apperrors.ErrAlreadyMember
	}
	c.AddMember(acc.Login)
	acc.JoinCommunity(name)
	return nil
}

// Broadcast copies body into the broadcast queue of every current member, in
// member order. Any valid session may broadcast.
func (s *System) Broadcast(token, name, body string) error {
	if _, err := s.sessionAccount(token); err != nil {
		return err
	}
	c, err := s.community(name)
	if err != nil {
		return err
	}
	for _, login := range c.Members {
		if acc, ok := s.accounts[login]; ok {
			acc.Broadcasts.Push(body)
		}
	}
	s.logger.Debug("Broadcast delivered", zap.String("community", name), zap.Int("members", len(c.Members)))
	return nil
}

// CommunityDescription returns the description of the named community
func (s *System) CommunityDescription(name string) (string, error) {
	c, err := s.community(name)
	if err != nil {
		return "", err
	}
	return c.Description, nil
}

// CommunityOwner returns the owner login of the named community
func (s *System) CommunityOwner(name string) (string, error) {
	c, err := s.community(name)
	if err != nil {
		return "", err
	}
	return c.Owner, nil
}

// CommunityMembers lists the members of the named community in join order
func (s *System) CommunityMembers(name string) ([]string, error) {
	c, err := s.community(name)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(c.Members))
	copy(out, c.Members)
	return out, nil
}

// Communities lists the communities login participates in, in join order
func (s *System) Communities(login string) ([]string, error) {
	acc, err := s.account(login)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(acc.Communities))
	copy(out, acc.Communities)
	return out, nil
}
