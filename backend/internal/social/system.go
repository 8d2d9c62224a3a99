// Package social owns the in-memory state of the network: accounts, sessions,
// message queues, communities and the relationship graph. A System is not safe
// for concurrent use; callers serialize access (see package api).
package social

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"jackut/backend/internal/graph"
	"jackut/backend/internal/state"
	"jackut/backend/internal/storage"
	apperrors "jackut/backend/pkg/errors"
)

// System is the explicitly owned state of one network instance
type System struct {
	accounts     map[string]*state.Account
	accountOrder []string

	// session token -> login
	sessions map[string]string

	communities    map[string]*state.Community
	communityOrder []string

	graph  *graph.Graph
	store  storage.RecordStore
	logger *zap.Logger

	// overridable in tests
	newToken func() string
}

// New creates an empty System that is not backed by any store
func New(log *zap.Logger) *System {
	if log == nil {
		log = zap.NewNop()
	}
	s := &System{
		graph:    graph.New(),
		logger:   log,
		newToken: uuid.NewString,
	}
	s.clear()
	return s
}

// clear drops every account, session and community
func (s *System) clear() {
	s.accounts = make(map[string]*state.Account)
	s.accountOrder = nil
	s.sessions = make(map[string]string)
	s.communities = make(map[string]*state.Community)
	s.communityOrder = nil
	s.graph.Reset()
}

// ============================================================================
// Lookups
// ============================================================================

func (s *System) account(login string) (*state.Account, error) {
	acc, ok := s.accounts[login]
	if !ok {
		return nil, apperrors.NewUnknownAccount(login)
	}
	return acc, nil
}

func (s *System) sessionAccount(token string) (*state.Account, error) {
	login, ok := s.sessions[token]
	if !ok {
		return nil, apperrors.ErrUnknownSession
	}
	return s.account(login)
}

func (s *System) community(name string) (*state.Community, error) {
	c, ok := s.communities[name]
	if !ok {
		return nil, apperrors.NewUnknownCommunity(name)
	}
	return c, nil
}

// sessionPair resolves the acting session and the target login
func (s *System) sessionPair(token, other string) (*state.Account, *state.Account, error) {
	a, err := s.sessionAccount(token)
	if err != nil {
		return nil, nil, err
	}
	b, err := s.account(other)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func member(acc *state.Account) graph.Member {
	return graph.Member{Login: acc.Login, Name: acc.Name}
}

// ============================================================================
// Accounts and sessions
// ============================================================================

// Register creates an account. Login and password must be non-empty and the
// login must not be taken.
func (s *System) Register(login, password, name string) error {
	acc, err := state.NewAccount(login, password, name)
	if err != nil {
		return err
	}
	if _, exists := s.accounts[login]; exists {
		return apperrors.ErrDuplicateAccount
	}
	s.addAccount(acc)
	return nil
}

func (s *System) addAccount(acc *state.Account) {
	s.accounts[acc.Login] = acc
	s.accountOrder = append(s.accountOrder, acc.Login)
}

// OpenSession checks credentials and returns a new opaque session token
func (s *System) OpenSession(login, password string) (string, error) {
	acc, ok := s.accounts[login]
	if !ok || !acc.CheckPassword(password) {
		return "", apperrors.NewInvalidCredentials("")
	}
	token := s.newToken()
	s.sessions[token] = login
	return token, nil
}

// SessionLogin returns the login behind a session token
func (s *System) SessionLogin(token string) (string, error) {
	acc, err := s.sessionAccount(token)
	if err != nil {
		return "", err
	}
	return acc.Login, nil
}

// Attribute reads a profile attribute of login
func (s *System) Attribute(login, key string) (string, error) {
	acc, err := s.account(login)
	if err != nil {
		return "", err
	}
	return acc.Attribute(key)
}

// SessionAttribute reads a profile attribute of the session's account
func (s *System) SessionAttribute(token, key string) (string, error) {
	acc, err := s.sessionAccount(token)
	if err != nil {
		return "", err
	}
	return acc.Attribute(key)
}

// SetAttribute writes a profile attribute of the session's account
func (s *System) SetAttribute(token, key, value string) error {
	acc, err := s.sessionAccount(token)
	if err != nil {
		return err
	}
	acc.Profile.Set(key, value)
	return nil
}

// Accounts returns every login in registration order
func (s *System) Accounts() []string {
	out := make([]string, len(s.accountOrder))
	copy(out, s.accountOrder)
	return out
}
