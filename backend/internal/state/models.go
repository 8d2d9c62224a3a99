package state

import (
	"jackut/backend/internal/constants"
	apperrors "jackut/backend/pkg/errors"
)

// Account represents a registered user. Login, password and name never change
// after registration; everything else is mutated by the owning System.
type Account struct {
	Login    string
	Password string
	Name     string

	Profile    *Profile
	Notes      *Queue[Note]   // direct notes waiting to be read
	Broadcasts *Queue[string] // community messages waiting to be read

	// Communities the account participates in, in join order
	Communities []string
}

// NewAccount validates credentials and builds an empty account
func NewAccount(login, password, name string) (*Account, error) {
	if login == "" {
		return nil, apperrors.NewInvalidCredentials("login")
	}
	if password == "" {
		return nil, apperrors.NewInvalidCredentials("password")
	}
	return &Account{
		Login:      login,
		Password:   password,
		Name:       name,
		Profile:    NewProfile(),
		Notes:      NewQueue[Note](),
		Broadcasts: NewQueue[string](),
	}, nil
}

// CheckPassword reports whether password matches the registered one
func (a *Account) CheckPassword(password string) bool {
	return a.Password == password
}

// Attribute returns a profile attribute; "name" resolves to the display name
func (a *Account) Attribute(key string) (string, error) {
	if key == constants.NameAttribute {
		return a.Name, nil
	}
	return a.Profile.Get(key)
}

// Participates reports whether the account joined the named community
func (a *Account) Participates(community string) bool {
	for _, c := range a.Communities {
		if c == community {
			return true
		}
	}
	return false
}

// JoinCommunity appends community to the participation list once
func (a *Account) JoinCommunity(community string) {
	if !a.Participates(community) {
		a.Communities = append(a.Communities, community)
	}
}

// LeaveCommunity drops community from the participation list
func (a *Account) LeaveCommunity(community string) {
	a.Communities = removeString(a.Communities, community)
}

// Note is a direct message. It is immutable and discarded once read.
type Note struct {
	Sender    string
	Recipient string
	Body      string
}

// Community is a named group. The owner is always the first member.
type Community struct {
	Name        string
	Owner       string
	Description string
	Members     []string
}

// NewCommunity creates a community whose only member is its owner
func NewCommunity(owner, name, description string) *Community {
	return &Community{
		Name:        name,
		Owner:       owner,
		Description: description,
		Members:     []string{owner},
	}
}

// HasMember reports whether login is in the member list
func (c *Community) HasMember(login string) bool {
	for _, m := range c.Members {
		if m == login {
			return true
		}
	}
	return false
}

// AddMember appends login to the member list once
func (c *Community) AddMember(login string) {
	if !c.HasMember(login) {
		c.Members = append(c.Members, login)
	}
}

// RemoveMember drops login from the member list
func (c *Community) RemoveMember(login string) {
	c.Members = removeString(c.Members, login)
}

func removeString(list []string, value string) []string {
	out := list[:0]
	for _, v := range list {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}
