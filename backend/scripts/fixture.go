package main

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"jackut/backend/internal/social"
)

// Fixture describes a network to build through the public operations
type Fixture struct {
	Accounts    []FixtureAccount   `yaml:"accounts"`
	Friendships []FixtureEdge      `yaml:"friendships"`
	Requests    []FixtureEdge      `yaml:"requests"`
	Idols       []FixtureEdge      `yaml:"idols"`
	Crushes     []FixtureEdge      `yaml:"crushes"`
	Communities []FixtureCommunity `yaml:"communities"`
	Notes       []FixtureNote      `yaml:"notes"`
	Broadcasts  []FixtureBroadcast `yaml:"broadcasts"`
	// enemies come last so earlier notes and requests are not blocked
	Enemies []FixtureEdge `yaml:"enemies"`
}

type FixtureAccount struct {
	Login      string            `yaml:"login"`
	Password   string            `yaml:"password"`
	Name       string            `yaml:"name"`
	Attributes map[string]string `yaml:"attributes"`
}

type FixtureEdge struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

type FixtureCommunity struct {
	Name        string   `yaml:"name"`
	Owner       string   `yaml:"owner"`
	Description string   `yaml:"description"`
	Members     []string `yaml:"members"`
}

type FixtureNote struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
	Body string `yaml:"body"`
}

type FixtureBroadcast struct {
	From      string `yaml:"from"`
	Community string `yaml:"community"`
	Body      string `yaml:"body"`
}

// LoadFixture reads a YAML fixture file
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	return &f, nil
}

// Apply builds the fixture into sys. It stops at the first rejected operation.
func (f *Fixture) Apply(sys *social.System) error {
	sessions := make(map[string]string, len(f.Accounts))
	session := func(login string) (string, error) {
		if token, ok := sessions[login]; ok {
			return token, nil
		}
		return "", fmt.Errorf("fixture references undeclared account %q", login)
	}

	for _, acc := range f.Accounts {
		if err := sys.Register(acc.Login, acc.Password, acc.Name); err != nil {
			return fmt.Errorf("account %s: %w", acc.Login, err)
		}
		token, err := sys.OpenSession(acc.Login, acc.Password)
		if err != nil {
			return fmt.Errorf("account %s: %w", acc.Login, err)
		}
		sessions[acc.Login] = token

		keys := make([]string, 0, len(acc.Attributes))
		for k := range acc.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := sys.SetAttribute(token, k, acc.Attributes[k]); err != nil {
				return err
			}
		}
	}

	edge := func(kind string, edges []FixtureEdge, add func(token, other string) error) error {
		for _, e := range edges {
			token, err := session(e.From)
			if err != nil {
				return err
			}
			if err := add(token, e.To); err != nil {
				return fmt.Errorf("%s %s -> %s: %w", kind, e.From, e.To, err)
			}
		}
		return nil
	}
	requestFriend := func(token, other string) error {
		_, err := sys.RequestFriend(token, other)
		return err
	}

	if err := edge("friendship", f.Friendships, func(token, other string) error {
		if err := requestFriend(token, other); err != nil {
			return err
		}
		back, err := session(other)
		if err != nil {
			return err
		}
		from, err := sys.SessionLogin(token)
		if err != nil {
			return err
		}
		return requestFriend(back, from)
	}); err != nil {
		return err
	}
	if err := edge("request", f.Requests, requestFriend); err != nil {
		return err
	}
	if err := edge("idol", f.Idols, sys.AddIdol); err != nil {
		return err
	}
	if err := edge("crush", f.Crushes, sys.AddCrush); err != nil {
		return err
	}

	for _, c := range f.Communities {
		token, err := session(c.Owner)
		if err != nil {
			return err
		}
		if err := sys.CreateCommunity(token, c.Name, c.Description); err != nil {
			return fmt.Errorf("community %s: %w", c.Name, err)
		}
		for _, m := range c.Members {
			token, err := session(m)
			if err != nil {
				return err
			}
			if err := sys.JoinCommunity(token, c.Name); err != nil {
				return fmt.Errorf("community %s member %s: %w", c.Name, m, err)
			}
		}
	}

	for _, n := range f.Notes {
		token, err := session(n.From)
		if err != nil {
			return err
		}
		if err := sys.SendNote(token, n.To, n.Body); err != nil {
			return fmt.Errorf("note %s -> %s: %w", n.From, n.To, err)
		}
	}

	for _, b := range f.Broadcasts {
		token, err := session(b.From)
		if err != nil {
			return err
		}
		if err := sys.Broadcast(token, b.Community, b.Body); err != nil {
			return fmt.Errorf("broadcast to %s: %w", b.Community, err)
		}
	}

	return edge("enemy", f.Enemies, sys.AddEnemy)
}
