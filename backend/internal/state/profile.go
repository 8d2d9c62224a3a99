package state

import (
	apperrors "jackut/backend/pkg/errors"
)

// Attribute is one free-form profile field
type Attribute struct {
	Key   string
	Value string
}

// Profile is the attribute bag of an account. Keys keep first-set order so
// that saved records are deterministic.
type Profile struct {
	keys   []string
	values map[string]string
}

// NewProfile creates an empty profile
func NewProfile() *Profile {
	return &Profile{values: make(map[string]string)}
}

// Set stores value under key, overwriting any previous value
func (p *Profile) Set(key, value string) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get returns the value stored under key
func (p *Profile) Get(key string) (string, error) {
	value, ok := p.values[key]
	if !ok {
		return "", apperrors.ErrMissingAttribute
	}
	return value, nil
}

// Attributes returns every attribute in first-set order
func (p *Profile) Attributes() []Attribute {
	out := make([]Attribute, 0, len(p.keys))
	for _, k := range p.keys {
		out = append(out, Attribute{Key: k, Value: p.values[k]})
	}
	return out
}
