package graph

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// ============================================================================
// Helper Functions
// ============================================================================

// orderedSet is a set of logins that remembers insertion order
type orderedSet struct {
	items []string
	index map[string]struct{}
}

func newOrderedSet() *orderedSet {
	return &orderedSet{index: make(map[string]struct{})}
}

func (s *orderedSet) add(login string) bool {
	if _, ok := s.index[login]; ok {
		return false
	}
	s.index[login] = struct{}{}
	s.items = append(s.items, login)
	return true
}

func (s *orderedSet) remove(login string) bool {
	if _, ok := s.index[login]; !ok {
		return false
	}
	delete(s.index, login)
	for i, v := range s.items {
		if v == login {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	return true
}

func (s *orderedSet) has(login string) bool {
	_, ok := s.index[login]
	return ok
}

func (s *orderedSet) list() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// edgeIndex stores one relation as forward and inverse adjacency. Symmetric
// relations only use the forward side and write both directions to it.
type edgeIndex struct {
	symmetric bool
	out       map[string]*orderedSet
	in        map[string]*orderedSet

	// symmetric only: each pair once, in creation order
	pairs [][2]string
}

func newEdgeIndex(symmetric bool) *edgeIndex {
	return &edgeIndex{
		symmetric: symmetric,
		out:       make(map[string]*orderedSet),
		in:        make(map[string]*orderedSet),
	}
}

func setFor(m map[string]*orderedSet, login string) *orderedSet {
	s, ok := m[login]
	if !ok {
		s = newOrderedSet()
		m[login] = s
	}
	return s
}

func listOf(m map[string]*orderedSet, login string) []string {
	if s, ok := m[login]; ok {
		return s.list()
	}
	return []string{}
}

func (ix *edgeIndex) has(from, to string) bool {
	s, ok := ix.out[from]
	return ok && s.has(to)
}

// link records from->to in both adjacency views
func (ix *edgeIndex) link(from, to string) {
	added := setFor(ix.out, from).add(to)
	if ix.symmetric {
		setFor(ix.out, to).add(from)
		if added {
			ix.pairs = append(ix.pairs, [2]string{from, to})
		}
		return
	}
	setFor(ix.in, to).add(from)
}

// unlink removes from->to from both adjacency views
func (ix *edgeIndex) unlink(from, to string) {
	if s, ok := ix.out[from]; ok {
		s.remove(to)
	}
	if ix.symmetric {
		if s, ok := ix.out[to]; ok {
			s.remove(from)
		}
		ix.dropPair(from, to)
		return
	}
	if s, ok := ix.in[to]; ok {
		s.remove(from)
	}
}

func (ix *edgeIndex) dropPair(a, b string) {
	for i, p := range ix.pairs {
		if (p[0] == a && p[1] == b) || (p[0] == b && p[1] == a) {
			ix.pairs = append(ix.pairs[:i], ix.pairs[i+1:]...)
			return
		}
	}
}

func (ix *edgeIndex) outgoing(login string) []string {
	return listOf(ix.out, login)
}

func (ix *edgeIndex) incoming(login string) []string {
	if ix.symmetric {
		return listOf(ix.out, login)
	}
	return listOf(ix.in, login)
}

// purge drops every edge touching login and returns how many were removed
func (ix *edgeIndex) purge(login string) int {
	removed := 0
	for _, other := range ix.outgoing(login) {
		ix.unlink(login, other)
		removed++
	}
	if !ix.symmetric {
		for _, other := range listOf(ix.in, login) {
			ix.unlink(other, login)
			removed++
		}
	}
	delete(ix.out, login)
	delete(ix.in, login)
	return removed
}

// repair adds any missing mirror entry so both views describe the same edges
func (ix *edgeIndex) repair() int {
	fixed := 0
	for from, s := range ix.out {
		for _, to := range s.items {
			if ix.symmetric {
				if setFor(ix.out, to).add(from) {
					fixed++
				}
				continue
			}
			if setFor(ix.in, to).add(from) {
				fixed++
			}
		}
	}
	if ix.symmetric {
		return fixed
	}
	for to, s := range ix.in {
		for _, from := range s.items {
			if setFor(ix.out, from).add(to) {
				fixed++
			}
		}
	}
	return fixed
}

// Neo4j record helpers used by the mirror repository

func getStringSliceFromRecord(record *neo4j.Record, key string) []string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return []string{}
	}
	if slice, ok := val.([]interface{}); ok {
		result := make([]string, 0, len(slice))
		for _, v := range slice {
			if str, ok := v.(string); ok {
				result = append(result, str)
			}
		}
		return result
	}
	return []string{}
}

func getInt64FromRecord(record *neo4j.Record, key string) int64 {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return 0
	}
	if i, ok := val.(int64); ok {
		return i
	}
	if i, ok := val.(int); ok {
		return int64(i)
	}
	return 0
}

func getStringFromRecord(record *neo4j.Record, key string) string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}
