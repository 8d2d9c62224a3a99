package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jackut/backend/internal/graph"
)

type fakeExplorer struct {
	fakeMirror
	limit int
	err   error
}

func (f *fakeExplorer) SuggestFriends(ctx context.Context, login string, limit int) ([]graph.Suggestion, error) {
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return []graph.Suggestion{{Login: "caio", Name: "Caio", Mutual: []string{"bruno"}}}, nil
}

func (f *fakeExplorer) SearchUsers(ctx context.Context, query string, limit int) ([]graph.UserMatch, error) {
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return []graph.UserMatch{{Login: "ana", Name: query}}, nil
}

func TestExploreWithoutMirror(t *testing.T) {
	ts := newTestServer(t, &fakeMirror{})
	ts.login("ana", "Ana")

	w, resp := ts.do("GET", "/api/explore/users?q=an", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "mirror_unavailable", resp["code"])

	w, _ = ts.do("GET", "/api/explore/suggestions/ana", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestExploreQueries(t *testing.T) {
	ex := &fakeExplorer{}
	ts := newTestServer(t, ex)
	ts.login("ana", "Ana")

	w, resp := ts.do("GET", "/api/explore/users?q=An", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := resp["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "An", items[0].(map[string]any)["name"])
	assert.Equal(t, defaultExploreLimit, ex.limit)

	w, resp = ts.do("GET", "/api/explore/suggestions/ana?limit=3", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, ex.limit)
	first := resp["items"].([]any)[0].(map[string]any)
	assert.Equal(t, "caio", first["login"])
	assert.Equal(t, []any{"bruno"}, first["mutual"])

	w, resp = ts.do("GET", "/api/explore/suggestions/ghost", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "unknown_account", resp["code"])

	w, _ = ts.do("GET", "/api/explore/users", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = ts.do("GET", "/api/explore/users?q=a&limit=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	ex.err = errors.New("neo4j down")
	w, _ = ts.do("GET", "/api/explore/users?q=a", "", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
