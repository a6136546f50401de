package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func createTestSession(assert *require.Assertions, server *testServer, headers map[string]string) SessionResponse {
	w := makeTestHTTPRequest(server.router, assert, http.MethodPost, "/sessions", headers, nil, nil)
	assert.Equal(http.StatusCreated, w.Code, w.Body.String())
	created := decodeResponse[SessionResponse](assert, w)
	assert.NotEmpty(created.ID)
	return created
}

func sessionResultIDs(response SessionResponse) []string {
	ids := make([]string, len(response.State.Results))
	for i, result := range response.State.Results {
		ids[i] = result.Note.ID
	}
	return ids
}

func TestSessionLifecycle(t *testing.T) {
	assert := require.New(t)
	server := setupTestServer(t, assert)
	seedNotes(assert, server, testNotes...)

	created := createTestSession(assert, server, nil)
	assert.Equal([]string{"grocery", "trip", "meeting"}, sessionResultIDs(created))
	endpoint := fmt.Sprintf("/sessions/%s", created.ID)

	w := makeTestHTTPRequest(server.router, assert, http.MethodPut, endpoint+"/query", defaultTestRequestHeaders, map[string]any{"query": "milk"}, nil)
	assert.Equal(http.StatusOK, w.Code, w.Body.String())
	state := decodeResponse[SessionResponse](assert, w).State
	assert.Equal("milk", state.Query)
	assert.True(state.Pending)
	assert.Contains(state.Suggestions, "milk")

	var settled SessionResponse
	assert.Eventually(func() bool {
		w := makeTestHTTPRequest(server.router, assert, http.MethodGet, endpoint, nil, nil, nil)
		settled = decodeResponse[SessionResponse](assert, w)
		return settled.State.DebouncedQuery == "milk"
	}, 2*time.Second, 20*time.Millisecond)
	assert.False(settled.State.Pending)
	assert.Equal([]string{"meeting", "grocery", "trip"}, sessionResultIDs(settled))
	assert.Equal([]string{"milk"}, settled.State.History)

	w = makeTestHTTPRequest(server.router, assert, http.MethodPut, endpoint+"/filters", defaultTestRequestHeaders, map[string]any{"favorites": true}, nil)
	assert.Equal(http.StatusOK, w.Code, w.Body.String())
	filtered := decodeResponse[SessionResponse](assert, w)
	assert.True(filtered.State.Filters.ShowFavoritesOnly)
	assert.Equal([]string{"trip"}, sessionResultIDs(filtered))

	w = makeTestHTTPRequest(server.router, assert, http.MethodDelete, endpoint+"/filters", nil, nil, nil)
	assert.Equal(http.StatusOK, w.Code)
	assert.Equal([]string{"meeting", "grocery", "trip"}, sessionResultIDs(decodeResponse[SessionResponse](assert, w)))

	w = makeTestHTTPRequest(server.router, assert, http.MethodDelete, endpoint+"/query", nil, nil, nil)
	assert.Equal(http.StatusOK, w.Code)
	cleared := decodeResponse[SessionResponse](assert, w)
	assert.Empty(cleared.State.Query)
	assert.Empty(cleared.State.DebouncedQuery)
	assert.Equal([]string{"grocery", "trip", "meeting"}, sessionResultIDs(cleared))

	w = makeTestHTTPRequest(server.router, assert, http.MethodDelete, endpoint, nil, nil, nil)
	assert.Equal(http.StatusNoContent, w.Code)

	w = makeTestHTTPRequest(server.router, assert, http.MethodGet, endpoint, nil, nil, nil)
	assert.Equal(http.StatusNotFound, w.Code)

	reopened := createTestSession(assert, server, nil)
	assert.Equal([]string{"milk"}, reopened.State.History)
}

func TestSessionsAreScopedToOwner(t *testing.T) {
	assert := require.New(t)
	server := setupTestServer(t, assert)

	alice := map[string]string{testUserHeader: "alice"}
	bob := map[string]string{testUserHeader: "bob"}
	created := createTestSession(assert, server, alice)
	endpoint := fmt.Sprintf("/sessions/%s", created.ID)

	w := makeTestHTTPRequest(server.router, assert, http.MethodGet, endpoint, alice, nil, nil)
	assert.Equal(http.StatusOK, w.Code)

	w = makeTestHTTPRequest(server.router, assert, http.MethodGet, endpoint, bob, nil, nil)
	assert.Equal(http.StatusNotFound, w.Code)

	w = makeTestHTTPRequest(server.router, assert, http.MethodDelete, endpoint, nil, nil, nil)
	assert.Equal(http.StatusNotFound, w.Code)
}

func TestSessionRequestErrors(t *testing.T) {
	assert := require.New(t)
	server := setupTestServer(t, assert)
	created := createTestSession(assert, server, nil)
	endpoint := fmt.Sprintf("/sessions/%s", created.ID)

	testCases := []struct {
		name           string
		method         string
		endpoint       string
		requestBody    map[string]any
		expectedStatus int
	}{
		{"QueryWithoutBody", http.MethodPut, endpoint + "/query", nil, http.StatusUnprocessableEntity},
		{"QueryWrongType", http.MethodPut, endpoint + "/query", map[string]any{"query": 7}, http.StatusUnprocessableEntity},
		{"InvalidColorFilter", http.MethodPut, endpoint + "/filters", map[string]any{"colors": []string{"red"}}, http.StatusNotAcceptable},
		{"InvalidPriorityFilter", http.MethodPut, endpoint + "/filters", map[string]any{"priorities": []string{"low, urgent"}}, http.StatusNotAcceptable},
		{"UnknownSessionQuery", http.MethodPut, "/sessions/unknown/query", map[string]any{"query": "milk"}, http.StatusNotFound},
		{"UnknownSessionClear", http.MethodDelete, "/sessions/unknown/filters", nil, http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := require.New(t)
			w := makeTestHTTPRequest(server.router, assert, tc.method, tc.endpoint, defaultTestRequestHeaders, tc.requestBody, nil)
			assert.Equal(tc.expectedStatus, w.Code, w.Body.String())
		})
	}
}
