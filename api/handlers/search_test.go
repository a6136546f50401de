package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/meghashyamc/notesapp/services/search"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type searchTestCase struct {
	name            string
	queryParams     map[string]string
	expectedStatus  int
	expectedIDs     []string
	expectedTotal   int
	expectedPages   int
	expectedCurrent int
}

func threeHoursAgo() string {
	return strconv.FormatInt(testNow.Add(-3*time.Hour).UnixMilli(), 10)
}

var searchHandlerTestCases = []searchTestCase{
	{
		name:           "QueryTooLong",
		queryParams:    map[string]string{"query": strings.Repeat("a", 1001)},
		expectedStatus: http.StatusNotAcceptable,
	},
	{
		name:           "InvalidPerPage",
		queryParams:    map[string]string{"query": "milk", "per_page": "-1"},
		expectedStatus: http.StatusNotAcceptable,
	},
	{
		name:           "PerPageNotANumber",
		queryParams:    map[string]string{"query": "milk", "per_page": "many"},
		expectedStatus: http.StatusUnprocessableEntity,
	},
	{
		name:           "InvalidPriority",
		queryParams:    map[string]string{"priorities": "high,urgent"},
		expectedStatus: http.StatusNotAcceptable,
	},
	{
		name:           "InvalidColor",
		queryParams:    map[string]string{"colors": "red"},
		expectedStatus: http.StatusNotAcceptable,
	},
	{
		name:           "NegativeFrom",
		queryParams:    map[string]string{"from": "-5"},
		expectedStatus: http.StatusNotAcceptable,
	},
	{
		name:           "BlankQueryReturnsEverythingInOrder",
		queryParams:    map[string]string{},
		expectedStatus: http.StatusOK,
		expectedIDs:    []string{"grocery", "trip", "meeting"},
		expectedTotal:  3,
	},
	{
		name:           "RankedByScore",
		queryParams:    map[string]string{"query": "milk"},
		expectedStatus: http.StatusOK,
		expectedIDs:    []string{"meeting", "grocery", "trip"},
		expectedTotal:  3,
	},
	{
		name:            "SecondPage",
		queryParams:     map[string]string{"query": "milk", "per_page": "2", "page": "2"},
		expectedStatus:  http.StatusOK,
		expectedIDs:     []string{"trip"},
		expectedTotal:   3,
		expectedPages:   2,
		expectedCurrent: 2,
	},
	{
		name:           "PageBeyondResults",
		queryParams:    map[string]string{"query": "milk", "per_page": "2", "page": "5"},
		expectedStatus: http.StatusOK,
		expectedIDs:    []string{},
		expectedTotal:  3,
	},
	{
		name:           "FavoritesOnly",
		queryParams:    map[string]string{"favorites": "true"},
		expectedStatus: http.StatusOK,
		expectedIDs:    []string{"trip"},
		expectedTotal:  1,
	},
	{
		name:           "CategoriesNewestFirst",
		queryParams:    map[string]string{"categories": "work,home"},
		expectedStatus: http.StatusOK,
		expectedIDs:    []string{"grocery", "meeting"},
		expectedTotal:  2,
	},
	{
		name:           "QueryWithCategory",
		queryParams:    map[string]string{"query": "milk", "categories": "home"},
		expectedStatus: http.StatusOK,
		expectedIDs:    []string{"grocery"},
		expectedTotal:  1,
	},
	{
		name:           "PriorityIsCaseInsensitive",
		queryParams:    map[string]string{"priorities": "HIGH"},
		expectedStatus: http.StatusOK,
		expectedIDs:    []string{"grocery"},
		expectedTotal:  1,
	},
	{
		name:           "OpenEndedDateRange",
		queryParams:    map[string]string{"from": threeHoursAgo()},
		expectedStatus: http.StatusOK,
		expectedIDs:    []string{"grocery", "meeting"},
		expectedTotal:  2,
	},
	{
		name:           "StartAfterEndMatchesNothing",
		queryParams:    map[string]string{"from": "2000", "to": "1000"},
		expectedStatus: http.StatusOK,
		expectedIDs:    []string{},
		expectedTotal:  0,
	},
}

func TestHandleSearch(t *testing.T) {
	assert := require.New(t)
	server := setupTestServer(t, assert)
	seedNotes(assert, server, testNotes...)

	for _, testCase := range searchHandlerTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			w := makeTestHTTPRequest(server.router, assert, http.MethodGet, "/search", nil, nil, testCase.queryParams)
			assert.Equal(testCase.expectedStatus, w.Code, fmt.Sprintf("response gotten was %s", w.Body.String()))
			if testCase.expectedStatus != http.StatusOK {
				return
			}

			data := decodeResponse[SearchResponse](assert, w)
			ids := make([]string, len(data.Results))
			for i, result := range data.Results {
				ids[i] = result.Note.ID
			}
			assert.Equal(testCase.expectedIDs, ids)
			assert.Equal(testCase.expectedTotal, data.PageDetails.TotalResults)
			if testCase.expectedPages > 0 {
				assert.Equal(testCase.expectedPages, data.PageDetails.TotalPages)
				assert.Equal(testCase.expectedCurrent, data.PageDetails.CurrentPage)
			}
		})
	}

	assert.Positive(testutil.CollectAndCount(server.metrics.SearchDuration))
}

func TestHandleSearchHighlights(t *testing.T) {
	assert := require.New(t)
	server := setupTestServer(t, assert)
	seedNotes(assert, server, testNotes...)

	w := makeTestHTTPRequest(server.router, assert, http.MethodGet, "/search", nil, nil, map[string]string{"query": "rome"})
	assert.Equal(http.StatusOK, w.Code)

	data := decodeResponse[SearchResponse](assert, w)
	assert.NotEmpty(data.Results)
	assert.Equal("trip", data.Results[0].Note.ID)
	assert.Equal(search.Highlights{Title: "Trip to <mark>Rome</mark>"}, data.Results[0].Highlights)
}

func TestHandleFulltextSearch(t *testing.T) {
	assert := require.New(t)
	server := setupTestServer(t, assert)
	seedNotes(assert, server, testNotes...)

	w := makeTestHTTPRequest(server.router, assert, http.MethodGet, "/search/fulltext", nil, nil, map[string]string{"query": ""})
	assert.Equal(http.StatusNotAcceptable, w.Code)

	w = makeTestHTTPRequest(server.router, assert, http.MethodGet, "/search/fulltext", nil, nil, map[string]string{"query": "colosseum"})
	assert.Equal(http.StatusOK, w.Code, w.Body.String())
	data := decodeResponse[FulltextResponse](assert, w)
	assert.Len(data.Results, 1)
	assert.Equal("trip", data.Results[0].ID)
	assert.Equal(1, data.PageDetails.TotalResults)

	w = makeTestHTTPRequest(server.router, assert, http.MethodGet, "/search/fulltext", nil, nil, map[string]string{"query": "nonexistent"})
	assert.Equal(http.StatusOK, w.Code)
	data = decodeResponse[FulltextResponse](assert, w)
	assert.NotNil(data.Results)
	assert.Empty(data.Results)

	// only the fulltext series exists
	assert.Equal(1, testutil.CollectAndCount(server.metrics.SearchResults))
	assert.Equal(1, testutil.CollectAndCount(server.metrics.SearchDuration, "notesapp_search_duration_seconds"))
}

func TestHandleKeywords(t *testing.T) {
	assert := require.New(t)
	server := setupTestServer(t, assert)

	w := makeTestHTTPRequest(server.router, assert, http.MethodGet, "/keywords", nil, nil, nil)
	assert.Equal(http.StatusOK, w.Code)
	assert.Empty(decodeResponse[KeywordsResponse](assert, w).Keywords)

	seedNotes(assert, server, testNotes...)
	w = makeTestHTTPRequest(server.router, assert, http.MethodGet, "/keywords", nil, nil, nil)
	assert.Equal(http.StatusOK, w.Code)
	keywords := decodeResponse[KeywordsResponse](assert, w).Keywords
	assert.Contains(keywords, "milk")
	assert.LessOrEqual(len(keywords), 20)
}
