package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suqingyao/oawesome/logger"
	"github.com/suqingyao/oawesome/models"
)

func init() {
	// Initialize logger for tests
	_ = logger.Initialize("debug")
}

// fakeAggregator is a canned-response implementation of the aggregator
type fakeAggregator struct {
	repoErr bool
}

func (f *fakeAggregator) GetRepository(ctx context.Context, owner, name string) (*models.Library, error) {
	if f.repoErr {
		return nil, fmt.Errorf("status code 404")
	}
	return &models.Library{
		ID:           "42",
		Name:         name,
		Tags:         []string{},
		Contributors: []models.Contributor{},
		Commits:      []models.CommitData{},
	}, nil
}

func (f *fakeAggregator) GetBatch(ctx context.Context, refs []models.RepoRef) *models.BatchResult {
	result := &models.BatchResult{
		Successful: []models.Library{},
		Failed:     []models.BatchFailure{},
		Total:      len(refs),
	}
	for _, ref := range refs {
		result.Successful = append(result.Successful, models.Library{ID: ref.Owner + "/" + ref.Name})
	}
	result.SuccessCount = len(result.Successful)
	return result
}

func (f *fakeAggregator) GetCatalog(ctx context.Context) *models.CatalogResult {
	return &models.CatalogResult{
		Libraries:   []models.Library{{ID: "react"}},
		Total:       1,
		LastUpdated: "2024-06-01T00:00:00Z",
	}
}

func newTestServer(agg AggregatorInterface) *httptest.Server {
	return httptest.NewServer(NewServer(":0", agg).Handler())
}

func TestHandleRepository(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ts := newTestServer(&fakeAggregator{})
		defer ts.Close()

		resp, err := http.Get(ts.URL + "/api/repository/facebook/react")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

		var lib models.Library
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&lib))
		assert.Equal(t, "42", lib.ID)
		assert.Equal(t, "react", lib.Name)
	})

	t.Run("upstream failure yields 500 with error body", func(t *testing.T) {
		ts := newTestServer(&fakeAggregator{repoErr: true})
		defer ts.Close()

		resp, err := http.Get(ts.URL + "/api/repository/x/missing")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.NotEmpty(t, body["error"])
	})
}

func TestHandleBatch(t *testing.T) {
	testCases := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{
			name:           "valid request",
			body:           `{"repositories":[{"owner":"facebook","name":"react"}]}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "empty list is valid",
			body:           `{"repositories":[]}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing repositories field",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "repositories not an array",
			body:           `{"repositories":"react"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed json",
			body:           `{"repositories":`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(&fakeAggregator{})
			defer ts.Close()

			resp, err := http.Post(ts.URL+"/api/repositories/batch", "application/json", strings.NewReader(tc.body))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode)

			if tc.expectedStatus == http.StatusBadRequest {
				var body map[string]string
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}

func TestHandleBatchResult(t *testing.T) {
	ts := newTestServer(&fakeAggregator{})
	defer ts.Close()

	body := `{"repositories":[{"owner":"o","name":"a"},{"owner":"o","name":"b"}]}`
	resp, err := http.Post(ts.URL+"/api/repositories/batch", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var result models.BatchResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, result.Total, result.SuccessCount+result.FailureCount)
}

func TestHandleCatalog(t *testing.T) {
	ts := newTestServer(&fakeAggregator{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/catalog")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result models.CatalogResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, 1, result.Total)
	require.Len(t, result.Libraries, 1)
	assert.Equal(t, "react", result.Libraries[0].ID)
	assert.NotEmpty(t, result.LastUpdated)
}

func TestUnknownRouteReturns404(t *testing.T) {
	ts := newTestServer(&fakeAggregator{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/nope")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
