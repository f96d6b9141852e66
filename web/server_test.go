package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"traininghours/storage"
	"traininghours/transform"
)

type fakeTransformer struct {
	src, dest string
	result    transform.Result
}

func (f *fakeTransformer) Run(_ context.Context, src, dest string) transform.Result {
	f.src, f.dest = src, dest
	return f.result
}

type fakeRuns struct {
	runs  []storage.Run
	err   error
	limit int
}

func (f *fakeRuns) ListRuns(_ context.Context, limit int) ([]storage.Run, error) {
	f.limit = limit
	return f.runs, f.err
}

func TestServer_TransformReturnsResult(t *testing.T) {
	t.Parallel()

	transformer := &fakeTransformer{result: transform.Success(4, []string{"Row #3: bad"})}
	ts := httptest.NewServer(NewServer(transformer, nil, nil))
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/transform", "application/json", strings.NewReader(`{"src_path":"in.xlsx","dest_path":"out"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "in.xlsx", transformer.src)
	assert.Equal(t, "out", transformer.dest)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, 4.0, body["num_rows"])
	assert.Equal(t, []any{"Row #3: bad"}, body["warning"])
}

func TestServer_TransformFailureIsStillOK(t *testing.T) {
	t.Parallel()

	transformer := &fakeTransformer{result: transform.Failure(errors.New("invalid file type"))}
	ts := httptest.NewServer(NewServer(transformer, nil, nil))
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/transform", "application/json", strings.NewReader(`{"src_path":"a.txt","dest_path":"b"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body transform.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, transform.StatusFailure, body.Status)
	assert.Equal(t, []string{"invalid file type"}, body.Errors)
}

func TestServer_TransformRejectsBadBody(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(NewServer(&fakeTransformer{}, nil, nil))
	defer ts.Close()

	for _, payload := range []string{`{`, `{"src_path":"a.xlsx"}`} {
		resp, err := http.Post(ts.URL+"/api/transform", "application/json", strings.NewReader(payload))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "payload %s", payload)
	}
}

func TestServer_RunsListsJournal(t *testing.T) {
	t.Parallel()

	runs := &fakeRuns{runs: []storage.Run{{
		ID:        "r1",
		StartedAt: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
		Source:    "in.xlsx",
		Status:    "success",
		RowCount:  7,
	}}}
	ts := httptest.NewServer(NewServer(&fakeTransformer{}, runs, nil))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/runs?limit=5")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 5, runs.limit)

	var body []runView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, "r1", body[0].ID)
	assert.Equal(t, 7, body[0].RowCount)
}

func TestServer_RunsWithoutJournalIsEmpty(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(NewServer(&fakeTransformer{}, nil, nil))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/runs")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body []runView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Empty(t, body)
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(NewServer(&fakeTransformer{}, nil, http.NotFoundHandler()))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	metricsResp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer metricsResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, metricsResp.StatusCode)
}
