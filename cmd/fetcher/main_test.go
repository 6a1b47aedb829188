// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ManuGH/trendscope/internal/archive"
	"github.com/ManuGH/trendscope/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const apiResponse = `{
  "items": [
    {
      "id": "a1",
      "snippet": {"publishedAt": "2025-01-02T15:04:05Z", "title": "First", "channelTitle": "Chan A", "categoryId": "10"},
      "statistics": {"viewCount": "1000", "likeCount": "50", "commentCount": "7"},
      "contentDetails": {"duration": "PT3M2S"}
    },
    {
      "id": "b2",
      "snippet": {"publishedAt": "2025-01-03T08:00:00Z", "title": "Second", "channelTitle": "Chan B", "categoryId": "24"},
      "statistics": {"viewCount": "42"},
      "contentDetails": {"duration": "PT1H"}
    }
  ]
}`

// isolateEnv clears every variable the config loader reads.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		config.EnvAPIKey, config.EnvAPIKeyFallback, config.EnvAPIBase, config.EnvRegion,
		config.EnvMaxResults, config.EnvOutput, config.EnvTimeout, config.EnvCacheBackend,
		config.EnvCacheTTL, config.EnvRedisAddr, config.EnvCacheDir, config.EnvArchivePath,
		config.EnvMetricsTextfile, config.EnvOTelExporter, config.EnvOTelEndpoint, config.EnvLogLevel,
	} {
		t.Setenv(key, "")
	}
}

type fakeAPI struct {
	*httptest.Server
	calls  atomic.Int32
	region atomic.Value
}

func newFakeAPI(t *testing.T, status int) *fakeAPI {
	t.Helper()
	api := &fakeAPI{}
	api.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.calls.Add(1)
		api.region.Store(r.URL.Query().Get("regionCode"))
		if status != http.StatusOK {
			http.Error(w, `{"error":{"code":403,"message":"quota"}}`, status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(apiResponse))
	}))
	t.Cleanup(api.Close)
	return api
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitOK, run([]string{"-version"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "commit")
}

func TestRun_UsageErrors(t *testing.T) {
	for _, args := range [][]string{{"extra"}, {"-bogus"}, {"-history", "-1"}} {
		var stdout, stderr bytes.Buffer
		assert.Equal(t, exitUsage, run(args, &stdout, &stderr), "args %v", args)
	}
}

func TestRun_MissingAPIKey(t *testing.T) {
	isolateEnv(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-o", filepath.Join(t.TempDir(), "out.csv")}, &stdout, &stderr)

	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr.String(), "Configuration error")
	assert.Contains(t, stderr.String(), "API key")
}

func TestRun_FetchWritesCSV(t *testing.T) {
	isolateEnv(t)
	api := newFakeAPI(t, http.StatusOK)
	t.Setenv(config.EnvAPIKey, "secret-key")
	t.Setenv(config.EnvAPIBase, api.URL)

	dir := t.TempDir()
	out := filepath.Join(dir, "trending.csv")
	textfile := filepath.Join(dir, "fetcher.prom")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-region", "gb", "-max", "2", "-o", out, "-metrics-textfile", textfile}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	assert.Equal(t, "GB", api.region.Load())
	assert.Contains(t, stdout.String(), "Data saved to "+out)
	assert.Contains(t, stdout.String(), "First")
	assert.NotContains(t, stderr.String(), "secret-key")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "title,channel,category_id,publish_time,views,likes,comments,duration", lines[0])

	prom, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "trendscope_fetch_total")
}

func TestRun_FlagsOverrideConfigFile(t *testing.T) {
	isolateEnv(t)
	api := newFakeAPI(t, http.StatusOK)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "fetcher.yaml")
	out := filepath.Join(dir, "from-file.csv")
	yaml := "api_key: file-key\napi_base: " + api.URL + "\nregion: us\noutput: " + out + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0o600))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", cfgPath, "-region", "de"}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	assert.Equal(t, "DE", api.region.Load())
	assert.FileExists(t, out)
}

func TestRun_APIFailure(t *testing.T) {
	isolateEnv(t)
	api := newFakeAPI(t, http.StatusForbidden)
	t.Setenv(config.EnvAPIKey, "k")
	t.Setenv(config.EnvAPIBase, api.URL)

	out := filepath.Join(t.TempDir(), "out.csv")
	var stdout, stderr bytes.Buffer
	code := run([]string{"-o", out}, &stdout, &stderr)

	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr.String(), "Error: fetch trending IN")
	assert.NoFileExists(t, out)
}

func TestRun_ArchiveHistoryAndVerify(t *testing.T) {
	isolateEnv(t)
	api := newFakeAPI(t, http.StatusOK)
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "history.db")
	t.Setenv(config.EnvAPIKey, "k")
	t.Setenv(config.EnvAPIBase, api.URL)
	t.Setenv(config.EnvArchivePath, dbPath)

	var stdout, stderr bytes.Buffer
	require.Equal(t, exitOK, run([]string{"-o", filepath.Join(dir, "a.csv")}, &stdout, &stderr), stderr.String())

	store, err := archive.Open(dbPath)
	require.NoError(t, err)
	snaps, err := store.Snapshots(t.Context(), 10)
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.Len(t, snaps, 1)
	assert.Equal(t, 2, snaps[0].VideoCount)

	// History mode needs no API key and must not call the API.
	t.Setenv(config.EnvAPIKey, "")
	callsBefore := api.calls.Load()
	stdout.Reset()
	stderr.Reset()
	require.Equal(t, exitOK, run([]string{"-history", "5", "-verify-archive"}, &stdout, &stderr), stderr.String())
	assert.Equal(t, callsBefore, api.calls.Load())
	assert.Contains(t, stdout.String(), "is ok")
	assert.Contains(t, stdout.String(), snaps[0].ID)
	assert.Contains(t, stdout.String(), "IN")
}

func TestRun_HistoryWithoutArchive(t *testing.T) {
	isolateEnv(t)
	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitFailure, run([]string{"-history", "3"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "archive.path is not configured")
}

func TestPrintHistory(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	var b bytes.Buffer
	require.NoError(t, printHistory(&b, []archive.Summary{
		{ID: "snap-1", Region: "IN", FetchedAt: now.Add(-2 * time.Hour), VideoCount: 50},
	}, now))

	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "snap-1")
	assert.Contains(t, lines[1], "2 hours ago")
	assert.Contains(t, lines[1], "2025-03-01T10:00:00Z")

	b.Reset()
	require.NoError(t, printHistory(&b, nil, now))
	assert.Equal(t, "No snapshots archived yet.\n", b.String())
}
