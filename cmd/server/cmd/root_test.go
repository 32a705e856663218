package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeTomTom(t *testing.T) *httptest.Server {
	t.Helper()

	positions := map[string]string{
		"MG Road":     `{"lat":12.9757,"lon":77.607}`,
		"Koramangala": `{"lat":12.9352,"lon":77.6245}`,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/search/2/search/"):
			q := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/search/2/search/"), ".json")
			pos, ok := positions[q]
			if !ok {
				_, _ = w.Write([]byte(`{"results":[]}`))
				return
			}
			_, _ = w.Write([]byte(`{"results":[{"address":{"freeformAddress":"` + q + `"},"position":` + pos + `}]}`))
		case strings.HasPrefix(r.URL.Path, "/routing/1/calculateRoute/"):
			if r.URL.Query().Get("routeType") == "fastest" {
				_, _ = w.Write([]byte(`{"routes":[{"summary":{"lengthInMeters":12300,"travelTimeInSeconds":840}}]}`))
				return
			}
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detailedError":{"code":"NO_ROUTE_FOUND"}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setTestEnv(t *testing.T, baseURL string) string {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("ROUTEPLAN_PROVIDER__TOMTOM__API_KEY", "test-key")
	t.Setenv("ROUTEPLAN_PROVIDER__TOMTOM__BASE_URL", baseURL)
	t.Setenv("ROUTEPLAN_RETRY__ENABLED", "false")
	t.Setenv("ROUTEPLAN_LOG__LEVEL", "error")
	t.Setenv("ROUTEPLAN_CACHE__SQLITE_PATH", filepath.Join(dir, "cache", "geocode.db"))
	return dir
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRouteCommand(t *testing.T) {
	srv := fakeTomTom(t)
	setTestEnv(t, srv.URL)

	stdout, stderr, err := run(t, "route", "--start", "MG Road", "--stop", "Koramangala")
	require.NoError(t, err)

	var out routeOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Len(t, out.Routes, 1)
	assert.Equal(t, "fastest", out.Routes[0].Preference)
	assert.Equal(t, 14, out.Routes[0].TravelTimeMinutes)
	assert.Empty(t, out.NavigateURL)

	assert.Contains(t, stderr, "notice: route shortest")
	assert.Contains(t, stderr, "notice: navigate")
}

func TestRouteCommand_UnknownAddress(t *testing.T) {
	srv := fakeTomTom(t)
	setTestEnv(t, srv.URL)

	_, _, err := run(t, "route", "--start", "MG Road", "--stop", "Atlantis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `resolve stop "Atlantis"`)
}

func TestCacheInitAndSeed(t *testing.T) {
	srv := fakeTomTom(t)
	dir := setTestEnv(t, srv.URL)

	_, _, err := run(t, "cache", "init")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "cache", "geocode.db"))

	seed := filepath.Join(dir, "seed.json")
	require.NoError(t, os.WriteFile(seed, []byte(`[{"address":"Indiranagar","lon":77.6408,"lat":12.9784}]`), 0o600))

	stdout, _, err := run(t, "cache", "seed", "--file", seed)
	require.NoError(t, err)
	assert.Equal(t, "seeded 1 addresses\n", stdout)
}

func TestMissingAPIKey(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ROUTEPLAN_PROVIDER__TOMTOM__API_KEY", "")

	_, _, err := run(t, "route", "--start", "a", "--stop", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")
}
