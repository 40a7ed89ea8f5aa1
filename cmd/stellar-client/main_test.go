package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stellar-client-go/internal/bootstrap"
	"stellar-client-go/internal/domain/model"
	platformconfig "stellar-client-go/internal/platform/config"
	platformtesting "stellar-client-go/internal/platform/testing"
	"stellar-client-go/internal/platform/testing/fakeapi"
)

func newConfig(t *testing.T, api *fakeapi.Server) *platformconfig.Config {
	cfg := platformtesting.SetupTestConfig(t, api.APIURL(), api.URL())
	cfg.Credential.Driver = "sqlite"
	cfg.Credential.SQLite.DSN = filepath.Join(t.TempDir(), "cli.db")
	return cfg
}

func execute(t *testing.T, cfg *platformconfig.Config, args ...string) (map[string]any, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr, bootstrap.Options{Config: cfg})
	if err != nil || stdout.Len() == 0 {
		return nil, stderr.String(), err
	}
	var out map[string]any
	require.NoError(t, sonic.Unmarshal(stdout.Bytes(), &out))
	return out, stderr.String(), nil
}

func TestUsageErrors(t *testing.T) {
	cfg := newConfig(t, fakeapi.New(t))
	tests := []struct {
		name string
		args []string
	}{
		{name: "no command", args: nil},
		{name: "unknown command", args: []string{"launch"}},
		{name: "missing args", args: []string{"apod-range", "2024-01-01"}},
		{name: "too many args", args: []string{"articles", "extra"}},
		{name: "bad flag", args: []string{"--nope", "articles"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, cfg, tt.args...)
			var usage usageError
			require.True(t, errors.As(err, &usage), "got %v", err)
		})
	}
}

func TestHelpListsCommands(t *testing.T) {
	var stderr bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"--help"}, &bytes.Buffer{}, &stderr, bootstrap.Options{}))
	for _, c := range commands {
		assert.Contains(t, stderr.String(), c.name)
	}
}

func TestSpaceCommands(t *testing.T) {
	api := fakeapi.New(t)
	api.SeedAPOD(model.APOD{Date: "2024-03-01", Title: "Nebula"})
	api.SeedPhotos("curiosity",
		model.RoverPhoto{ID: 9, Sol: 1000, Rover: model.RoverInfo{Name: "Curiosity"}},
		model.RoverPhoto{ID: 10, Sol: 0, Rover: model.RoverInfo{Name: "Curiosity"}},
	)
	cfg := newConfig(t, api)

	out, _, err := execute(t, cfg, "apod")
	require.NoError(t, err)
	assert.Equal(t, "succeeded", out["status"])
	data := out["data"].(map[string]any)
	assert.Equal(t, "Nebula", data["payload"].(map[string]any)["title"])

	out, _, err = execute(t, cfg, "photos")
	require.NoError(t, err)
	photos := out["data"].([]any)
	require.Len(t, photos, 1)
	assert.Equal(t, "curiosity/9", photos[0].(map[string]any)["id"])

	out, _, err = execute(t, cfg, "photos", "curiosity", "0")
	require.NoError(t, err)
	photos = out["data"].([]any)
	require.Len(t, photos, 1)
	assert.Equal(t, "curiosity/10", photos[0].(map[string]any)["id"])

	_, _, err = execute(t, cfg, "photos", "curiosity", "many")
	var usage usageError
	assert.True(t, errors.As(err, &usage))
}

func TestSessionCommands(t *testing.T) {
	api := fakeapi.New(t)
	api.AddUser(model.User{ID: "u1", Name: "Ann", Email: "a@b.com"}, "x")
	api.SeedArticles(model.Article{ID: "a1", Title: "Hello"})
	cfg := newConfig(t, api)

	_, _, err := execute(t, cfg, "like", "a1")
	require.Error(t, err)
	assert.Zero(t, api.Count(fakeapi.RouteArticleLike))

	out, _, err := execute(t, cfg, "login", "a@b.com", "x")
	require.NoError(t, err)
	assert.Equal(t, "authenticated", out["state"])

	out, _, err = execute(t, cfg, "whoami")
	require.NoError(t, err)
	assert.Equal(t, true, out["hasToken"])
	assert.Equal(t, false, out["isAuthenticated"])

	out, logs, err := execute(t, cfg, "--verbose", "like", "a1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, out["data"].(map[string]any)["payload"].(map[string]any)["likes"])
	assert.True(t, strings.Contains(logs, "[CACHE] articles[detail:a1] -> succeeded"), logs)

	_, _, err = execute(t, cfg, "logout")
	require.NoError(t, err)
	out, _, err = execute(t, cfg, "whoami")
	require.NoError(t, err)
	assert.Equal(t, false, out["hasToken"])
}
