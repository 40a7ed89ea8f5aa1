package bootstrap

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"stellar-client-go/internal/cache"
	"stellar-client-go/internal/domain/model"
	platformerrors "stellar-client-go/internal/platform/errors"
	platformtesting "stellar-client-go/internal/platform/testing"
	"stellar-client-go/internal/platform/testing/fakeapi"
)

func TestInitGraphOrder(t *testing.T) {
	steps := InitGraph()
	want := []string{
		"config:load",
		"logging:init-provider",
		"observability:setup-hooks",
		"storage:init-credential-store",
		"eventbus:init",
		"http:init-clients",
		"session:restore",
		"sync:init-syncer",
	}
	if len(steps) != len(want) {
		t.Fatalf("unexpected step count: got %d want %d", len(steps), len(want))
	}
	for i, step := range steps {
		if step.ID != want[i] {
			t.Fatalf("step %d mismatch: got %s want %s", i, step.ID, want[i])
		}
	}
}

func TestExecuteInitStepsChecksDependencies(t *testing.T) {
	steps := []initStep{
		{ID: "b", DependsOn: []string{"a"}, Execute: func(context.Context, *appState) error { return nil }},
	}
	err := executeInitSteps(context.Background(), steps, &appState{})
	if !platformerrors.IsKind(err, platformerrors.KindBootstrap) {
		t.Fatalf("expected bootstrap error, got %v", err)
	}
	if err := executeInitSteps(context.Background(), nil, nil); err == nil {
		t.Fatal("expected error for nil state")
	}
}

func TestNewWiresClient(t *testing.T) {
	ctx := context.Background()
	api := fakeapi.New(t)
	api.SeedArticles(model.Article{ID: "a1", Title: "Hello"})
	api.SeedAPOD(model.APOD{Date: "2024-03-01", Title: "Nebula"})
	api.AddUser(model.User{ID: "u1", Name: "Ann", Email: "a@b.com"}, "x")

	cfg := platformtesting.SetupTestConfig(t, api.APIURL(), api.URL())
	var logs bytes.Buffer
	app, err := New(ctx, Options{Config: cfg, LogOutput: &logs})
	platformtesting.AssertNoError(t, err)
	defer app.Close(ctx)

	platformtesting.AssertEqual(t, "inline", app.ConfigPath)
	platformtesting.AssertNoError(t, app.Syncer.Preload(ctx))
	caches := app.Syncer.Caches()
	platformtesting.AssertEqual(t, cache.StatusSucceeded, caches.Articles.State().List.Status)
	platformtesting.AssertEqual(t, "Nebula", caches.APOD.Pictures.Get("").Data.Payload.Title)

	platformtesting.AssertNoError(t, app.Session.Login(ctx, "a@b.com", "x"))
	platformtesting.AssertNoError(t, app.Syncer.LikeArticle(ctx, "a1"))
	platformtesting.AssertEqual(t, 1, caches.Articles.State().List.Data[0].Payload.Likes)

	if !strings.Contains(logs.String(), "[BOOT] configuration loaded from inline") {
		t.Fatalf("missing boot log line:\n%s", logs.String())
	}
}

func TestSessionSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	api := fakeapi.New(t)
	api.SeedArticles(model.Article{ID: "a1"})
	api.AddUser(model.User{ID: "u1", Name: "Ann", Email: "a@b.com"}, "x")

	cfg := platformtesting.SetupTestConfig(t, api.APIURL(), api.URL())
	cfg.Credential.Driver = "sqlite"
	cfg.Credential.SQLite.DSN = filepath.Join(t.TempDir(), "stellar.db")

	first, err := New(ctx, Options{Config: cfg, LogOutput: io.Discard})
	platformtesting.AssertNoError(t, err)
	platformtesting.AssertNoError(t, first.Session.Login(ctx, "a@b.com", "x"))
	token := first.Session.AccessToken()
	platformtesting.AssertNoError(t, first.Close(ctx))

	second, err := New(ctx, Options{Config: cfg, LogOutput: io.Discard})
	platformtesting.AssertNoError(t, err)
	defer second.Close(ctx)

	platformtesting.AssertEqual(t, token, second.Session.AccessToken())
	platformtesting.AssertEqual(t, false, second.Session.IsAuthenticated())
	platformtesting.AssertNoError(t, second.Syncer.DislikeArticle(ctx, "a1"))
	auths := api.Authorizations(fakeapi.RouteArticleDislike)
	platformtesting.AssertEqual(t, "Bearer "+token, auths[len(auths)-1])
}

func TestNewFailsOnMissingConfigFile(t *testing.T) {
	_, err := New(context.Background(), Options{ConfigPath: filepath.Join(t.TempDir(), "absent.yaml")})
	platformtesting.AssertError(t, err)
	if !platformerrors.IsKind(err, platformerrors.KindConfig) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestNewFailsOnBadCredentialDriver(t *testing.T) {
	cfg := platformtesting.SetupTestConfig(t, "http://127.0.0.1:1/api", "http://127.0.0.1:1")
	cfg.Credential.Driver = "redis"
	cfg.Credential.Redis.Addr = ""

	_, err := New(context.Background(), Options{Config: cfg, LogOutput: io.Discard})
	platformtesting.AssertError(t, err)
	if !platformerrors.IsKind(err, platformerrors.KindStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestCloseNilApp(t *testing.T) {
	var app *App
	platformtesting.AssertNoError(t, app.Close(context.Background()))
}
