package testing

import (
	"io"
	"testing"

	"stellar-client-go/internal/platform/config"
	"stellar-client-go/internal/platform/logging"
)

// SetupTestConfig returns a configuration pointing both backends at the given
// URLs with an in-memory credential store.
func SetupTestConfig(t *testing.T, apiURL, spaceURL string) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.API.BaseURL = apiURL
	cfg.Space.BaseURL = spaceURL
	cfg.Space.APIKey = "TEST_KEY"
	cfg.Credential.Driver = "memory"
	cfg.Log.Level = "debug"
	cfg.Log.Color = false
	cfg.Log.Dir = t.TempDir()
	cfg.Log.File = "test.log"
	return cfg
}

// SetupTestLogger returns a debug logger that writes its JSON file into a temp dir.
func SetupTestLogger(t *testing.T) *logging.Logger {
	t.Helper()

	logger, err := logging.New(logging.Config{
		Level:    "debug",
		Dir:      t.TempDir(),
		Filename: "test.log",
		Output:   io.Discard,
	})
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	t.Cleanup(func() { _ = logger.Close() })
	return logger
}

func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error but got nil")
	}
}

func AssertEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()
	if expected != actual {
		t.Fatalf("expected %v, got %v", expected, actual)
	}
}
