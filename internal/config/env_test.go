package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("CIRCLES_TEST_HOST", "example.org")
	if got := GetEnv("CIRCLES_TEST_HOST", "fallback"); got != "example.org" {
		t.Errorf("Expected example.org, got %q", got)
	}
	if got := GetEnv("CIRCLES_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback, got %q", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("CIRCLES_TEST_INT", "250")
	t.Setenv("CIRCLES_TEST_BAD_INT", "lots")

	if got := GetEnvInt("CIRCLES_TEST_INT", 1); got != 250 {
		t.Errorf("Expected 250, got %d", got)
	}
	if got := GetEnvInt("CIRCLES_TEST_BAD_INT", 1000); got != 1000 {
		t.Errorf("Expected fallback for malformed value, got %d", got)
	}
	if got := GetEnvInt("CIRCLES_TEST_UNSET_INT", 7); got != 7 {
		t.Errorf("Expected fallback for unset value, got %d", got)
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("CIRCLES_TEST_DUR", "15s")
	t.Setenv("CIRCLES_TEST_BAD_DUR", "soon")

	if got := GetEnvDuration("CIRCLES_TEST_DUR", time.Second); got != 15*time.Second {
		t.Errorf("Expected 15s, got %v", got)
	}
	if got := GetEnvDuration("CIRCLES_TEST_BAD_DUR", time.Second); got != time.Second {
		t.Errorf("Expected fallback, got %v", got)
	}
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("CIRCLES_TEST_FROM_FILE=yes\nCIRCLES_TEST_PRESET=file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CIRCLES_TEST_PRESET", "env")
	// Registered so the variable is restored after the test.
	t.Setenv("CIRCLES_TEST_FROM_FILE", "")
	os.Unsetenv("CIRCLES_TEST_FROM_FILE")

	if err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := os.Getenv("CIRCLES_TEST_FROM_FILE"); got != "yes" {
		t.Errorf("Expected value from file, got %q", got)
	}
	if got := os.Getenv("CIRCLES_TEST_PRESET"); got != "env" {
		t.Errorf("Expected existing env to win, got %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("Expected missing file to be ignored, got %v", err)
	}
}
