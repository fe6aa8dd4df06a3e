package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("W3X_DATABASE_URL", "")
	t.Setenv("W3X_WORKER_COUNT", "")
	t.Setenv("W3X_INPUT_ENCODING", "")
	t.Setenv("W3X_LOG_LEVEL", "")

	cfg := Load()
	if cfg.WorkerCount != 8 {
		t.Errorf("WorkerCount = %d, want 8", cfg.WorkerCount)
	}
	if cfg.InputEncoding != "utf-8" {
		t.Errorf("InputEncoding = %q, want utf-8", cfg.InputEncoding)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("W3X_DATABASE_URL", "postgres://db/test")
	t.Setenv("W3X_WORKER_COUNT", "3")
	t.Setenv("W3X_INPUT_ENCODING", "gbk")

	cfg := Load()
	if cfg.DatabaseURL != "postgres://db/test" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.WorkerCount != 3 {
		t.Errorf("WorkerCount = %d, want 3", cfg.WorkerCount)
	}
	if cfg.InputEncoding != "gbk" {
		t.Errorf("InputEncoding = %q", cfg.InputEncoding)
	}
}

func TestGetEnvIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("W3X_TEST_INT", "many")
	if got := getEnvInt("W3X_TEST_INT", 5); got != 5 {
		t.Errorf("getEnvInt() = %d, want 5", got)
	}
}
