package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "formlayout.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", env(nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("defaults (-want +got):\n%s", diff)
	}
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	path := writeFile(t, `
database: layouts.db
properties: props.yaml
columns: 4
logLevel: warn
`)
	cfg, err := Load(path, env(map[string]string{EnvLogLevel: "debug"}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Default()
	want.Database = "layouts.db"
	want.Properties = "props.yaml"
	want.Columns = 4
	want.LogLevel = "debug"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config (-want +got):\n%s", diff)
	}

	cfg, err = Load(path, env(map[string]string{EnvDatabase: "/tmp/other.db"}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database != "/tmp/other.db" {
		t.Fatalf("database: want env override, got %q", cfg.Database)
	}
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]string{
		"unknown field":  "colour: blue\n",
		"bad level":      "logLevel: loud\n",
		"bad format":     "logFormat: xml\n",
		"bad size":       "rows: 0\n",
		"schema only":    "schema: Invoice\n",
		"malformed yaml": "rows: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeFile(t, body), env(nil)); err == nil {
				t.Fatalf("want error")
			}
		})
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), env(nil)); err == nil {
		t.Fatalf("missing file should fail")
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	if _, err := Load(writeFile(t, ""), env(nil)); err != nil {
		t.Fatalf("empty file should keep defaults: %v", err)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.LogLevel = "warn"
	cfg.LogFormat = "json"
	logger := cfg.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), `"msg":"shown"`) {
		t.Fatalf("log output: %q", buf.String())
	}
}
