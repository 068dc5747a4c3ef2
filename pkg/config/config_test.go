package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/manics/imagej-fastlevelset/pkg/levelset"
)

func TestDefaultConfigMatchesEngineDefaults(t *testing.T) {
	cfg := DefaultConfig()

	params := cfg.EngineParams()
	if want := levelset.DefaultParams(); params != want {
		t.Errorf("expected default engine params %+v, got %+v", want, params)
	}

	method, err := cfg.Method()
	if err != nil {
		t.Fatalf("Method: %v", err)
	}
	if method.String() == "" {
		t.Error("expected a non-empty method name")
	}
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Engine.MaxIterations != DefaultConfig().Engine.MaxIterations {
		t.Errorf("expected default MaxIterations, got %d", cfg.Engine.MaxIterations)
	}
}

func TestSaveThenLoadConfigRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Engine.MaxIterations = 42
	cfg.SpeedField.Method = "hybrid"

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Engine.MaxIterations != 42 {
		t.Errorf("expected MaxIterations 42, got %d", loaded.Engine.MaxIterations)
	}
	method, err := loaded.Method()
	if err != nil {
		t.Fatalf("Method: %v", err)
	}
	if method != 1 {
		t.Errorf("expected HybridMethod, got %v", method)
	}
}

func TestMethodRejectsUnknownName(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpeedField.Method = "bogus"
	if _, err := cfg.Method(); err == nil {
		t.Error("expected an error for an unknown method name")
	}
}

func TestCreateDefaultConfigFileWritesReadableYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := CreateDefaultConfigFile(path); err != nil {
		t.Fatalf("CreateDefaultConfigFile: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to exist: %v", err)
	}
	if _, err := LoadConfig(path); err != nil {
		t.Fatalf("expected config file to parse as YAML: %v", err)
	}
}
