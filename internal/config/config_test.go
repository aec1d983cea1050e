package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultSimConfigIsValid(t *testing.T) {
	cfg := DefaultSimConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default sim config invalid: %v", err)
	}

	if cfg.Nodes != 100 || cfg.Rounds != 50 {
		t.Errorf("Unexpected network defaults: nodes=%d rounds=%d", cfg.Nodes, cfg.Rounds)
	}
	if cfg.BFTFraction != 0.67 || cfg.Dimension != 10 {
		t.Errorf("Unexpected protocol defaults: bft=%v dim=%d", cfg.BFTFraction, cfg.Dimension)
	}
	if !cfg.Verifier.Enabled || cfg.Verifier.SimilarityThreshold != 0.2 {
		t.Errorf("Unexpected verifier defaults: %+v", cfg.Verifier)
	}
	if cfg.Corruption.Probability != 0.8 || cfg.Corruption.ExtremeHigh != 10.0 {
		t.Errorf("Unexpected corruption defaults: %+v", cfg.Corruption)
	}
}

func TestDefaultMultiDomainConfigIsValid(t *testing.T) {
	cfg := DefaultMultiDomainConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default multidomain config invalid: %v", err)
	}
	if len(cfg.Profiles) != 3 {
		t.Fatalf("Expected 3 profiles, got %d", len(cfg.Profiles))
	}
	weight := 0.0
	for _, p := range cfg.Profiles {
		weight += p.Weight
	}
	if weight != 1.0 {
		t.Errorf("Profile weights sum to %v, want 1.0", weight)
	}
}

func TestLoadSimConfigEmptyPath(t *testing.T) {
	cfg, err := LoadSimConfig("")
	if err != nil {
		t.Fatalf("LoadSimConfig failed: %v", err)
	}
	want := DefaultSimConfig()
	if cfg.Nodes != want.Nodes || cfg.TickInterval != want.TickInterval {
		t.Errorf("Empty path should load defaults, got %+v", cfg)
	}
}

func TestLoadSimConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yml")
	doc := []byte("nodes: 25\nrounds: 10\nverifier:\n  enabled: false\n")
	if err := os.WriteFile(path, doc, 0644); err != nil {
		t.Fatalf("Write config failed: %v", err)
	}

	cfg, err := LoadSimConfig(path)
	if err != nil {
		t.Fatalf("LoadSimConfig failed: %v", err)
	}

	// Test file values override
	if cfg.Nodes != 25 || cfg.Rounds != 10 || cfg.Verifier.Enabled {
		t.Errorf("Overrides not applied: nodes=%d rounds=%d verifier=%v",
			cfg.Nodes, cfg.Rounds, cfg.Verifier.Enabled)
	}
	// Test untouched fields keep their defaults
	if cfg.TickInterval != 0.001 || cfg.Corruption.Probability != 0.8 || cfg.Verifier.VarianceLimit != 2.0 {
		t.Errorf("Defaults lost on partial override: %+v", cfg)
	}
}

func TestLoadSimConfigMissingFile(t *testing.T) {
	if _, err := LoadSimConfig(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestLoadSimConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("nodes: 1\n"), 0644); err != nil {
		t.Fatalf("Write config failed: %v", err)
	}
	if _, err := LoadSimConfig(path); err == nil {
		t.Error("Expected validation error for a single-node network")
	}
}

func TestMultiDomainValidateCrossFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*MultiDomainConfig)
	}{
		{"rsu range inverted", func(c *MultiDomainConfig) { c.RSUMax = 2 }},
		{"latent does not compress", func(c *MultiDomainConfig) { c.SAELatentDim = 10 }},
		{"sae input differs from dimension", func(c *MultiDomainConfig) { c.SAEInputDim = 12 }},
		{"sync window inverted", func(c *MultiDomainConfig) { c.SyncTimeHigh = 0.05 }},
	}
	for _, tc := range cases {
		cfg := DefaultMultiDomainConfig()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("Case %q: expected validation error", tc.name)
		}
	}
}

func TestProfileCycles(t *testing.T) {
	cfg := DefaultMultiDomainConfig()

	cases := []struct {
		index int
		name  string
		delay float64
	}{
		{0, "urban", 0.5},
		{2, "rural", 1.5},
		{3, "urban-2", 0.5},
		{4, "interurban-2", 1.0},
		{6, "urban-3", 0.5},
	}
	for _, tc := range cases {
		p := cfg.Profile(tc.index)
		if p.Name != tc.name || p.BaseDelay != tc.delay {
			t.Errorf("Profile(%d) = %q delay %v, want %q delay %v",
				tc.index, p.Name, p.BaseDelay, tc.name, tc.delay)
		}
	}
}
