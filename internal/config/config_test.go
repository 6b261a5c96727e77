package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, projectRoot, content string) {
	t.Helper()
	if err := os.MkdirAll(Path(projectRoot), 0o755); err != nil {
		t.Fatalf("setup: mkdir: %v", err)
	}
	if err := os.WriteFile(ConfigPath(projectRoot), []byte(content), 0o644); err != nil {
		t.Fatalf("setup: write config: %v", err)
	}
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ProjectType != TypeStandard {
		t.Errorf("ProjectType = %q, want standard", cfg.ProjectType)
	}
	if cfg.TDDMode {
		t.Error("TDDMode should default to false")
	}
}

func TestLoad_ParsesValues(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "project_type: production\ntdd_mode: yes\n")

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ProjectType != TypeProduction {
		t.Errorf("ProjectType = %q, want production", cfg.ProjectType)
	}
	if !cfg.TDDMode {
		t.Error("TDDMode should be true for 'yes'")
	}
}

func TestLoad_EmptyTypeFallsBackToStandard(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "tdd_mode: off\n")

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ProjectType != TypeStandard {
		t.Errorf("ProjectType = %q, want standard", cfg.ProjectType)
	}
}

func TestLoad_RejectsUnknownType(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "project_type: enterprise\n")

	_, err := Load(tmpDir)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestLoad_RejectsBadToggleToken(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "project_type: standard\ntdd_mode: maybe\n")

	if _, err := Load(tmpDir); err == nil {
		t.Error("expected error for tdd_mode: maybe")
	}
}

func TestParseToggle(t *testing.T) {
	trueTokens := []string{"true", "yes", "on", "1", "TRUE", "Yes", " on "}
	for _, tok := range trueTokens {
		v, err := ParseToggle(tok)
		if err != nil || !v {
			t.Errorf("ParseToggle(%q) = %v, %v; want true, nil", tok, v, err)
		}
	}

	falseTokens := []string{"", "false", "no", "off", "0", "OFF"}
	for _, tok := range falseTokens {
		v, err := ParseToggle(tok)
		if err != nil || v {
			t.Errorf("ParseToggle(%q) = %v, %v; want false, nil", tok, v, err)
		}
	}

	if _, err := ParseToggle("yep"); !errors.Is(err, ErrValidation) {
		t.Errorf("ParseToggle(yep) err = %v, want ErrValidation", err)
	}
}

func TestExists(t *testing.T) {
	tmpDir := t.TempDir()
	if Exists(tmpDir) {
		t.Error("Exists should be false before init")
	}
	writeConfig(t, tmpDir, "project_type: standard\n")
	if !Exists(tmpDir) {
		t.Error("Exists should be true after config is written")
	}
}

func TestState_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	// Missing file is the zero state.
	st, err := LoadState(tmpDir)
	if err != nil {
		t.Fatalf("load zero state: %v", err)
	}
	if st.PendingReview {
		t.Error("zero state should not have a pending review")
	}

	st.PendingReview = true
	if err := SaveState(tmpDir, st); err != nil {
		t.Fatalf("save: %v", err)
	}
	if st.UpdatedAt == "" {
		t.Error("SaveState should refresh UpdatedAt")
	}

	loaded, err := LoadState(tmpDir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !loaded.PendingReview {
		t.Error("PendingReview should survive the round trip")
	}
	if loaded.UpdatedAt != st.UpdatedAt {
		t.Errorf("UpdatedAt = %q, want %q", loaded.UpdatedAt, st.UpdatedAt)
	}

	// state.json lives under meridian/ next to the config.
	if _, err := os.Stat(filepath.Join(Path(tmpDir), StateFile)); err != nil {
		t.Errorf("state.json should exist under meridian/: %v", err)
	}
}
