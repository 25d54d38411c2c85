package config

import (
	"testing"

	"cp-etl/internal/aggregate"
	"cp-etl/internal/normalize"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RawDir != "data/raw" {
		t.Errorf("RawDir = %q", cfg.RawDir)
	}
	if cfg.Filters.TermPrefix != "33" {
		t.Errorf("TermPrefix = %q", cfg.Filters.TermPrefix)
	}
	if cfg.DistrictCode != "hps" {
		t.Errorf("DistrictCode = %q", cfg.DistrictCode)
	}
	if cfg.KeyPolicy != normalize.DropNonMatching {
		t.Errorf("KeyPolicy = %v", cfg.KeyPolicy)
	}
	if cfg.BlankZeroScope != aggregate.ScopeAll {
		t.Errorf("BlankZeroScope = %v", cfg.BlankZeroScope)
	}
	if len(cfg.SFTP.Files) != 3 {
		t.Errorf("SFTP.Files = %v", cfg.SFTP.Files)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CP_SFTP_HOST", "sis.example.org")
	t.Setenv("CP_SFTP_PORT", "2222")
	t.Setenv("CP_KEY_POLICY", "pass")
	t.Setenv("CP_BLANK_ZERO_SCOPE", "counts")
	t.Setenv("CP_TOPIC_WINDOW", "Intro, Resume ,Interview")
	t.Setenv("CP_SHEET_FINAL_OUT_ID", "sheet-id-1")
	t.Setenv("CP_SHEET_FINAL_OUT_RANGE", "Final!A1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SFTP.Host != "sis.example.org" || cfg.SFTP.Port != 2222 {
		t.Errorf("SFTP = %+v", cfg.SFTP)
	}
	if cfg.KeyPolicy != normalize.PassThrough {
		t.Errorf("KeyPolicy = %v", cfg.KeyPolicy)
	}
	if cfg.BlankZeroScope != aggregate.ScopeCounts {
		t.Errorf("BlankZeroScope = %v", cfg.BlankZeroScope)
	}
	if len(cfg.TopicWindow) != 3 || cfg.TopicWindow[1] != "Resume" {
		t.Errorf("TopicWindow = %v", cfg.TopicWindow)
	}
	if cfg.Sheets.FinalOut.ID != "sheet-id-1" || cfg.Sheets.FinalOut.Range != "Final!A1" {
		t.Errorf("FinalOut = %+v", cfg.Sheets.FinalOut)
	}
}

func TestLoadRejectsUnknownEnums(t *testing.T) {
	t.Setenv("CP_KEY_POLICY", "maybe")
	if _, err := Load(); err == nil {
		t.Errorf("unknown key_policy accepted")
	}
}
