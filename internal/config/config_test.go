package config

import (
	"testing"
	"time"

	"github.com/wfclan/generals-lfg-bot/internal/retention"
)

func TestLoad_RequiredValues(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("CHANNEL_ID", "c1")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without BOT_TOKEN")
	}

	t.Setenv("BOT_TOKEN", "tok")
	t.Setenv("CHANNEL_ID", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without CHANNEL_ID")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "tok")
	t.Setenv("CHANNEL_ID", "c1")
	t.Setenv("DELETE_AFTER", "")
	t.Setenv("PANEL_HISTORY_LIMIT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DeleteAfter != retention.DefaultDelay {
		t.Errorf("want default delay %v, got %v", retention.DefaultDelay, cfg.DeleteAfter)
	}
	if cfg.PanelHistoryLimit != 50 {
		t.Errorf("want history limit 50, got %d", cfg.PanelHistoryLimit)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("want :8080, got %s", cfg.HTTPAddr)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "tok")
	t.Setenv("CHANNEL_ID", "c1")
	t.Setenv("DELETE_AFTER", "5m")
	t.Setenv("PANEL_HISTORY_LIMIT", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DeleteAfter != 5*time.Minute {
		t.Errorf("want 5m, got %v", cfg.DeleteAfter)
	}
	if cfg.PanelHistoryLimit != 10 {
		t.Errorf("want 10, got %d", cfg.PanelHistoryLimit)
	}
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("BOT_TOKEN", "tok")
	t.Setenv("CHANNEL_ID", "c1")
	t.Setenv("DELETE_AFTER", "soon")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for bad duration")
	}
}
