package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFailsWithoutBotToken(t *testing.T) {
	t.Setenv(telegramTokenEnv, "")
	t.Setenv(configPathEnv, "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when bot token is absent")
	}
}

func TestLoadDefaultsWithTokenFromEnv(t *testing.T) {
	t.Setenv(telegramTokenEnv, "token-123")
	t.Setenv(configPathEnv, "")
	t.Setenv(lookupAPIKeyEnv, "")
	t.Setenv(dbPathEnv, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Telegram.BotToken != "token-123" {
		t.Fatalf("token not taken from env: %q", cfg.Telegram.BotToken)
	}
	if cfg.Scheduler.DeliveryTime != "09:30" {
		t.Fatalf("unexpected default delivery time: %s", cfg.Scheduler.DeliveryTime)
	}
	if got := cfg.Scheduler.ReminderHours; len(got) != 3 || got[0] != 15 || got[1] != 18 || got[2] != 21 {
		t.Fatalf("unexpected default reminder hours: %v", got)
	}
	if cfg.Source.ExcerptLimit != 1000 {
		t.Fatalf("unexpected default excerpt limit: %d", cfg.Source.ExcerptLimit)
	}
	if cfg.Terms.MinLength != 5 || cfg.Terms.Cap != 5 || cfg.Terms.Window != 20 {
		t.Fatalf("unexpected term defaults: %+v", cfg.Terms)
	}
}

func TestLoadFileWithEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
telegram:
  botToken: file-token
lookup:
  apiKey: file-key
scheduler:
  deliveryTime: "07:45"
  reminderHours: [12, 19]
  timezone: Europe/Berlin
storage:
  path: /tmp/file.db
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(configPathEnv, path)
	t.Setenv(telegramTokenEnv, "env-token")
	t.Setenv(lookupAPIKeyEnv, "")
	t.Setenv(dbPathEnv, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Telegram.BotToken != "env-token" {
		t.Fatalf("env must override file token, got %q", cfg.Telegram.BotToken)
	}
	if cfg.Lookup.APIKey != "file-key" {
		t.Fatalf("file api key lost: %q", cfg.Lookup.APIKey)
	}
	if cfg.Scheduler.DeliveryTime != "07:45" {
		t.Fatalf("file delivery time lost: %s", cfg.Scheduler.DeliveryTime)
	}
	if got := cfg.Scheduler.ReminderHours; len(got) != 2 || got[0] != 12 || got[1] != 19 {
		t.Fatalf("file reminder hours lost: %v", got)
	}
	if cfg.Scheduler.Location().String() != "Europe/Berlin" {
		t.Fatalf("timezone not bound: %s", cfg.Scheduler.Location())
	}
	if cfg.Storage.Path != "/tmp/file.db" {
		t.Fatalf("storage path lost: %s", cfg.Storage.Path)
	}
}

func TestLoadRejectsBadDeliveryTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := "telegram:\n  botToken: x\nscheduler:\n  deliveryTime: \"9:30am\"\n"
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(configPathEnv, path)
	t.Setenv(telegramTokenEnv, "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for malformed delivery time")
	}
}
