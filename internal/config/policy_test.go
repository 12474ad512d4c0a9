package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writePolicy(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reminders.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write policy file: %v", err)
	}
	return path
}

func TestLoadReminderPolicy(t *testing.T) {
	path := writePolicy(t, `
default_days: [14, 30]
categories:
  certificates: [7, 14]
  audits: [30, 60, 90]
`)

	policy, err := LoadReminderPolicy(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !reflect.DeepEqual(policy.DefaultDays, []int{14, 30}) {
		t.Errorf("default days = %v", policy.DefaultDays)
	}
	if !reflect.DeepEqual(policy.DaysFor("certificates"), []int{7, 14}) {
		t.Errorf("certificates schedule = %v", policy.DaysFor("certificates"))
	}
	// Unknown category falls back to the default
	if !reflect.DeepEqual(policy.DaysFor("sanitation"), []int{14, 30}) {
		t.Errorf("fallback schedule = %v", policy.DaysFor("sanitation"))
	}
}

func TestLoadReminderPolicyEmptyPath(t *testing.T) {
	policy, err := LoadReminderPolicy("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(policy.DefaultDays) != 0 || len(policy.Categories) != 0 {
		t.Errorf("empty path produced non-empty policy: %+v", policy)
	}
}

func TestLoadReminderPolicyRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative default", "default_days: [-1]"},
		{"zero category day", "categories:\n  certificates: [0]"},
		{"malformed yaml", "default_days: [30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writePolicy(t, tt.content)
			if _, err := LoadReminderPolicy(path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadReminderPolicyMissingFile(t *testing.T) {
	if _, err := LoadReminderPolicy("/nonexistent/reminders.yaml"); err == nil {
		t.Error("expected an error for a missing file")
	}
}
