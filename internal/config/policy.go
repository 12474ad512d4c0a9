package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ReminderPolicy configures the expiry reminder schedule. Loaded from an
// optional YAML file; documents with their own notification days override
// the policy.
type ReminderPolicy struct {
	// DefaultDays replaces the built-in {30, 60, 90} schedule
	DefaultDays []int `yaml:"default_days"`

	// Categories maps a document category to its own schedule
	Categories map[string][]int `yaml:"categories"`
}

// DaysFor returns the schedule for a category, falling back to the
// policy default.
func (p *ReminderPolicy) DaysFor(category string) []int {
	if days, ok := p.Categories[category]; ok && len(days) > 0 {
		return days
	}
	return p.DefaultDays
}

// LoadReminderPolicy reads a YAML policy file. An empty path returns an
// empty policy with no defaults overridden.
func LoadReminderPolicy(path string) (*ReminderPolicy, error) {
	policy := &ReminderPolicy{}
	if path == "" {
		return policy, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reminder policy: %w", err)
	}
	if err := yaml.Unmarshal(data, policy); err != nil {
		return nil, fmt.Errorf("parse reminder policy: %w", err)
	}

	for _, d := range policy.DefaultDays {
		if d <= 0 {
			return nil, fmt.Errorf("reminder policy: default_days must be positive, got %d", d)
		}
	}
	for category, days := range policy.Categories {
		for _, d := range days {
			if d <= 0 {
				return nil, fmt.Errorf("reminder policy: category %q days must be positive, got %d", category, d)
			}
		}
	}

	return policy, nil
}
