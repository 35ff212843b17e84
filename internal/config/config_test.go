package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigValidFile(t *testing.T) {
	path := writeConfig(t, `{
		"topic": "Data Analyst",
		"company": "Company-A",
		"max_iterations": 5,
		"min_documents": 10,
		"interview_date": "2026-03-10",
		"interview_time": "10:00"
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Data Analyst", cfg.Topic)
	assert.Equal(t, "Company-A", cfg.Company)
	assert.Equal(t, 5, cfg.MaxIterations)
	assert.Equal(t, 10, cfg.MinDocuments)
	assert.Equal(t, "2026-03-10", cfg.InterviewDate)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfigInvalidJSON(t *testing.T) {
	path := writeConfig(t, `{not json`)
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfigEmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	require.Error(t, err)
}

func TestValidateRejectsNegativeBudgets(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"max_iterations", Config{MaxIterations: -1}},
		{"min_documents", Config{MinDocuments: -1}},
		{"max_retries", Config{MaxRetries: -1}},
		{"wait_seconds", Config{WaitSeconds: -1}},
		{"candidate_target", Config{CandidateTarget: -1}},
		{"slot_minutes", Config{SlotMinutes: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.name)
		})
	}
}

func TestValidateAcceptsZeroValues(t *testing.T) {
	assert.NoError(t, (&Config{}).Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Topic: "Data Analyst", MaxIterations: 3}
	defaults := Config{
		Topic:         "ignored",
		Company:       "Company-A",
		MaxIterations: 5,
		MinDocuments:  10,
		SlotMinutes:   30,
		SMTPPort:      587,
	}

	merged := cfg.MergeWithDefaults(defaults)
	assert.Equal(t, "Data Analyst", merged.Topic, "explicit value wins")
	assert.Equal(t, 3, merged.MaxIterations, "explicit value wins")
	assert.Equal(t, "Company-A", merged.Company, "default fills empty")
	assert.Equal(t, 10, merged.MinDocuments, "default fills zero")
	assert.Equal(t, 30, merged.SlotMinutes)
	assert.Equal(t, 587, merged.SMTPPort)
}

func TestFromEnvBackfillsOnly(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("SMTP_USER", "env-user@example.com")

	cfg := Config{APIKey: "explicit-key"}
	cfg.FromEnv()

	assert.Equal(t, "explicit-key", cfg.APIKey, "explicit value wins over env")
	assert.Equal(t, "env-user@example.com", cfg.SMTPUser)
}
