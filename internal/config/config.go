// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via
// CLI flags or environment variables.
type Config struct {
	// Role
	Topic    string `json:"topic,omitempty"`     // Role to draft the job description for
	Company  string `json:"company,omitempty"`   // Company name used in posts, invites, and offers
	Salary   string `json:"salary,omitempty"`    // Salary string quoted in offer letters
	ApplyURL string `json:"apply_url,omitempty"` // Application link included in the published post

	// Budgets
	MaxIterations   int `json:"max_iterations,omitempty"`   // Draft refinement iteration budget
	MinDocuments    int `json:"min_documents,omitempty"`    // Applications needed before selection starts
	MaxRetries      int `json:"max_retries,omitempty"`      // Re-check budget for the collection loop
	WaitSeconds     int `json:"wait_seconds,omitempty"`     // Pause between collection checks
	CandidateTarget int `json:"candidate_target,omitempty"` // How many candidates to select for interviews

	// Scheduling
	InterviewDate string `json:"interview_date,omitempty"` // YYYY-MM-DD
	InterviewTime string `json:"interview_time,omitempty"` // HH:MM, 24-hour
	SlotMinutes   int    `json:"slot_minutes,omitempty"`   // Minutes per interview slot

	// Services
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	// Document storage
	StorageURL    string `json:"storage_url,omitempty"`    // Supabase project URL
	StorageKey    string `json:"storage_key,omitempty"`    // Supabase service key
	StorageBucket string `json:"storage_bucket,omitempty"` // Bucket holding application documents
	DocumentDir   string `json:"document_dir,omitempty"`   // Local directory for downloaded documents

	// Email
	SMTPHost  string `json:"smtp_host,omitempty"`
	SMTPPort  int    `json:"smtp_port,omitempty"`
	SMTPUser  string `json:"smtp_user,omitempty"`
	SMTPPass  string `json:"smtp_pass,omitempty"`
	FromEmail string `json:"from_email,omitempty"`

	// Publishing
	PublishURL  string `json:"publish_url,omitempty"`  // LinkedIn share endpoint
	CSRFToken   string `json:"csrf_token,omitempty"`   // Must match the JSESSIONID cookie
	Cookie      string `json:"cookie,omitempty"`       // Authenticated session cookie
	CompanyURN  string `json:"company_urn,omitempty"`  // urn:li:fsd_company:<id>
	QueryID     string `json:"query_id,omitempty"`     // Voyager share-creation query id
	SkipPublish bool   `json:"skip_publish,omitempty"` // Approve drafts without posting

	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv fills service credentials from environment variables. File and flag
// values win; the environment only backfills what is still empty.
func (c *Config) FromEnv() {
	fill := func(dst *string, key string) {
		if *dst == "" {
			*dst = os.Getenv(key)
		}
	}
	fill(&c.APIKey, "GEMINI_API_KEY")
	fill(&c.DatabaseURL, "DATABASE_URL")
	fill(&c.StorageURL, "SUPABASE_URL")
	fill(&c.StorageKey, "SUPABASE_KEY")
	fill(&c.StorageBucket, "SUPABASE_BUCKET")
	fill(&c.SMTPHost, "SMTP_HOST")
	fill(&c.SMTPUser, "SMTP_USER")
	fill(&c.SMTPPass, "SMTP_PASS")
	fill(&c.FromEmail, "FROM_EMAIL")
	fill(&c.PublishURL, "LINKEDIN_URL")
	fill(&c.CSRFToken, "LINKEDIN_CSRF_TOKEN")
	fill(&c.Cookie, "LINKEDIN_COOKIE")
	fill(&c.CompanyURN, "LINKEDIN_COMPANY_URN")
	fill(&c.QueryID, "LINKEDIN_QUERY_ID")
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.MaxIterations < 0 {
		return fmt.Errorf("config error: 'max_iterations' must be non-negative")
	}
	if c.MinDocuments < 0 {
		return fmt.Errorf("config error: 'min_documents' must be non-negative")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("config error: 'max_retries' must be non-negative")
	}
	if c.WaitSeconds < 0 {
		return fmt.Errorf("config error: 'wait_seconds' must be non-negative")
	}
	if c.CandidateTarget < 0 {
		return fmt.Errorf("config error: 'candidate_target' must be non-negative")
	}
	if c.SlotMinutes < 0 {
		return fmt.Errorf("config error: 'slot_minutes' must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Topic == "" {
		result.Topic = defaults.Topic
	}
	if result.Company == "" {
		result.Company = defaults.Company
	}
	if result.Salary == "" {
		result.Salary = defaults.Salary
	}
	if result.ApplyURL == "" {
		result.ApplyURL = defaults.ApplyURL
	}
	if result.InterviewDate == "" {
		result.InterviewDate = defaults.InterviewDate
	}
	if result.InterviewTime == "" {
		result.InterviewTime = defaults.InterviewTime
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.StorageURL == "" {
		result.StorageURL = defaults.StorageURL
	}
	if result.StorageKey == "" {
		result.StorageKey = defaults.StorageKey
	}
	if result.StorageBucket == "" {
		result.StorageBucket = defaults.StorageBucket
	}
	if result.DocumentDir == "" {
		result.DocumentDir = defaults.DocumentDir
	}
	if result.SMTPHost == "" {
		result.SMTPHost = defaults.SMTPHost
	}
	if result.SMTPUser == "" {
		result.SMTPUser = defaults.SMTPUser
	}
	if result.SMTPPass == "" {
		result.SMTPPass = defaults.SMTPPass
	}
	if result.FromEmail == "" {
		result.FromEmail = defaults.FromEmail
	}
	if result.PublishURL == "" {
		result.PublishURL = defaults.PublishURL
	}
	if result.CSRFToken == "" {
		result.CSRFToken = defaults.CSRFToken
	}
	if result.Cookie == "" {
		result.Cookie = defaults.Cookie
	}
	if result.CompanyURN == "" {
		result.CompanyURN = defaults.CompanyURN
	}
	if result.QueryID == "" {
		result.QueryID = defaults.QueryID
	}

	// Int fields: use default if zero
	if result.MaxIterations == 0 {
		result.MaxIterations = defaults.MaxIterations
	}
	if result.MinDocuments == 0 {
		result.MinDocuments = defaults.MinDocuments
	}
	if result.MaxRetries == 0 {
		result.MaxRetries = defaults.MaxRetries
	}
	if result.WaitSeconds == 0 {
		result.WaitSeconds = defaults.WaitSeconds
	}
	if result.CandidateTarget == 0 {
		result.CandidateTarget = defaults.CandidateTarget
	}
	if result.SlotMinutes == 0 {
		result.SlotMinutes = defaults.SlotMinutes
	}
	if result.SMTPPort == 0 {
		result.SMTPPort = defaults.SMTPPort
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
