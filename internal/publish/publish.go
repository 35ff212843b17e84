// Package publish pushes an approved job description to the company's
// LinkedIn page.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Publisher posts an announcement somewhere candidates will see it.
type Publisher interface {
	Publish(ctx context.Context, text string) error
}

// LinkedInConfig holds the session-scoped settings for posting as the
// company page. The CSRF token must match the JSESSIONID carried in Cookie.
type LinkedInConfig struct {
	URL        string
	CSRFToken  string
	Cookie     string
	CompanyURN string
	QueryID    string
}

// LinkedInPublisher posts company-page shares through LinkedIn's internal
// share-creation endpoint.
type LinkedInPublisher struct {
	config     LinkedInConfig
	httpClient *http.Client
}

// NewLinkedInPublisher creates a publisher for the configured company page.
func NewLinkedInPublisher(config LinkedInConfig) (*LinkedInPublisher, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("publish URL is required")
	}
	if config.CompanyURN == "" {
		return nil, fmt.Errorf("company URN is required")
	}
	return &LinkedInPublisher{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// sharePayload mirrors the voyager share-creation request body.
type sharePayload struct {
	Variables          shareVariables `json:"variables"`
	QueryID            string         `json:"queryId"`
	IncludeWebMetadata bool           `json:"includeWebMetadata"`
}

type shareVariables struct {
	Post sharePost `json:"post"`
}

type sharePost struct {
	AllowedCommentersScope      string          `json:"allowedCommentersScope"`
	IntendedShareLifeCycleState string          `json:"intendedShareLifeCycleState"`
	Origin                      string          `json:"origin"`
	VisibilityDataUnion         shareVisibility `json:"visibilityDataUnion"`
	Commentary                  shareCommentary `json:"commentary"`
	NonMemberActorURN           string          `json:"nonMemberActorUrn"`
}

type shareVisibility struct {
	VisibilityType string `json:"visibilityType"`
}

type shareCommentary struct {
	Text string `json:"text"`
}

// Publish posts the text as a public company-page share. Markdown bold
// markers are stripped first because LinkedIn renders them literally.
func (p *LinkedInPublisher) Publish(ctx context.Context, text string) error {
	payload := sharePayload{
		Variables: shareVariables{
			Post: sharePost{
				AllowedCommentersScope:      "ALL",
				IntendedShareLifeCycleState: "PUBLISHED",
				Origin:                      "ORGANIZATION",
				VisibilityDataUnion:         shareVisibility{VisibilityType: "ANYONE"},
				Commentary:                  shareCommentary{Text: CleanText(text)},
				NonMemberActorURN:           p.config.CompanyURN,
			},
		},
		QueryID:            p.config.QueryID,
		IncludeWebMetadata: true,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode share payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create publish request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("Accept", "application/vnd.linkedin.normalized+json+2.1")
	req.Header.Set("X-RestLi-Protocol-Version", "2.0.0")
	if p.config.CSRFToken != "" {
		req.Header.Set("Csrf-Token", p.config.CSRFToken)
	}
	if p.config.Cookie != "" {
		req.Header.Set("Cookie", p.config.Cookie)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to publish post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("publish request failed with status %d", resp.StatusCode)
	}
	return nil
}

// CleanText strips asterisks so markdown emphasis from the draft does not
// show up verbatim in the published post.
func CleanText(text string) string {
	return strings.ReplaceAll(text, "*", "")
}
