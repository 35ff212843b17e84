package publish

import (
	"context"
	"fmt"
	"strings"

	"github.com/jordanmv/recruitflow/internal/llm"
)

// ComposePost condenses the approved job description into a short
// announcement that tells applicants where to apply.
func ComposePost(ctx context.Context, client llm.Client, draft, applyURL string) (string, error) {
	prompt := fmt.Sprintf(`Here is the job description:

%s

Rewrite it as a job announcement of about 100 words and ask applicants to apply on this link: %s
Return only the announcement text, no markdown.`, draft, applyURL)

	post, err := client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		return "", fmt.Errorf("failed to compose announcement: %w", err)
	}
	post = strings.TrimSpace(post)
	if post == "" {
		return "", fmt.Errorf("failed to compose announcement: empty response")
	}
	return post, nil
}
