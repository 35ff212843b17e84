package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanmv/recruitflow/internal/collection"
	"github.com/jordanmv/recruitflow/internal/ingestion"
	"github.com/jordanmv/recruitflow/internal/llm"
	"github.com/jordanmv/recruitflow/internal/mail"
	"github.com/jordanmv/recruitflow/internal/schedule"
	"github.com/jordanmv/recruitflow/internal/store"
	"github.com/jordanmv/recruitflow/internal/types"
)

// fakeClient answers every LLM call with canned output. Embeddings come from
// a per-text map so tests control the ranking.
type fakeClient struct {
	vectors map[string][]float32
}

func (f *fakeClient) GenerateContent(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return "We are hiring a Data Analyst at Company-A.", nil
}

func (f *fakeClient) GenerateJSON(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return `{"verdict": "approved", "feedback": "looks good"}`, nil
}

func (f *fakeClient) Embed(_ context.Context, text string) ([]float32, error) {
	if vec, ok := f.vectors[text]; ok {
		return vec, nil
	}
	return []float32{1, 0, 0}, nil
}

func (f *fakeClient) GetModel(_ llm.ModelTier) string { return "fake" }
func (f *fakeClient) Close() error                    { return nil }

// pathFetcher serves a fixed set of already-downloaded documents.
type pathFetcher struct {
	paths   []string
	entered chan struct{} // optional: signals FetchNew was reached
	block   chan struct{} // optional: FetchNew waits until closed
}

func (f *pathFetcher) FetchNew(ctx context.Context) (int, []string, error) {
	if f.entered != nil {
		select {
		case f.entered <- struct{}{}:
		default:
		}
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return 0, nil, ctx.Err()
		}
	}
	return len(f.paths), f.paths, nil
}

// mapExtractor returns canned profiles keyed by document basename.
type mapExtractor struct {
	profiles map[string]*types.CandidateProfile
}

func (e *mapExtractor) Extract(_ context.Context, path string, _ []byte) (*types.CandidateProfile, error) {
	p, ok := e.profiles[filepath.Base(path)]
	if !ok {
		return nil, errors.New("no profile for " + path)
	}
	dup := *p
	return &dup, nil
}

// countingPublisher records posts and can fail.
type countingPublisher struct {
	posts []string
	err   error
}

func (p *countingPublisher) Publish(_ context.Context, text string) error {
	if p.err != nil {
		return p.err
	}
	p.posts = append(p.posts, text)
	return nil
}

// recordingMailer captures sent messages.
type recordingMailer struct {
	sent []mail.Message
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

func writeDocs(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("resume"), 0o644))
		paths = append(paths, path)
	}
	return paths
}

func testDeps(t *testing.T, paths []string) (Deps, *countingPublisher, *recordingMailer) {
	t.Helper()
	client := &fakeClient{vectors: map[string][]float32{
		"ada full text":  {1, 0, 0},
		"brin full text": {0.9, 0.1, 0},
		"cody full text": {0, 1, 0},
	}}
	publisher := &countingPublisher{}
	mailer := &recordingMailer{}
	deps := Deps{
		Client:  client,
		Fetcher: &pathFetcher{paths: paths},
		Extractor: &mapExtractor{profiles: map[string]*types.CandidateProfile{
			"ada.txt":  {Name: "Ada", Email: "ada@example.com", Summary: "s", FullText: "ada full text"},
			"brin.txt": {Name: "Brin", Email: "brin@example.com", Summary: "s", FullText: "brin full text"},
			"cody.txt": {Name: "Cody", Email: "cody@example.com", Summary: "s", FullText: "cody full text"},
		}},
		Candidates: store.NewMemory(),
		Publisher:  publisher,
		Notifier:   schedule.NewNotifier(client, mailer, 0),
	}
	return deps, publisher, mailer
}

func baseOptions() RunOptions {
	return RunOptions{
		Topic:           "Data Analyst at Company-A",
		ApplyURL:        "https://apply.example.com",
		MaxIterations:   3,
		MinDocuments:    3,
		MaxRetries:      2,
		CandidateTarget: 2,
		InterviewStart:  time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
		SlotDuration:    30 * time.Minute,
	}
}

func TestRunFullRound(t *testing.T) {
	paths := writeDocs(t, "ada.txt", "brin.txt", "cody.txt")
	deps, publisher, mailer := testDeps(t, paths)
	c := NewController(deps)

	result, err := c.Run(context.Background(), baseOptions())
	require.NoError(t, err)

	require.NotNil(t, result.Draft)
	assert.Equal(t, types.VerdictApproved, result.Draft.Verdict)

	require.Len(t, publisher.posts, 1)

	require.NotNil(t, result.Collection)
	assert.Equal(t, collection.OutcomeEnough, result.Collection.Outcome)

	require.NotNil(t, result.Ingestion)
	assert.Equal(t, 3, result.Ingestion.Inserted)

	// The draft embeds as {1,0,0}; Ada and Brin are closest.
	require.Len(t, result.Selected, 2)
	assert.Equal(t, "ada@example.com", result.Selected[0].Email)
	assert.Equal(t, "brin@example.com", result.Selected[1].Email)

	require.NotNil(t, result.Dispatch)
	assert.Equal(t, 2, result.Dispatch.Sent)
	require.Len(t, mailer.sent, 2)

	// The run snapshot mirrors what each stage produced.
	require.NotNil(t, result.Run)
	assert.Equal(t, "Data Analyst at Company-A", result.Run.Topic)
	assert.Equal(t, result.Draft.Draft, result.Run.Draft)
	assert.Equal(t, types.VerdictApproved, result.Run.Verdict)
	assert.Equal(t, 3, result.Run.DocumentsFound)
	assert.Equal(t, result.Selected, result.Run.SelectedCandidates)
	assert.Equal(t, "2026-03-10", result.Run.InterviewDate)
	assert.Equal(t, "10:00", result.Run.InterviewTime)
	assert.Equal(t, 30, result.Run.SlotMinutes)
	assert.Equal(t, "sent", result.Run.NotificationStatus)
}

func TestRunWithNoCandidatesSucceeds(t *testing.T) {
	deps, _, mailer := testDeps(t, nil)
	c := NewController(deps)

	opts := baseOptions()
	opts.MinDocuments = 5
	opts.MaxRetries = 0

	result, err := c.Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, collection.OutcomeStopChecking, result.Collection.Outcome)
	assert.Empty(t, result.Selected)
	assert.Nil(t, result.Dispatch)
	assert.Empty(t, mailer.sent)

	require.NotNil(t, result.Run)
	assert.Equal(t, "skipped", result.Run.NotificationStatus)
	assert.Empty(t, result.Run.SelectedCandidates)
}

func TestRunRejectsConcurrentRuns(t *testing.T) {
	paths := writeDocs(t, "ada.txt")
	deps, _, _ := testDeps(t, paths)
	block := make(chan struct{})
	entered := make(chan struct{}, 1)
	deps.Fetcher = &pathFetcher{paths: paths, entered: entered, block: block}
	c := NewController(deps)

	opts := baseOptions()
	opts.MinDocuments = 1

	done := make(chan error, 1)
	go func() {
		_, err := c.Run(context.Background(), opts)
		done <- err
	}()

	// The first run holds the lock once it reaches the blocked fetch.
	<-entered
	_, err := c.Run(context.Background(), opts)
	assert.ErrorIs(t, err, ErrRunInProgress)

	close(block)
	require.NoError(t, <-done)
}

func TestRunValidatesOptions(t *testing.T) {
	deps, _, _ := testDeps(t, nil)
	c := NewController(deps)

	_, err := c.Run(context.Background(), RunOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "topic is required")
}

func TestRunPublishFailureIsNotFatal(t *testing.T) {
	paths := writeDocs(t, "ada.txt", "brin.txt", "cody.txt")
	deps, publisher, _ := testDeps(t, paths)
	publisher.err = errors.New("endpoint returned 403")
	c := NewController(deps)

	result, err := c.Run(context.Background(), baseOptions())
	require.NoError(t, err)
	assert.Len(t, result.Selected, 2)
}

func TestRunWithoutPublisherOrNotifier(t *testing.T) {
	paths := writeDocs(t, "ada.txt", "brin.txt", "cody.txt")
	deps, _, _ := testDeps(t, paths)
	deps.Publisher = nil
	deps.Notifier = nil
	c := NewController(deps)

	result, err := c.Run(context.Background(), baseOptions())
	require.NoError(t, err)
	assert.Len(t, result.Selected, 2)
	assert.Nil(t, result.Dispatch)
}

func TestRunResetsStoreEachRound(t *testing.T) {
	paths := writeDocs(t, "ada.txt", "brin.txt", "cody.txt")
	deps, _, _ := testDeps(t, paths)
	c := NewController(deps)

	_, err := c.Run(context.Background(), baseOptions())
	require.NoError(t, err)

	// A second round re-ingests the same documents without duplicate skips,
	// because the store starts clean.
	result, err := c.Run(context.Background(), baseOptions())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Ingestion.Inserted)
	assert.Equal(t, 0, result.Ingestion.Duplicates)
}

func TestRunOffersValidation(t *testing.T) {
	deps := OfferDeps{Mailer: &recordingMailer{}, Offers: store.NewMemory()}

	_, err := RunOffers(context.Background(), deps, OfferOptions{})
	require.Error(t, err)

	_, err = RunOffers(context.Background(), deps, OfferOptions{
		Candidates: []types.CandidateRef{{Name: "Ada", Email: "ada@example.com"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "role is required")
}

func TestRunOffersHappyPath(t *testing.T) {
	mailer := &recordingMailer{}
	offers := store.NewMemory()
	deps := OfferDeps{Mailer: mailer, Offers: offers}

	report, err := RunOffers(context.Background(), deps, OfferOptions{
		Candidates: []types.CandidateRef{
			{Name: "Ada", Email: "ada@example.com"},
			{Name: "Brin", Email: "brin@example.com"},
		},
		Role:    "Data Analyst",
		Salary:  "8 LPA",
		Company: "Company-A",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Sent)
	require.Len(t, mailer.sent, 2)
	assert.Contains(t, mailer.sent[0].Subject, "Offer Letter")

	records, err := offers.ListOffers(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

// Compile-time interface checks for the fakes.
var (
	_ llm.Client          = (*fakeClient)(nil)
	_ collection.Fetcher  = (*pathFetcher)(nil)
	_ ingestion.Extractor = (*mapExtractor)(nil)
	_ mail.Mailer         = (*recordingMailer)(nil)
)
