package collection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// documentExtensions are the file types counted as application documents.
var documentExtensions = map[string]bool{
	".pdf":  true,
	".txt":  true,
	".md":   true,
	".html": true,
	".htm":  true,
}

// StorageFetcher downloads application documents from an object-storage
// bucket into a local working directory. Files already present locally are
// not downloaded again, so repeated invocations are idempotent.
type StorageFetcher struct {
	BaseURL    string // storage service root, e.g. https://project.supabase.co
	APIKey     string
	Bucket     string
	Dir        string // local working area
	HTTPClient *http.Client
}

// NewStorageFetcher creates a fetcher with a sane default HTTP timeout.
func NewStorageFetcher(baseURL, apiKey, bucket, dir string) *StorageFetcher {
	return &StorageFetcher{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		Bucket:     bucket,
		Dir:        dir,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type listEntry struct {
	Name     string          `json:"name"`
	Metadata json.RawMessage `json:"metadata"`
}

// FetchNew lists the bucket, downloads any file not yet in the working
// directory, and returns every document available locally.
func (f *StorageFetcher) FetchNew(ctx context.Context) (int, []string, error) {
	entries, err := f.list(ctx)
	if err != nil {
		return 0, nil, err
	}

	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return 0, nil, fmt.Errorf("failed to create working dir: %w", err)
	}

	for _, entry := range entries {
		// Entries without metadata are folders; placeholder objects mark
		// empty folders in the bucket.
		if len(entry.Metadata) == 0 || string(entry.Metadata) == "null" {
			continue
		}
		if entry.Name == ".emptyFolderPlaceholder" {
			continue
		}
		if !documentExtensions[strings.ToLower(filepath.Ext(entry.Name))] {
			continue
		}

		localPath := filepath.Join(f.Dir, filepath.Base(entry.Name))
		if _, err := os.Stat(localPath); err == nil {
			continue // already fetched
		}
		if err := f.download(ctx, entry.Name, localPath); err != nil {
			return 0, nil, err
		}
	}

	paths, err := f.localDocuments()
	if err != nil {
		return 0, nil, err
	}
	return len(paths), paths, nil
}

// list returns the bucket contents.
func (f *StorageFetcher) list(ctx context.Context) ([]listEntry, error) {
	url := fmt.Sprintf("%s/storage/v1/object/list/%s", f.BaseURL, f.Bucket)
	body, err := json.Marshal(map[string]any{
		"prefix": "",
		"limit":  1000,
		"offset": 0,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build list request: %w", err)
	}
	f.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list bucket %s: %w", f.Bucket, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list bucket %s: unexpected status %d", f.Bucket, resp.StatusCode)
	}

	var entries []listEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode bucket listing: %w", err)
	}
	return entries, nil
}

// download streams one object to disk.
func (f *StorageFetcher) download(ctx context.Context, objectPath, localPath string) error {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", f.BaseURL, f.Bucket, objectPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build download request: %w", err)
	}
	f.authorize(req)

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", objectPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %d", objectPath, resp.StatusCode)
	}

	out, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", localPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(localPath)
		return fmt.Errorf("failed to write %s: %w", localPath, err)
	}
	return nil
}

// localDocuments returns the documents currently in the working area,
// sorted for stable downstream ordering.
func (f *StorageFetcher) localDocuments() ([]string, error) {
	entries, err := os.ReadDir(f.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read working dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if documentExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			paths = append(paths, filepath.Join(f.Dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func (f *StorageFetcher) authorize(req *http.Request) {
	req.Header.Set("apikey", f.APIKey)
	req.Header.Set("Authorization", "Bearer "+f.APIKey)
}
