// Package update asks GitHub whether a newer duprank release exists.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Repo is the GitHub repository releases are published from.
const Repo = "garagon/duprank"

const defaultTimeout = 2 * time.Second

// Result holds the outcome of a version check.
type Result struct {
	Latest  string
	Current string
}

// NeedsUpdate reports whether Latest is a newer release than Current.
// Unparseable versions never need an update.
func (r *Result) NeedsUpdate() bool {
	latest, ok1 := parseVersion(r.Latest)
	current, ok2 := parseVersion(r.Current)
	if !ok1 || !ok2 {
		return false
	}
	for i := range latest {
		if latest[i] != current[i] {
			return latest[i] > current[i]
		}
	}
	return false
}

// Command returns the install command for the latest release.
func (r *Result) Command() string {
	return fmt.Sprintf("go install github.com/%s/cmd/duprank@%s", Repo, r.Latest)
}

// Checker queries the GitHub releases API.
type Checker struct {
	BaseURL string
	Client  *http.Client
}

// NewChecker returns a Checker for api.github.com with a short timeout.
func NewChecker() *Checker {
	return &Checker{
		BaseURL: "https://api.github.com",
		Client:  &http.Client{Timeout: defaultTimeout},
	}
}

// Check fetches the latest release tag and compares it to current.
func (c *Checker) Check(ctx context.Context, current string) (*Result, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", strings.TrimRight(c.BaseURL, "/"), Repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("checking latest release: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("checking latest release: unexpected status %s", resp.Status)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("decoding release: %w", err)
	}
	if release.TagName == "" {
		return nil, fmt.Errorf("latest release has no tag")
	}
	return &Result{Latest: release.TagName, Current: current}, nil
}

// parseVersion reads "v1.2.3" (the "v" and any pre-release suffix are
// optional) into its numeric parts.
func parseVersion(s string) ([3]int, bool) {
	var v [3]int
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	if i := strings.IndexAny(s, "-+"); i >= 0 {
		s = s[:i]
	}
	parts := strings.Split(s, ".")
	if len(parts) == 0 || len(parts) > 3 {
		return v, false
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return v, false
		}
		v[i] = n
	}
	return v, true
}
