// Package job defines the posting model shared by the crawlers, the
// scorer and the drafting flow, plus the JSONL shuttle files that connect
// the CLI stages.
package job

import (
	"bufio"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Job is one crawled posting. Identity is (user, URLHash); everything else
// is display and matching material.
type Job struct {
	Title       string         `json:"title"`
	Company     string         `json:"company"`
	Location    string         `json:"location"`
	URL         string         `json:"url"`
	Description string         `json:"description"`
	Source      string         `json:"source"`
	Remote      *bool          `json:"remote,omitempty"`
	PostedAt    string         `json:"posted_at,omitempty"`
	Extras      map[string]any `json:"extras,omitempty"`
}

// URLHash is the stable dedupe key for upserts: SHA-1 of the trimmed,
// lowercased URL.
func (j *Job) URLHash() string {
	norm := strings.ToLower(strings.TrimSpace(j.URL))
	return fmt.Sprintf("%x", sha1.Sum([]byte(norm)))
}

// Key returns the in-memory dedupe key. Postings without a URL fall back
// to company::title so they still collapse across boards.
func (j *Job) Key() string {
	if u := strings.ToLower(strings.TrimSpace(j.URL)); u != "" {
		return u
	}
	return strings.ToLower(strings.TrimSpace(j.Company)) + "::" + strings.ToLower(strings.TrimSpace(j.Title))
}

// Jobs is an ordered collection of postings.
type Jobs struct {
	Items []*Job
}

// Len returns the number of postings.
func (js *Jobs) Len() int {
	if js == nil {
		return 0
	}
	return len(js.Items)
}

// Append adds postings to the end of the collection.
func (js *Jobs) Append(items ...*Job) {
	js.Items = append(js.Items, items...)
}

// Dedupe drops postings that share a key with an earlier one, preserving
// first-seen order.
func (js *Jobs) Dedupe() {
	seen := make(map[string]struct{}, len(js.Items))
	kept := js.Items[:0]
	for _, j := range js.Items {
		key := j.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, j)
	}
	js.Items = kept
}

// FindByURL returns the first posting with the given URL, or nil.
func (js *Jobs) FindByURL(url string) *Job {
	needle := strings.ToLower(strings.TrimSpace(url))
	for _, j := range js.Items {
		if strings.ToLower(strings.TrimSpace(j.URL)) == needle {
			return j
		}
	}
	return nil
}

// ToJSONL writes one posting per line.
func (js *Jobs) ToJSONL(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	enc := json.NewEncoder(w)
	for _, j := range js.Items {
		if err := enc.Encode(j); err != nil {
			return err
		}
	}
	return w.Flush()
}

// FromJSONLFile loads a collection written by ToJSONL. Blank lines are
// skipped; a malformed line is an error.
func FromJSONLFile(path string) (*Jobs, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	jobs := &Jobs{}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var j Job
		if err := json.Unmarshal([]byte(text), &j); err != nil {
			return nil, fmt.Errorf("parse %s line %d: %w", path, line, err)
		}
		jobs.Items = append(jobs.Items, &j)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

// DumpToTmpFile writes the collection to a temporary JSON file and
// returns its path. Used by the interactive preview action.
func (js *Jobs) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "jobs_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(js); err != nil {
		return "", err
	}
	return file.Name(), nil
}
