package trace

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/viant/afs"
)

// APIEntry is one configured endpoint pattern. The name may contain {int}
// and {str} placeholders matching a path segment of digits or alphanumerics.
type APIEntry struct {
	Name   string `json:"name"`
	Weight int    `json:"weight"`
}

type apiMatcher struct {
	APIEntry
	pattern *regexp.Regexp
}

// APIConfig matches observed endpoint names against configured patterns and
// supplies the normalized name and weight for matching entry spans.
type APIConfig struct {
	matchers []apiMatcher
}

var placeholderClasses = map[string]string{
	"{int}": `\d+`,
	"{str}": `[a-zA-Z0-9]+`,
}

// NewAPIConfig compiles the configured entries. Placeholders expand to
// character classes; everything else matches literally.
func NewAPIConfig(entries []APIEntry) (*APIConfig, error) {
	config := &APIConfig{}
	for _, entry := range entries {
		expr := regexp.QuoteMeta(entry.Name)
		for placeholder, class := range placeholderClasses {
			expr = strings.ReplaceAll(expr, regexp.QuoteMeta(placeholder), class)
		}
		pattern, err := regexp.Compile("^" + expr + "$")
		if err != nil {
			return nil, fmt.Errorf("failed to compile api pattern %q: %w", entry.Name, err)
		}
		config.matchers = append(config.matchers, apiMatcher{APIEntry: entry, pattern: pattern})
	}
	return config, nil
}

// ParseAPIConfig decodes the JSON list of {name, weight} entries and
// compiles it.
func ParseAPIConfig(data []byte) (*APIConfig, error) {
	var entries []APIEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode api config: %w", err)
	}
	return NewAPIConfig(entries)
}

// LoadAPIConfig reads and compiles an API config from a file URL.
func LoadAPIConfig(ctx context.Context, URL string) (*APIConfig, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load api config from %s: %w", URL, err)
	}
	return ParseAPIConfig(data)
}

// Match returns the first configured entry whose name equals or whose
// pattern fully matches the endpoint name.
func (c *APIConfig) Match(endpoint string) (APIEntry, bool) {
	if c == nil {
		return APIEntry{}, false
	}
	for _, matcher := range c.matchers {
		if matcher.Name == endpoint || matcher.pattern.MatchString(endpoint) {
			return matcher.APIEntry, true
		}
	}
	return APIEntry{}, false
}
