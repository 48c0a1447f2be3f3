// Package columns decides which table columns hold the location and region
// values that the consistency validator compares.
package columns

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/sheetcheck/internal/table"
)

// ErrUnresolved means a resolver could not name both columns.
var ErrUnresolved = errors.New("location/region columns could not be identified")

// Names identifies the two columns. The names are not guaranteed to exist
// in the table; callers validate them against the header.
type Names struct {
	Location string `json:"location_column"`
	Region   string `json:"regional_column"`
}

// Resolver names the location and region columns of a table.
type Resolver interface {
	Resolve(ctx context.Context, t *table.Table) (Names, error)
}

// Static always returns the configured names.
type Static Names

// Resolve implements Resolver.
func (s Static) Resolve(context.Context, *table.Table) (Names, error) {
	if s.Location == "" || s.Region == "" {
		return Names{}, ErrUnresolved
	}
	return Names(s), nil
}

// Chain tries each resolver in order and returns the first success.
type Chain []Resolver

// Resolve implements Resolver.
func (c Chain) Resolve(ctx context.Context, t *table.Table) (Names, error) {
	var errs []error
	for _, r := range c {
		names, err := r.Resolve(ctx, t)
		if err == nil {
			return names, nil
		}
		if ctx.Err() != nil {
			return Names{}, ctx.Err()
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return Names{}, ErrUnresolved
	}
	return Names{}, fmt.Errorf("%w: %w", ErrUnresolved, errors.Join(errs...))
}

var (
	locationHints = []string{"location", "country", "countries", "site", "office"}
	regionHints   = []string{"region", "regional", "geo", "territory", "theater", "theatre"}
)

// Header matches column names against keyword lists.
type Header struct{}

// Resolve implements Resolver.
func (Header) Resolve(_ context.Context, t *table.Table) (Names, error) {
	region := firstMatch(t.Columns, regionHints, "")
	location := firstMatch(t.Columns, locationHints, region)
	if location == "" || region == "" {
		return Names{}, ErrUnresolved
	}
	return Names{Location: location, Region: region}, nil
}

// firstMatch returns the first header containing any hint, skipping exclude.
// Hints are tried in order so the most specific keyword wins.
func firstMatch(headers, hints []string, exclude string) string {
	for _, hint := range hints {
		for _, h := range headers {
			if h == exclude {
				continue
			}
			if strings.Contains(strings.ToLower(h), hint) {
				return h
			}
		}
	}
	return ""
}

// Resolver modes accepted by Build.
const (
	ModeHeader = "header"
	ModeChat   = "chat"
	ModeNone   = "none"
)

// Build assembles the resolver for a mode. Fixed names, when both are set,
// are tried first. The chat mode falls back to header matching. A nil
// Resolver means columns must be named per request.
func Build(mode string, fixed Names, chat ChatConfig) (Resolver, error) {
	var chain Chain
	if fixed.Location != "" && fixed.Region != "" {
		chain = append(chain, Static(fixed))
	}

	switch mode {
	case ModeHeader, "":
		chain = append(chain, Header{})
	case ModeChat:
		chain = append(chain, NewChat(chat), Header{})
	case ModeNone:
	default:
		return nil, fmt.Errorf("unknown column resolver %q", mode)
	}

	switch len(chain) {
	case 0:
		return nil, nil
	case 1:
		return chain[0], nil
	default:
		return chain, nil
	}
}
