package devices

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

var (
	ErrNoMatch   = errors.New("no matching device")
	ErrAmbiguous = errors.New("ambiguous device name")
)

// AmbiguousError lists the devices a query could refer to.
type AmbiguousError struct {
	Query      string
	Candidates []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%s %q: could be %s", ErrAmbiguous, e.Query, strings.Join(e.Candidates, ", "))
}

func (e *AmbiguousError) Is(target error) bool {
	return target == ErrAmbiguous
}

// Match resolves a user-typed device name. An exact name or ID wins, then a
// unique prefix, then the single closest fuzzy match.
func (s Snapshot) Match(query string) (Device, error) {
	query = strings.TrimSuffix(strings.TrimSpace(query), ":")
	if query == "" {
		return Device{}, ErrNoMatch
	}
	if d, ok := s.Find(query); ok {
		return d, nil
	}

	lower := strings.ToLower(query)
	var prefixed []Device
	for _, d := range s.Devices {
		if strings.HasPrefix(strings.ToLower(d.Name), lower) {
			prefixed = append(prefixed, d)
		}
	}
	switch len(prefixed) {
	case 0:
	case 1:
		return prefixed[0], nil
	default:
		return Device{}, ambiguous(query, prefixed)
	}

	names := make([]string, len(s.Devices))
	for i, d := range s.Devices {
		names[i] = d.Name
	}
	ranks := fuzzy.RankFindNormalizedFold(query, names)
	if len(ranks) == 0 {
		return Device{}, fmt.Errorf("%w: %q", ErrNoMatch, query)
	}
	sort.Stable(ranks)
	if len(ranks) > 1 && ranks[0].Distance == ranks[1].Distance {
		tied := make([]Device, 0, len(ranks))
		for _, r := range ranks {
			if r.Distance == ranks[0].Distance {
				tied = append(tied, s.Devices[r.OriginalIndex])
			}
		}
		return Device{}, ambiguous(query, tied)
	}
	return s.Devices[ranks[0].OriginalIndex], nil
}

func ambiguous(query string, list []Device) error {
	names := make([]string, len(list))
	for i, d := range list {
		names[i] = d.Name
	}
	return &AmbiguousError{Query: query, Candidates: names}
}
