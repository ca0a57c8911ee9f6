package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

const (
	recentNamespace = "recent_searches"
	// RecentLimit is how many searches are remembered per user.
	RecentLimit = 5
)

// RecentSearches remembers the last distinct search terms of each user, newest first.
type RecentSearches struct {
	store Store
	limit int
}

// NewRecentSearches creates a recent-search list on top of store.
func NewRecentSearches(store Store) *RecentSearches {
	return &RecentSearches{store: store, limit: RecentLimit}
}

// List returns the remembered terms for owner, newest first.
func (r *RecentSearches) List(ctx context.Context, owner string) ([]string, error) {
	raw, err := r.store.Get(ctx, recentNamespace, owner)
	if errors.Is(err, ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	var terms []string
	if err := json.Unmarshal([]byte(raw), &terms); err != nil {
		// A corrupt entry is treated like an empty history.
		return []string{}, nil
	}
	return terms, nil
}

// Add moves term to the front, removing an earlier case-insensitive duplicate and trimming the
// list to the limit. Blank terms are ignored.
func (r *RecentSearches) Add(ctx context.Context, owner, term string) ([]string, error) {
	term = strings.TrimSpace(term)
	current, err := r.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	if term == "" {
		return current, nil
	}

	next := make([]string, 0, r.limit)
	next = append(next, term)
	for _, t := range current {
		if strings.EqualFold(t, term) {
			continue
		}
		if len(next) == r.limit {
			break
		}
		next = append(next, t)
	}

	raw, err := json.Marshal(next)
	if err != nil {
		return nil, err
	}
	if err := r.store.Set(ctx, recentNamespace, owner, string(raw), 0); err != nil {
		return nil, err
	}
	return next, nil
}

// Clear forgets owner's history.
func (r *RecentSearches) Clear(ctx context.Context, owner string) error {
	return r.store.Delete(ctx, recentNamespace, owner)
}
