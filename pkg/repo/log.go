package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/loupe-vcs/loupe/pkg/object"
)

// LogEntry carries commit metadata with its hash for log output.
type LogEntry struct {
	Hash   object.Hash
	Commit *object.CommitObj
}

// Log walks first-parent history from start and returns up to limit
// commits, newest first. A limit of zero or below means no limit.
func (r *Repo) Log(start object.Hash, limit int) ([]LogEntry, error) {
	if start == "" {
		return nil, nil
	}

	var results []LogEntry
	current := start

	for current != "" {
		if limit > 0 && len(results) >= limit {
			break
		}
		c, err := r.Store.ReadCommit(current)
		if err != nil {
			if errors.Is(err, object.ErrObjectNotFound) && len(results) > 0 {
				// First-parent chain runs into a missing object: report
				// the gap, keep the history collected so far.
				return results, &object.BrokenHistoryError{Parent: current, Err: err}
			}
			return nil, fmt.Errorf("log: read commit %s: %w", current, err)
		}
		results = append(results, LogEntry{Hash: current, Commit: c})

		if len(c.Parents) == 0 {
			break
		}
		current = c.Parents[0]
	}

	return results, nil
}

// HistoryGap records a parent link the walker could not follow.
type HistoryGap struct {
	Parent object.Hash
	Err    error
}

// History walks full commit ancestry from start using the graph walker and
// returns up to limit entries plus any gaps encountered. Gaps do not
// invalidate the entries already collected. A limit of zero or below means
// no limit.
func (r *Repo) History(ctx context.Context, start object.Hash, limit int) ([]object.HistoryEntry, []HistoryGap, error) {
	var (
		entries []object.HistoryEntry
		gaps    []HistoryGap
	)

	w := object.NewWalker(r.Store, start)
	for {
		if limit > 0 && len(entries) >= limit {
			return entries, gaps, nil
		}

		entry, err := w.Next(ctx)
		if err != nil {
			var broken *object.BrokenHistoryError
			if errors.As(err, &broken) {
				gaps = append(gaps, HistoryGap{Parent: broken.Parent, Err: broken.Err})
				continue
			}
			return entries, gaps, err
		}
		if entry == nil {
			return entries, gaps, nil
		}
		entries = append(entries, *entry)
	}
}
