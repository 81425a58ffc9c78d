package object

import (
	"context"
	"errors"
)

// Walker produces commit history lazily, starting from a single commit and
// following parent links. Traversal order is breadth-first over an explicit
// frontier queue, enqueuing parents in declaration order, so every commit
// is emitted before its ancestors reachable only through it and merges are
// explored first-parent-first. A visited set guarantees each commit is
// emitted exactly once even when paths converge.
//
// A fresh Walker over the same start hash yields the same sequence.
type Walker struct {
	store    *Store
	frontier []frontierItem
	visited  map[Hash]struct{}
}

type frontierItem struct {
	hash  Hash
	depth int
}

// NewWalker creates a Walker starting at the given commit hash.
func NewWalker(store *Store, start Hash) *Walker {
	w := &Walker{
		store:   store,
		visited: make(map[Hash]struct{}),
	}
	if start != "" {
		w.frontier = append(w.frontier, frontierItem{hash: start})
		w.visited[start] = struct{}{}
	}
	return w
}

// Next returns the next history entry, or (nil, nil) once the frontier is
// exhausted. A missing or unreadable parent yields a *BrokenHistoryError
// for that entry only; subsequent calls continue past the gap, so the
// partial history remains valid.
func (w *Walker) Next(ctx context.Context) (*HistoryEntry, error) {
	for len(w.frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		item := w.frontier[0]
		w.frontier = w.frontier[1:]

		commit, err := w.store.ReadCommit(item.hash)
		if err != nil {
			if item.depth == 0 && errors.Is(err, ErrObjectNotFound) {
				// The start hash itself is unresolvable: not a gap,
				// the caller asked for something that does not exist.
				return nil, err
			}
			return nil, &BrokenHistoryError{Parent: item.hash, Err: err}
		}

		for _, p := range commit.Parents {
			if _, seen := w.visited[p]; seen {
				continue
			}
			w.visited[p] = struct{}{}
			w.frontier = append(w.frontier, frontierItem{hash: p, depth: item.depth + 1})
		}

		return &HistoryEntry{Hash: item.hash, Commit: commit, Depth: item.depth}, nil
	}
	return nil, nil
}
