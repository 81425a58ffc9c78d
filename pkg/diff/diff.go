// Package diff computes line-level change counts between commits by
// walking their trees and diffing same-path text blobs.
package diff

import (
	"bytes"
	"fmt"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/loupe-vcs/loupe/pkg/object"
)

// Stats counts lines added and removed between two revisions.
type Stats struct {
	Added   int
	Removed int
}

func (s *Stats) add(other Stats) {
	s.Added += other.Added
	s.Removed += other.Removed
}

// Commits diffs the trees of two commits and returns aggregate line
// counts. Binary-looking blobs are skipped.
func Commits(store *object.Store, before, after *object.CommitObj) (Stats, error) {
	beforeTree, err := store.ReadTree(before.TreeHash)
	if err != nil {
		return Stats{}, fmt.Errorf("diff: read old tree %s: %w", before.TreeHash, err)
	}
	afterTree, err := store.ReadTree(after.TreeHash)
	if err != nil {
		return Stats{}, fmt.Errorf("diff: read new tree %s: %w", after.TreeHash, err)
	}
	return trees(store, beforeTree, afterTree)
}

func trees(store *object.Store, before, after *object.TreeObj) (Stats, error) {
	beforeByName := make(map[string]object.TreeEntry, len(before.Entries))
	for _, e := range before.Entries {
		beforeByName[e.Name] = e
	}
	afterByName := make(map[string]object.TreeEntry, len(after.Entries))
	for _, e := range after.Entries {
		afterByName[e.Name] = e
	}

	var total Stats

	for _, b := range before.Entries {
		a, inAfter := afterByName[b.Name]
		if !inAfter {
			n, err := entryLineCount(store, b)
			if err != nil {
				return Stats{}, err
			}
			total.Removed += n
			continue
		}
		if b.Hash == a.Hash {
			continue
		}
		s, err := entries(store, b, a)
		if err != nil {
			return Stats{}, err
		}
		total.add(s)
	}

	for _, a := range after.Entries {
		if _, inBefore := beforeByName[a.Name]; inBefore {
			continue
		}
		n, err := entryLineCount(store, a)
		if err != nil {
			return Stats{}, err
		}
		total.Added += n
	}

	return total, nil
}

func entries(store *object.Store, before, after object.TreeEntry) (Stats, error) {
	switch {
	case before.IsDir() && after.IsDir():
		beforeTree, err := store.ReadTree(before.Hash)
		if err != nil {
			return Stats{}, fmt.Errorf("diff: read subtree %s: %w", before.Hash, err)
		}
		afterTree, err := store.ReadTree(after.Hash)
		if err != nil {
			return Stats{}, fmt.Errorf("diff: read subtree %s: %w", after.Hash, err)
		}
		return trees(store, beforeTree, afterTree)

	case !before.IsDir() && !after.IsDir():
		beforeData, err := readDiffableBlob(store, before)
		if err != nil {
			return Stats{}, err
		}
		afterData, err := readDiffableBlob(store, after)
		if err != nil {
			return Stats{}, err
		}
		if beforeData == nil || afterData == nil {
			return Stats{}, nil
		}
		return blobs(beforeData, afterData), nil

	default:
		// File replaced by directory or vice versa: count both sides whole.
		removed, err := entryLineCount(store, before)
		if err != nil {
			return Stats{}, err
		}
		added, err := entryLineCount(store, after)
		if err != nil {
			return Stats{}, err
		}
		return Stats{Added: added, Removed: removed}, nil
	}
}

// blobs counts changed lines between two text payloads.
func blobs(before, after []byte) Stats {
	matcher := difflib.NewMatcher(
		difflib.SplitLines(string(before)),
		difflib.SplitLines(string(after)),
	)

	var s Stats
	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'd':
			s.Removed += op.I2 - op.I1
		case 'i':
			s.Added += op.J2 - op.J1
		case 'r':
			s.Removed += op.I2 - op.I1
			s.Added += op.J2 - op.J1
		}
	}
	return s
}

// entryLineCount counts the lines an entry contributes when it exists on
// only one side of the diff.
func entryLineCount(store *object.Store, e object.TreeEntry) (int, error) {
	if e.IsDir() {
		tree, err := store.ReadTree(e.Hash)
		if err != nil {
			return 0, fmt.Errorf("diff: read subtree %s: %w", e.Hash, err)
		}
		total := 0
		for _, sub := range tree.Entries {
			n, err := entryLineCount(store, sub)
			if err != nil {
				return 0, err
			}
			total += n
		}
		return total, nil
	}

	data, err := readDiffableBlob(store, e)
	if err != nil || data == nil {
		return 0, err
	}
	return countLines(data), nil
}

func countLines(data []byte) int {
	n := bytes.Count(data, []byte{'\n'})
	if len(data) > 0 && data[len(data)-1] != '\n' {
		n++
	}
	return n
}

// readDiffableBlob returns blob data for text entries, or nil for entries
// that cannot be line-diffed (gitlinks, binary content).
func readDiffableBlob(store *object.Store, e object.TreeEntry) ([]byte, error) {
	if e.Mode == object.TreeModeGitlink {
		return nil, nil
	}
	blob, err := store.ReadBlob(e.Hash)
	if err != nil {
		return nil, fmt.Errorf("diff: read blob %s (%s): %w", e.Hash, e.Name, err)
	}
	if bytes.IndexByte(blob.Data, 0) >= 0 {
		return nil, nil
	}
	return blob.Data, nil
}
