package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/loupe-vcs/loupe/pkg/object"
)

// ResolveRef resolves a ref name to an object hash.
//
// Resolution order:
//  1. If name is "HEAD", read HEAD. If HEAD is symbolic, resolve the target ref.
//  2. If name is already a full hex hash, return it as-is.
//  3. If name starts with "refs/", read <gitdir>/<name>, falling back to
//     the packed-refs file.
//  4. Otherwise try "refs/heads/<name>" then "refs/tags/<name>".
func (r *Repo) ResolveRef(name string) (object.Hash, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("resolve ref: empty name")
	}

	if name == "HEAD" {
		head, err := r.Head()
		if err != nil {
			return "", err
		}
		if strings.HasPrefix(head, "refs/") {
			return r.ResolveRef(head)
		}
		// Detached HEAD: the value is a hash.
		return object.Hash(head), nil
	}

	if object.ValidHash(name) {
		return object.Hash(name), nil
	}

	candidates := []string{name}
	if !strings.HasPrefix(name, "refs/") {
		candidates = []string{"refs/heads/" + name, "refs/tags/" + name}
	}

	for _, ref := range candidates {
		data, err := os.ReadFile(filepath.Join(r.GitDir, filepath.FromSlash(ref)))
		if err == nil {
			content := strings.TrimSpace(string(data))
			// Symbolic refs can nest (e.g. refs/remotes/origin/HEAD).
			if target, ok := strings.CutPrefix(content, "ref: "); ok {
				return r.ResolveRef(target)
			}
			return object.Hash(content), nil
		}
		if h, ok := r.packedRef(ref); ok {
			return h, nil
		}
	}

	return "", fmt.Errorf("resolve ref %q: no matching ref", name)
}

// packedRef scans the packed-refs file for an exact ref name.
func (r *Repo) packedRef(name string) (object.Hash, bool) {
	data, err := os.ReadFile(filepath.Join(r.GitDir, "packed-refs"))
	if err != nil {
		return "", false
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		// Comments and peeled-tag annotations.
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "^") {
			continue
		}
		hashStr, ref, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		if ref == name && object.ValidHash(hashStr) {
			return object.Hash(hashStr), true
		}
	}
	return "", false
}

// ListRefs lists references under <gitdir>/refs, merged with packed-refs.
// Names are returned relative to the gitdir, e.g. "refs/heads/main".
// Loose refs win over packed ones of the same name.
func (r *Repo) ListRefs(prefix string) (map[string]object.Hash, error) {
	refs := make(map[string]object.Hash)

	// Packed refs first so loose entries overwrite them.
	if data, err := os.ReadFile(filepath.Join(r.GitDir, "packed-refs")); err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "^") {
				continue
			}
			hashStr, ref, ok := strings.Cut(line, " ")
			if !ok || !object.ValidHash(hashStr) {
				continue
			}
			refs[ref] = object.Hash(hashStr)
		}
	}

	root := filepath.Join(r.GitDir, "refs")
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(r.GitDir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		refs[filepath.ToSlash(rel)] = object.Hash(strings.TrimSpace(string(data)))
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("list refs: %w", err)
	}

	if prefix != "" {
		for ref := range refs {
			if !strings.HasPrefix(ref, prefix) {
				delete(refs, ref)
			}
		}
	}
	return refs, nil
}
