package repo

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/loupe-vcs/loupe/pkg/object"
)

// ErrNotARepository indicates no .git directory was found between the
// starting path and the filesystem root.
var ErrNotARepository = errors.New("not a git repository")

// Open searches upward from path for a .git directory and opens the
// repository read-only. A .git file (worktree/submodule gitlink) is
// followed to the directory it names.
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		gitDir := filepath.Join(cur, ".git")
		info, err := os.Stat(gitDir)
		if err == nil {
			if !info.IsDir() {
				gitDir, err = resolveGitlink(gitDir)
				if err != nil {
					return nil, err
				}
			}
			algo := detectHashAlgo(gitDir)
			slog.Debug("repository located", "root", cur, "gitdir", gitDir, "algo", algo)
			return &Repo{
				RootDir: cur,
				GitDir:  gitDir,
				Store:   object.NewStore(gitDir, algo),
			}, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open %s: %w (or any parent up to /)", abs, ErrNotARepository)
		}
		cur = parent
	}
}

// resolveGitlink follows a .git file of the form "gitdir: <path>".
func resolveGitlink(gitFile string) (string, error) {
	data, err := os.ReadFile(gitFile)
	if err != nil {
		return "", fmt.Errorf("open: read gitlink: %w", err)
	}
	content := strings.TrimSpace(string(data))
	target, ok := strings.CutPrefix(content, "gitdir: ")
	if !ok {
		return "", fmt.Errorf("open: %s is not a gitlink file", gitFile)
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(gitFile), target)
	}
	return filepath.Clean(target), nil
}

// detectHashAlgo inspects the repository config for the sha256 object
// format extension. The config is INI-shaped; a line scan for the
// objectformat key is enough for a read-only inspector. Default is SHA-1.
func detectHashAlgo(gitDir string) object.HashAlgo {
	data, err := os.ReadFile(filepath.Join(gitDir, "config"))
	if err != nil {
		return object.SHA1
	}
	for _, line := range strings.Split(string(data), "\n") {
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(key), "objectformat") &&
			strings.TrimSpace(val) == "sha256" {
			return object.SHA256
		}
	}
	return object.SHA1
}

// Head reads <gitdir>/HEAD. If the content starts with "ref: ", it returns
// the ref path (e.g., "refs/heads/main"). Otherwise it returns the raw
// content as a detached hash string.
func (r *Repo) Head() (string, error) {
	data, err := os.ReadFile(filepath.Join(r.GitDir, "HEAD"))
	if err != nil {
		return "", fmt.Errorf("head: %w", err)
	}
	content := strings.TrimRight(string(data), "\n")

	if strings.HasPrefix(content, "ref: ") {
		return strings.TrimPrefix(content, "ref: "), nil
	}
	return content, nil
}
