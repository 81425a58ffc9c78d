package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/spf13/cobra"

	"github.com/loupe-vcs/loupe/pkg/object"
)

const fixtureTree = object.Hash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

// initFixtureRepo creates a minimal .git layout and points the package
// repoPath flag variable at it for the duration of the test.
func initFixtureRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	gitDir := filepath.Join(dir, ".git")
	for _, d := range []string{
		filepath.Join(gitDir, "objects"),
		filepath.Join(gitDir, "refs", "heads"),
	} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
	}
	if err := os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte("ref: refs/heads/main\n"), 0o644); err != nil {
		t.Fatalf("write HEAD: %v", err)
	}

	prev := repoPath
	repoPath = dir
	t.Cleanup(func() { repoPath = prev })
	return dir
}

func storeLoose(t *testing.T, root string, objType object.ObjectType, payload []byte) object.Hash {
	t.Helper()

	h := object.HashObject(object.SHA1, objType, payload)
	raw := append([]byte(fmt.Sprintf("%s %d\x00", objType, len(payload))), payload...)

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		t.Fatalf("zlib write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zlib close: %v", err)
	}

	objDir := filepath.Join(root, ".git", "objects", string(h[:2]))
	if err := os.MkdirAll(objDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(objDir, string(h[2:])), buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write object: %v", err)
	}
	return h
}

func storeCommit(t *testing.T, root string, tree object.Hash, parents []object.Hash, message string) object.Hash {
	t.Helper()
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", tree)
	for _, p := range parents {
		fmt.Fprintf(&buf, "parent %s\n", p)
	}
	fmt.Fprintf(&buf, "author A U Thor <author@example.com> 1700000000 +0000\n")
	fmt.Fprintf(&buf, "committer A U Thor <author@example.com> 1700000000 +0000\n")
	buf.WriteByte('\n')
	buf.WriteString(message)
	return storeLoose(t, root, object.TypeCommit, buf.Bytes())
}

// writeRef writes a loose ref file relative to the .git directory.
func writeRef(root, name string, h object.Hash) error {
	path := filepath.Join(root, ".git", filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(string(h)+"\n"), 0o644)
}

func setHead(t *testing.T, root string, h object.Hash) {
	t.Helper()
	refPath := filepath.Join(root, ".git", "refs", "heads", "main")
	if err := os.WriteFile(refPath, []byte(string(h)+"\n"), 0o644); err != nil {
		t.Fatalf("write ref: %v", err)
	}
}

// runCmd executes a command with args and returns its combined output.
func runCmd(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
