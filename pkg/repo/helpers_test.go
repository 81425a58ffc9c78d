package repo

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zlib"

	"github.com/loupe-vcs/loupe/pkg/object"
)

const fixtureTree = object.Hash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

// initFixtureRepo creates a minimal .git layout under a temp dir and
// returns the work tree root.
func initFixtureRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	gitDir := filepath.Join(dir, ".git")
	for _, d := range []string{
		filepath.Join(gitDir, "objects"),
		filepath.Join(gitDir, "refs", "heads"),
		filepath.Join(gitDir, "refs", "tags"),
	} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
	}
	writeFixtureFile(t, filepath.Join(gitDir, "HEAD"), "ref: refs/heads/main\n")
	return dir
}

func writeFixtureFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// storeLoose compresses a loose object into the repo's object store.
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
		t.Fatalf("mkdir %s: %v", objDir, err)
	}
	if err := os.WriteFile(filepath.Join(objDir, string(h[2:])), buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write object: %v", err)
	}
	return h
}

// storeCommit writes a commit object and returns its hash.
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

// setBranch points refs/heads/<name> at a hash.
func setBranch(t *testing.T, root, name string, h object.Hash) {
	t.Helper()
	writeFixtureFile(t, filepath.Join(root, ".git", "refs", "heads", name), string(h)+"\n")
}
