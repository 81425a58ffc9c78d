package object

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zlib"
)

// writeLoose compresses "type len\0payload" into the fan-out layout under
// root and returns the object's hash.
func writeLoose(t *testing.T, root string, algo HashAlgo, objType ObjectType, payload []byte) Hash {
	t.Helper()

	h := HashObject(algo, objType, payload)

	envelope := fmt.Sprintf("%s %d\x00", objType, len(payload))
	raw := append([]byte(envelope), payload...)

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		t.Fatalf("zlib write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zlib close: %v", err)
	}

	dir := filepath.Join(root, "objects", string(h[:2]))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, string(h[2:])), buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write object: %v", err)
	}
	return h
}

// writeLooseRaw stores pre-decompressed bytes verbatim (no envelope fixup)
// at the path the given hash maps to, for corruption scenarios.
func writeLooseRaw(t *testing.T, root string, h Hash, decompressed []byte, compress bool) {
	t.Helper()

	data := decompressed
	if compress {
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		if _, err := zw.Write(decompressed); err != nil {
			t.Fatalf("zlib write: %v", err)
		}
		if err := zw.Close(); err != nil {
			t.Fatalf("zlib close: %v", err)
		}
		data = buf.Bytes()
	}

	dir := filepath.Join(root, "objects", string(h[:2]))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, string(h[2:])), data, 0o644); err != nil {
		t.Fatalf("write object: %v", err)
	}
}

const testIdent = "A U Thor <author@example.com> 1700000000 +0000"

// commitPayload builds a commit payload in wire format.
func commitPayload(tree Hash, parents []Hash, message string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", tree)
	for _, p := range parents {
		fmt.Fprintf(&buf, "parent %s\n", p)
	}
	fmt.Fprintf(&buf, "author %s\n", testIdent)
	fmt.Fprintf(&buf, "committer %s\n", testIdent)
	buf.WriteByte('\n')
	buf.WriteString(message)
	return buf.Bytes()
}

// writeCommit stores a commit with the given parents and returns its hash.
func writeCommit(t *testing.T, root string, algo HashAlgo, tree Hash, parents []Hash, message string) Hash {
	t.Helper()
	return writeLoose(t, root, algo, TypeCommit, commitPayload(tree, parents, message))
}

// fakeTreeHash is a syntactically valid SHA-1 hash that never resolves.
const fakeTreeHash = Hash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
