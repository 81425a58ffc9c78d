package object

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zlib"
)

// Store is a read-only, content-addressed loose-object store with a
// 2-character fan-out directory layout: objects/ab/cdef0123...
//
// Loose objects are zlib streams whose decompressed form is
// "type len\0content". Packfiles are not consulted.
type Store struct {
	root string
	algo HashAlgo
}

// NewStore opens a Store over the objects/ subdirectory of root
// (typically a .git directory).
func NewStore(root string, algo HashAlgo) *Store {
	return &Store{root: root, algo: algo}
}

// Algo returns the hash algorithm the store was opened with.
func (s *Store) Algo() HashAlgo { return s.algo }

// objectPath returns the filesystem path for a given hash.
func (s *Store) objectPath(h Hash) string {
	return filepath.Join(s.root, "objects", string(h[:2]), string(h[2:]))
}

// Has reports whether the store contains a loose object with the given hash.
func (s *Store) Has(h Hash) bool {
	if !ValidHash(string(h)) {
		return false
	}
	_, err := os.Stat(s.objectPath(h))
	return err == nil
}

// Read retrieves an object by hash, returning its declared type and
// decompressed payload. It returns ErrObjectNotFound (wrapped with the id)
// when no file exists for the hash, and *CorruptObjectError when the zlib
// stream is unreadable or the envelope disagrees with the payload.
func (s *Store) Read(h Hash) (ObjectType, []byte, error) {
	if !ValidHash(string(h)) {
		return "", nil, fmt.Errorf("object %q: invalid hash", h)
	}

	compressed, err := os.ReadFile(s.objectPath(h))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("object %s: %w", h, ErrObjectNotFound)
		}
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}

	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return "", nil, &CorruptObjectError{Hash: h, Reason: "bad zlib stream", Err: err}
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return "", nil, &CorruptObjectError{Hash: h, Reason: "truncated zlib stream", Err: err}
	}

	objType, content, err := splitEnvelope(h, raw)
	if err != nil {
		return "", nil, err
	}

	slog.Debug("loose object read", "hash", h.Short(), "type", objType, "size", len(content))
	return objType, content, nil
}

// splitEnvelope parses the decompressed form "type len\0content" and
// verifies the declared length against the actual payload.
func splitEnvelope(h Hash, raw []byte) (ObjectType, []byte, error) {
	nulIdx := bytes.IndexByte(raw, 0)
	if nulIdx < 0 {
		return "", nil, &CorruptObjectError{Hash: h, Reason: "invalid envelope (no NUL)"}
	}
	header := string(raw[:nulIdx])
	content := raw[nulIdx+1:]

	typeStr, lenStr, ok := strings.Cut(header, " ")
	if !ok {
		return "", nil, &CorruptObjectError{Hash: h, Reason: fmt.Sprintf("invalid header %q", header)}
	}

	var objType ObjectType
	switch ObjectType(typeStr) {
	case TypeBlob, TypeTree, TypeCommit, TypeTag:
		objType = ObjectType(typeStr)
	default:
		return "", nil, &CorruptObjectError{Hash: h, Reason: fmt.Sprintf("unknown object type %q", typeStr)}
	}

	length, err := strconv.Atoi(lenStr)
	if err != nil || length < 0 {
		return "", nil, &CorruptObjectError{Hash: h, Reason: fmt.Sprintf("invalid length %q", lenStr)}
	}
	if len(content) != length {
		return "", nil, &CorruptObjectError{
			Hash:   h,
			Reason: fmt.Sprintf("length mismatch (header=%d, actual=%d)", length, len(content)),
		}
	}

	return objType, content, nil
}

// ---------------------------------------------------------------------------
// Typed convenience readers
// ---------------------------------------------------------------------------

// ReadBlob reads an object and returns its payload as a Blob.
func (s *Store) ReadBlob(h Hash) (*Blob, error) {
	data, err := s.readTyped(h, TypeBlob)
	if err != nil {
		return nil, err
	}
	return &Blob{Data: data}, nil
}

// ReadTree reads and decodes a TreeObj.
func (s *Store) ReadTree(h Hash) (*TreeObj, error) {
	data, err := s.readTyped(h, TypeTree)
	if err != nil {
		return nil, err
	}
	return UnmarshalTree(data, s.algo)
}

// ReadCommit reads and decodes a CommitObj.
func (s *Store) ReadCommit(h Hash) (*CommitObj, error) {
	data, err := s.readTyped(h, TypeCommit)
	if err != nil {
		return nil, err
	}
	return UnmarshalCommit(data)
}

// ReadTag reads and decodes a TagObj.
func (s *Store) ReadTag(h Hash) (*TagObj, error) {
	data, err := s.readTyped(h, TypeTag)
	if err != nil {
		return nil, err
	}
	return UnmarshalTag(data)
}

func (s *Store) readTyped(h Hash, want ObjectType) ([]byte, error) {
	objType, data, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if objType != want {
		return nil, fmt.Errorf("object %s: type mismatch: got %q, want %q", h, objType, want)
	}
	return data, nil
}
