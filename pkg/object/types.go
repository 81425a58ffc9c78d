package object

import (
	"fmt"
	"time"
)

// Hash is a hex-encoded object id: 40 characters for SHA-1 repositories,
// 64 for SHA-256 repositories.
type Hash string

// Short returns an abbreviated form of the hash for display.
func (h Hash) Short() string {
	if len(h) > 8 {
		return string(h[:8])
	}
	return string(h)
}

// HashAlgo identifies the hash function a repository uses for object ids.
type HashAlgo int

const (
	SHA1 HashAlgo = iota
	SHA256
)

// HexLen returns the length of a hex-encoded hash for the algorithm.
func (a HashAlgo) HexLen() int {
	if a == SHA256 {
		return 64
	}
	return 40
}

// RawLen returns the length of a raw binary hash for the algorithm.
func (a HashAlgo) RawLen() int {
	if a == SHA256 {
		return 32
	}
	return 20
}

func (a HashAlgo) String() string {
	if a == SHA256 {
		return "sha256"
	}
	return "sha1"
}

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
	TypeTag    ObjectType = "tag"
)

const (
	// Tree mode constants matching Git's canonical mode strings.
	TreeModeDir        = "40000"
	TreeModeFile       = "100644"
	TreeModeExecutable = "100755"
	TreeModeSymlink    = "120000"
	TreeModeGitlink    = "160000"
)

// Blob holds raw file data. The payload is opaque to the decoder.
type Blob struct {
	Data []byte
}

// Signature is a commit or tag identity line: "Name <email> unix tz".
// When the timestamp portion cannot be parsed the structured fields are
// left zero and Raw carries the verbatim identity line instead.
type Signature struct {
	Name  string
	Email string
	When  time.Time
	Raw   string
}

// Valid reports whether the signature was parsed into structured fields.
func (s Signature) Valid() bool {
	return s.Raw == ""
}

func (s Signature) String() string {
	if !s.Valid() {
		return s.Raw
	}
	return fmt.Sprintf("%s <%s>", s.Name, s.Email)
}

// CommitObj represents a decoded commit pointing to a tree with metadata.
type CommitObj struct {
	TreeHash  Hash
	Parents   []Hash
	Author    Signature
	Committer Signature
	GPGSig    string
	Message   string
}

// Summary returns the first line of the commit message.
func (c *CommitObj) Summary() string {
	for i := 0; i < len(c.Message); i++ {
		if c.Message[i] == '\n' {
			return c.Message[:i]
		}
	}
	return c.Message
}

// TreeEntry is one entry in a tree object.
type TreeEntry struct {
	Mode string
	Name string
	Hash Hash
}

// IsDir reports whether the entry points at a subtree.
func (e TreeEntry) IsDir() bool {
	return e.Mode == TreeModeDir || e.Mode == "040000"
}

// TreeObj holds tree entries in on-disk order (Git stores them sorted).
type TreeObj struct {
	Entries []TreeEntry
}

// TagObj represents a decoded annotated tag.
type TagObj struct {
	TargetHash Hash
	TargetType ObjectType
	Name       string
	Tagger     Signature
	Message    string
}

// HistoryEntry pairs a commit with its position in a history walk.
type HistoryEntry struct {
	Hash   Hash
	Commit *CommitObj
	Depth  int
}
