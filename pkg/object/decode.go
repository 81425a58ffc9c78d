package object

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ---------------------------------------------------------------------------
// Commit
// ---------------------------------------------------------------------------

// UnmarshalCommit decodes a commit payload:
//
//	tree H
//	parent H     (zero or more, declaration order preserved)
//	author A
//	committer A
//	gpgsig S     (optional, with space-indented continuation lines)
//
//	message
//
// Unknown header keys are kept out of the result but do not fail the
// decode. A missing tree header or an invalid hash field does.
func UnmarshalCommit(data []byte) (*CommitObj, error) {
	header, message, err := splitHeaderBody(TypeCommit, data)
	if err != nil {
		return nil, err
	}

	c := &CommitObj{Message: message}
	for _, line := range foldHeaderLines(header) {
		key, val, _ := strings.Cut(line, " ")
		switch key {
		case "tree":
			if !ValidHash(val) {
				return nil, &MalformedObjectError{Type: TypeCommit, Reason: fmt.Sprintf("invalid tree hash %q", val)}
			}
			c.TreeHash = Hash(val)
		case "parent":
			if !ValidHash(val) {
				return nil, &MalformedObjectError{Type: TypeCommit, Reason: fmt.Sprintf("invalid parent hash %q", val)}
			}
			c.Parents = append(c.Parents, Hash(val))
		case "author":
			c.Author = ParseSignature(val)
		case "committer":
			c.Committer = ParseSignature(val)
		case "gpgsig":
			c.GPGSig = val
		}
	}

	if c.TreeHash == "" {
		return nil, &MalformedObjectError{Type: TypeCommit, Reason: "missing tree header"}
	}
	return c, nil
}

// splitHeaderBody splits a commit-shaped payload at the first blank line.
func splitHeaderBody(objType ObjectType, data []byte) (string, string, error) {
	idx := bytes.Index(data, []byte("\n\n"))
	if idx < 0 {
		return "", "", &MalformedObjectError{Type: objType, Reason: "missing header/message separator"}
	}
	return string(data[:idx]), string(data[idx+2:]), nil
}

// foldHeaderLines joins space-indented continuation lines (as used by
// multi-line gpgsig blocks) onto their preceding header line.
func foldHeaderLines(header string) []string {
	var out []string
	for _, line := range strings.Split(header, "\n") {
		if strings.HasPrefix(line, " ") && len(out) > 0 {
			out[len(out)-1] += "\n" + line[1:]
			continue
		}
		out = append(out, line)
	}
	return out
}

// ---------------------------------------------------------------------------
// Signature
// ---------------------------------------------------------------------------

// ParseSignature parses an identity line "Name <email> unix-seconds tz".
// Parsing is defensive: any failure past the structural minimum returns a
// Signature carrying the verbatim input in Raw, since display rather than
// validation is the goal.
func ParseSignature(s string) Signature {
	open := strings.Index(s, " <")
	if open < 0 {
		return Signature{Raw: s}
	}
	rest := s[open+2:]
	end := strings.Index(rest, "> ")
	if end < 0 {
		return Signature{Raw: s}
	}

	name := s[:open]
	email := rest[:end]
	when, ok := parseTimestamp(rest[end+2:])
	if !ok {
		return Signature{Raw: s}
	}

	return Signature{Name: name, Email: email, When: when}
}

// parseTimestamp parses "unix-seconds tz-offset", e.g. "1761384503 +0200".
func parseTimestamp(s string) (time.Time, bool) {
	secStr, tzStr, ok := strings.Cut(strings.TrimSpace(s), " ")
	if !ok {
		return time.Time{}, false
	}
	sec, err := strconv.ParseInt(secStr, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	offset, ok := parseTZOffset(tzStr)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(sec, 0).In(time.FixedZone(tzStr, offset)), true
}

// parseTZOffset converts "+0200" / "-0830" into seconds east of UTC.
func parseTZOffset(s string) (int, bool) {
	if len(s) != 5 || (s[0] != '+' && s[0] != '-') {
		return 0, false
	}
	hours, err := strconv.Atoi(s[1:3])
	if err != nil {
		return 0, false
	}
	mins, err := strconv.Atoi(s[3:5])
	if err != nil {
		return 0, false
	}
	offset := hours*3600 + mins*60
	if s[0] == '-' {
		offset = -offset
	}
	return offset, true
}

// ---------------------------------------------------------------------------
// Tree
// ---------------------------------------------------------------------------

// UnmarshalTree decodes a tree payload: a sequence of entries, each
// "<mode> <name>\0" followed by the raw binary hash (20 or 32 bytes per
// the repository's hash algorithm).
func UnmarshalTree(data []byte, algo HashAlgo) (*TreeObj, error) {
	rawLen := algo.RawLen()
	tr := &TreeObj{}

	rest := data
	for len(rest) > 0 {
		spaceIdx := bytes.IndexByte(rest, ' ')
		if spaceIdx < 0 {
			return nil, &MalformedObjectError{Type: TypeTree, Reason: "entry missing mode/name separator"}
		}
		mode := string(rest[:spaceIdx])
		if !validTreeMode(mode) {
			return nil, &MalformedObjectError{Type: TypeTree, Reason: fmt.Sprintf("unknown mode %q", mode)}
		}
		rest = rest[spaceIdx+1:]

		nulIdx := bytes.IndexByte(rest, 0)
		if nulIdx < 0 {
			return nil, &MalformedObjectError{Type: TypeTree, Reason: "entry missing name terminator"}
		}
		name := string(rest[:nulIdx])
		if name == "" {
			return nil, &MalformedObjectError{Type: TypeTree, Reason: "entry with empty name"}
		}
		rest = rest[nulIdx+1:]

		if len(rest) < rawLen {
			return nil, &MalformedObjectError{
				Type:   TypeTree,
				Reason: fmt.Sprintf("entry %q: truncated hash (%d of %d bytes)", name, len(rest), rawLen),
			}
		}
		h := Hash(hex.EncodeToString(rest[:rawLen]))
		rest = rest[rawLen:]

		tr.Entries = append(tr.Entries, TreeEntry{Mode: mode, Name: name, Hash: h})
	}

	return tr, nil
}

func validTreeMode(mode string) bool {
	switch mode {
	case TreeModeDir, "040000", TreeModeFile, TreeModeExecutable, TreeModeSymlink, TreeModeGitlink:
		return true
	default:
		return false
	}
}

// ---------------------------------------------------------------------------
// Tag
// ---------------------------------------------------------------------------

// UnmarshalTag decodes an annotated tag payload, which is structurally a
// commit: object/type/tag/tagger headers, blank line, message.
func UnmarshalTag(data []byte) (*TagObj, error) {
	header, message, err := splitHeaderBody(TypeTag, data)
	if err != nil {
		return nil, err
	}

	t := &TagObj{Message: message}
	for _, line := range foldHeaderLines(header) {
		key, val, _ := strings.Cut(line, " ")
		switch key {
		case "object":
			if !ValidHash(val) {
				return nil, &MalformedObjectError{Type: TypeTag, Reason: fmt.Sprintf("invalid object hash %q", val)}
			}
			t.TargetHash = Hash(val)
		case "type":
			t.TargetType = ObjectType(val)
		case "tag":
			t.Name = val
		case "tagger":
			t.Tagger = ParseSignature(val)
		}
	}

	if t.TargetHash == "" {
		return nil, &MalformedObjectError{Type: TypeTag, Reason: "missing object header"}
	}
	return t, nil
}
