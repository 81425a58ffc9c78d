package object

import (
	"errors"
	"fmt"
)

// ErrObjectNotFound indicates no stored object exists for the given id.
var ErrObjectNotFound = errors.New("object not found")

// CorruptObjectError indicates a stored object could not be decompressed
// or its envelope does not match its payload.
type CorruptObjectError struct {
	Hash   Hash
	Reason string
	Err    error
}

func (e *CorruptObjectError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("corrupt object %s: %s: %v", e.Hash, e.Reason, e.Err)
	}
	return fmt.Sprintf("corrupt object %s: %s", e.Hash, e.Reason)
}

func (e *CorruptObjectError) Unwrap() error { return e.Err }

// MalformedObjectError indicates a payload failed structural decoding for
// its declared type.
type MalformedObjectError struct {
	Type   ObjectType
	Reason string
}

func (e *MalformedObjectError) Error() string {
	return fmt.Sprintf("malformed %s object: %s", e.Type, e.Reason)
}

// BrokenHistoryError indicates a commit names a parent the store cannot
// resolve. The walk that produced it remains usable: entries emitted so
// far are valid and the walk continues past the gap.
type BrokenHistoryError struct {
	Parent Hash
	Err    error
}

func (e *BrokenHistoryError) Error() string {
	return fmt.Sprintf("broken history: parent %s: %v", e.Parent, e.Err)
}

func (e *BrokenHistoryError) Unwrap() error { return e.Err }
