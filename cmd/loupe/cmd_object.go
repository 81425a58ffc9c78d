package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/loupe-vcs/loupe/pkg/object"
	"github.com/loupe-vcs/loupe/pkg/repo"
	"github.com/spf13/cobra"
)

// blobPreviewLines bounds how much of a blob payload the summary prints.
const blobPreviewLines = 10

func newObjectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "object <id>",
		Short: "Show a stored object's type, size, and payload summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(repoPath)
			if err != nil {
				return err
			}

			h, err := resolveCommitish(r, args[0])
			if err != nil {
				return err
			}

			objType, payload, err := r.Store.Read(h)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "object %s\n", h)
			fmt.Fprintf(out, "type: %s\n", objType)
			fmt.Fprintf(out, "size: %d\n", len(payload))
			fmt.Fprintln(out)

			return printPayload(out, r, objType, payload)
		},
	}
}

func printPayload(out io.Writer, r *repo.Repo, objType object.ObjectType, payload []byte) error {
	switch objType {
	case object.TypeCommit:
		c, err := object.UnmarshalCommit(payload)
		if err != nil {
			return err
		}
		printCommit(out, c)
		return nil

	case object.TypeTree:
		tr, err := object.UnmarshalTree(payload, r.Algo())
		if err != nil {
			return err
		}
		for _, e := range tr.Entries {
			fmt.Fprintf(out, "%-6s %s\t%s\n", e.Mode, e.Hash, e.Name)
		}
		return nil

	case object.TypeTag:
		t, err := object.UnmarshalTag(payload)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "tag %s\n", t.Name)
		fmt.Fprintf(out, "object %s (%s)\n", t.TargetHash, t.TargetType)
		fmt.Fprintf(out, "Tagger: %s\n", t.Tagger)
		fmt.Fprintln(out)
		fmt.Fprintln(out, strings.TrimRight(t.Message, "\n"))
		return nil

	default:
		printBlobPreview(out, payload)
		return nil
	}
}

func printCommit(out io.Writer, c *object.CommitObj) {
	fmt.Fprintf(out, "tree %s\n", c.TreeHash)
	for _, p := range c.Parents {
		fmt.Fprintf(out, "parent %s\n", p)
	}
	fmt.Fprintf(out, "Author: %s\n", c.Author)
	if c.Author.Valid() {
		fmt.Fprintf(out, "Date:   %s\n", c.Author.When.Format(time.RFC1123Z))
	}
	if info := describeSignature(c.GPGSig); info != "" {
		fmt.Fprintf(out, "Signed: %s\n", info)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.TrimRight(c.Message, "\n"))
}

// describeSignature summarizes a gpgsig header for display. SSH signatures
// are decoded to key type and fingerprint; other formats are named only.
func describeSignature(sig string) string {
	if strings.TrimSpace(sig) == "" {
		return ""
	}
	if object.IsSSHSignature(sig) {
		parsed, err := object.ParseSSHSignature(sig)
		if err != nil {
			return "ssh (unparseable)"
		}
		return fmt.Sprintf("ssh %s %s", parsed.KeyType(), parsed.Fingerprint())
	}
	return "gpg"
}

func printBlobPreview(out io.Writer, payload []byte) {
	for i := 0; i < len(payload); i++ {
		if payload[i] == 0 {
			fmt.Fprintln(out, "(binary payload)")
			return
		}
	}
	lines := strings.Split(strings.TrimRight(string(payload), "\n"), "\n")
	for i, line := range lines {
		if i >= blobPreviewLines {
			fmt.Fprintf(out, "... (%d more lines)\n", len(lines)-blobPreviewLines)
			return
		}
		fmt.Fprintln(out, line)
	}
}

// resolveCommitish resolves a ref name or accepts a full object hash.
func resolveCommitish(r *repo.Repo, target string) (object.Hash, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", fmt.Errorf("empty commit-ish")
	}
	if resolved, err := r.ResolveRef(target); err == nil {
		return resolved, nil
	}
	if object.ValidHash(target) {
		return object.Hash(target), nil
	}
	return "", fmt.Errorf("unknown ref or object %q", target)
}
