package object

import (
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/ssh"
)

const (
	sshSigArmorBegin = "-----BEGIN SSH SIGNATURE-----"
	sshSigArmorEnd   = "-----END SSH SIGNATURE-----"
	sshSigMagic      = "SSHSIG"
)

// SSHSignature is the decoded form of an OpenSSH SSHSIG block as found in
// a commit's gpgsig header. Only the parts useful for display are kept;
// no trust decision is made here.
type SSHSignature struct {
	Version   uint32
	Namespace string
	HashAlgo  string
	Key       ssh.PublicKey
}

// KeyType returns the signing key's algorithm name, e.g. "ssh-ed25519".
func (s *SSHSignature) KeyType() string {
	return s.Key.Type()
}

// Fingerprint returns the SHA-256 fingerprint of the signing key.
func (s *SSHSignature) Fingerprint() string {
	return ssh.FingerprintSHA256(s.Key)
}

// IsSSHSignature reports whether sig looks like an armored SSHSIG block.
func IsSSHSignature(sig string) bool {
	return strings.HasPrefix(strings.TrimSpace(sig), sshSigArmorBegin)
}

// ParseSSHSignature decodes an armored SSHSIG block and parses the
// embedded public key.
func ParseSSHSignature(armored string) (*SSHSignature, error) {
	blob, err := unarmorSSHSig(armored)
	if err != nil {
		return nil, err
	}

	if len(blob) < len(sshSigMagic) || string(blob[:len(sshSigMagic)]) != sshSigMagic {
		return nil, fmt.Errorf("parse ssh signature: missing %s preamble", sshSigMagic)
	}

	var wire struct {
		Version       uint32
		PublicKey     []byte
		Namespace     string
		Reserved      string
		HashAlgorithm string
		Signature     []byte
	}
	if err := ssh.Unmarshal(blob[len(sshSigMagic):], &wire); err != nil {
		return nil, fmt.Errorf("parse ssh signature: %w", err)
	}

	key, err := ssh.ParsePublicKey(wire.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("parse ssh signature key: %w", err)
	}

	return &SSHSignature{
		Version:   wire.Version,
		Namespace: wire.Namespace,
		HashAlgo:  wire.HashAlgorithm,
		Key:       key,
	}, nil
}

// unarmorSSHSig strips the BEGIN/END armor lines and base64-decodes the
// body.
func unarmorSSHSig(armored string) ([]byte, error) {
	armored = strings.TrimSpace(armored)
	if !strings.HasPrefix(armored, sshSigArmorBegin) {
		return nil, fmt.Errorf("parse ssh signature: missing armor header")
	}

	var b64 strings.Builder
	inBody := false
	for _, line := range strings.Split(armored, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == sshSigArmorBegin:
			inBody = true
		case line == sshSigArmorEnd:
			return base64.StdEncoding.DecodeString(b64.String())
		case inBody:
			b64.WriteString(line)
		}
	}
	return nil, fmt.Errorf("parse ssh signature: missing armor footer")
}
