// Package keygen generates SSH key pairs and computes provider-style
// fingerprints.
//
// Keys are ed25519, written as PEM-encoded OpenSSH private keys and
// authorized_keys format public keys. Fingerprints use the legacy MD5
// colon-hex form because that is what the cloud provider reports for
// registered keys.
package keygen

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"fmt"

	"golang.org/x/crypto/ssh"
)

// KeyPair holds an ed25519 key pair in ready-to-use formats.
type KeyPair struct {
	// PrivateKey is the PEM-encoded OpenSSH private key.
	PrivateKey []byte
	// PublicKey is the public key in OpenSSH authorized_keys format.
	PublicKey []byte
}

// GenerateEd25519KeyPair generates a new ed25519 key pair without a
// passphrase, so unattended remote sessions can use it non-interactively.
// The comment ends up in the authorized_keys line for operator traceability.
func GenerateEd25519KeyPair(comment string) (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ed25519 key: %w", err)
	}

	block, err := ssh.MarshalPrivateKey(priv, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal private key: %w", err)
	}
	privateKeyPEM := pem.EncodeToMemory(block)

	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSH public key: %w", err)
	}
	pubLine := ssh.MarshalAuthorizedKey(sshPub)
	if comment != "" {
		// MarshalAuthorizedKey ends with a newline; splice the comment in.
		pubLine = append(pubLine[:len(pubLine)-1], []byte(" "+comment+"\n")...)
	}

	return &KeyPair{
		PrivateKey: privateKeyPEM,
		PublicKey:  pubLine,
	}, nil
}

// Fingerprint computes the legacy MD5 colon-hex fingerprint of a public key
// in authorized_keys format. This matches the fingerprint the provider
// stores for registered keys, so it can be used to find an existing
// registration whose upload would otherwise be rejected as a duplicate.
func Fingerprint(authorizedKey []byte) (string, error) {
	pub, _, _, _, err := ssh.ParseAuthorizedKey(authorizedKey)
	if err != nil {
		return "", fmt.Errorf("failed to parse public key: %w", err)
	}
	return ssh.FingerprintLegacyMD5(pub), nil
}
