// Package provision turns a configuration into a reachable cloud host:
// it ensures an SSH credential, creates the server and waits until an
// authenticated control connection succeeds.
package provision

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	cryptossh "golang.org/x/crypto/ssh"

	"github.com/imamik/hostforge/internal/platform/hcloud"
	"github.com/imamik/hostforge/internal/util/keygen"
	"github.com/imamik/hostforge/internal/util/naming"
)

// Credential is a local key pair plus its provider-side registration.
// At most one credential is active per run; the provider enforces
// uniqueness by fingerprint, so names are purely cosmetic.
type Credential struct {
	PrivateKeyPath string
	PrivateKey     []byte
	PublicKey      []byte
	ProviderID     int64
	Fingerprint    string
}

// EnsureCredential resolves the local key pair at path and makes sure it is
// registered with the provider.
//
// With explicit set, the path was asserted correct by the operator: it must
// exist and is used verbatim. Otherwise the path is the conventional
// default; an existing pair is reused and a missing one is generated.
//
// Registration reconciles by fingerprint: if the create call fails and a
// key with the same fingerprint is already registered, that registration is
// reused. Keys are never deleted here.
func EnsureCredential(ctx context.Context, cloud hcloud.Client, path string, explicit bool) (*Credential, error) {
	priv, pub, err := ensureLocalKeyPair(path, explicit)
	if err != nil {
		return nil, err
	}

	fingerprint, err := keygen.Fingerprint(pub)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint %s: %w", path, err)
	}

	key, err := cloud.CreateSSHKey(ctx, naming.SSHKey(), string(pub))
	if err == nil {
		return &Credential{
			PrivateKeyPath: path,
			PrivateKey:     priv,
			PublicKey:      pub,
			ProviderID:     key.ID,
			Fingerprint:    key.Fingerprint,
		}, nil
	}

	// The provider rejects duplicate key material, and there is no local
	// record of prior runs; look for an existing registration with the
	// same fingerprint before treating the failure as fatal.
	existing, lookupErr := cloud.GetSSHKeyByFingerprint(ctx, fingerprint)
	if lookupErr == nil && existing != nil {
		return &Credential{
			PrivateKeyPath: path,
			PrivateKey:     priv,
			PublicKey:      pub,
			ProviderID:     existing.ID,
			Fingerprint:    existing.Fingerprint,
		}, nil
	}

	return nil, &ProviderAPIError{Op: "ssh key registration", Err: err}
}

// ensureLocalKeyPair loads or creates the key pair at path.
func ensureLocalKeyPair(path string, explicit bool) (priv, pub []byte, err error) {
	priv, readErr := os.ReadFile(path) // #nosec G304 -- operator-chosen path
	switch {
	case readErr == nil:
		pub, err = loadOrDerivePublicKey(path, priv)
		if err != nil {
			return nil, nil, err
		}
		return priv, pub, nil

	case explicit:
		// The operator asserted this path; do not silently generate.
		return nil, nil, fmt.Errorf("ssh key %s does not exist: %w", path, readErr)

	case os.IsNotExist(readErr):
		return generateKeyPair(path)

	default:
		return nil, nil, fmt.Errorf("failed to read ssh key %s: %w", path, readErr)
	}
}

// loadOrDerivePublicKey reads the sibling .pub file or derives the public
// half from the private key when the file is missing.
func loadOrDerivePublicKey(path string, priv []byte) ([]byte, error) {
	pub, err := os.ReadFile(path + ".pub") // #nosec G304
	if err == nil {
		return pub, nil
	}

	signer, parseErr := cryptossh.ParsePrivateKey(priv)
	if parseErr != nil {
		return nil, fmt.Errorf("failed to parse private key %s: %w", path, parseErr)
	}
	return cryptossh.MarshalAuthorizedKey(signer.PublicKey()), nil
}

// generateKeyPair creates a fresh pair and writes both halves to disk.
func generateKeyPair(path string) (priv, pub []byte, err error) {
	kp, err := keygen.GenerateEd25519KeyPair(naming.KeyComment())
	if err != nil {
		return nil, nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := os.WriteFile(path, kp.PrivateKey, 0o600); err != nil {
		return nil, nil, fmt.Errorf("failed to write private key: %w", err)
	}
	if err := os.WriteFile(path+".pub", kp.PublicKey, 0o644); err != nil { //nolint:gosec // public half
		return nil, nil, fmt.Errorf("failed to write public key: %w", err)
	}

	return kp.PrivateKey, kp.PublicKey, nil
}
