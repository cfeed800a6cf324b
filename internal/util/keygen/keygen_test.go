package keygen

import (
	"strings"
	"testing"

	"golang.org/x/crypto/ssh"
)

func TestGenerateEd25519KeyPair(t *testing.T) {
	t.Parallel()
	kp, err := GenerateEd25519KeyPair("hostforge-20260826")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	signer, err := ssh.ParsePrivateKey(kp.PrivateKey)
	if err != nil {
		t.Fatalf("private key should parse: %v", err)
	}
	if signer.PublicKey().Type() != ssh.KeyAlgoED25519 {
		t.Errorf("expected ed25519 key, got %s", signer.PublicKey().Type())
	}

	pub, comment, _, _, err := ssh.ParseAuthorizedKey(kp.PublicKey)
	if err != nil {
		t.Fatalf("public key should parse: %v", err)
	}
	if comment != "hostforge-20260826" {
		t.Errorf("expected comment in authorized_keys line, got %q", comment)
	}
	if pub.Type() != ssh.KeyAlgoED25519 {
		t.Errorf("expected ed25519 public key, got %s", pub.Type())
	}
}

func TestGenerateEd25519KeyPair_KeysMatch(t *testing.T) {
	t.Parallel()
	kp, err := GenerateEd25519KeyPair("")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	signer, err := ssh.ParsePrivateKey(kp.PrivateKey)
	if err != nil {
		t.Fatalf("private key should parse: %v", err)
	}
	pub, _, _, _, err := ssh.ParseAuthorizedKey(kp.PublicKey)
	if err != nil {
		t.Fatalf("public key should parse: %v", err)
	}
	if ssh.FingerprintSHA256(signer.PublicKey()) != ssh.FingerprintSHA256(pub) {
		t.Error("private and public halves do not match")
	}
}

func TestFingerprint(t *testing.T) {
	t.Parallel()
	kp, err := GenerateEd25519KeyPair("test")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	fp, err := Fingerprint(kp.PublicKey)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	// Legacy MD5 form: 16 colon-separated hex octets.
	parts := strings.Split(fp, ":")
	if len(parts) != 16 {
		t.Errorf("expected 16 octets, got %d (%q)", len(parts), fp)
	}

	// Same key, same fingerprint.
	fp2, err := Fingerprint(kp.PublicKey)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if fp != fp2 {
		t.Errorf("fingerprint should be deterministic: %q vs %q", fp, fp2)
	}
}

func TestFingerprint_InvalidKey(t *testing.T) {
	t.Parallel()
	if _, err := Fingerprint([]byte("not a key")); err == nil {
		t.Error("expected error for garbage input")
	}
}
