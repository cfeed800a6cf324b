// Package naming provides consistent naming for provisioned resources.
//
// Server names follow the pattern hostforge-{5char} when the operator does
// not supply one. The random suffix keeps names unique-enough across runs
// without any coordination; a collision surfaces as a provider error the
// operator resolves.
package naming

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// SuffixLength is the number of random characters appended to derived names.
const SuffixLength = 5

// Server derives a server name. An explicit name is returned unchanged;
// an empty name gets the default prefix plus a random suffix.
func Server(name string) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("hostforge-%s", RandomSuffix(SuffixLength))
}

// SSHKey derives the provider-side name for the uploaded SSH key.
// Key uniqueness on the provider is enforced by fingerprint, not by this
// name, so a timestamp is enough to keep names readable per run.
func SSHKey() string {
	return fmt.Sprintf("hostforge-%s", time.Now().Format("20060102-150405"))
}

// KeyComment is the comment embedded in generated public keys.
func KeyComment() string {
	return fmt.Sprintf("hostforge-%s", time.Now().Format("20060102"))
}

// RandomSuffix returns n random lowercase alphanumeric characters.
func RandomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(suffixAlphabet))))
		if err != nil {
			// crypto/rand only fails when the platform entropy source is
			// broken; fall back to a fixed character rather than panicking.
			b[i] = 'x'
			continue
		}
		b[i] = suffixAlphabet[idx.Int64()]
	}
	return string(b)
}
