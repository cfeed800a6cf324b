package naming

import (
	"strings"
	"testing"
)

func TestServer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  func(string) bool
	}{
		{
			name:  "explicit name unchanged",
			input: "my-box",
			want:  func(s string) bool { return s == "my-box" },
		},
		{
			name:  "empty name gets prefix and suffix",
			input: "",
			want: func(s string) bool {
				return strings.HasPrefix(s, "hostforge-") && len(s) == len("hostforge-")+SuffixLength
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Server(tt.input)
			if !tt.want(got) {
				t.Errorf("Server(%q) = %q", tt.input, got)
			}
		})
	}
}

func TestServer_DerivedNamesDiffer(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		name := Server("")
		if seen[name] {
			t.Fatalf("duplicate derived name %q after %d draws", name, i)
		}
		seen[name] = true
	}
}

func TestRandomSuffix(t *testing.T) {
	s := RandomSuffix(8)
	if len(s) != 8 {
		t.Fatalf("expected 8 characters, got %d", len(s))
	}
	for _, c := range s {
		if !strings.ContainsRune(suffixAlphabet, c) {
			t.Errorf("unexpected character %q", c)
		}
	}
}

func TestSSHKey(t *testing.T) {
	if !strings.HasPrefix(SSHKey(), "hostforge-") {
		t.Error("key name should carry the tool prefix")
	}
}
