package prerequisites

import (
	"strings"
	"testing"
)

func TestCheck_FoundTool(t *testing.T) {
	t.Parallel()
	// "go" must exist in the environment running these tests.
	results := Check([]Tool{{Name: "go", Required: true}})

	if results.HasErrors() {
		t.Fatalf("expected no errors, missing: %v", results.Missing)
	}
	if len(results.Results) != 1 {
		t.Fatalf("expected 1 result, got: %d", len(results.Results))
	}
	if !results.Results[0].Found {
		t.Error("expected go to be found")
	}
	if results.Results[0].Path == "" {
		t.Error("expected a resolved path")
	}
	if err := results.Error(); err != nil {
		t.Errorf("expected nil error, got: %v", err)
	}
}

func TestCheck_MissingRequiredTool(t *testing.T) {
	t.Parallel()
	results := Check([]Tool{{
		Name:       "definitely-not-a-real-binary-xyz",
		Required:   true,
		InstallURL: "https://example.com",
	}})

	if !results.HasErrors() {
		t.Fatal("expected errors for missing required tool")
	}
	err := results.Error()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "definitely-not-a-real-binary-xyz") {
		t.Errorf("error should name the missing tool, got: %v", err)
	}
	if !strings.Contains(err.Error(), "https://example.com") {
		t.Errorf("error should carry the install URL, got: %v", err)
	}
}

func TestCheck_MissingOptionalTool(t *testing.T) {
	t.Parallel()
	results := Check([]Tool{{Name: "definitely-not-a-real-binary-xyz", Required: false}})

	if results.HasErrors() {
		t.Error("optional tools must not produce errors")
	}
	if err := results.Error(); err != nil {
		t.Errorf("expected nil error, got: %v", err)
	}
	if len(results.Missing) != 1 {
		t.Errorf("missing list should still record the tool, got: %d", len(results.Missing))
	}
}

func TestToolSets(t *testing.T) {
	t.Parallel()
	for _, tool := range InitiatorTools() {
		if tool.Name == "" || tool.Description == "" {
			t.Errorf("initiator tool missing metadata: %+v", tool)
		}
	}
	names := map[string]bool{}
	for _, tool := range TargetTools() {
		if !tool.Required {
			t.Errorf("target tools are all required, %s is not", tool.Name)
		}
		names[tool.Name] = true
	}
	for _, want := range []string{"apt-get", "systemctl", "bash"} {
		if !names[want] {
			t.Errorf("target tools should include %s", want)
		}
	}
}
