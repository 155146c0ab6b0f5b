package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const paymentsGroup = `
id: payments
name: Payment rules
rules:
  - id: r1
    name: deny large transfers
    rule_logic: IF amount > 1000 THEN REJECT
    edge_cases:
      - IF currency == 'GBP' THEN APPROVE
datapoint_definitions:
  - name: amount
    kind: number
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestFileSourceDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "payments.yaml", paymentsGroup)
	writeFile(t, dir, "ignored.txt", "not yaml")
	writeFile(t, dir, "fraud.yml", "name: Fraud rules\nrules: []\n")

	src, err := NewFileSource(dir)
	if err != nil {
		t.Fatalf("NewFileSource: %v", err)
	}

	group, err := src.FetchGroup(context.Background(), "payments")
	if err != nil {
		t.Fatalf("FetchGroup(payments): %v", err)
	}
	if len(group.Rules) != 1 || group.Rules[0].ID != "r1" {
		t.Errorf("rules = %+v, want r1", group.Rules)
	}
	if len(group.Rules[0].EdgeCases) != 1 {
		t.Errorf("edge cases = %v, want one", group.Rules[0].EdgeCases)
	}
	if len(group.Datapoints) != 1 || group.Datapoints[0].Name != "amount" {
		t.Errorf("datapoints = %+v", group.Datapoints)
	}

	// Group with no id falls back to the file name stem.
	if _, err := src.FetchGroup(context.Background(), "fraud"); err != nil {
		t.Errorf("FetchGroup(fraud): %v", err)
	}

	if _, err := src.FetchGroup(context.Background(), "nope"); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("error = %v, want ErrGroupNotFound", err)
	}

	if ids := src.GroupIDs(); len(ids) != 2 {
		t.Errorf("GroupIDs = %v, want two groups", ids)
	}
}

func TestFileSourceSkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.yaml", paymentsGroup)
	writeFile(t, dir, "broken.yaml", "rules: [unclosed")

	src, err := NewFileSource(dir)
	if err != nil {
		t.Fatalf("NewFileSource: %v", err)
	}

	if _, err := src.FetchGroup(context.Background(), "payments"); err != nil {
		t.Errorf("intact group should survive a broken sibling: %v", err)
	}
	if _, err := src.FetchGroup(context.Background(), "broken"); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("broken file must not produce a group, got %v", err)
	}
}

func TestFileSourceReload(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "payments.yaml", paymentsGroup)

	src, err := NewFileSource(dir)
	if err != nil {
		t.Fatalf("NewFileSource: %v", err)
	}

	writeFile(t, dir, "limits.yaml", "id: limits\nrules: []\n")
	if _, err := src.FetchGroup(context.Background(), "limits"); !errors.Is(err, ErrGroupNotFound) {
		t.Fatal("new file must not be visible before Reload")
	}

	if err := src.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if _, err := src.FetchGroup(context.Background(), "limits"); err != nil {
		t.Errorf("FetchGroup(limits) after reload: %v", err)
	}
}

func TestFileSourceMissingPath(t *testing.T) {
	if _, err := NewFileSource(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected an error for a missing path")
	}
}

func TestStaticSource(t *testing.T) {
	src := NewStaticSource()
	if _, err := src.FetchGroup(context.Background(), "any"); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("error = %v, want ErrGroupNotFound", err)
	}
}
