package main

import (
	"bytes"
	"strings"
	"testing"
)

// run executes the root command with args against the current directory's
// database (tests t.Chdir into a fresh temp dir before calling this) and
// returns its combined stdout/stderr.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd("test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("indra %s: %v\noutput: %s", strings.Join(args, " "), err, out)
	}
	return out
}

func TestInitCreatesDatabase(t *testing.T) {
	t.Chdir(t.TempDir())
	out := mustRun(t, "init")
	if !strings.Contains(out, "Initialized database") {
		t.Fatalf("unexpected init output: %q", out)
	}

	if _, err := run(t, "init"); err == nil {
		t.Fatal("expected second init to fail because the database already exists")
	}
}

func TestCreateGetList(t *testing.T) {
	t.Chdir(t.TempDir())
	mustRun(t, "init")
	mustRun(t, "create", "note-1", "hello there")

	out := mustRun(t, "get", "note-1")
	if strings.TrimSpace(out) != "hello there" {
		t.Fatalf("get output = %q", out)
	}

	mustRun(t, "create", "note-2", "second note")
	out = mustRun(t, "list")
	if !strings.Contains(out, "note-1") || !strings.Contains(out, "note-2") {
		t.Fatalf("list output missing entries: %q", out)
	}
}

func TestGetMissingFails(t *testing.T) {
	t.Chdir(t.TempDir())
	mustRun(t, "init")
	if _, err := run(t, "get", "nope"); err == nil {
		t.Fatal("expected get of a missing id to fail")
	}
}

func TestUpdateAndDelete(t *testing.T) {
	t.Chdir(t.TempDir())
	mustRun(t, "init")
	mustRun(t, "create", "note", "v1")
	mustRun(t, "update", "note", "v2")

	out := mustRun(t, "get", "note")
	if strings.TrimSpace(out) != "v2" {
		t.Fatalf("expected updated content, got %q", out)
	}

	mustRun(t, "del", "note")
	if _, err := run(t, "get", "note"); err == nil {
		t.Fatal("expected get after delete to fail")
	}
}

func TestRelateAndNeighbors(t *testing.T) {
	t.Chdir(t.TempDir())
	mustRun(t, "init")
	mustRun(t, "create", "a", "a")
	mustRun(t, "create", "b", "b")
	mustRun(t, "relate", "a", "b", "relates")

	out := mustRun(t, "neighbors", "a")
	if !strings.Contains(out, "b") {
		t.Fatalf("expected b among a's neighbors, got %q", out)
	}
}

func TestSearchReturnsCreatedThought(t *testing.T) {
	t.Chdir(t.TempDir())
	mustRun(t, "init")
	mustRun(t, "create", "only", "the only thought here")

	out := mustRun(t, "search", "the only thought here", "-n", "5")
	if !strings.Contains(out, "only") {
		t.Fatalf("expected search to surface the only thought, got %q", out)
	}
}

func TestBranchAndCheckout(t *testing.T) {
	t.Chdir(t.TempDir())
	mustRun(t, "init")
	mustRun(t, "create", "main-thought", "on main")
	mustRun(t, "branch", "feature")
	mustRun(t, "checkout", "feature")
	mustRun(t, "create", "feature-thought", "on feature")

	out := mustRun(t, "branch")
	if !strings.Contains(out, "feature") || !strings.Contains(out, "main") {
		t.Fatalf("expected both branches listed, got %q", out)
	}

	mustRun(t, "checkout", "main")
	if _, err := run(t, "get", "feature-thought"); err == nil {
		t.Fatal("feature-only thought should not be visible on main")
	}
}

func TestLogAndStatus(t *testing.T) {
	t.Chdir(t.TempDir())
	mustRun(t, "init")
	mustRun(t, "create", "a", "a")
	mustRun(t, "create", "b", "b")

	out := mustRun(t, "log", "--oneline")
	if strings.Count(out, "\n") != 2 {
		t.Fatalf("expected 2 log lines, got %q", out)
	}

	out = mustRun(t, "status")
	if !strings.Contains(out, "nothing to commit") {
		t.Fatalf("expected clean status after auto-commit, got %q", out)
	}
}

func TestDiffBetweenCommits(t *testing.T) {
	t.Chdir(t.TempDir())
	mustRun(t, "init")
	mustRun(t, "create", "a", "a")
	first := strings.TrimSpace(mustRun(t, "log", "--oneline"))
	firstHash := strings.Fields(first)[0]
	mustRun(t, "create", "b", "b")

	out := mustRun(t, "diff", firstHash)
	if !strings.Contains(out, "b") {
		t.Fatalf("expected diff to mention added thought b, got %q", out)
	}
}

func TestOpenWithoutInitFails(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, err := run(t, "list"); err == nil {
		t.Fatal("expected list to fail before init")
	}
}

func TestJSONOutput(t *testing.T) {
	t.Chdir(t.TempDir())
	mustRun(t, "init")
	mustRun(t, "create", "note", "json me")

	out := mustRun(t, "get", "note", "--json")
	if !strings.Contains(out, `"content"`) {
		t.Fatalf("expected JSON output to include content field, got %q", out)
	}
}
