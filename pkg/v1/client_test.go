package v1

import (
	"context"
	"path/filepath"
	"testing"
)

func setupClientTest(t *testing.T) *Client {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.indra")

	client, err := Create(path)
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestClientCreateAndGet(t *testing.T) {
	client := setupClientTest(t)
	ctx := context.Background()

	if _, err := client.CreateThought(ctx, "note", "hello world", nil); err != nil {
		t.Fatalf("create thought: %v", err)
	}

	got, err := client.GetThought("note")
	if err != nil {
		t.Fatalf("get thought: %v", err)
	}
	if got.Content != "hello world" {
		t.Errorf("content = %q, want %q", got.Content, "hello world")
	}
	if len(got.Embedding) != 8 {
		t.Errorf("expected default mock embedder dimension 8, got %d", len(got.Embedding))
	}
}

func TestClientUpdateAndDelete(t *testing.T) {
	client := setupClientTest(t)
	ctx := context.Background()

	if _, err := client.CreateThought(ctx, "note", "v1", nil); err != nil {
		t.Fatalf("create thought: %v", err)
	}
	if _, err := client.UpdateThought(ctx, "note", "v2"); err != nil {
		t.Fatalf("update thought: %v", err)
	}
	got, err := client.GetThought("note")
	if err != nil {
		t.Fatalf("get thought: %v", err)
	}
	if got.Content != "v2" {
		t.Fatalf("expected updated content, got %q", got.Content)
	}

	if err := client.DeleteThought("note"); err != nil {
		t.Fatalf("delete thought: %v", err)
	}
	if _, err := client.GetThought("note"); err == nil {
		t.Error("expected error after delete")
	}
}

func TestClientListThoughts(t *testing.T) {
	client := setupClientTest(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if _, err := client.CreateThought(ctx, id, id, nil); err != nil {
			t.Fatalf("create thought %s: %v", id, err)
		}
	}

	all, err := client.ListThoughts()
	if err != nil {
		t.Fatalf("list thoughts: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 thoughts, got %d", len(all))
	}
}

func TestClientRelateAndSearch(t *testing.T) {
	client := setupClientTest(t)
	ctx := context.Background()

	if _, err := client.CreateThought(ctx, "a", "alpha", nil); err != nil {
		t.Fatalf("create a: %v", err)
	}
	if _, err := client.CreateThought(ctx, "b", "beta", nil); err != nil {
		t.Fatalf("create b: %v", err)
	}
	if err := client.Relate("a", "b", "relates", 1, nil); err != nil {
		t.Fatalf("relate: %v", err)
	}

	results, err := client.Search(ctx, "alpha", 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one search result")
	}

	if err := client.Unrelate("a", "b", "relates"); err != nil {
		t.Fatalf("unrelate: %v", err)
	}
}

func TestClientCommitAndLog(t *testing.T) {
	client := setupClientTest(t)
	ctx := context.Background()

	if _, err := client.CreateThought(ctx, "a", "a", nil); err != nil {
		t.Fatalf("create a: %v", err)
	}
	if _, err := client.CreateThought(ctx, "b", "b", nil); err != nil {
		t.Fatalf("create b: %v", err)
	}

	log, err := client.Log(0)
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if len(log) != 2 {
		t.Fatalf("expected 2 commits, got %d", len(log))
	}
	if log[0].Message != "create: b" {
		t.Fatalf("expected newest commit first, got %q", log[0].Message)
	}
}

func TestClientManualCommit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.indra")
	client, err := Create(path, WithAutoCommit(false))
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	defer client.Close()
	ctx := context.Background()

	if _, err := client.CreateThought(ctx, "note", "staged", nil); err != nil {
		t.Fatalf("create thought: %v", err)
	}

	commit, err := client.Commit("manual commit")
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if commit.Message != "manual commit" {
		t.Fatalf("expected commit message to round trip, got %q", commit.Message)
	}
	if commit.Hash == "" {
		t.Fatal("expected a non-empty commit hash")
	}
}
