package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nvandessel/hopfield/internal/constants"
	"github.com/nvandessel/hopfield/internal/store"
)

// isolateHome sets HOME to a temp directory to avoid touching real ~/.hopfield/
func isolateHome(t *testing.T, tmpDir string) {
	t.Helper()
	tmpHome := filepath.Join(tmpDir, "home")
	if err := os.MkdirAll(tmpHome, 0755); err != nil {
		t.Fatalf("Failed to create temp home: %v", err)
	}
	t.Setenv("HOME", tmpHome)
}

// newTestServer builds a server on a 10x10 grid backed by an in-memory store.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	s, err := NewServer(&Config{
		Name:    "test-server",
		Version: "v1.0.0",
		Root:    tmpDir,
		Store:   store.NewMemoryRunStore(),
	})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewServer(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	server, err := NewServer(&Config{Name: "test-server", Version: "v1.0.0", Root: tmpDir})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	defer server.Close()

	if server.server == nil {
		t.Error("Server.server is nil")
	}
	if server.root != tmpDir {
		t.Errorf("Server.root = %q, want %q", server.root, tmpDir)
	}
	if server.Side() != 10 {
		t.Errorf("Side() = %d, want default 10", server.Side())
	}
	if server.engine.Size() != 100 {
		t.Errorf("engine size = %d, want 100", server.engine.Size())
	}
	if _, ok := server.store.(*store.SQLiteRunStore); !ok {
		t.Errorf("default store = %T, want *store.SQLiteRunStore", server.store)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, ".hopfield", store.DBFile)); err != nil {
		t.Errorf("runs.db not created: %v", err)
	}
}

func TestNewServer_CustomSide(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	server, err := NewServer(&Config{Name: "t", Root: tmpDir, Side: 6, Store: store.NewMemoryRunStore()})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	defer server.Close()

	if server.engine.Size() != 36 {
		t.Errorf("engine size = %d, want 36", server.engine.Size())
	}
}

func TestNewServer_InvalidSide(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	for _, side := range []int{-3, constants.MaxSide + 1} {
		if _, err := NewServer(&Config{Name: "t", Root: tmpDir, Side: side, Store: store.NewMemoryRunStore()}); err == nil {
			t.Errorf("NewServer should reject side %d", side)
		}
	}
}

func TestNewServer_HasRateLimiters(t *testing.T) {
	s := newTestServer(t)

	for _, tool := range []string{
		"hopfield_generate", "hopfield_noise", "hopfield_train",
		"hopfield_recall", "hopfield_centroid", "hopfield_runs",
	} {
		if _, ok := s.toolLimiters[tool]; !ok {
			t.Errorf("missing rate limiter for %s", tool)
		}
	}
}

func TestRun_CancelledContext(t *testing.T) {
	s := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

func TestClose(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	s, err := NewServer(&Config{Name: "t", Root: tmpDir})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
