package tui

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-dodge/internal/core"
)

func newTestSSHServer(t *testing.T) *SSHServer {
	t.Helper()
	dir := t.TempDir()

	cfg := DefaultSSHServerConfig()
	cfg.Address = "127.0.0.1:0"
	cfg.HostKeyPath = filepath.Join(dir, "keys", "host_key")
	cfg.DBPath = filepath.Join(dir, "scores.db")
	cfg.Game = deadlyConfig()
	cfg.Game.Scoring.FramesPerPoint = 1

	srv, err := NewSSHServer(cfg, log.New(io.Discard))
	if err != nil {
		t.Fatalf("NewSSHServer() failed: %v", err)
	}
	t.Cleanup(srv.closeStore)
	return srv
}

func TestSSHPlayersShareHighScore(t *testing.T) {
	srv := newTestSSHServer(t)
	if srv.store == nil {
		t.Fatal("Server should open its store")
	}

	ann := srv.newPlayerApp("ann", 80, 24)
	bob := srv.newPlayerApp("bob", 80, 24)

	for i := 0; i < 10 && !ann.Session().Ended(); i++ {
		ann.Session().Tick(core.NewInputFrame())
	}
	res := ann.Session().Result()
	if !ann.Session().Ended() || res.Score != 1 || !res.NewHighScore {
		t.Fatalf("Ann's game = %+v, expected a new high score of 1", res)
	}

	if got := srv.sharedHighScore(); got != 1 {
		t.Errorf("sharedHighScore() = %d, expected 1", got)
	}
	if got := srv.newPlayerApp("cid", 80, 24).Session().HighScore(); got != 1 {
		t.Errorf("A player joining later should start from the shared record, got %d", got)
	}
	if got := bob.Session().HighScore(); got != 0 {
		t.Errorf("Bob's session read the store before Ann finished, got %d", got)
	}
}

func TestResolveHostKeyCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "host_key")

	got, err := resolveHostKey(path)
	if err != nil {
		t.Fatalf("resolveHostKey() failed: %v", err)
	}
	if got != path {
		t.Errorf("resolveHostKey() = %q, expected %q", got, path)
	}
	if info, err := os.Stat(filepath.Dir(path)); err != nil || !info.IsDir() {
		t.Errorf("Key directory should exist: %v", err)
	}
}
