package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-dodge/internal/config"
	"github.com/vovakirdan/tui-dodge/internal/core"
	"github.com/vovakirdan/tui-dodge/internal/games/dodge"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreHighScoreDefaultsToZero(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore()
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for a fresh store, got %d", high)
	}
}

func TestStoreHighScoreRoundTrip(t *testing.T) {
	store := openTestStore(t)

	tests := []struct {
		set      int
		expected int
	}{
		{42, 42},
		{7, 42}, // a lower score never replaces the record
		{120, 120},
	}
	for _, tc := range tests {
		stored, err := store.SetHighScore(tc.set)
		if err != nil {
			t.Fatalf("SetHighScore(%d) failed: %v", tc.set, err)
		}
		if stored != tc.expected {
			t.Errorf("SetHighScore(%d) returned %d, expected %d", tc.set, stored, tc.expected)
		}
		high, err := store.HighScore()
		if err != nil {
			t.Fatalf("HighScore() failed: %v", err)
		}
		if high != tc.expected {
			t.Errorf("after SetHighScore(%d): HighScore() = %d, expected %d", tc.set, high, tc.expected)
		}
	}

	if err := store.ResetHighScore(); err != nil {
		t.Fatalf("ResetHighScore() failed: %v", err)
	}
	if high, _ := store.HighScore(); high != 0 {
		t.Errorf("Expected 0 after reset, got %d", high)
	}
}

func TestStoreHighScoreSurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.SetHighScore(42); err != nil {
		t.Fatalf("SetHighScore() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	if high, _ := store.HighScore(); high != 42 {
		t.Errorf("Expected persisted high score 42, got %d", high)
	}
}

func TestStoreMalformedHighScore(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.db.Exec("INSERT INTO settings (key, value) VALUES (?, ?)", highScoreKey, "lots"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, err := store.HighScore(); err == nil {
		t.Error("Expected an error for a non-numeric high score")
	}

	stored, err := store.SetHighScore(3)
	if err != nil {
		t.Fatalf("SetHighScore() failed: %v", err)
	}
	if stored != 3 {
		t.Errorf("A real score should replace a malformed one, got %d", stored)
	}
}

func TestStoreRecordAndTopRuns(t *testing.T) {
	store := openTestStore(t)

	runs := []dodge.Run{
		{ID: "a", Score: 100, Frames: 3000, Shape: "circle", Color: "red"},
		{ID: "b", Score: 50, Frames: 1500, Shape: "square", Color: "blue"},
		{ID: "c", Score: 200, Frames: 6000, Shape: "triangle", Color: "green"},
	}
	for _, r := range runs {
		if err := store.RecordRun(r); err != nil {
			t.Fatalf("RecordRun(%s) failed: %v", r.ID, err)
		}
	}

	top, err := store.TopRuns(10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(top))
	}

	// Should be sorted descending
	expected := []string{"c", "a", "b"}
	for i, id := range expected {
		if top[i].RunID != id {
			t.Errorf("top[%d] = %s, expected %s", i, top[i].RunID, id)
		}
	}
	if top[0].Score != 200 || top[0].Frames != 6000 || top[0].Shape != "triangle" || top[0].Color != "green" {
		t.Errorf("Unexpected top run: %+v", top[0])
	}

	recent, err := store.RecentRuns(2)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 2 || recent[0].RunID != "c" || recent[1].RunID != "b" {
		t.Errorf("RecentRuns(2) = %+v, expected c then b", recent)
	}
}

func TestStoreTopRunsLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.RecordRun(dodge.Run{ID: string(rune('a' + i)), Score: (i + 1) * 100})
	}

	top, err := store.TopRuns(3)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 3 {
		t.Errorf("Expected 3 runs with limit, got %d", len(top))
	}
	if top[0].Score != 500 || top[1].Score != 400 || top[2].Score != 300 {
		t.Errorf("Runs not in expected order: %v", top)
	}

	all, err := store.AllRuns()
	if err != nil {
		t.Fatalf("AllRuns() failed: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("Expected 5 runs, got %d", len(all))
	}
}

func TestStoreDuplicateRunID(t *testing.T) {
	store := openTestStore(t)

	if err := store.RecordRun(dodge.Run{ID: "same", Score: 1}); err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}
	if err := store.RecordRun(dodge.Run{ID: "same", Score: 2}); err == nil {
		t.Error("Expected an error recording the same run twice")
	}
}

func TestStoreClearRunsKeepsHighScore(t *testing.T) {
	store := openTestStore(t)

	store.SetHighScore(300)
	store.RecordRun(dodge.Run{ID: "a", Score: 100})
	store.RecordRun(dodge.Run{ID: "b", Score: 300})

	if err := store.ClearRuns(); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}

	top, _ := store.TopRuns(10)
	if len(top) != 0 {
		t.Errorf("Expected 0 runs after clear, got %d", len(top))
	}
	if high, _ := store.HighScore(); high != 300 {
		t.Errorf("High score should survive clearing runs, got %d", high)
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.GetStats()
	if err != nil {
		t.Fatalf("GetStats() failed: %v", err)
	}
	if empty.RunsCount != 0 || empty.BestRun != 0 || empty.HighScore != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("Unexpected stats for empty store: %+v", empty)
	}

	store.RecordRun(dodge.Run{ID: "a", Score: 10, Frames: 300})
	store.RecordRun(dodge.Run{ID: "b", Score: 30, Frames: 900})
	store.SetHighScore(30)

	stats, err := store.GetStats()
	if err != nil {
		t.Fatalf("GetStats() failed: %v", err)
	}
	if stats.RunsCount != 2 {
		t.Errorf("RunsCount = %d, expected 2", stats.RunsCount)
	}
	if stats.BestRun != 30 || stats.HighScore != 30 {
		t.Errorf("BestRun/HighScore = %d/%d, expected 30/30", stats.BestRun, stats.HighScore)
	}
	if stats.AvgScore != 20 {
		t.Errorf("AvgScore = %v, expected 20", stats.AvgScore)
	}
	if stats.TotalFrames != 1200 {
		t.Errorf("TotalFrames = %d, expected 1200", stats.TotalFrames)
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreWithSession(t *testing.T) {
	store := openTestStore(t)
	store.SetHighScore(5)

	look := dodge.NewAppearance(config.AppearanceConfig{})
	s := dodge.NewSession(config.DefaultDodgeConfig(), look, 1000, 800, 1, dodge.WithStore(store))

	if s.HighScore() != 5 {
		t.Errorf("Session should read the stored high score, got %d", s.HighScore())
	}
}

// fallingWallConfig spawns a canvas-wide block every tick and scores every
// frame, so a game lasts until the first block reaches the player. The
// player's top edge sits at y=345 on a 1000x800 viewport; a block falling
// at speed v ends the game with a score of the first k where k*v > 345.
func fallingWallConfig(speed float64) config.DodgeConfig {
	cfg := config.DefaultDodgeConfig()
	cfg.Obstacles.SpawnChance = 1
	cfg.Obstacles.MinSize = 1000
	cfg.Obstacles.MaxSize = 1000
	cfg.Obstacles.MinSpeed = speed
	cfg.Obstacles.MaxSpeed = speed
	cfg.Scoring.FramesPerPoint = 1
	return cfg
}

// scoreLog is a display keeping the last high score shown.
type scoreLog struct{ high int }

func (l *scoreLog) ShowScore(int)           {}
func (l *scoreLog) ShowHighScore(score int) { l.high = score }

func playToEnd(t *testing.T, s *dodge.Session) dodge.Result {
	t.Helper()
	for i := 0; i < 1000 && !s.Ended(); i++ {
		s.Tick(core.NewInputFrame())
	}
	if !s.Ended() {
		t.Fatal("Game did not end")
	}
	return s.Result()
}

func TestStoreSharedBySessions(t *testing.T) {
	store := openTestStore(t)
	look := dodge.NewAppearance(config.AppearanceConfig{})

	// Both sessions read the empty store before either game ends.
	slowDisplay, fastDisplay := &scoreLog{}, &scoreLog{}
	slow := dodge.NewSession(fallingWallConfig(10), look, 1000, 800, 1,
		dodge.WithStore(store), dodge.WithDisplays(slowDisplay))
	fast := dodge.NewSession(fallingWallConfig(100), look, 1000, 800, 1,
		dodge.WithStore(store), dodge.WithDisplays(fastDisplay))

	first := playToEnd(t, slow)
	if first.Score != 35 || !first.NewHighScore {
		t.Fatalf("First game = %+v, expected a new high score of 35", first)
	}

	second := playToEnd(t, fast)
	if second.Score != 4 {
		t.Fatalf("Second game scored %d, expected 4", second.Score)
	}
	if second.NewHighScore {
		t.Error("A score below the shared record should not be a new high score")
	}

	persisted, err := store.HighScore()
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if persisted != 35 {
		t.Errorf("Stored high score = %d, expected 35", persisted)
	}
	for name, shown := range map[string]int{
		"result":  second.HighScore,
		"session": fast.HighScore(),
		"display": fastDisplay.high,
	} {
		if shown != persisted {
			t.Errorf("%s high score = %d, expected the stored %d", name, shown, persisted)
		}
	}
}
