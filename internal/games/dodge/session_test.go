package dodge

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tui-dodge/internal/config"
	"github.com/vovakirdan/tui-dodge/internal/core"
)

type memStore struct {
	high     int
	readErr  error
	writeErr error
	sets     []int
	runs     []Run
}

func (m *memStore) HighScore() (int, error) {
	if m.readErr != nil {
		return 0, m.readErr
	}
	return m.high, nil
}

func (m *memStore) SetHighScore(score int) (int, error) {
	m.sets = append(m.sets, score)
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	m.high = max(m.high, score)
	return m.high, nil
}

func (m *memStore) RecordRun(run Run) error {
	m.runs = append(m.runs, run)
	return nil
}

type recordingDisplay struct {
	score int
	high  int
}

func (d *recordingDisplay) ShowScore(score int)     { d.score = score }
func (d *recordingDisplay) ShowHighScore(score int) { d.high = score }

type countingSoundtrack struct {
	stops int
}

func (s *countingSoundtrack) Stop() { s.stops++ }

func newTestSession(store *memStore, opts ...SessionOption) (*Session, *recordingDisplay, *recordingDisplay) {
	hud, menu := &recordingDisplay{}, &recordingDisplay{}
	look := NewAppearance(config.AppearanceConfig{Shape: "triangle", Color: "blue"})
	opts = append([]SessionOption{WithStore(store), WithDisplays(hud, menu)}, opts...)
	s := NewSession(config.DefaultDodgeConfig(), look, 1000, 800, 1, opts...)
	s.world.obstacles.rng = noSpawn()
	return s, hud, menu
}

// crash puts an obstacle on the player so the next tick ends the game
// with the given score.
func crash(s *Session, score int) StepResult {
	s.world.score = score
	p := s.world.Player()
	s.world.obstacles.items = []Obstacle{{X: p.X, Y: p.Y, Size: 20, Speed: 0.05}}
	return s.Tick(core.NewInputFrame())
}

func TestSessionNewHighScore(t *testing.T) {
	store := &memStore{}
	s, hud, menu := newTestSession(store)

	if hud.high != 0 || menu.high != 0 {
		t.Fatalf("Initial high score = (%d, %d), expected 0", hud.high, menu.high)
	}

	res := crash(s, 42)

	if !res.State.GameOver || !s.Ended() {
		t.Fatal("Session should have ended")
	}
	if res.State.HighScore != 42 || s.HighScore() != 42 {
		t.Errorf("High score = %d/%d, expected 42", res.State.HighScore, s.HighScore())
	}
	if len(store.sets) != 1 || store.high != 42 {
		t.Errorf("Stored high score writes = %v, expected [42]", store.sets)
	}
	if hud.high != 42 || menu.high != 42 {
		t.Errorf("Displays show (%d, %d), expected 42 on both", hud.high, menu.high)
	}

	r := s.Result()
	if r.Score != 42 || r.HighScore != 42 || !r.NewHighScore || r.RunID != s.RunID() {
		t.Errorf("Result = %+v, expected a new high score of 42", r)
	}
}

func TestSessionKeepsHigherStoredScore(t *testing.T) {
	store := &memStore{high: 100}
	s, hud, menu := newTestSession(store)

	if hud.high != 100 || menu.high != 100 {
		t.Fatalf("Displays should show the stored high score, got (%d, %d)", hud.high, menu.high)
	}

	crash(s, 42)

	if len(store.sets) != 0 {
		t.Errorf("High score should not be written, got %v", store.sets)
	}
	if s.HighScore() != 100 || hud.high != 100 || menu.high != 100 {
		t.Error("High score should stay 100")
	}
	if r := s.Result(); r.NewHighScore || r.Score != 42 || r.HighScore != 100 {
		t.Errorf("Result = %+v, expected score 42 under 100", r)
	}
}

func TestSessionAdoptsHigherScoreFromSharedStore(t *testing.T) {
	store := &memStore{}
	s, hud, menu := newTestSession(store)

	// Another session sharing the store sets a record after this one started.
	store.high = 30

	crash(s, 11)

	if len(store.sets) != 1 || store.high != 30 {
		t.Errorf("Store = %d after writes %v, expected 30 kept", store.high, store.sets)
	}
	if s.HighScore() != 30 || hud.high != 30 || menu.high != 30 {
		t.Errorf("High score = %d, displays (%d, %d), expected 30 everywhere", s.HighScore(), hud.high, menu.high)
	}
	if r := s.Result(); r.NewHighScore || r.HighScore != 30 {
		t.Errorf("Result = %+v, expected no new high score under 30", r)
	}
}

func TestSessionEqualScoreIsNotNewHigh(t *testing.T) {
	store := &memStore{high: 7}
	s, _, _ := newTestSession(store)

	crash(s, 7)

	if len(store.sets) != 0 || s.Result().NewHighScore {
		t.Error("Tying the high score should not replace it")
	}
}

func TestSessionRecordsRun(t *testing.T) {
	store := &memStore{}
	s, _, _ := newTestSession(store)
	s.world.frames = 300

	crash(s, 10)

	if len(store.runs) != 1 {
		t.Fatalf("Expected one recorded run, got %d", len(store.runs))
	}
	run := store.runs[0]
	expected := Run{ID: s.RunID(), Score: 10, Frames: 300, Shape: "triangle", Color: "blue"}
	if run != expected {
		t.Errorf("Recorded %+v, expected %+v", run, expected)
	}
}

func TestSessionSkipsZeroScoreRun(t *testing.T) {
	store := &memStore{}
	s, _, _ := newTestSession(store)

	crash(s, 0)

	if len(store.runs) != 0 {
		t.Errorf("A zero-score run should not be recorded, got %+v", store.runs)
	}
}

func TestSessionEndsOnce(t *testing.T) {
	store := &memStore{}
	music := &countingSoundtrack{}
	s, _, _ := newTestSession(store, WithSoundtrack(music))

	crash(s, 5)
	for i := 0; i < 10; i++ {
		s.Tick(core.NewInputFrame())
	}
	s.endGame(GameOverEvent{Score: 99})

	if music.stops != 1 {
		t.Errorf("Soundtrack stopped %d times, expected 1", music.stops)
	}
	if len(store.sets) != 1 || len(store.runs) != 1 {
		t.Errorf("Game end handled more than once: sets=%v runs=%d", store.sets, len(store.runs))
	}
	if s.HighScore() != 5 {
		t.Errorf("HighScore() = %d, expected 5", s.HighScore())
	}
}

func TestSessionSurvivesStoreErrors(t *testing.T) {
	store := &memStore{high: 50, readErr: errors.New("disk gone"), writeErr: errors.New("disk gone")}
	s, hud, _ := newTestSession(store)

	if s.HighScore() != 0 || hud.high != 0 {
		t.Fatalf("Unreadable high score should count as 0, got %d", s.HighScore())
	}

	crash(s, 3)

	if s.HighScore() != 3 || hud.high != 3 {
		t.Errorf("High score should still update in memory, got %d", s.HighScore())
	}
}

func TestSessionWithoutStore(t *testing.T) {
	hud := &recordingDisplay{}
	s := NewSession(config.DefaultDodgeConfig(), NewAppearance(config.AppearanceConfig{}), 1000, 800, 1, WithDisplays(hud))
	s.world.obstacles.rng = noSpawn()

	crash(s, 8)

	if s.HighScore() != 8 || hud.high != 8 {
		t.Errorf("HighScore() = %d, expected 8", s.HighScore())
	}
}

func TestSessionPublishesScore(t *testing.T) {
	s, hud, menu := newTestSession(&memStore{})

	for i := 0; i < 60; i++ {
		s.Tick(core.NewInputFrame())
	}

	if hud.score != 2 || menu.score != 2 {
		t.Errorf("Displays show (%d, %d), expected score 2", hud.score, menu.score)
	}
}

func TestSessionRestart(t *testing.T) {
	store := &memStore{}
	s, hud, _ := newTestSession(store)
	crash(s, 12)
	firstRun := s.RunID()

	s.Restart(2)

	if s.Ended() || s.World().State() != StateRunning {
		t.Error("Restart should start a running game")
	}
	if s.World().Score() != 0 || hud.score != 0 {
		t.Error("Restart should reset the current score")
	}
	if s.HighScore() != 12 || hud.high != 12 {
		t.Errorf("Restart should keep the high score, got %d", s.HighScore())
	}
	if s.RunID() == firstRun {
		t.Error("Restart should assign a new run id")
	}
	if s.Result() != (Result{}) {
		t.Errorf("Result should reset, got %+v", s.Result())
	}
}

func TestSessionSameSeedSameGame(t *testing.T) {
	look := NewAppearance(config.AppearanceConfig{})
	a := NewSession(config.DefaultDodgeConfig(), look, 1000, 800, 77)
	b := NewSession(config.DefaultDodgeConfig(), look, 1000, 800, 77)

	for i := 0; i < 300; i++ {
		a.Tick(core.NewInputFrame())
		b.Tick(core.NewInputFrame())
	}

	if a.World().Score() != b.World().Score() || len(a.World().Obstacles()) != len(b.World().Obstacles()) {
		t.Error("Sessions with the same seed should play the same game")
	}
}

func TestSessionConfigAppliesOnRestart(t *testing.T) {
	s, _, _ := newTestSession(&memStore{})

	cfg := config.DefaultDodgeConfig()
	cfg.Player.Speed = 25
	s.SetConfig(cfg)

	if s.Config().Player.Speed != 10 || s.World().Player().Speed != 10 {
		t.Fatal("The running game should keep its config")
	}

	s.Restart(3)

	if s.Config().Player.Speed != 25 || s.World().Player().Speed != 25 {
		t.Errorf("Restart should pick up the new config, got speed %v", s.World().Player().Speed)
	}
}
