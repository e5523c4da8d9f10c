package game

import (
	"testing"
	"time"
)

func TestPhaseManager_InitialPlanning(t *testing.T) {
	p := NewPhaseManager(30*time.Second, false, nil)
	if p.Phase() != PhasePlanning {
		t.Fatalf("phase = %s, want PLANNING", p.Phase())
	}
	if p.Timer() != 30*time.Second {
		t.Fatalf("timer = %v, want 30s", p.Timer())
	}
	if got := p.TimerSeconds(); got != 30 {
		t.Errorf("TimerSeconds = %d, want 30", got)
	}
}

func TestPhaseManager_TimerClampsAtZeroWithoutAutoStart(t *testing.T) {
	p := NewPhaseManager(100*time.Millisecond, false, nil)
	p.Update(60 * time.Millisecond)
	if p.Timer() != 40*time.Millisecond {
		t.Fatalf("timer = %v, want 40ms", p.Timer())
	}
	p.Update(60 * time.Millisecond)
	if p.Timer() != 0 {
		t.Fatalf("timer = %v, want 0", p.Timer())
	}
	if p.Phase() != PhasePlanning {
		t.Fatalf("phase = %s, want PLANNING (no auto start)", p.Phase())
	}
	if p.TimerSeconds() != 0 {
		t.Errorf("TimerSeconds = %d, want 0", p.TimerSeconds())
	}
}

func TestPhaseManager_AutoStartOnExpiry(t *testing.T) {
	p := NewPhaseManager(100*time.Millisecond, true, nil)
	p.Update(150 * time.Millisecond)
	if p.Phase() != PhaseBattle {
		t.Fatalf("phase = %s, want BATTLE", p.Phase())
	}
	if !p.takeBattleEdge() {
		t.Fatal("expected battle edge after auto start")
	}
}

func TestPhaseManager_StartBattleIdempotent(t *testing.T) {
	p := NewPhaseManager(30*time.Second, false, nil)
	if !p.StartBattle() {
		t.Fatal("first StartBattle should transition")
	}
	if p.Timer() != 0 {
		t.Errorf("battle timer = %v, want 0", p.Timer())
	}
	if p.StartBattle() {
		t.Fatal("second StartBattle should be a no-op")
	}
	if !p.takeBattleEdge() {
		t.Fatal("expected one battle edge")
	}
	if p.takeBattleEdge() {
		t.Fatal("battle edge consumed twice")
	}
	p.Update(time.Second)
	if p.Timer() != 0 {
		t.Errorf("timer moved during battle: %v", p.Timer())
	}
}

func TestPhaseManager_TimerSecondsRoundsUp(t *testing.T) {
	cases := []struct {
		remaining time.Duration
		want      int
	}{
		{30 * time.Second, 30},
		{29001 * time.Millisecond, 30},
		{29 * time.Second, 29},
		{time.Millisecond, 1},
	}
	for _, c := range cases {
		p := NewPhaseManager(30*time.Second, false, nil)
		p.Update(30*time.Second - c.remaining)
		if got := p.TimerSeconds(); got != c.want {
			t.Errorf("remaining %v: TimerSeconds = %d, want %d", c.remaining, got, c.want)
		}
	}
}

func TestPhaseManager_GameOverIsTerminal(t *testing.T) {
	p := NewPhaseManager(time.Second, true, nil)
	p.EndMatch()
	p.StartPlanning()
	if p.StartBattle() {
		t.Fatal("StartBattle transitioned out of GAME_OVER")
	}
	p.Update(2 * time.Second)
	if p.Phase() != PhaseGameOver {
		t.Fatalf("phase = %s, want GAME_OVER", p.Phase())
	}
}
