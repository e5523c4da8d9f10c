package game

import (
	"errors"
	"testing"
	"time"
)

func TestGameState_AddPlayerIdempotent(t *testing.T) {
	st := newTestState(t)
	p := st.Players["p1"]
	if p.Cash != 100 || p.Bank != 0 || p.HP != 20 {
		t.Fatalf("unexpected starting player %+v", p)
	}
	p.Cash = 3
	if again, err := st.AddPlayer("p1"); err != nil || again != p || again.Cash != 3 {
		t.Errorf("AddPlayer replaced an existing player")
	}
}

func TestGameState_AddPlayerRejectsReservedIDs(t *testing.T) {
	st := newTestState(t)
	for _, id := range []string{EnemyOwner, ""} {
		if p, err := st.AddPlayer(id); !errors.Is(err, ErrInvalidPlayerID) || p != nil {
			t.Errorf("AddPlayer(%q) = %v, %v; want ErrInvalidPlayerID", id, p, err)
		}
	}
	if len(st.Players) != 1 {
		t.Fatalf("players = %d, want 1", len(st.Players))
	}
	// 敌方标记不能借玩家身份买到会沿路线行进的单位
	if _, err := st.Shop.BuyUnit(EnemyOwner, "", 5, 9); !errors.Is(err, ErrUnknownPlayer) {
		t.Errorf("BuyUnit as enemy = %v, want ErrUnknownPlayer", err)
	}
	if len(st.Entities) != 0 {
		t.Errorf("entities = %d, want 0", len(st.Entities))
	}
}

func TestGameState_RemovePlayerDropsUnits(t *testing.T) {
	st := newTestState(t)
	st.AddPlayer("p2")
	placeUnit(st, "p1", 1, 1, 10, 1)
	keep := placeUnit(st, "p2", 2, 2, 10, 1)
	enemy := placeEnemy(st, 30, 9, 30)

	st.RemovePlayer("p1")

	if _, ok := st.Players["p1"]; ok {
		t.Fatal("player still present")
	}
	if len(st.Entities) != 2 || st.Entities[keep.ID] == nil || st.Entities[enemy.ID] == nil {
		t.Errorf("unexpected entities after removal: %d", len(st.Entities))
	}
}

func TestGameState_SnapshotIsDetached(t *testing.T) {
	st := newTestState(t)
	unit := placeUnit(st, "p1", 1, 1, 10, 1)
	placeEnemy(st, 30, 9, 30)
	st.Update(1500 * time.Millisecond)

	snap := st.Snapshot()
	if snap.Phase != PhasePlanning || snap.Timer != 29 || snap.Wave != 1 {
		t.Fatalf("snapshot header = %s/%d/%d", snap.Phase, snap.Timer, snap.Wave)
	}
	if len(snap.Entities) != 2 || snap.Entities[0].ID != unit.ID {
		t.Fatalf("entities not in spawn order: %+v", snap.Entities)
	}
	snap.Entities[0].Attack = 999
	snap.Entities[0].Tags[0] = "changed"
	snap.Players[0].Cash = -1
	if unit.Attack != 10 || unit.Tags[0] != "human" || st.Players["p1"].Cash != 100 {
		t.Error("snapshot shares memory with world state")
	}
}

func TestGameState_TimerNeverNegativeInSnapshot(t *testing.T) {
	st := newTestState(t)
	st.Update(time.Minute)
	if snap := st.Snapshot(); snap.Timer != 0 {
		t.Errorf("timer = %d, want 0", snap.Timer)
	}
}
