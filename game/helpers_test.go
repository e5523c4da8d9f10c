package game

import (
	"math/rand"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestState(t *testing.T) *GameState {
	t.Helper()
	st := NewGameState(DefaultBalance(), Options{
		Rand:   rand.New(rand.NewSource(1)),
		Logger: zap.NewNop(),
	})
	st.AddPlayer("p1")
	return st
}

// enterBattle 切到战斗阶段并暂停刷怪，便于手工布置场景
func enterBattle(st *GameState) {
	st.Phase.StartBattle()
	st.Phase.takeBattleEdge()
	st.Battle.StartWave(st.Wave())
	st.Battle.spawnTimer = time.Hour
}

func placeUnit(st *GameState, owner string, x, y, attack, attackRange float64) *Entity {
	return st.AddEntity(&Entity{
		Type: "human_warrior", X: x, Y: y,
		HP: 100, MaxHP: 100, Attack: attack, AttackRange: attackRange,
		OwnerID: owner, Tags: []string{"human"},
	})
}

func placeEnemy(st *GameState, x, y, hp float64) *Entity {
	return st.AddEntity(&Entity{
		Type: "basic_mob", X: x, Y: y,
		HP: hp, MaxHP: hp, Attack: 5, AttackRange: 0.5,
		OwnerID: EnemyOwner, Tags: []string{"mob"},
	})
}

func countEnemies(st *GameState) int {
	n := 0
	for _, e := range st.Entities {
		if e.IsEnemy() {
			n++
		}
	}
	return n
}
