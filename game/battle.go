package game

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// blockDistance 敌人下一步落点与我方单位的横向距离小于该值即被阻挡
const blockDistance = 1.0

// BattleSystem 敌人刷新、移动、阻挡与伤害结算，仅在 BATTLE 阶段运行
type BattleSystem struct {
	state *GameState
	rng   *rand.Rand
	log   *zap.Logger

	spawnTimer time.Duration // 独立于阶段倒计时
	quota      int           // 本波需刷新数量，0 = 不限
	spawned    int
}

func newBattleSystem(s *GameState, rng *rand.Rand, log *zap.Logger) *BattleSystem {
	return &BattleSystem{state: s, rng: rng, log: log}
}

// StartWave 开始新一波：立即刷第一个敌人
func (b *BattleSystem) StartWave(wave int) {
	b.spawnTimer = 0
	b.spawned = 0
	b.quota = b.state.Balance.WaveQuota(wave)
}

// WaveCleared 本波已全部刷出且场上没有存活敌人
func (b *BattleSystem) WaveCleared() bool {
	if b.quota == 0 || b.spawned < b.quota {
		return false
	}
	for _, e := range b.state.Entities {
		if e.IsEnemy() {
			return false
		}
	}
	return true
}

// Update 刷新 → 移动与战斗；dt 为实际经过的时间
func (b *BattleSystem) Update(dt time.Duration) {
	if b.state.Phase.Phase() != PhaseBattle {
		return
	}
	b.handleSpawning(dt)
	b.handleCombat(dt)
}

func (b *BattleSystem) handleSpawning(dt time.Duration) {
	if b.quota > 0 && b.spawned >= b.quota {
		return
	}
	b.spawnTimer -= dt
	if b.spawnTimer <= 0 {
		b.spawnEnemy()
		b.spawnTimer = b.state.Balance.SpawnInterval()
	}
}

// spawnEnemy 在丝绸之路入口随机一行刷出敌人
func (b *BattleSystem) spawnEnemy() {
	lane := b.state.Balance.Lane
	arch := b.state.Balance.Enemy
	row := lane.Rows[b.rng.Intn(len(lane.Rows))]
	b.state.AddEntity(&Entity{
		ID:          "enemy_" + uuid.NewString(),
		Type:        arch.Type,
		X:           lane.EntryX,
		Y:           float64(row),
		HP:          arch.HP,
		MaxHP:       arch.HP,
		Attack:      arch.Attack,
		AttackRange: arch.AttackRange,
		Width:       arch.Width,
		Height:      arch.Height,
		OwnerID:     EnemyOwner,
		Tags:        append([]string(nil), arch.Tags...),
	})
	b.spawned++
}

// handleCombat 每个实体每 Tick 只结算一次
// 扫描使用本轮开始时的 ID 快照（按入场顺序），死亡实体立即移除，之后的查找自动跳过
func (b *BattleSystem) handleCombat(dt time.Duration) {
	ids := b.state.orderedIDs()
	for _, id := range ids {
		e := b.state.live(id)
		if e == nil {
			continue
		}
		if e.IsEnemy() {
			b.updateEnemy(e, ids, dt)
		} else {
			b.updateUnit(e, ids, dt)
		}
	}
}

// updateEnemy 沿丝绸之路向左推进；被阻挡时改为攻击阻挡者，抵达基地则扣血并销毁
func (b *BattleSystem) updateEnemy(enemy *Entity, ids []string, dt time.Duration) {
	step := b.state.Balance.Enemy.Speed * dt.Seconds()
	targetX := enemy.X - step

	if blocker := b.findBlocker(enemy, targetX, ids); blocker != nil {
		b.attack(enemy, blocker, dt)
		return
	}

	enemy.X = targetX
	if enemy.X > b.state.Balance.Lane.BaseX {
		return
	}
	dmg := b.state.Balance.Economy.BaseDamage
	for _, p := range b.state.Players {
		p.HP -= dmg
	}
	b.state.RemoveEntity(enemy.ID)
	b.log.Info("enemy reached base", zap.String("enemy", enemy.ID), zap.Int("damage", dmg))
}

// findBlocker 同一行内第一个（按入场顺序）离落点不足一格的我方单位
func (b *BattleSystem) findBlocker(enemy *Entity, targetX float64, ids []string) *Entity {
	for _, id := range ids {
		o := b.state.live(id)
		if o == nil || o.IsEnemy() || o.Y != enemy.Y {
			continue
		}
		if math.Abs(o.X-targetX) < blockDistance {
			return o
		}
	}
	return nil
}

// updateUnit 攻击射程内最近的敌人
func (b *BattleSystem) updateUnit(unit *Entity, ids []string, dt time.Duration) {
	var target *Entity
	minDist := math.Inf(1)
	for _, id := range ids {
		o := b.state.live(id)
		if o == nil || !o.IsEnemy() {
			continue
		}
		dist := math.Hypot(unit.X-o.X, unit.Y-o.Y)
		if dist <= unit.AttackRange && dist < minDist {
			minDist = dist
			target = o
		}
	}
	if target != nil {
		b.attack(unit, target, dt)
	}
}

// attack 持续伤害模型：伤害 = 攻击力 × 羁绊乘数 × 实际 dt（秒）
// 目标死亡立即移除；击杀敌人时给攻击者的玩家发放赏金
func (b *BattleSystem) attack(attacker, target *Entity, dt time.Duration) {
	damage := attacker.Attack * b.state.Synergy.AttackMultiplier(attacker) * dt.Seconds()
	target.HP -= damage
	if target.HP > 0 {
		return
	}
	if target.IsEnemy() {
		if p, ok := b.state.Players[attacker.OwnerID]; ok {
			p.Cash += b.state.Balance.Enemy.Bounty
		}
	}
	b.state.RemoveEntity(target.ID)
	b.log.Debug("entity killed", zap.String("target", target.ID), zap.String("killer", attacker.ID))
}
