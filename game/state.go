package game

import (
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options 构造 GameState 的可选参数
type Options struct {
	AutoStartBattle bool
	Rand            *rand.Rand // nil 时按当前时间取种
	Logger          *zap.Logger
}

// GameState 世界聚合根：唯一的可变共享状态
// 所有系统在构造时拿到它的引用，读写都经过它，不缓存实体或玩家数据
// 并发约束：只能在 Tick 内由单一协程修改
type GameState struct {
	Phase    *PhaseManager
	Entities map[string]*Entity
	Players  map[string]*Player
	Balance  *Balance

	Economy *EconomySystem
	Shop    *ShopSystem
	Upgrade *UpgradeSystem
	Synergy *SynergySystem
	Battle  *BattleSystem

	wave    int
	nextSeq uint64
	log     *zap.Logger
}

// NewGameState 创建世界并进入第一个准备阶段
func NewGameState(balance *Balance, opts Options) *GameState {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &GameState{
		Phase:    NewPhaseManager(balance.PlanningDuration(), opts.AutoStartBattle, log),
		Entities: make(map[string]*Entity),
		Players:  make(map[string]*Player),
		Balance:  balance,
		wave:     1,
		log:      log,
	}
	s.Economy = &EconomySystem{state: s, log: log}
	s.Shop = &ShopSystem{state: s, log: log}
	s.Upgrade = &UpgradeSystem{state: s, log: log}
	s.Synergy = newSynergySystem(s)
	s.Battle = newBattleSystem(s, rng, log)
	s.Phase.StartPlanning()
	return s
}

// Wave 当前波次（从 1 开始）
func (s *GameState) Wave() int { return s.wave }

// ValidPlayerID 玩家 ID 不能为空，也不能与敌方归属标记相同
func ValidPlayerID(id string) bool {
	return id != "" && id != EnemyOwner
}

// AddPlayer 以初始资金创建玩家；已存在时直接返回
func (s *GameState) AddPlayer(id string) (*Player, error) {
	if !ValidPlayerID(id) {
		return nil, ErrInvalidPlayerID
	}
	if p, ok := s.Players[id]; ok {
		return p, nil
	}
	eco := s.Balance.Economy
	p := &Player{ID: id, Cash: eco.StartingCash, Bank: eco.StartingBank, HP: eco.StartingHP}
	s.Players[id] = p
	s.log.Info("player joined", zap.String("player", id))
	return p, nil
}

// RemovePlayer 移除玩家及其全部单位
func (s *GameState) RemovePlayer(id string) {
	if _, ok := s.Players[id]; !ok {
		return
	}
	for eid, e := range s.Entities {
		if e.OwnerID == id {
			delete(s.Entities, eid)
		}
	}
	delete(s.Players, id)
	s.log.Info("player removed", zap.String("player", id))
}

// AddEntity 将实体放入世界；ID 为空时生成新 ID
func (s *GameState) AddEntity(e *Entity) *Entity {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	s.nextSeq++
	e.seq = s.nextSeq
	s.Entities[e.ID] = e
	return e
}

// RemoveEntity 立即移除实体，后续扫描不会再看到它
func (s *GameState) RemoveEntity(id string) {
	delete(s.Entities, id)
}

// orderedIDs 按入场顺序排列的实体 ID 快照
func (s *GameState) orderedIDs() []string {
	ids := make([]string, 0, len(s.Entities))
	for id := range s.Entities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return s.Entities[ids[i]].seq < s.Entities[ids[j]].seq
	})
	return ids
}

// live 按 ID 取仍然存活的实体
func (s *GameState) live(id string) *Entity {
	e, ok := s.Entities[id]
	if !ok || !e.Alive() {
		return nil
	}
	return e
}

// Update 单次 Tick：阶段推进 → 开战结算利息 → 战斗 → 羁绊 → 终局/清波检测
func (s *GameState) Update(dt time.Duration) {
	s.Phase.Update(dt)

	if s.Phase.takeBattleEdge() {
		s.Economy.ProcessInterest()
		s.Battle.StartWave(s.wave)
	}

	s.Battle.Update(dt)
	s.Synergy.Update()

	switch {
	case s.allPlayersDefeated():
		s.Phase.EndMatch()
		s.log.Info("match over", zap.Int("wave", s.wave))
	case s.Phase.Phase() == PhaseBattle && s.Battle.WaveCleared():
		s.log.Info("wave cleared", zap.Int("wave", s.wave))
		s.wave++
		s.Phase.StartPlanning()
	}
}

// allPlayersDefeated 所有玩家基地血量 <= 0
func (s *GameState) allPlayersDefeated() bool {
	if len(s.Players) == 0 || s.Phase.Phase() == PhaseGameOver {
		return false
	}
	for _, p := range s.Players {
		if p.HP > 0 {
			return false
		}
	}
	return true
}

// Snapshot 广播用的完整状态副本，序列化时不再引用世界内部数据
type Snapshot struct {
	Phase    Phase        `json:"phase"`
	Timer    int          `json:"timer"`
	Wave     int          `json:"wave"`
	Entities []Entity     `json:"entities"`
	Players  []PlayerView `json:"players"`
}

// Snapshot 构造当前世界的快照；须在 Tick 完成后、下一次 Tick 前调用
func (s *GameState) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:    s.Phase.Phase(),
		Timer:    s.Phase.TimerSeconds(),
		Wave:     s.wave,
		Entities: make([]Entity, 0, len(s.Entities)),
		Players:  make([]PlayerView, 0, len(s.Players)),
	}
	for _, id := range s.orderedIDs() {
		snap.Entities = append(snap.Entities, s.Entities[id].clone())
	}
	for _, p := range s.Players {
		snap.Players = append(snap.Players, PlayerView{Player: *p, Synergies: s.Synergy.Active(p.ID)})
	}
	sort.Slice(snap.Players, func(i, j int) bool { return snap.Players[i].ID < snap.Players[j].ID })
	return snap
}
