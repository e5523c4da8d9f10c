package game

import "sort"

// HumanWave 5 个及以上 human 单位时触发的羁绊
const HumanWave = "HUMAN_WAVE"

// SynergySystem 根据单位标签组成计算羁绊
// 结果每个 Tick 重新推导，只作为伤害计算时的乘数，从不写回基础数值，重复计算结果不变
type SynergySystem struct {
	state  *GameState
	active map[string][]SynergyRule // playerID -> 生效的羁绊
}

func newSynergySystem(s *GameState) *SynergySystem {
	return &SynergySystem{state: s, active: make(map[string][]SynergyRule)}
}

// Update 重新计算所有玩家的羁绊
func (s *SynergySystem) Update() {
	active := make(map[string][]SynergyRule, len(s.state.Players))
	for id := range s.state.Players {
		if rules := s.Evaluate(id); len(rules) > 0 {
			active[id] = rules
		}
	}
	s.active = active
}

// Evaluate 纯计算：统计玩家单位的标签并返回达到阈值的羁绊
func (s *SynergySystem) Evaluate(playerID string) []SynergyRule {
	counts := make(map[string]int)
	for _, e := range s.state.Entities {
		if e.OwnerID != playerID {
			continue
		}
		for _, tag := range e.Tags {
			counts[tag]++
		}
	}
	var rules []SynergyRule
	for _, r := range s.state.Balance.Synergies {
		if counts[r.Tag] >= r.Threshold {
			rules = append(rules, r)
		}
	}
	return rules
}

// Active 最近一次 Update 后玩家生效的羁绊名
func (s *SynergySystem) Active(playerID string) []string {
	names := make([]string, 0, len(s.active[playerID]))
	for _, r := range s.active[playerID] {
		names = append(names, r.Name)
	}
	sort.Strings(names)
	return names
}

// Has 玩家是否拥有指定羁绊
func (s *SynergySystem) Has(playerID, name string) bool {
	for _, r := range s.active[playerID] {
		if r.Name == name {
			return true
		}
	}
	return false
}

// AttackMultiplier 单位当前的攻击乘数：所属玩家每个生效且匹配标签的羁绊相乘
func (s *SynergySystem) AttackMultiplier(e *Entity) float64 {
	m := 1.0
	for _, r := range s.active[e.OwnerID] {
		if r.AttackMultiplier > 0 && e.HasTag(r.Tag) {
			m *= r.AttackMultiplier
		}
	}
	return m
}
