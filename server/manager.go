package server

import (
	"sort"
	"sync"

	"silkroad/config"
	"silkroad/game"
)

// MatchManager 管理多个对局的生命周期
type MatchManager struct {
	mu      sync.RWMutex
	matches map[string]*Match

	cfg     *config.Config
	balance *game.Balance

	manualTick bool // 测试中手动调用 Step
}

func NewMatchManager(cfg *config.Config, balance *game.Balance) *MatchManager {
	return &MatchManager{
		matches: make(map[string]*Match),
		cfg:     cfg,
		balance: balance,
	}
}

// GetOrCreateMatch 获取或创建对局，并确保开始 Tick
func (mm *MatchManager) GetOrCreateMatch(id string) *Match {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	m, ok := mm.matches[id]
	if !ok {
		m = NewMatch(id, mm.cfg, mm.balance)
		mm.matches[id] = m
		if !mm.manualTick {
			m.StartTicker(mm.cfg.Network.TickRate)
		}
		Log.Infow("match created", "match", id)
	}
	return m
}

// Get 查找已存在的对局
func (mm *MatchManager) Get(id string) (*Match, bool) {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	m, ok := mm.matches[id]
	return m, ok
}

// IDs 已创建对局的 ID（有序）
func (mm *MatchManager) IDs() []string {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	ids := make([]string, 0, len(mm.matches))
	for id := range mm.matches {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close 停止所有对局
func (mm *MatchManager) Close() {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	for _, m := range mm.matches {
		m.Stop()
	}
}
