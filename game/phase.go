package game

import (
	"time"

	"go.uber.org/zap"
)

// Phase 对局阶段
type Phase string

const (
	PhasePlanning Phase = "PLANNING"
	PhaseBattle   Phase = "BATTLE"
	PhaseGameOver Phase = "GAME_OVER"
)

// PhaseManager 阶段状态机：PLANNING ⇄ BATTLE，任意阶段 → GAME_OVER
// 状态只能通过 Start*/EndMatch 转换；倒计时只在 PLANNING 有意义，其余阶段恒为 0
type PhaseManager struct {
	phase    Phase
	timer    time.Duration
	planning time.Duration

	// autoStart 为 true 时倒计时归零自动开战，否则停在 0 等待 READY
	autoStart bool

	// battleEdge 记录一次 PLANNING→BATTLE 转换，由 GameState 消费且只消费一次
	battleEdge bool

	log *zap.Logger
}

func NewPhaseManager(planning time.Duration, autoStart bool, log *zap.Logger) *PhaseManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &PhaseManager{
		phase:     PhasePlanning,
		timer:     planning,
		planning:  planning,
		autoStart: autoStart,
		log:       log,
	}
}

func (p *PhaseManager) Phase() Phase { return p.phase }
func (p *PhaseManager) Timer() time.Duration { return p.timer }
func (p *PhaseManager) AutoStart() bool { return p.autoStart }
func (p *PhaseManager) SetAutoStart(v bool) { p.autoStart = v }
func (p *PhaseManager) Planning() time.Duration { return p.planning }

// SetPlanningDuration 修改之后每次准备阶段的时长，不影响正在进行的倒计时
func (p *PhaseManager) SetPlanningDuration(d time.Duration) {
	if d < 0 {
		d = 0
	}
	p.planning = d
}

// TimerSeconds 广播用的秒级倒计时，向上取整
func (p *PhaseManager) TimerSeconds() int {
	if p.timer <= 0 {
		return 0
	}
	return int((p.timer + time.Second - 1) / time.Second)
}

// StartPlanning 进入准备阶段并重置倒计时
func (p *PhaseManager) StartPlanning() {
	if p.phase == PhaseGameOver {
		return
	}
	p.phase = PhasePlanning
	p.timer = p.planning
	p.battleEdge = false
	p.log.Info("phase: planning started", zap.Duration("timer", p.timer))
}

// StartBattle 进入战斗阶段；已在战斗或对局结束时为空操作，返回是否发生转换
func (p *PhaseManager) StartBattle() bool {
	if p.phase != PhasePlanning {
		return false
	}
	p.phase = PhaseBattle
	p.timer = 0
	p.battleEdge = true
	p.log.Info("phase: battle started")
	return true
}

// EndMatch 进入终止状态
func (p *PhaseManager) EndMatch() {
	if p.phase == PhaseGameOver {
		return
	}
	p.phase = PhaseGameOver
	p.timer = 0
	p.battleEdge = false
	p.log.Info("phase: game over")
}

// Update 推进准备阶段倒计时；倒计时不会小于 0
func (p *PhaseManager) Update(dt time.Duration) {
	if p.phase != PhasePlanning {
		return
	}
	if p.timer > 0 {
		p.timer -= dt
		if p.timer < 0 {
			p.timer = 0
		}
	}
	if p.timer == 0 && p.autoStart {
		p.StartBattle()
	}
}

// takeBattleEdge 返回并清除待处理的开战边沿
func (p *PhaseManager) takeBattleEdge() bool {
	edge := p.battleEdge
	p.battleEdge = false
	return edge
}
