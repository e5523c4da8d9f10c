package server

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"silkroad/config"
	"silkroad/game"
)

// Match 一局游戏：权威状态维护在内存，单线程 Tick 推进
// 网络协程只往通道里写意图，所有状态修改都发生在 Step 中
type Match struct {
	ID string

	mu       sync.Mutex // 保护 state / handler / sessions，供 Tick 与管理接口互斥
	state    *game.GameState
	handler  *game.InputHandler
	sessions sessions

	inputChan chan Input
	joinChan  chan joinRequest
	leaveChan chan leaveRequest

	cfg     *config.Config
	balance *game.Balance // 本局数值模板，重置时从它克隆
	log     *zap.Logger

	autoStart          bool
	maxCommandsPerTick int

	metrics *MatchMetrics
	tickSeq int64

	tickerStarted bool
	stop          chan struct{}
	stopOnce      sync.Once
}

// NewMatch 创建对局并加入默认玩家
func NewMatch(id string, cfg *config.Config, balance *game.Balance) *Match {
	m := &Match{
		ID:                 id,
		sessions:           make(sessions),
		inputChan:          make(chan Input, cfg.Network.InQueueSize), // 足够缓冲，避免网络读阻塞影响 Tick
		joinChan:           make(chan joinRequest, 64),
		leaveChan:          make(chan leaveRequest, 64),
		cfg:                cfg,
		balance:            balance.Clone(),
		log:                Log.Desugar().With(zap.String("match", id)),
		autoStart:          cfg.Game.AutoStartBattle,
		maxCommandsPerTick: cfg.Network.MaxCommandsPerTick,
		metrics:            &MatchMetrics{},
		stop:               make(chan struct{}),
	}
	m.resetState()
	return m
}

// resetState 重新开局；已连接的玩家保留身份，资金与单位回到初始值
func (m *Match) resetState() {
	seed := m.cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	m.state = game.NewGameState(m.balance.Clone(), game.Options{
		AutoStartBattle: m.autoStart,
		Rand:            rand.New(rand.NewSource(seed)),
		Logger:          m.log,
	})
	m.handler = game.NewInputHandler(m.state)
	// 默认玩家已在配置校验中检查，会话中的玩家加入时已校验
	_, _ = m.state.AddPlayer(m.cfg.Server.DefaultPlayer)
	for _, pid := range m.sessions.players() {
		_, _ = m.state.AddPlayer(pid)
	}
}

// Metrics 对局指标（原子计数，可在任意协程读取）
func (m *Match) Metrics() *MatchMetrics { return m.metrics }

// TickSeq 已执行的 Tick 数
func (m *Match) TickSeq() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tickSeq
}

// Snapshot 在锁内生成当前状态的只读副本
func (m *Match) Snapshot() game.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Snapshot()
}

// JoinPlayer 请求在 Tick 线程中登记连接；对局已停止时返回 false
func (m *Match) JoinPlayer(playerID string, conn *ClientConn) bool {
	select {
	case <-m.stop:
		return false
	default:
	}
	select {
	case m.joinChan <- joinRequest{PlayerID: playerID, Conn: conn}:
		return true
	case <-m.stop:
		return false
	}
}

// RequestLeave 请求在 Tick 线程中移除连接，避免并发改动对局状态
func (m *Match) RequestLeave(playerID string, conn *ClientConn) {
	// 为保证移除一定生效，这里采用阻塞式写入；对局停止后不再有 Tick 消费，直接放弃
	select {
	case m.leaveChan <- leaveRequest{PlayerID: playerID, Conn: conn}:
	case <-m.stop:
	}
}

// OnInput 入站指令（不立即执行），仅记录意图，等下一次 Tick 处理
func (m *Match) OnInput(in Input) {
	select {
	case m.inputChan <- in:
	default:
		// 丢弃：为了实时性，避免背压影响世界推进
		m.metrics.IncQueueFull()
	}
}

// processSessions 处理连接进出；先处理加入，保证同一连接的离开一定排在加入之后
func (m *Match) processSessions() {
	for joined := true; joined; {
		select {
		case req := <-m.joinChan:
			if _, err := m.state.AddPlayer(req.PlayerID); err != nil {
				m.log.Warn("join rejected", zap.String("player", req.PlayerID), zap.Error(err))
				req.Conn.Close()
				continue
			}
			m.sessions[req.Conn] = req.PlayerID
			m.metrics.AddConnections(1)
			m.log.Info("player joined", zap.String("player", req.PlayerID))
		default:
			joined = false
		}
	}
	for {
		select {
		case req := <-m.leaveChan:
			m.leave(req)
		default:
			return
		}
	}
}

func (m *Match) leave(req leaveRequest) {
	if _, ok := m.sessions[req.Conn]; !ok {
		return
	}
	delete(m.sessions, req.Conn)
	req.Conn.Close()
	m.metrics.AddConnections(-1)
	m.log.Info("player left", zap.String("player", req.PlayerID))
	if m.cfg.Server.ReleaseOnDisconnect && m.sessions.count(req.PlayerID) == 0 &&
		req.PlayerID != m.cfg.Server.DefaultPlayer {
		m.state.RemovePlayer(req.PlayerID)
		m.log.Info("player released", zap.String("player", req.PlayerID))
	}
}

// processInputs 执行本帧的指令（非阻塞 drain，单帧有上限，剩余留到下一帧）
func (m *Match) processInputs() []pendingAck {
	var acks []pendingAck
	for n := 0; m.maxCommandsPerTick <= 0 || n < m.maxCommandsPerTick; n++ {
		var in Input
		select {
		case in = <-m.inputChan:
		default:
			return acks
		}
		err := m.handler.Handle(in.PlayerID, in.Command)
		if err != nil {
			m.metrics.IncRejected()
			m.log.Debug("command rejected",
				zap.String("player", in.PlayerID),
				zap.String("type", string(in.Command.Type)),
				zap.Error(err))
		} else {
			m.metrics.IncAccepted()
		}
		if in.Command.Seq > 0 && in.Conn != nil {
			acks = append(acks, pendingAck{conn: in.Conn, ack: newAck(in.Command.Seq, err)})
		}
	}
	return acks
}

// Step 推进一帧：处理进出与指令 → 更新世界 → 广播快照
// 锁内只做状态推进与快照复制，编码与入队在锁外进行
func (m *Match) Step(dt time.Duration) {
	start := time.Now()

	m.mu.Lock()
	m.processSessions()
	acks := m.processInputs()
	m.state.Update(dt)
	snap := m.state.Snapshot()
	conns := m.sessions.conns()
	m.tickSeq++
	m.mu.Unlock()

	for _, a := range acks {
		m.send(a.conn, outbound{Type: msgAck, Data: a.ack})
	}
	m.broadcast(snap, conns)
	m.metrics.AddTick(time.Since(start).Nanoseconds())
}

// broadcast 每种编码只序列化一次，再分发给所有连接
func (m *Match) broadcast(snap game.Snapshot, conns []*ClientConn) {
	encoded := make(map[string][]byte, 2)
	msg := outbound{Type: msgSnapshot, Data: snap}
	for _, c := range conns {
		name := c.Codec().Name()
		b, ok := encoded[name]
		if !ok {
			var err error
			b, err = c.Codec().Marshal(msg)
			if err != nil {
				m.log.Error("encode snapshot failed", zap.String("codec", name), zap.Error(err))
				continue
			}
			encoded[name] = b
		}
		if !c.Enqueue(b) {
			m.metrics.IncSnapshotsDropped()
		}
	}
}

func (m *Match) send(c *ClientConn, msg outbound) {
	b, err := c.Codec().Marshal(msg)
	if err != nil {
		m.log.Error("encode message failed", zap.String("type", msg.Type), zap.Error(err))
		return
	}
	if !c.Enqueue(b) {
		m.metrics.IncSnapshotsDropped()
	}
}

// Reset 丢弃当前对局进度，从准备阶段第 1 波重新开始
func (m *Match) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetState()
	m.log.Info("match reset")
}

// Tunables 运行期可调参数；指针字段为 nil 表示不修改
type Tunables struct {
	PlanningMs         *int  `json:"planningMs,omitempty"`
	SpawnIntervalMs    *int  `json:"spawnIntervalMs,omitempty"`
	AutoStartBattle    *bool `json:"autoStartBattle,omitempty"`
	MaxCommandsPerTick *int  `json:"maxCommandsPerTick,omitempty"`
}

// Tunables 返回当前值
func (m *Match) Tunables() Tunables {
	m.mu.Lock()
	defer m.mu.Unlock()
	planning := m.balance.Phase.PlanningMs
	spawn := m.balance.Spawn.IntervalMs
	autoStart := m.autoStart
	maxCmds := m.maxCommandsPerTick
	return Tunables{
		PlanningMs:         &planning,
		SpawnIntervalMs:    &spawn,
		AutoStartBattle:    &autoStart,
		MaxCommandsPerTick: &maxCmds,
	}
}

// ApplyTunables 热更新；同时写入模板与当前状态，重置后依然生效
func (m *Match) ApplyTunables(t Tunables) error {
	if t.PlanningMs != nil && *t.PlanningMs < 0 {
		return errors.New("planningMs must not be negative")
	}
	if t.SpawnIntervalMs != nil && *t.SpawnIntervalMs <= 0 {
		return errors.New("spawnIntervalMs must be positive")
	}
	if t.MaxCommandsPerTick != nil && *t.MaxCommandsPerTick < 0 {
		return errors.New("maxCommandsPerTick must not be negative")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if t.PlanningMs != nil {
		m.balance.Phase.PlanningMs = *t.PlanningMs
		m.state.Balance.Phase.PlanningMs = *t.PlanningMs
		m.state.Phase.SetPlanningDuration(m.balance.PlanningDuration())
	}
	if t.SpawnIntervalMs != nil {
		m.balance.Spawn.IntervalMs = *t.SpawnIntervalMs
		m.state.Balance.Spawn.IntervalMs = *t.SpawnIntervalMs
	}
	if t.AutoStartBattle != nil {
		m.autoStart = *t.AutoStartBattle
		m.state.Phase.SetAutoStart(m.autoStart)
	}
	if t.MaxCommandsPerTick != nil {
		m.maxCommandsPerTick = *t.MaxCommandsPerTick
	}
	return nil
}
