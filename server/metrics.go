package server

import (
	"sync/atomic"
)

// MatchMetrics 记录对局运行期的关键指标（用于监控与调试）
type MatchMetrics struct {
	TickCount        int64 // 统计的 Tick 次数
	CommandsAccepted int64 // 执行成功的指令数
	CommandsRejected int64 // 被系统校验拒绝的指令数
	RateLimited      int64 // 因连接限速被丢弃的指令数
	Malformed        int64 // 无法解析而被丢弃的消息数
	QueueFull        int64 // 因输入通道满被丢弃的指令数
	SnapshotsDropped int64 // 因发送队列满被丢弃的下行消息数
	Connections      int64 // 当前连接数
	TotalTickNs      int64 // Tick 累计耗时（纳秒）
}

func (m *MatchMetrics) IncAccepted() { atomic.AddInt64(&m.CommandsAccepted, 1) }
func (m *MatchMetrics) IncRejected() { atomic.AddInt64(&m.CommandsRejected, 1) }
func (m *MatchMetrics) IncRateLimited() { atomic.AddInt64(&m.RateLimited, 1) }
func (m *MatchMetrics) IncMalformed() { atomic.AddInt64(&m.Malformed, 1) }
func (m *MatchMetrics) IncQueueFull() { atomic.AddInt64(&m.QueueFull, 1) }
func (m *MatchMetrics) IncSnapshotsDropped() { atomic.AddInt64(&m.SnapshotsDropped, 1) }
func (m *MatchMetrics) AddConnections(n int64) {
	atomic.AddInt64(&m.Connections, n)
}
func (m *MatchMetrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *MatchMetrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":        tick,
		"commands_accepted": atomic.LoadInt64(&m.CommandsAccepted),
		"commands_rejected": atomic.LoadInt64(&m.CommandsRejected),
		"rate_limited":      atomic.LoadInt64(&m.RateLimited),
		"malformed":         atomic.LoadInt64(&m.Malformed),
		"queue_full":        atomic.LoadInt64(&m.QueueFull),
		"snapshots_dropped": atomic.LoadInt64(&m.SnapshotsDropped),
		"connections":       atomic.LoadInt64(&m.Connections),
		"avg_tick_ms":       avgMs,
	}
}
