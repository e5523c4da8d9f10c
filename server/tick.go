package server

import "time"

// StartTicker 启动对局的 Tick 循环（单线程推进世界）
func (m *Match) StartTicker(interval time.Duration) {
	if m.tickerStarted {
		return
	}
	m.tickerStarted = true
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		m.runTicks(ticker.C, time.Now())
	}()
	m.log.Sugar().Infof("ticker started: interval=%s", interval)
}

// runTicks 消费 tick 时间点直到 Stop
// dt 取相邻两次 tick 的实际间隔，调度抖动不会让模拟时间漂移
func (m *Match) runTicks(ticks <-chan time.Time, last time.Time) {
	for {
		select {
		case now := <-ticks:
			// 核心循环：处理输入 → 更新世界 → 广播结果
			m.Step(now.Sub(last))
			last = now
		case <-m.stop:
			return
		}
	}
}

// Stop 停止 Tick 循环并断开所有连接
func (m *Match) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
		m.mu.Lock()
		for c := range m.sessions {
			c.Close()
		}
		m.mu.Unlock()
	})
}
