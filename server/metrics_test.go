package server

import "testing"

func TestMatchMetrics_Snapshot(t *testing.T) {
	var m MatchMetrics
	m.IncAccepted()
	m.IncAccepted()
	m.IncRejected()
	m.AddConnections(2)
	m.AddConnections(-1)
	m.AddTick(2_000_000)
	m.AddTick(4_000_000)

	s := m.Snapshot()
	if s["commands_accepted"] != int64(2) || s["commands_rejected"] != int64(1) {
		t.Errorf("command counters = %v / %v", s["commands_accepted"], s["commands_rejected"])
	}
	if s["connections"] != int64(1) || s["tick_count"] != int64(2) {
		t.Errorf("connections/ticks = %v / %v", s["connections"], s["tick_count"])
	}
	if s["avg_tick_ms"] != 3.0 {
		t.Errorf("avg_tick_ms = %v, want 3", s["avg_tick_ms"])
	}
}

func TestMatchMetrics_EmptyAverage(t *testing.T) {
	var m MatchMetrics
	if got := m.Snapshot()["avg_tick_ms"]; got != 0.0 {
		t.Errorf("avg_tick_ms = %v, want 0", got)
	}
}
