package server

import (
	"encoding/json"
	"testing"

	"silkroad/config"
	"silkroad/game"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Game.Seed = 1
	cfg.Game.AutoStartBattle = false
	cfg.Logging.File = ""
	return cfg
}

func newTestMatch(t *testing.T, cfg *config.Config) *Match {
	t.Helper()
	return NewMatch("test", cfg, game.DefaultBalance())
}

// newTestConn 不带底层 WebSocket 的连接，只用来收集下行消息
func newTestConn(size int) *ClientConn {
	return &ClientConn{codec: JSONCodec, send: make(chan []byte, size)}
}

type frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// drainFrames 取出连接队列里已有的全部 JSON 消息
func drainFrames(t *testing.T, c *ClientConn) []frame {
	t.Helper()
	var out []frame
	for {
		select {
		case b, ok := <-c.send:
			if !ok {
				return out
			}
			var f frame
			if err := json.Unmarshal(b, &f); err != nil {
				t.Fatalf("decode frame: %v", err)
			}
			out = append(out, f)
		default:
			return out
		}
	}
}

func decodeSnapshot(t *testing.T, f frame) game.Snapshot {
	t.Helper()
	var snap game.Snapshot
	if err := json.Unmarshal(f.Data, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return snap
}

func decodeAck(t *testing.T, f frame) ackData {
	t.Helper()
	var a ackData
	if err := json.Unmarshal(f.Data, &a); err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	return a
}

func findPlayer(snap game.Snapshot, id string) (game.PlayerView, bool) {
	for _, p := range snap.Players {
		if p.ID == id {
			return p, true
		}
	}
	return game.PlayerView{}, false
}

func buy(playerID string, seq int64, x, y float64) Input {
	return Input{PlayerID: playerID, Command: game.Command{
		Type: game.CmdBuyUnit, Seq: seq, UnitType: "human_warrior", X: x, Y: y,
	}}
}

func deposit(playerID string, amount int) Input {
	return Input{PlayerID: playerID, Command: game.Command{Type: game.CmdBankDeposit, Amount: amount}}
}
