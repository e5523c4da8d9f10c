package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"silkroad/config"
	"silkroad/game"
)

// ClientConn 单个 WebSocket 连接：读协程解析指令，写协程从 send 队列写出
type ClientConn struct {
	ws      *websocket.Conn
	codec   Codec
	limiter *rate.Limiter // nil 表示不限速

	mu     sync.Mutex
	send   chan []byte
	closed bool

	writeTimeout time.Duration
	readTimeout  time.Duration
	readLimit    int64
}

func NewClientConn(ws *websocket.Conn, codec Codec, cfg config.NetworkConfig) *ClientConn {
	c := &ClientConn{
		ws:           ws,
		codec:        codec,
		send:         make(chan []byte, cfg.OutQueueSize),
		writeTimeout: cfg.WriteTimeout,
		readTimeout:  cfg.ReadTimeout,
		readLimit:    cfg.ReadLimit,
	}
	if cfg.CommandsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.CommandsPerSecond), cfg.CommandBurst)
	}
	return c
}

// Codec 连接选定的下行编码
func (c *ClientConn) Codec() Codec { return c.codec }

// Enqueue 将要发送的消息压入队列（非阻塞，满则丢弃）；返回是否入队
func (c *ClientConn) Enqueue(b []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- b:
		return true
	default:
		// 慢客户端不能拖住 Tick，下一帧快照会覆盖这一帧
		return false
	}
}

// Close 关闭发送队列；写协程发出 close 帧后关闭底层连接
func (c *ClientConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *ClientConn) pingPeriod() time.Duration {
	return c.readTimeout * 9 / 10
}

// writePump 独立协程，负责从 send 队列写出到 WS，并定期发送 ping 保活
func (c *ClientConn) writePump() {
	ticker := time.NewTicker(c.pingPeriod())
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(c.codec.FrameType(), msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump 读取客户端消息，解析为 Input 注入对局
func (c *ClientConn) readPump(m *Match, playerID string) {
	defer c.ws.Close()
	// 读泵退出时，通知对局在 Tick 线程中移除该连接
	defer m.RequestLeave(playerID, c)
	c.ws.SetReadLimit(c.readLimit)
	_ = c.ws.SetReadDeadline(time.Now().Add(c.readTimeout))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.readTimeout))
	})

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				Log.Warnw("websocket closed unexpectedly", "match", m.ID, "player", playerID, "err", err)
			}
			return
		}
		if c.limiter != nil && !c.limiter.Allow() {
			m.metrics.IncRateLimited()
			continue
		}
		cmd, err := game.DecodeCommand(payload)
		if err != nil {
			m.metrics.IncMalformed()
			Log.Debugw("dropping malformed message", "match", m.ID, "player", playerID, "err", err)
			continue
		}
		m.OnInput(Input{PlayerID: playerID, Command: cmd, Conn: c})
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 原型阶段：允许所有来源
		return true
	},
}

// HandleWS WebSocket 接入：?match=match-1&player=alice&codec=msgpack
// 三个参数都可省略，缺省值来自 [server] 配置
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	matchID := q.Get("match")
	if matchID == "" {
		matchID = s.cfg.Server.DefaultMatch
	}
	playerID := q.Get("player")
	if playerID == "" {
		playerID = s.cfg.Server.DefaultPlayer
	}
	if !game.ValidPlayerID(playerID) {
		http.Error(w, "invalid player id", http.StatusBadRequest)
		return
	}
	codec, ok := CodecByName(q.Get("codec"))
	if !ok {
		http.Error(w, "unknown codec", http.StatusBadRequest)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.Warnw("websocket upgrade failed", "err", err)
		return
	}

	m := s.manager.GetOrCreateMatch(matchID)
	client := NewClientConn(ws, codec, s.cfg.Network)
	if !m.JoinPlayer(playerID, client) {
		_ = ws.Close()
		return
	}
	Log.Infow("client connected", "match", matchID, "player", playerID, "codec", codec.Name(), "remote", r.RemoteAddr)

	go client.writePump()
	go client.readPump(m, playerID)
}
