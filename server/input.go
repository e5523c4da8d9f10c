package server

import "silkroad/game"

// Input 已解析的客户端指令（意图），由对局在下一次 Tick 中执行
type Input struct {
	PlayerID string
	Command  game.Command
	Conn     *ClientConn // 来源连接，用于回 ACK
}

// joinRequest / leaveRequest 连接进出对局，同样只在 Tick 线程中生效
type joinRequest struct {
	PlayerID string
	Conn     *ClientConn
}

type leaveRequest struct {
	PlayerID string
	Conn     *ClientConn
}

// pendingAck Tick 内执行结果，解锁后再发送
type pendingAck struct {
	conn *ClientConn
	ack  ackData
}

func newAck(seq int64, err error) ackData {
	a := ackData{Seq: seq, OK: err == nil}
	if err != nil {
		a.Error = err.Error()
	}
	return a
}
