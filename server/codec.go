package server

import (
	"bytes"
	"encoding/json"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec 下行消息编码；每个连接在握手时选定
type Codec interface {
	Name() string
	FrameType() int // websocket.TextMessage / websocket.BinaryMessage
	Marshal(v any) ([]byte, error)
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }
func (jsonCodec) FrameType() int { return websocket.TextMessage }
func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// msgpackCodec 二进制编码，字段名沿用 json 标签，客户端两种格式共用一套字段
type msgpackCodec struct{}

func (msgpackCodec) Name() string { return "msgpack" }
func (msgpackCodec) FrameType() int { return websocket.BinaryMessage }
func (msgpackCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var (
	JSONCodec    Codec = jsonCodec{}
	MsgpackCodec Codec = msgpackCodec{}
)

// CodecByName 按查询参数选择编码，空串默认 JSON
func CodecByName(name string) (Codec, bool) {
	switch name {
	case "", "json":
		return JSONCodec, true
	case "msgpack":
		return MsgpackCodec, true
	default:
		return nil, false
	}
}

// 下行消息信封
// 示例：{"type":"SNAPSHOT","data":{...}} / {"type":"ACK","data":{"seq":7,"ok":false,"error":"cell occupied"}}
type outbound struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

const (
	msgSnapshot = "SNAPSHOT"
	msgAck      = "ACK"
)

type ackData struct {
	Seq   int64  `json:"seq"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}
