package game

import (
	"encoding/json"
	"fmt"
)

// CommandType 客户端指令类型
type CommandType string

const (
	CmdBuyUnit      CommandType = "BUY_UNIT"
	CmdUpgradeUnit  CommandType = "UPGRADE_UNIT"
	CmdBankDeposit  CommandType = "BANK_DEPOSIT"
	CmdBankWithdraw CommandType = "BANK_WITHDRAW"
	CmdReady        CommandType = "READY"
)

// Command 解析后的客户端指令
type Command struct {
	Type CommandType
	Seq  int64 // > 0 时服务端回 ACK

	UnitType string  // BUY_UNIT
	X, Y     float64 // BUY_UNIT
	UnitID   string  // UPGRADE_UNIT
	Amount   int     // BANK_DEPOSIT / BANK_WITHDRAW
}

// 入站 JSON 信封，示例：{"type":"BUY_UNIT","payload":{"type":"human_warrior","x":2,"y":9},"seq":7}
type envelope struct {
	Type    CommandType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Seq     int64           `json:"seq,omitempty"`
}

type buyUnitPayload struct {
	Type string   `json:"type"`
	X    *float64 `json:"x"`
	Y    *float64 `json:"y"`
}

type upgradeUnitPayload struct {
	UnitID string `json:"unitId"`
}

type bankPayload struct {
	Amount *int `json:"amount"`
}

// DecodeCommand 解析一条入站消息；缺少 type、JSON 非法或负载不完整都返回 ErrMalformedCommand
func DecodeCommand(raw []byte) (Command, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Command{}, fmt.Errorf("%w: %v", ErrMalformedCommand, err)
	}
	if env.Type == "" {
		return Command{}, fmt.Errorf("%w: missing type", ErrMalformedCommand)
	}
	cmd := Command{Type: env.Type, Seq: env.Seq}

	switch env.Type {
	case CmdBuyUnit:
		var p buyUnitPayload
		if err := decodePayload(env.Payload, &p); err != nil {
			return Command{}, err
		}
		if p.X == nil || p.Y == nil {
			return Command{}, fmt.Errorf("%w: buy without position", ErrMalformedCommand)
		}
		cmd.UnitType, cmd.X, cmd.Y = p.Type, *p.X, *p.Y
	case CmdUpgradeUnit:
		var p upgradeUnitPayload
		if err := decodePayload(env.Payload, &p); err != nil {
			return Command{}, err
		}
		if p.UnitID == "" {
			return Command{}, fmt.Errorf("%w: upgrade without unitId", ErrMalformedCommand)
		}
		cmd.UnitID = p.UnitID
	case CmdBankDeposit, CmdBankWithdraw:
		var p bankPayload
		if err := decodePayload(env.Payload, &p); err != nil {
			return Command{}, err
		}
		if p.Amount == nil {
			return Command{}, fmt.Errorf("%w: missing amount", ErrMalformedCommand)
		}
		cmd.Amount = *p.Amount
	case CmdReady:
	default:
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, env.Type)
	}
	return cmd, nil
}

func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: missing payload", ErrMalformedCommand)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedCommand, err)
	}
	return nil
}

// InputHandler 按当前阶段校验指令并分发到对应系统
type InputHandler struct {
	state *GameState
}

func NewInputHandler(state *GameState) *InputHandler {
	return &InputHandler{state: state}
}

// Handle 执行一条指令；被拒绝时返回原因且不修改任何状态
func (h *InputHandler) Handle(playerID string, cmd Command) error {
	phase := h.state.Phase.Phase()
	if phase == PhaseGameOver {
		return ErrMatchOver
	}

	switch cmd.Type {
	case CmdBuyUnit:
		if phase != PhasePlanning {
			return ErrWrongPhase
		}
		_, err := h.state.Shop.BuyUnit(playerID, cmd.UnitType, cmd.X, cmd.Y)
		return err
	case CmdUpgradeUnit:
		if phase != PhasePlanning {
			return ErrWrongPhase
		}
		return h.state.Upgrade.UpgradeUnit(playerID, cmd.UnitID)
	case CmdBankDeposit:
		return h.state.Economy.Deposit(playerID, cmd.Amount)
	case CmdBankWithdraw:
		return h.state.Economy.Withdraw(playerID, cmd.Amount)
	case CmdReady:
		// 原型：任一玩家 READY 即开战，与倒计时无关
		h.state.Phase.StartBattle()
		return nil
	default:
		return ErrUnknownCommand
	}
}
