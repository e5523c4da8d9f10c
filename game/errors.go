package game

import "errors"

// 校验失败一律返回以下哨兵错误，调用方用 errors.Is 判断；返回错误时世界状态保持不变
var (
	ErrUnknownPlayer     = errors.New("unknown player")
	ErrInvalidPlayerID   = errors.New("invalid player id")
	ErrUnknownUnit       = errors.New("unknown unit")
	ErrUnknownUnitType   = errors.New("unknown unit type")
	ErrNotOwner          = errors.New("unit not owned by player")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrCellOccupied      = errors.New("cell occupied")
	ErrInvalidCell       = errors.New("invalid cell")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrMaxLevel          = errors.New("unit at max level")
	ErrWrongPhase        = errors.New("command not allowed in current phase")
	ErrMatchOver         = errors.New("match is over")
	ErrUnknownCommand    = errors.New("unknown command")
	ErrMalformedCommand  = errors.New("malformed command")
)
