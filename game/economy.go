package game

import (
	"math"

	"go.uber.org/zap"
)

// EconomySystem 现金/银行转账与利息
type EconomySystem struct {
	state *GameState
	log   *zap.Logger
}

// ProcessInterest 每位玩家银行存款增加 floor(bank × 利率)
// 只在 PLANNING→BATTLE 边沿调用一次
func (e *EconomySystem) ProcessInterest() {
	rate := e.state.Balance.Economy.InterestRate
	for _, p := range e.state.Players {
		if p.Bank <= 0 {
			continue
		}
		interest := int(math.Floor(float64(p.Bank) * rate))
		p.Bank += interest
		e.log.Info("interest paid",
			zap.String("player", p.ID), zap.Int("interest", interest), zap.Int("bank", p.Bank))
	}
}

// Deposit 现金转入银行；要么全额转账，要么不变
func (e *EconomySystem) Deposit(playerID string, amount int) error {
	p, err := e.lookup(playerID, amount)
	if err != nil {
		return err
	}
	if p.Cash < amount {
		return ErrInsufficientFunds
	}
	p.Cash -= amount
	p.Bank += amount
	return nil
}

// Withdraw 银行转回现金
func (e *EconomySystem) Withdraw(playerID string, amount int) error {
	p, err := e.lookup(playerID, amount)
	if err != nil {
		return err
	}
	if p.Bank < amount {
		return ErrInsufficientFunds
	}
	p.Bank -= amount
	p.Cash += amount
	return nil
}

func (e *EconomySystem) lookup(playerID string, amount int) (*Player, error) {
	p, ok := e.state.Players[playerID]
	if !ok {
		return nil, ErrUnknownPlayer
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return p, nil
}
