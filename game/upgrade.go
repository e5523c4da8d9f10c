package game

import "go.uber.org/zap"

// UpgradeSystem 对自有单位进行攻击力升级
type UpgradeSystem struct {
	state *GameState
	log   *zap.Logger
}

// UpgradeUnit 扣除升级费用并提升攻击力
func (u *UpgradeSystem) UpgradeUnit(playerID, unitID string) error {
	p, ok := u.state.Players[playerID]
	if !ok {
		return ErrUnknownPlayer
	}
	unit, ok := u.state.Entities[unitID]
	if !ok {
		return ErrUnknownUnit
	}
	if unit.OwnerID != playerID {
		return ErrNotOwner
	}
	arch, ok := u.state.Balance.Unit(unit.Type)
	if !ok {
		return ErrUnknownUnitType
	}
	if arch.MaxLevel > 0 && unit.Level >= arch.MaxLevel {
		return ErrMaxLevel
	}
	if p.Cash < arch.UpgradeCost {
		return ErrInsufficientFunds
	}

	p.Cash -= arch.UpgradeCost
	unit.Attack += arch.UpgradeAttack
	unit.Level++
	u.log.Info("upgrade: unit upgraded",
		zap.String("unit", unitID), zap.Float64("attack", unit.Attack), zap.Int("level", unit.Level))
	return nil
}
