package game

import (
	"math"

	"go.uber.org/zap"
)

// ShopSystem 校验并执行单位购买与放置
type ShopSystem struct {
	state *GameState
	log   *zap.Logger
}

// BuyUnit 购买单位并放置在整数格 (x, y)；扣款与生成要么同时发生，要么都不发生
// unitType 为空时使用数值表的默认单位
func (s *ShopSystem) BuyUnit(playerID, unitType string, x, y float64) (*Entity, error) {
	p, ok := s.state.Players[playerID]
	if !ok {
		return nil, ErrUnknownPlayer
	}
	if unitType == "" {
		unitType = s.state.Balance.DefaultUnit
	}
	arch, ok := s.state.Balance.Unit(unitType)
	if !ok {
		return nil, ErrUnknownUnitType
	}
	if p.Cash < arch.Cost {
		s.log.Debug("shop: insufficient funds", zap.String("player", playerID), zap.Int("cash", p.Cash))
		return nil, ErrInsufficientFunds
	}
	if !s.validCell(x, y) {
		return nil, ErrInvalidCell
	}
	if s.occupied(x, y) {
		s.log.Debug("shop: cell occupied", zap.Float64("x", x), zap.Float64("y", y))
		return nil, ErrCellOccupied
	}

	p.Cash -= arch.Cost
	unit := s.state.AddEntity(&Entity{
		Type:        unitType,
		X:           x,
		Y:           y,
		HP:          arch.HP,
		MaxHP:       arch.HP,
		Attack:      arch.Attack,
		AttackRange: arch.AttackRange,
		Width:       arch.Width,
		Height:      arch.Height,
		OwnerID:     playerID,
		Tags:        append([]string(nil), arch.Tags...),
	})
	s.log.Info("shop: unit spawned",
		zap.String("player", playerID), zap.String("unit", unit.ID), zap.String("type", unitType),
		zap.Float64("x", x), zap.Float64("y", y))
	return unit, nil
}

// validCell 购买坐标必须是网格内的整数格
func (s *ShopSystem) validCell(x, y float64) bool {
	if x != math.Trunc(x) || y != math.Trunc(y) {
		return false
	}
	g := s.state.Balance.Grid
	return x >= 0 && y >= 0 && x < float64(g.Width) && y < float64(g.Height)
}

// occupied 任一实体精确位于该格；购买坐标总是整数，可以直接比较
// TODO: 单位数量上来后换成按格索引的空间网格
func (s *ShopSystem) occupied(x, y float64) bool {
	for _, e := range s.state.Entities {
		if e.X == x && e.Y == y {
			return true
		}
	}
	return false
}
