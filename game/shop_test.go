package game

import (
	"errors"
	"testing"
)

func TestShop_BuyUnit(t *testing.T) {
	st := newTestState(t)
	before := st.Players["p1"].Cash

	unit, err := st.Shop.BuyUnit("p1", "human_warrior", 2, 9)
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if got := st.Players["p1"].Cash; got != before-10 {
		t.Errorf("cash = %d, want %d", got, before-10)
	}
	if len(st.Entities) != 1 {
		t.Fatalf("entities = %d, want 1", len(st.Entities))
	}
	got := st.Entities[unit.ID]
	if got == nil || got.OwnerID != "p1" || got.X != 2 || got.Y != 9 {
		t.Fatalf("unexpected unit %+v", got)
	}
	if got.HP != 100 || got.MaxHP != 100 || got.Attack != 10 || got.AttackRange != 1 {
		t.Errorf("unexpected stats %+v", got)
	}
	if !got.HasTag("human") {
		t.Errorf("tags = %v, want human", got.Tags)
	}
}

func TestShop_EmptyTypeUsesDefaultUnit(t *testing.T) {
	st := newTestState(t)
	unit, err := st.Shop.BuyUnit("p1", "", 3, 3)
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if unit.Type != "human_warrior" {
		t.Errorf("type = %q, want human_warrior", unit.Type)
	}
}

func TestShop_Rejections(t *testing.T) {
	st := newTestState(t)
	if _, err := st.Shop.BuyUnit("p1", "human_warrior", 2, 9); err != nil {
		t.Fatalf("setup buy: %v", err)
	}
	cash := st.Players["p1"].Cash

	cases := []struct {
		name     string
		player   string
		unitType string
		x, y     float64
		want     error
	}{
		{"occupied", "p1", "human_warrior", 2, 9, ErrCellOccupied},
		{"unknown player", "ghost", "human_warrior", 4, 4, ErrUnknownPlayer},
		{"unknown type", "p1", "dragon", 4, 4, ErrUnknownUnitType},
		{"fractional cell", "p1", "human_warrior", 2.5, 9, ErrInvalidCell},
		{"outside grid", "p1", "human_warrior", 40, 9, ErrInvalidCell},
		{"negative cell", "p1", "human_warrior", 0, -1, ErrInvalidCell},
	}
	for _, c := range cases {
		if _, err := st.Shop.BuyUnit(c.player, c.unitType, c.x, c.y); !errors.Is(err, c.want) {
			t.Errorf("%s: err = %v, want %v", c.name, err, c.want)
		}
		if st.Players["p1"].Cash != cash || len(st.Entities) != 1 {
			t.Fatalf("%s: state changed (cash=%d entities=%d)", c.name, st.Players["p1"].Cash, len(st.Entities))
		}
	}
}

func TestShop_InsufficientFunds(t *testing.T) {
	st := newTestState(t)
	st.Players["p1"].Cash = 9
	if _, err := st.Shop.BuyUnit("p1", "human_warrior", 2, 9); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	if st.Players["p1"].Cash != 9 || len(st.Entities) != 0 {
		t.Errorf("state changed: cash=%d entities=%d", st.Players["p1"].Cash, len(st.Entities))
	}
}

func TestShop_ConsultsBalanceTable(t *testing.T) {
	st := newTestState(t)
	st.Balance.Units["archer_tower"] = UnitArchetype{
		Cost: 25, HP: 60, Attack: 4, AttackRange: 3, Tags: []string{"tower"}, UpgradeCost: 8, UpgradeAttack: 1,
	}
	unit, err := st.Shop.BuyUnit("p1", "archer_tower", 5, 5)
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if st.Players["p1"].Cash != 75 {
		t.Errorf("cash = %d, want 75", st.Players["p1"].Cash)
	}
	if unit.AttackRange != 3 || !unit.HasTag("tower") {
		t.Errorf("unexpected unit %+v", unit)
	}
}
