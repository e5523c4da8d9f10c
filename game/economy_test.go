package game

import (
	"errors"
	"testing"
	"time"
)

func TestEconomy_DepositWithdrawRoundTrip(t *testing.T) {
	st := newTestState(t)
	p := st.Players["p1"]
	cash, bank := p.Cash, p.Bank

	if err := st.Economy.Deposit("p1", 40); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if p.Cash != cash-40 || p.Bank != bank+40 {
		t.Fatalf("after deposit cash=%d bank=%d", p.Cash, p.Bank)
	}
	if err := st.Economy.Withdraw("p1", 40); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if p.Cash != cash || p.Bank != bank {
		t.Errorf("round trip: cash=%d bank=%d, want %d/%d", p.Cash, p.Bank, cash, bank)
	}
}

func TestEconomy_Rejections(t *testing.T) {
	st := newTestState(t)
	p := st.Players["p1"]
	p.Cash, p.Bank = 10, 5

	cases := []struct {
		name string
		fn   func() error
		want error
	}{
		{"deposit over cash", func() error { return st.Economy.Deposit("p1", 11) }, ErrInsufficientFunds},
		{"withdraw over bank", func() error { return st.Economy.Withdraw("p1", 6) }, ErrInsufficientFunds},
		{"unknown player", func() error { return st.Economy.Deposit("ghost", 1) }, ErrUnknownPlayer},
		{"zero amount", func() error { return st.Economy.Deposit("p1", 0) }, ErrInvalidAmount},
		{"negative withdraw", func() error { return st.Economy.Withdraw("p1", -3) }, ErrInvalidAmount},
	}
	for _, c := range cases {
		if err := c.fn(); !errors.Is(err, c.want) {
			t.Errorf("%s: err = %v, want %v", c.name, err, c.want)
		}
		if p.Cash != 10 || p.Bank != 5 {
			t.Fatalf("%s: state changed to cash=%d bank=%d", c.name, p.Cash, p.Bank)
		}
	}
}

func TestEconomy_ProcessInterest(t *testing.T) {
	st := newTestState(t)
	st.AddPlayer("p2")
	st.AddPlayer("p3")
	st.Players["p1"].Bank = 100
	st.Players["p2"].Bank = 7
	st.Players["p3"].Bank = 0

	st.Economy.ProcessInterest()

	if got := st.Players["p1"].Bank; got != 115 {
		t.Errorf("p1 bank = %d, want 115", got)
	}
	if got := st.Players["p2"].Bank; got != 8 {
		t.Errorf("p2 bank = %d, want 8", got)
	}
	if got := st.Players["p3"].Bank; got != 0 {
		t.Errorf("p3 bank = %d, want 0", got)
	}
}

func TestEconomy_InterestOncePerBattleEdge(t *testing.T) {
	st := newTestState(t)
	st.Players["p1"].Bank = 100
	h := NewInputHandler(st)

	if err := h.Handle("p1", Command{Type: CmdReady}); err != nil {
		t.Fatalf("ready: %v", err)
	}
	st.Update(50 * time.Millisecond)
	if got := st.Players["p1"].Bank; got != 115 {
		t.Fatalf("bank after edge = %d, want 115", got)
	}
	if err := h.Handle("p1", Command{Type: CmdReady}); err != nil {
		t.Fatalf("second ready: %v", err)
	}
	st.Update(50 * time.Millisecond)
	st.Update(50 * time.Millisecond)
	if got := st.Players["p1"].Bank; got != 115 {
		t.Errorf("bank after repeated ticks = %d, want 115", got)
	}
}

func TestEconomy_InterestOnTimerExpiry(t *testing.T) {
	st := NewGameState(DefaultBalance(), Options{AutoStartBattle: true})
	p, _ := st.AddPlayer("p1")
	p.Bank = 20
	st.Update(st.Balance.PlanningDuration())
	if st.Phase.Phase() != PhaseBattle {
		t.Fatalf("phase = %s, want BATTLE", st.Phase.Phase())
	}
	if got := st.Players["p1"].Bank; got != 23 {
		t.Errorf("bank = %d, want 23", got)
	}
}
