package models

import (
	"testing"
	"time"
)

func TestValidateLong(t *testing.T) {
	d := &Decision{Direction: DirectionLong, Entry: 1.0850, StopLoss: 1.0820, TakeProfit: 1.0904}
	if err := d.Validate(); err != nil {
		t.Fatalf("valid long rejected: %v", err)
	}
	d.StopLoss = 1.0860
	if err := d.Validate(); err == nil {
		t.Fatalf("expected violation for stop above long entry")
	}
}

func TestValidateShort(t *testing.T) {
	d := &Decision{Direction: DirectionShort, Entry: 1.0850, StopLoss: 1.0880, TakeProfit: 1.0796}
	if err := d.Validate(); err != nil {
		t.Fatalf("valid short rejected: %v", err)
	}
	d.TakeProfit = 1.0900
	if err := d.Validate(); err == nil {
		t.Fatalf("expected violation for target above short entry")
	}
}

func TestValidateNone(t *testing.T) {
	d := &Decision{Direction: DirectionNone}
	if err := d.Validate(); err != nil {
		t.Fatalf("no-trade should always validate: %v", err)
	}
}

func TestGradeForConfidence(t *testing.T) {
	cases := []struct {
		conf float64
		want Grade
	}{
		{95, GradeAPlus},
		{90, GradeAPlus},
		{85, GradeA},
		{75, GradeBPlus},
		{65, GradeB},
		{50, GradeC},
		{49.9, GradeNoTrade},
		{0, GradeNoTrade},
	}
	for _, c := range cases {
		if got := GradeForConfidence(c.conf); got != c.want {
			t.Fatalf("confidence %.1f: got %s, want %s", c.conf, got, c.want)
		}
	}
}

func TestGradeRankOrder(t *testing.T) {
	order := []Grade{GradeNoTrade, GradeC, GradeB, GradeBPlus, GradeA, GradeAPlus}
	for i := 1; i < len(order); i++ {
		if order[i].Rank() <= order[i-1].Rank() {
			t.Fatalf("%s should outrank %s", order[i], order[i-1])
		}
	}
	if Grade("Z").Rank() != 0 {
		t.Fatalf("unknown grade should rank lowest")
	}
}

func TestActionable(t *testing.T) {
	d := &Decision{Direction: DirectionLong}
	if !d.Actionable() {
		t.Fatalf("clean long should be actionable")
	}
	d.Gating.CooldownBlocked = true
	if d.Actionable() {
		t.Fatalf("cooldown-blocked decision must not be actionable")
	}
	d.Gating.CooldownBlocked = false
	d.Gating.VolatilityBlocked = true
	if d.Actionable() {
		t.Fatalf("volatility-blocked decision must not be actionable")
	}
	none := NoTrade("EURUSD", "rsi_reversal", time.Now(), "no hook")
	if none.Actionable() {
		t.Fatalf("no-trade must not be actionable")
	}
	if len(none.Reasons) != 1 || none.Reasons[0] != "no hook" {
		t.Fatalf("no-trade should carry its reasons, got %v", none.Reasons)
	}
}
