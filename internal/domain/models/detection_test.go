package models

import "testing"

func TestDetectionTransitions(t *testing.T) {
	d := &Detection{Status: StatusCoolingDown}
	if err := d.Transition(StatusEligible); err != nil {
		t.Fatalf("cooling_down -> eligible should be legal: %v", err)
	}
	if err := d.Transition(StatusExecuted); err != nil {
		t.Fatalf("eligible -> executed should be legal: %v", err)
	}
	if err := d.Transition(StatusEligible); err == nil {
		t.Fatalf("terminal states must be absorbing")
	}
	if d.Status != StatusExecuted {
		t.Fatalf("rejected transition must not change status")
	}
}

func TestDetectionNoBackwardsMove(t *testing.T) {
	d := &Detection{Status: StatusEligible}
	if err := d.Transition(StatusCoolingDown); err == nil {
		t.Fatalf("eligible -> cooling_down must be rejected")
	}
	if err := d.Transition(StatusDismissed); err != nil {
		t.Fatalf("eligible -> dismissed should be legal: %v", err)
	}
}

func TestDetectionUnknownStatus(t *testing.T) {
	d := &Detection{Status: StatusCoolingDown}
	if err := d.Transition(DetectionStatus("archived")); err == nil {
		t.Fatalf("unknown status must be rejected")
	}
}

func TestCoolingDownStraightToTerminal(t *testing.T) {
	for _, terminal := range []DetectionStatus{StatusExpired, StatusInvalidated, StatusDismissed, StatusExecuted} {
		d := &Detection{Status: StatusCoolingDown}
		if err := d.Transition(terminal); err != nil {
			t.Fatalf("cooling_down -> %s should be legal: %v", terminal, err)
		}
	}
}
