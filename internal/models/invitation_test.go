package models

import "testing"

func TestInvitationStatusValid(t *testing.T) {
	for _, s := range []InvitationStatus{InvitationPending, InvitationAccepted, InvitationRejected, InvitationCancelled} {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	for _, s := range []InvitationStatus{"", "accept", "PENDING", "declined"} {
		if s.Valid() {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestInvitationStatusCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from InvitationStatus
		to   InvitationStatus
		want bool
	}{
		{"pending to accepted", InvitationPending, InvitationAccepted, true},
		{"pending to rejected", InvitationPending, InvitationRejected, true},
		{"pending to cancelled", InvitationPending, InvitationCancelled, true},
		{"pending to pending", InvitationPending, InvitationPending, false},
		{"pending to unknown", InvitationPending, "declined", false},
		{"accepted is terminal", InvitationAccepted, InvitationRejected, false},
		{"rejected is terminal", InvitationRejected, InvitationAccepted, false},
		{"cancelled is terminal", InvitationCancelled, InvitationAccepted, false},
		{"cancelled cannot reopen", InvitationCancelled, InvitationPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.want {
				t.Errorf("CanTransition(%q -> %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}
