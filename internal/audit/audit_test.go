package audit

import (
	"testing"

	"github.com/google/uuid"
)

func TestEventValidate(t *testing.T) {
	actor := uuid.New()

	tests := []struct {
		name    string
		event   Event
		wantErr bool
	}{
		{
			name: "valid event",
			event: Event{
				Action:      "GROUP_CREATED",
				Description: "Group created successfully",
				PerformedBy: actor,
			},
		},
		{
			name: "valid event with references and metadata",
			event: Event{
				Action:      "GROUP_EXPENSE_ADDED",
				Description: "Group expense added successfully",
				Meta:        map[string]any{"amount_cents": int64(10000)},
				PerformedBy: actor,
				TargetUser:  &actor,
			},
		},
		{
			name: "action too short",
			event: Event{
				Action:      "OK",
				Description: "Long enough description",
				PerformedBy: actor,
			},
			wantErr: true,
		},
		{
			name: "description too short",
			event: Event{
				Action:      "GROUP_CREATED",
				Description: "too short",
				PerformedBy: actor,
			},
			wantErr: true,
		},
		{
			name: "missing performing user",
			event: Event{
				Action:      "GROUP_CREATED",
				Description: "Group created successfully",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
