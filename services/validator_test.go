package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/H4ZEY86/Opure-Nexus-sub003/schemas"
	"github.com/stretchr/testify/assert"
)

func TestValidator(t *testing.T) {
	now := time.Now()

	validator := NewStateValidator(DefaultValidatorConfig())
	validator.now = func() time.Time { return now }

	base := func() schemas.GameStateSyncMessage {
		return schemas.GameStateSyncMessage{
			Timestamp:      now.UnixMilli(),
			SequenceNumber: 7,
			GameState:      json.RawMessage(`{"score":100,"health":500}`),
		}
	}

	tests := []struct {
		name    string
		mutate  func(*schemas.GameStateSyncMessage)
		wantErr error
	}{
		{
			name:   "plausible update passes",
			mutate: func(*schemas.GameStateSyncMessage) {},
		},
		{
			name: "missing timestamp",
			mutate: func(update *schemas.GameStateSyncMessage) {
				update.Timestamp = 0
			},
			wantErr: MissingTimestamp,
		},
		{
			name: "missing sequence number",
			mutate: func(update *schemas.GameStateSyncMessage) {
				update.SequenceNumber = 0
			},
			wantErr: MissingSequence,
		},
		{
			name: "timestamp too old",
			mutate: func(update *schemas.GameStateSyncMessage) {
				update.Timestamp = now.Add(-11 * time.Second).UnixMilli()
			},
			wantErr: ClockSkewTooHigh,
		},
		{
			name: "timestamp in the future",
			mutate: func(update *schemas.GameStateSyncMessage) {
				update.Timestamp = now.Add(11 * time.Second).UnixMilli()
			},
			wantErr: ClockSkewTooHigh,
		},
		{
			name: "skew just inside the bound",
			mutate: func(update *schemas.GameStateSyncMessage) {
				update.Timestamp = now.Add(-9 * time.Second).UnixMilli()
			},
		},
		{
			name: "negative score",
			mutate: func(update *schemas.GameStateSyncMessage) {
				update.GameState = json.RawMessage(`{"score":-1}`)
			},
			wantErr: ImplausibleScore,
		},
		{
			name: "health above cap",
			mutate: func(update *schemas.GameStateSyncMessage) {
				update.GameState = json.RawMessage(`{"health":1001}`)
			},
			wantErr: ImplausibleHP,
		},
		{
			name: "health at cap passes",
			mutate: func(update *schemas.GameStateSyncMessage) {
				update.GameState = json.RawMessage(`{"health":1000}`)
			},
		},
		{
			name: "zero score passes",
			mutate: func(update *schemas.GameStateSyncMessage) {
				update.GameState = json.RawMessage(`{"score":0}`)
			},
		},
		{
			name: "empty state blob passes",
			mutate: func(update *schemas.GameStateSyncMessage) {
				update.GameState = nil
			},
		},
		{
			name: "state without checked fields passes",
			mutate: func(update *schemas.GameStateSyncMessage) {
				update.GameState = json.RawMessage(`{"position":[1,2]}`)
			},
		},
		{
			name: "non-object state blob passes",
			mutate: func(update *schemas.GameStateSyncMessage) {
				update.GameState = json.RawMessage(`[1,2,3]`)
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			update := base()
			test.mutate(&update)

			err := validator.Validate(update)

			if test.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, test.wantErr)
			}
		})
	}
}

func TestValidatorCustomThresholds(t *testing.T) {
	now := time.Now()

	validator := NewStateValidator(ValidatorConfig{
		MaxClockSkew: time.Minute,
		MinScore:     -100,
		MaxHealth:    5000,
	})
	validator.now = func() time.Time { return now }

	update := schemas.GameStateSyncMessage{
		Timestamp:      now.Add(-30 * time.Second).UnixMilli(),
		SequenceNumber: 1,
		GameState:      json.RawMessage(`{"score":-50,"health":4000}`),
	}

	assert.NoError(t, validator.Validate(update))
}
