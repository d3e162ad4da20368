package services

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/H4ZEY86/Opure-Nexus-sub003/schemas"
)

var (
	MissingTimestamp = errors.New("state update has no timestamp")
	MissingSequence  = errors.New("state update has no sequence number")
	ClockSkewTooHigh = errors.New("state update timestamp too far from server time")
	ImplausibleScore = errors.New("state update reports a negative score")
	ImplausibleHP    = errors.New("state update reports excessive health")
)

// ValidatorConfig bounds the plausibility checks. The defaults come
// from the shipped game rules; real games tune them per deployment.
type ValidatorConfig struct {
	MaxClockSkew time.Duration
	MinScore     float64
	MaxHealth    float64
}

func DefaultValidatorConfig() ValidatorConfig {
	return ValidatorConfig{
		MaxClockSkew: 10 * time.Second,
		MinScore:     0,
		MaxHealth:    1000,
	}
}

// StateValidator is a shallow plausibility filter applied to inbound
// state updates before they are relayed. It is advisory only: it will
// pass plenty of illegitimate updates and exists to reject the obvious
// garbage cheaply, not to replace real anti-cheat.
type StateValidator struct {
	config ValidatorConfig

	// now is swappable in tests.
	now func() time.Time
}

func NewStateValidator(config ValidatorConfig) *StateValidator {
	return &StateValidator{
		config: config,
		now:    time.Now,
	}
}

// plausibilityFields are the only embedded game-state fields the
// validator looks at. Everything else in the blob stays opaque.
type plausibilityFields struct {
	Score  *float64 `json:"score"`
	Health *float64 `json:"health"`
}

// Validate returns nil when the update may be relayed. A zero
// timestamp or sequence number counts as missing.
func (validator *StateValidator) Validate(update schemas.GameStateSyncMessage) error {
	if update.Timestamp == 0 {
		return MissingTimestamp
	}

	if update.SequenceNumber == 0 {
		return MissingSequence
	}

	skew := validator.now().UnixMilli() - update.Timestamp

	if skew < 0 {
		skew = -skew
	}

	if skew > validator.config.MaxClockSkew.Milliseconds() {
		return ClockSkewTooHigh
	}

	if len(update.GameState) == 0 {
		return nil
	}

	var fields plausibilityFields

	// A blob that does not decode into an object simply has none of
	// the fields we check.
	if err := json.Unmarshal(update.GameState, &fields); err != nil {
		return nil
	}

	if fields.Score != nil && *fields.Score < validator.config.MinScore {
		return ImplausibleScore
	}

	if fields.Health != nil && *fields.Health > validator.config.MaxHealth {
		return ImplausibleHP
	}

	return nil
}
