package service

import "time"

// FlowConf carries the timing knobs of the acceptance flow. Deadlines are
// expressed in multiples of BaseUnit so tests can shrink the whole timeline
// by shrinking one value.
type FlowConf struct {
	BaseUnit          time.Duration `mapstructure:"baseUnit"`
	RunDeadlineUnits  int           `mapstructure:"runDeadlineUnits"`
	GuardTimeoutUnits int           `mapstructure:"guardTimeoutUnits"`
	MaxAttempts       int           `mapstructure:"maxAttempts"`
	SettleDelay       time.Duration `mapstructure:"settleDelay"`
	DisplayDelay      time.Duration `mapstructure:"displayDelay"`
	InviteTTL         time.Duration `mapstructure:"inviteTTL"`
	ContinuationTTL   time.Duration `mapstructure:"continuationTTL"`
	NeutralLanding    string        `mapstructure:"neutralLanding"`
}

// Normalize fills zero values with defaults.
func (c *FlowConf) Normalize() {
	if c.BaseUnit <= 0 {
		c.BaseUnit = time.Second
	}
	if c.RunDeadlineUnits <= 0 {
		c.RunDeadlineUnits = 15
	}
	if c.GuardTimeoutUnits <= 0 {
		c.GuardTimeoutUnits = 10
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.SettleDelay <= 0 {
		// settling window for dependent read-models to catch up, an
		// eventual-consistency accommodation, not a correctness need
		c.SettleDelay = 400 * time.Millisecond
	}
	if c.DisplayDelay <= 0 {
		c.DisplayDelay = 1200 * time.Millisecond
	}
	if c.InviteTTL <= 0 {
		c.InviteTTL = 7 * 24 * time.Hour
	}
	if c.ContinuationTTL <= 0 {
		c.ContinuationTTL = 10 * time.Minute
	}
	if c.NeutralLanding == "" {
		c.NeutralLanding = "/reviews"
	}
}

// RunDeadline is the single deadline governing one full orchestrator run.
func (c FlowConf) RunDeadline() time.Duration {
	return time.Duration(c.RunDeadlineUnits) * c.BaseUnit
}

// GuardTimeout is the access guard's fail-open timeout.
func (c FlowConf) GuardTimeout() time.Duration {
	return time.Duration(c.GuardTimeoutUnits) * c.BaseUnit
}
