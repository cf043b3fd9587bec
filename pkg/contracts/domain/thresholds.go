package domain

// Thresholds holds the runtime-adjustable spike settings for a session.
// They are not persisted; changing either value triggers a full recomputation
// of every table on the next render pass.
type Thresholds struct {
	// SpikeThreshold is the delivery percentage at or above which a raw
	// record is listed as a spike alert.
	SpikeThreshold float64 `json:"spike_threshold" yaml:"spike_threshold" validate:"gte=0,lte=100"`
	// NetValueThreshold is the net value, in crores, above which an
	// aggregate row is flagged for visual emphasis.
	NetValueThreshold float64 `json:"net_value_threshold" yaml:"net_value_threshold" validate:"gte=0,lte=50"`
}

// DefaultThresholds returns the standard dashboard thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SpikeThreshold:    75.0,
		NetValueThreshold: 3.0,
	}
}
