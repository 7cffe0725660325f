package domain

// EffectKind names a device-side effect command.
type EffectKind string

const (
	// EffectHaptic asks the device to play a haptic pattern.
	EffectHaptic EffectKind = "HAPTIC"
	// EffectChime asks the device to play the arrival chime.
	EffectChime EffectKind = "CHIME"
)

// Effect is a command published to the device companion app.
type Effect struct {
	Kind EffectKind `json:"kind"`
	// Pattern names the haptic pattern; empty for non-haptic effects.
	Pattern string `json:"pattern,omitempty"`
}
