package tonemap

import(
	"fmt"
	"math"
)

// ToneParameters are the two per-preset controls. ShadowGamma > 1 lifts
// shadows progressively more as they approach black; Stops is a signed
// exposure offset in base-2 log units. Immutable once built.
type ToneParameters struct {
	ShadowGamma float64 `yaml:"shadowgamma"`
	Stops       float64 `yaml:"stops"`
}

// A ConfigurationError means the parameter table itself is bad. This is
// fatal before any processing starts; it never occurs mid-batch.
type ConfigurationError struct {
	Reason string
}

func (e ConfigurationError)Error() string {
	return fmt.Sprintf("tone parameter configuration: %s", e.Reason)
}

func (tp ToneParameters)Validate() error {
	if math.IsNaN(tp.ShadowGamma) || math.IsInf(tp.ShadowGamma, 0) || tp.ShadowGamma <= 0.0 {
		return ConfigurationError{fmt.Sprintf("shadow gamma %v must be a positive real", tp.ShadowGamma)}
	}
	if math.IsNaN(tp.Stops) || math.IsInf(tp.Stops, 0) {
		return ConfigurationError{fmt.Sprintf("stops %v must be finite", tp.Stops)}
	}
	return nil
}

// IsMinimal reports whether the parameters ask for the pass-through
// rendering: no shadow lift, no exposure push, no local contrast work.
func (tp ToneParameters)IsMinimal() bool {
	return tp.ShadowGamma == 1.0 && tp.Stops == 0.0
}

func (tp ToneParameters)String() string {
	return fmt.Sprintf("sg=%.2f st=%.2f", tp.ShadowGamma, tp.Stops)
}
