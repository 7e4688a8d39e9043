package tonemap

import "fmt"

// A Preset is a named ToneParameters entry in the fixed ordered table the
// batch driver walks. Preset numbers are 1-based table positions.
type Preset struct {
	Name string
	ToneParameters
}

// DefaultPresets is the fixed study table. Preset 1 is the unprocessed
// control; the rest trade progressively more shadow lift against
// progressively harder highlight compression.
func DefaultPresets() []Preset {
	return []Preset{
		{Name: "minimal", ToneParameters: ToneParameters{ShadowGamma: 1.00, Stops: 0.00}},
		{Name: "soft",    ToneParameters: ToneParameters{ShadowGamma: 1.15, Stops: 0.50}},
		{Name: "mild",    ToneParameters: ToneParameters{ShadowGamma: 1.25, Stops: 1.00}},
		{Name: "medium",  ToneParameters: ToneParameters{ShadowGamma: 1.50, Stops: 1.50}},
		{Name: "strong",  ToneParameters: ToneParameters{ShadowGamma: 1.75, Stops: 1.75}},
		{Name: "max",     ToneParameters: ToneParameters{ShadowGamma: 2.00, Stops: 2.00}},
	}
}

// ValidatePresets checks the whole table before any processing begins.
func ValidatePresets(presets []Preset) error {
	if len(presets) == 0 {
		return ConfigurationError{"preset table is empty"}
	}
	for i, p := range presets {
		if err := p.Validate(); err != nil {
			return ConfigurationError{fmt.Sprintf("preset %d (%s): %v", i+1, p.Name, err)}
		}
	}
	return nil
}
