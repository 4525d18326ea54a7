package adjust

import (
	"fmt"
	"math"

	"github.com/pitchmark/pitchmark/internal/domain/model"
)

// ZoneCount is the number of pitch-location buckets.
const ZoneCount = model.MaxZone - model.MinZone + 1

// ZoneMultiplierTable holds one signed coefficient per zone per
// (defensive, successful) combination. It is configuration data, loaded
// from the deployment config and validated here, never inline constants:
// the production coefficients are supplied by domain experts and must be
// replaceable without touching the adjustment formula.
type ZoneMultiplierTable struct {
	OffensiveSuccess [ZoneCount]float64 `koanf:"offensive_success"`
	OffensiveFailure [ZoneCount]float64 `koanf:"offensive_failure"`
	DefensiveSuccess [ZoneCount]float64 `koanf:"defensive_success"`
	DefensiveFailure [ZoneCount]float64 `koanf:"defensive_failure"`
}

// UnityTable returns the neutral table: every coefficient 1.0, so the
// adjusted score equals the base score. This is the documented stand-in
// until the recovered production coefficients are supplied.
func UnityTable() ZoneMultiplierTable {
	var t ZoneMultiplierTable
	for i := 0; i < ZoneCount; i++ {
		t.OffensiveSuccess[i] = 1.0
		t.OffensiveFailure[i] = 1.0
		t.DefensiveSuccess[i] = 1.0
		t.DefensiveFailure[i] = 1.0
	}
	return t
}

// Validate checks every coefficient is finite. Signed values are
// legitimate: an unsuccessful action may invert the zone bonus.
func (t ZoneMultiplierTable) Validate() error {
	rows := map[string][ZoneCount]float64{
		"offensive_success": t.OffensiveSuccess,
		"offensive_failure": t.OffensiveFailure,
		"defensive_success": t.DefensiveSuccess,
		"defensive_failure": t.DefensiveFailure,
	}
	for name, row := range rows {
		for i, c := range row {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return fmt.Errorf("%w: %s zone %d is not finite", ErrInvalidTable, name, i+model.MinZone)
			}
		}
	}
	return nil
}

// Coefficient returns the multiplier for a zone in [1,18].
func (t ZoneMultiplierTable) Coefficient(zone int, defensive, successful bool) float64 {
	i := zone - model.MinZone
	switch {
	case defensive && successful:
		return t.DefensiveSuccess[i]
	case defensive:
		return t.DefensiveFailure[i]
	case successful:
		return t.OffensiveSuccess[i]
	default:
		return t.OffensiveFailure[i]
	}
}
