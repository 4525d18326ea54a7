package adjust_test

import (
	"errors"
	"math"
	"testing"

	"github.com/pitchmark/pitchmark/internal/domain/adjust"
	"github.com/pitchmark/pitchmark/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAdjuster_NoOpBranch(t *testing.T) {
	Convey("Given an adjuster with the unity table", t, func() {
		a := adjust.New()

		Convey("When the zone is absent", func() {
			got, err := a.Adjust(model.NewScore(0.10), model.AbsentZone(), true, false)

			Convey("Then the adjustment is undefined, not an error", func() {
				So(err, ShouldBeNil)
				So(got.Valid(), ShouldBeFalse)
			})
		})

		Convey("When the base score is absent", func() {
			got, err := a.Adjust(model.AbsentScore(), model.NewZone(5), true, false)
			So(err, ShouldBeNil)
			So(got.Valid(), ShouldBeFalse)
		})

		Convey("When both are absent", func() {
			got, err := a.Adjust(model.AbsentScore(), model.AbsentZone(), false, true)
			So(err, ShouldBeNil)
			So(got.Valid(), ShouldBeFalse)
		})
	})
}

func TestAdjuster_InvalidZone(t *testing.T) {
	Convey("Given an adjuster", t, func() {
		a := adjust.New()

		Convey("When a zone below range is supplied deliberately", func() {
			_, err := a.Adjust(model.NewScore(0.10), model.NewZone(0), true, false)

			Convey("Then it is rejected, not clamped", func() {
				So(errors.Is(err, adjust.ErrInvalidZone), ShouldBeTrue)
			})
		})

		Convey("When a zone above range is supplied", func() {
			_, err := a.Adjust(model.NewScore(0.10), model.NewZone(19), true, false)
			So(errors.Is(err, adjust.ErrInvalidZone), ShouldBeTrue)
		})

		Convey("When the boundary zones are supplied", func() {
			for _, z := range []int{1, 18} {
				got, err := a.Adjust(model.NewScore(0.10), model.NewZone(z), true, false)
				So(err, ShouldBeNil)
				So(got.Valid(), ShouldBeTrue)
			}
		})
	})
}

func TestAdjuster_PolarityTable(t *testing.T) {
	Convey("Given a table rewarding successful defending and inverting failures", t, func() {
		table := adjust.UnityTable()
		for i := 0; i < adjust.ZoneCount; i++ {
			table.DefensiveSuccess[i] = 1.5
			table.DefensiveFailure[i] = -0.5
			table.OffensiveSuccess[i] = 1.2
			table.OffensiveFailure[i] = 0.4
		}
		a := adjust.New(adjust.WithTable(table))
		base := model.NewScore(0.10)
		zone := model.NewZone(9)

		Convey("When a defensive action succeeds", func() {
			got, err := a.Adjust(base, zone, true, true)
			So(err, ShouldBeNil)
			So(got.Float64(), ShouldEqual, 0.15)
		})

		Convey("When a defensive action fails", func() {
			got, err := a.Adjust(base, zone, false, true)

			Convey("Then the zone bonus inverts", func() {
				So(err, ShouldBeNil)
				So(got.Float64(), ShouldEqual, -0.05)
			})
		})

		Convey("When an offensive action succeeds", func() {
			got, err := a.Adjust(base, zone, true, false)
			So(err, ShouldBeNil)
			So(got.Float64(), ShouldEqual, 0.12)
		})

		Convey("When an offensive action fails", func() {
			got, err := a.Adjust(base, zone, false, false)
			So(err, ShouldBeNil)
			So(got.Float64(), ShouldEqual, 0.04)
		})
	})
}

func TestAdjuster_PerZoneCoefficients(t *testing.T) {
	Convey("Given a table with distinct per-zone coefficients", t, func() {
		table := adjust.UnityTable()
		for i := 0; i < adjust.ZoneCount; i++ {
			table.OffensiveSuccess[i] = float64(i + 1)
		}
		a := adjust.New(adjust.WithTable(table))

		Convey("When adjusting across all 18 zones", func() {
			for z := model.MinZone; z <= model.MaxZone; z++ {
				got, err := a.Adjust(model.NewScore(1), model.NewZone(z), true, false)
				So(err, ShouldBeNil)
				So(got.Float64(), ShouldEqual, float64(z))
			}
		})
	})
}

func TestAdjuster_Rounding(t *testing.T) {
	Convey("Given coefficients producing long fractions", t, func() {
		table := adjust.UnityTable()
		table.OffensiveSuccess[0] = 1.0 / 3.0
		a := adjust.New(adjust.WithTable(table))

		Convey("When adjusting", func() {
			got, err := a.Adjust(model.NewScore(1), model.NewZone(1), true, false)

			Convey("Then the result is fixed at 5 decimal places", func() {
				So(err, ShouldBeNil)
				So(got.Float64(), ShouldEqual, 0.33333)
			})

			Convey("And repeated calls never drift", func() {
				for i := 0; i < 100; i++ {
					again, err := a.Adjust(model.NewScore(1), model.NewZone(1), true, false)
					So(err, ShouldBeNil)
					So(again.Float64(), ShouldEqual, got.Float64())
				}
			})
		})
	})
}

func TestZoneMultiplierTable_Validate(t *testing.T) {
	Convey("Given multiplier tables", t, func() {
		Convey("When the table is the unity default", func() {
			So(adjust.UnityTable().Validate(), ShouldBeNil)
		})

		Convey("When a coefficient is NaN", func() {
			table := adjust.UnityTable()
			table.DefensiveFailure[3] = math.NaN()
			So(errors.Is(table.Validate(), adjust.ErrInvalidTable), ShouldBeTrue)
		})

		Convey("When a coefficient is infinite", func() {
			table := adjust.UnityTable()
			table.OffensiveSuccess[17] = math.Inf(1)
			So(errors.Is(table.Validate(), adjust.ErrInvalidTable), ShouldBeTrue)
		})

		Convey("When negative coefficients are present", func() {
			table := adjust.UnityTable()
			table.DefensiveFailure[0] = -1.0

			Convey("Then the table is still valid, signs are data", func() {
				So(table.Validate(), ShouldBeNil)
			})
		})

		Convey("When an invalid table is passed as an option", func() {
			table := adjust.UnityTable()
			table.OffensiveFailure[0] = math.NaN()
			a := adjust.New(adjust.WithTable(table))

			Convey("Then the unity default is kept", func() {
				So(a.Table().OffensiveFailure[0], ShouldEqual, 1.0)
			})
		})
	})
}
