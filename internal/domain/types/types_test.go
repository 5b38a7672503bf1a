package types_test

import (
	"testing"

	"github.com/mkabbani/evround/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCategory(t *testing.T) {
	Convey("Given the category enumeration", t, func() {
		Convey("Then every declared category should be valid", func() {
			for _, c := range types.Categories() {
				So(c.Valid(), ShouldBeTrue)
			}
		})

		Convey("Then unknown codes should be invalid", func() {
			So(types.Category("LOW_RISK").Valid(), ShouldBeFalse)
			So(types.Category("").Valid(), ShouldBeFalse)
		})

		Convey("Then labels should exist in both languages for every category", func() {
			for _, c := range types.Categories() {
				So(c.Label(types.Arabic), ShouldNotBeEmpty)
				So(c.Label(types.English), ShouldNotBeEmpty)
				So(c.Label(types.Arabic), ShouldNotEqual, c.Label(types.English))
			}
		})

		Convey("Then an unknown category should fall back to its code", func() {
			So(types.Category("LOW_RISK").Label(types.English), ShouldEqual, "LOW_RISK")
		})
	})
}

func TestScoreBand(t *testing.T) {
	Convey("Given the score band thresholds", t, func() {
		Convey("Then 90 and above should be excellent", func() {
			So(types.ScoreBand(90), ShouldEqual, types.BandExcellent)
			So(types.ScoreBand(100), ShouldEqual, types.BandExcellent)
		})

		Convey("Then 75 up to 90 should be acceptable", func() {
			So(types.ScoreBand(75), ShouldEqual, types.BandAcceptable)
			So(types.ScoreBand(89.9), ShouldEqual, types.BandAcceptable)
		})

		Convey("Then below 75 should be poor", func() {
			So(types.ScoreBand(74.9), ShouldEqual, types.BandPoor)
			So(types.ScoreBand(0), ShouldEqual, types.BandPoor)
		})
	})
}
