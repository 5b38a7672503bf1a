package stats_test

import (
	"errors"
	"testing"
	"time"

	"github.com/mkabbani/evround/internal/domain/model"
	"github.com/mkabbani/evround/internal/domain/stats"
	"github.com/mkabbani/evround/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func rec(inspector string, ts time.Time, pct float64) model.InspectionRecord {
	return model.InspectionRecord{
		InspectorName: inspector,
		Category:      types.General,
		Timestamp:     ts,
		Percentage:    pct,
	}
}

func TestWindows(t *testing.T) {
	Convey("Given the lookback windows", t, func() {
		now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

		Convey("Then bounds follow the calendar, not fixed durations", func() {
			start, err := stats.WindowWeek.Start(now)
			So(err, ShouldBeNil)
			So(start, ShouldEqual, time.Date(2024, 3, 24, 12, 0, 0, 0, time.UTC))

			start, err = stats.WindowMonth.Start(now)
			So(err, ShouldBeNil)
			So(start, ShouldEqual, time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC))

			start, err = stats.WindowQuarter.Start(now)
			So(err, ShouldBeNil)
			So(start, ShouldEqual, time.Date(2023, 12, 31, 12, 0, 0, 0, time.UTC))

			start, err = stats.WindowYear.Start(now)
			So(err, ShouldBeNil)
			So(start, ShouldEqual, time.Date(2023, 3, 31, 12, 0, 0, 0, time.UTC))
		})

		Convey("Then an undefined window is rejected", func() {
			_, err := stats.Window("decade").Start(now)
			So(errors.Is(err, stats.ErrUnknownWindow), ShouldBeTrue)
			So(stats.Window("decade").Valid(), ShouldBeFalse)
			So(stats.WindowWeek.Valid(), ShouldBeTrue)
		})
	})
}

func TestFilter(t *testing.T) {
	Convey("Given mixed history, newest first", t, func() {
		now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
		records := []model.InspectionRecord{
			rec("أمل", now, 90),
			rec("صالح", now.AddDate(0, 0, -2), 80),
			rec("أمل", now.AddDate(0, 0, -10), 70),
			rec("أمل", now.AddDate(0, 0, -40), 60),
		}

		Convey("Then widening windows pick up older records monotonically", func() {
			week, err := stats.Filter(records, "أمل", stats.WindowWeek, now)
			So(err, ShouldBeNil)
			So(week, ShouldHaveLength, 1)

			month, err := stats.Filter(records, "أمل", stats.WindowMonth, now)
			So(err, ShouldBeNil)
			So(month, ShouldHaveLength, 2)

			quarter, err := stats.Filter(records, "أمل", stats.WindowQuarter, now)
			So(err, ShouldBeNil)
			So(quarter, ShouldHaveLength, 3)
		})

		Convey("Then order is preserved and other inspectors are excluded", func() {
			got, err := stats.Filter(records, "أمل", stats.WindowQuarter, now)
			So(err, ShouldBeNil)
			So(got[0].Percentage, ShouldEqual, 90)
			So(got[1].Percentage, ShouldEqual, 70)
			So(got[2].Percentage, ShouldEqual, 60)
		})

		Convey("Then a record exactly on the boundary is included", func() {
			boundary := []model.InspectionRecord{rec("أمل", now.AddDate(0, 0, -7), 50)}
			got, err := stats.Filter(boundary, "أمل", stats.WindowWeek, now)
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 1)
		})

		Convey("Then an unknown window propagates the error", func() {
			_, err := stats.Filter(records, "أمل", stats.Window("decade"), now)
			So(errors.Is(err, stats.ErrUnknownWindow), ShouldBeTrue)
		})
	})
}

func TestSummarize(t *testing.T) {
	Convey("Given filtered records", t, func() {
		now := time.Now()

		Convey("When the slice is empty", func() {
			So(stats.Summarize(nil), ShouldResemble, stats.Summary{})
		})

		Convey("When records are present", func() {
			a := rec("أمل", now, 90)
			a.ZoneName = "z1"
			b := rec("أمل", now, 70)
			b.ZoneName = "z2"
			c := rec("أمل", now, 80)
			c.ZoneName = "z1"

			s := stats.Summarize([]model.InspectionRecord{a, b, c})
			So(s.Count, ShouldEqual, 3)
			So(s.UniqueZones, ShouldEqual, 2)
			So(s.AveragePercentage, ShouldAlmostEqual, 80, 0.0001)
			So(s.Best, ShouldEqual, 90)
			So(s.Worst, ShouldEqual, 70)
		})
	})
}

func TestDailyTrend(t *testing.T) {
	Convey("Given records spread over days", t, func() {
		day1 := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
		day2 := time.Date(2024, 3, 7, 14, 0, 0, 0, time.UTC)
		records := []model.InspectionRecord{
			rec("أمل", day2, 100),
			rec("أمل", day1.Add(3*time.Hour), 60),
			rec("أمل", day1, 80),
		}

		points := stats.DailyTrend(records)

		Convey("Then points are chronological with per-day means", func() {
			So(points, ShouldHaveLength, 2)
			So(points[0].Day.Day(), ShouldEqual, 5)
			So(points[0].Average, ShouldAlmostEqual, 70, 0.0001)
			So(points[0].Count, ShouldEqual, 2)
			So(points[1].Day.Day(), ShouldEqual, 7)
			So(points[1].Average, ShouldEqual, 100)
		})

		Convey("Then empty history yields no points", func() {
			So(stats.DailyTrend(nil), ShouldBeEmpty)
		})

		Convey("Then bucketing follows the local calendar date, not UTC days", func() {
			// 02:00 and 22:00 on the same local day in UTC-5 sit on two
			// different UTC days; they still belong to one trend point.
			loc := time.FixedZone("UTC-5", -5*60*60)
			morning := time.Date(2024, 3, 7, 2, 0, 0, 0, loc)
			evening := time.Date(2024, 3, 7, 22, 0, 0, 0, loc)

			pts := stats.DailyTrend([]model.InspectionRecord{
				rec("أمل", evening, 60),
				rec("أمل", morning, 80),
			})
			So(pts, ShouldHaveLength, 1)
			So(pts[0].Day.Year(), ShouldEqual, 2024)
			So(pts[0].Day.Month(), ShouldEqual, time.March)
			So(pts[0].Day.Day(), ShouldEqual, 7)
			So(pts[0].Day.Hour(), ShouldEqual, 0)
			So(pts[0].Average, ShouldAlmostEqual, 70, 0.0001)
			So(pts[0].Count, ShouldEqual, 2)
		})
	})
}
