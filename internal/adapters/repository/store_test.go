package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mkabbani/evround/internal/adapters/repository"
	"github.com/mkabbani/evround/internal/domain/model"
	"github.com/mkabbani/evround/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func historyRecord(n int) model.InspectionRecord {
	return model.InspectionRecord{
		ID:            fmt.Sprintf("EVS-20240307-%d", 1000+n),
		InspectorName: "أمل",
		ZoneName:      "قسم التغذية",
		Category:      types.General,
		Timestamp:     time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Minute),
		Percentage:    float64(50 + n),
	}
}

func TestMemoryHistory(t *testing.T) {
	Convey("Given an empty history store", t, func() {
		ctx := context.Background()
		store := NewTestHistory(ctx)
		defer store.Close()

		Convey("Then it starts empty", func() {
			So(store.Count(ctx), ShouldEqual, 0)
			recs, err := store.List(ctx)
			So(err, ShouldBeNil)
			So(recs, ShouldBeEmpty)
		})

		Convey("When records are appended", func() {
			So(store.Append(ctx, historyRecord(1)), ShouldBeNil)
			So(store.Append(ctx, historyRecord(2)), ShouldBeNil)
			So(store.Append(ctx, historyRecord(3)), ShouldBeNil)

			Convey("Then List returns them newest first", func() {
				recs, err := store.List(ctx)
				So(err, ShouldBeNil)
				So(recs, ShouldHaveLength, 3)
				So(recs[0].ID, ShouldEqual, "EVS-20240307-1003")
				So(recs[1].ID, ShouldEqual, "EVS-20240307-1002")
				So(recs[2].ID, ShouldEqual, "EVS-20240307-1001")
			})

			Convey("Then Get finds each by id", func() {
				rec, err := store.Get(ctx, "EVS-20240307-1001")
				So(err, ShouldBeNil)
				So(rec.Percentage, ShouldEqual, 51)

				_, err = store.Get(ctx, "EVS-20240307-9999")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})

			Convey("Then the listing is the caller's own slice", func() {
				recs, err := store.List(ctx)
				So(err, ShouldBeNil)
				recs[0] = model.InspectionRecord{}

				again, err := store.List(ctx)
				So(err, ShouldBeNil)
				So(again[0].ID, ShouldEqual, "EVS-20240307-1003")
			})
		})
	})
}

// NewTestHistory builds a history store with a long metrics interval so the
// background updater stays quiet during tests.
func NewTestHistory(ctx context.Context) *repository.MemoryHistory {
	return repository.NewMemoryHistory(ctx, repository.WithMetricsUpdateInterval(time.Hour))
}

func seedCatalog() *model.Catalog {
	c, err := model.NewCatalog(
		[]model.Inspector{
			{ID: "1", DisplayName: "أمل", Username: "amal", AllowedZones: []types.Category{types.General}, IsActive: true},
		},
		[]model.Zone{
			{ID: "z1", Name: "قسم التغذية", Category: types.General},
		},
		[]model.ChecklistItem{
			{ID: "g1", Number: 1, Name: "نظافة السجاد", MaxScore: 6, Category: types.General, IsActive: true},
		},
	)
	if err != nil {
		panic(err)
	}
	return c
}

func TestMemoryCatalog(t *testing.T) {
	Convey("Given a seeded catalog store", t, func() {
		ctx := context.Background()
		store, err := repository.NewMemoryCatalog(seedCatalog())
		So(err, ShouldBeNil)

		Convey("Then Get returns an independent snapshot", func() {
			snap := store.Get(ctx)
			snap.Zones[0].Name = "changed"
			So(store.Get(ctx).Zones[0].Name, ShouldEqual, "قسم التغذية")
		})

		Convey("When upserting a new inspector", func() {
			err := store.UpsertInspector(ctx, model.Inspector{
				ID: "2", DisplayName: "صالح", Username: "saleh",
				AllowedZones: []types.Category{types.HighRisk}, IsActive: true,
			})
			So(err, ShouldBeNil)
			So(store.Get(ctx).Inspectors, ShouldHaveLength, 2)
		})

		Convey("When updating an existing zone in place", func() {
			err := store.UpsertZone(ctx, model.Zone{ID: "z1", Name: "قسم التغذية العلاجية", Category: types.General})
			So(err, ShouldBeNil)

			z, ok := store.Get(ctx).ZoneByID("z1")
			So(ok, ShouldBeTrue)
			So(z.Name, ShouldEqual, "قسم التغذية العلاجية")
		})

		Convey("When a mutation would break a catalog invariant", func() {
			err := store.UpsertItem(ctx, model.ChecklistItem{
				ID: "g2", Number: 1, Name: "مكرر", MaxScore: 5, Category: types.General, IsActive: true,
			})

			Convey("Then it is rejected and the previous catalog survives", func() {
				So(errors.Is(err, model.ErrInvalidCatalog), ShouldBeTrue)
				So(store.Get(ctx).Checklists, ShouldHaveLength, 1)
			})
		})

		Convey("When removing entries", func() {
			So(store.RemoveItem(ctx, "g1"), ShouldBeNil)
			So(store.Get(ctx).Checklists, ShouldBeEmpty)

			So(errors.Is(store.RemoveItem(ctx, "g1"), repository.ErrNotFound), ShouldBeTrue)
			So(errors.Is(store.RemoveZone(ctx, "z9"), repository.ErrNotFound), ShouldBeTrue)
			So(errors.Is(store.RemoveInspector(ctx, "9"), repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When replacing the whole catalog", func() {
			next, err := model.NewCatalog(nil, nil, []model.ChecklistItem{
				{ID: "h1", Number: 1, Name: "الأرضيات", MaxScore: 6, Category: types.HighRisk, IsActive: true},
			})
			So(err, ShouldBeNil)

			So(store.Replace(ctx, next), ShouldBeNil)
			So(store.Get(ctx).Inspectors, ShouldBeEmpty)
			So(store.Get(ctx).Checklists[0].ID, ShouldEqual, "h1")

			So(errors.Is(store.Replace(ctx, nil), repository.ErrNilCatalog), ShouldBeTrue)
		})

		Convey("When the replacement breaks a catalog invariant", func() {
			// Built as a raw literal so the duplicate numbers reach the
			// store unvalidated.
			bad := &model.Catalog{
				Checklists: []model.ChecklistItem{
					{ID: "h1", Number: 1, Name: "الأرضيات", MaxScore: 6, Category: types.HighRisk, IsActive: true},
					{ID: "h2", Number: 1, Name: "مكرر", MaxScore: 4, Category: types.HighRisk, IsActive: true},
				},
			}

			err := store.Replace(ctx, bad)

			Convey("Then it is rejected and the previous catalog survives", func() {
				So(errors.Is(err, model.ErrInvalidCatalog), ShouldBeTrue)
				So(store.Get(ctx).Checklists, ShouldHaveLength, 1)
				So(store.Get(ctx).Checklists[0].ID, ShouldEqual, "g1")
			})
		})
	})
}
