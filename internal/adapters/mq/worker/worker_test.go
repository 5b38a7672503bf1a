package worker_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mkabbani/evround/internal/adapters/mq/queue"
	"github.com/mkabbani/evround/internal/adapters/mq/worker"
	"github.com/mkabbani/evround/internal/domain/model"
	"github.com/mkabbani/evround/internal/domain/report"
	"github.com/mkabbani/evround/internal/domain/types"
	"github.com/mkabbani/evround/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type staticCatalog struct {
	catalog *model.Catalog
}

func (s *staticCatalog) Get(context.Context) *model.Catalog { return s.catalog }

func exportCatalog() *model.Catalog {
	c, err := model.NewCatalog(nil, nil, []model.ChecklistItem{
		{ID: "g1", Number: 1, Name: "نظافة السجاد", MaxScore: 6, Category: types.General, IsActive: true},
	})
	if err != nil {
		panic(err)
	}
	return c
}

func exportRecord(id string) model.InspectionRecord {
	return model.NewRecord(id, "أمل", "قسم التغذية", types.General,
		time.Date(2024, 3, 7, 10, 30, 0, 0, time.UTC),
		exportCatalog().ItemsFor(types.General),
		map[string]int{"g1": 5}, nil, nil)
}

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestFileWriter(t *testing.T) {
	Convey("Given a file writer over a temp dir", t, func() {
		dir := t.TempDir()
		w, err := worker.NewFileWriter(filepath.Join(dir, "exports"))
		So(err, ShouldBeNil)

		Convey("When writing a document", func() {
			doc := report.Build(exportRecord("EVS-20240307-1234"), exportCatalog(), types.Arabic)
			So(w.Write(context.Background(), doc), ShouldBeNil)

			Convey("Then the file holds the document as JSON", func() {
				data, err := os.ReadFile(filepath.Join(dir, "exports", "EVS-20240307-1234.json"))
				So(err, ShouldBeNil)

				var back report.Document
				So(json.Unmarshal(data, &back), ShouldBeNil)
				So(back.ID, ShouldEqual, "EVS-20240307-1234")
				So(back.TotalScore, ShouldEqual, 5)
				So(back.Lines, ShouldHaveLength, 1)
			})
		})
	})
}

func TestExportPipeline(t *testing.T) {
	Convey("Given a queue drained by a worker pool", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		dir := t.TempDir()
		w, err := worker.NewFileWriter(dir)
		So(err, ShouldBeNil)

		q := queue.NewInMemoryQueue(queue.WithCapacity(10))
		pool := worker.NewPool(2, q, &staticCatalog{catalog: exportCatalog()}, w)
		pool.Start(ctx)

		Convey("When jobs are enqueued and the pool shuts down", func() {
			So(q.Enqueue(ctx, queue.Job{Record: exportRecord("EVS-20240307-1111"), Language: types.Arabic}), ShouldBeTrue)
			So(q.Enqueue(ctx, queue.Job{Record: exportRecord("EVS-20240307-2222"), Language: types.English}), ShouldBeTrue)

			So(pool.Shutdown(context.Background()), ShouldBeNil)

			Convey("Then every buffered job was exported before stopping", func() {
				_, err := os.Stat(filepath.Join(dir, "EVS-20240307-1111.json"))
				So(err, ShouldBeNil)
				_, err = os.Stat(filepath.Join(dir, "EVS-20240307-2222.json"))
				So(err, ShouldBeNil)
			})
		})
	})
}
