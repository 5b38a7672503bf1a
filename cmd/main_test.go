package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/mkabbani/evround/internal/adapters/http/api"
	"github.com/mkabbani/evround/internal/adapters/http/swagger"
	service "github.com/mkabbani/evround/internal/app"
	"github.com/mkabbani/evround/internal/config"
	"github.com/mkabbani/evround/internal/domain/types"
	"github.com/mkabbani/evround/internal/seed"
	"github.com/mkabbani/evround/pkg/logger"
	"github.com/mkabbani/evround/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			t.Setenv("EVROUND_ADDR", ":8080")
			t.Setenv("EVROUND_EXPORT_QUEUE_SIZE", "1000")
			t.Setenv("EVROUND_EXPORT_WORKER_COUNT", "4")

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.ExportQueueSize, convey.ShouldEqual, 1000)
				convey.So(cfg.ExportWorkerCount, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When testing catalog loading", func() {
			convey.Convey("Then the embedded catalog backs an empty path", func() {
				c, err := loadCatalog("")
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(c.Inspectors), convey.ShouldBeGreaterThan, 0)
			})

			convey.Convey("And a missing file is an error", func() {
				_, err := loadCatalog("/nonexistent/catalog.json")
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with default options", func() {
				svc := service.New()
				convey.So(svc, convey.ShouldNotBeNil)
			})

			convey.Convey("And service should be creatable with custom options", func() {
				catalog, err := seed.Catalog()
				convey.So(err, convey.ShouldBeNil)
				svc := service.New(
					service.WithSeedCatalog(catalog),
					service.WithWorkerCount(8),
					service.WithQueueSize(2000),
				)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing HTTP server creation", func() {
			svc := service.New()
			convey.So(svc, convey.ShouldNotBeNil)

			convey.Convey("Then HTTP server should be creatable", func() {
				server := api.NewServer(svc, svc, types.Arabic)
				convey.So(server, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing metrics initialization", func() {
			convey.Convey("Then metrics manager should be creatable", func() {
				registry := prometheus.NewRegistry()
				manager := metrics.NewManager(metrics.WithRegistry(registry))
				convey.So(manager, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing the service metrics updater", func() {
			svc := service.New()
			convey.So(svc, convey.ShouldNotBeNil)

			convey.Convey("Then it should run and stop with its context", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startServiceMetricsUpdater(ctx, svc)
				}, convey.ShouldNotPanic)
			})
		})
	})
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given main application integration", t, func() {
		convey.Convey("When testing full application setup", func() {
			t.Setenv("EVROUND_ADDR", ":8080")
			t.Setenv("EVROUND_EXPORT_DIR", t.TempDir())

			convey.Convey("Then all components should work together", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)

				catalog, err := loadCatalog(cfg.CatalogPath)
				convey.So(err, convey.ShouldBeNil)

				svc := service.New(
					service.WithSeedCatalog(catalog),
					service.WithWorkerCount(cfg.ExportWorkerCount),
					service.WithQueueSize(cfg.ExportQueueSize),
					service.WithExportDir(cfg.ExportDir),
				)
				convey.So(svc, convey.ShouldNotBeNil)

				server := api.NewServer(svc, svc, types.Language(cfg.Language))
				convey.So(server, convey.ShouldNotBeNil)

				mux := http.NewServeMux()
				convey.So(mux, convey.ShouldNotBeNil)

				server.Register(ctx, mux)
				swagger.Register(ctx, mux)

				svc.Stop()
			})
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When testing invalid configuration", func() {
			t.Setenv("EVROUND_LANGUAGE", "fr")

			convey.Convey("Then configuration loading should fail", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When testing service creation with invalid options", func() {
			convey.Convey("Then service should handle invalid options gracefully", func() {
				svc := service.New(
					service.WithWorkerCount(0),
					service.WithQueueSize(0),
					service.WithExportDir(""),
				)
				convey.So(svc, convey.ShouldNotBeNil)

				stats := svc.GetStats()
				convey.So(stats, convey.ShouldNotBeNil)
			})
		})
	})
}
