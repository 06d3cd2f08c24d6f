package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))
			manager.datasetLoads.WithLabelValues("file", "ok").Inc()

			Convey("Then metric names should carry the service prefix", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "techrank_service_dataset_loads_total")
			})
		})

		Convey("When a nil registry is given", func() {
			m := &Manager{registry: prometheus.NewRegistry()}
			WithPrometheusRegistry(nil)(m)

			Convey("Then the existing registry should be kept", func() {
				So(m.registry, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("When recording dataset loads", func() {
			before := testutil.ToFloat64(globalManager.datasetLoads.WithLabelValues("upload", "error"))
			RecordDatasetLoad("upload", "error")
			RecordLoadError("malformed_source")

			Convey("Then the counters should move", func() {
				So(testutil.ToFloat64(globalManager.datasetLoads.WithLabelValues("upload", "error")), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.loadErrors.WithLabelValues("malformed_source")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When updating the dataset shape", func() {
			UpdateDatasetShape(12, 5, 60)

			Convey("Then the gauges should report it", func() {
				So(testutil.ToFloat64(globalManager.datasetEntities), ShouldEqual, 12)
				So(testutil.ToFloat64(globalManager.datasetPeriods), ShouldEqual, 5)
				So(testutil.ToFloat64(globalManager.datasetPoints), ShouldEqual, 60)
			})
		})

		Convey("When recording presentation metrics", func() {
			before := testutil.ToFloat64(globalManager.chartRenders.WithLabelValues("svg"))
			RecordViewRequest()
			RecordChartRender("svg", 12.5)
			RecordChartFailure()

			Convey("Then renders should be counted by format", func() {
				So(testutil.ToFloat64(globalManager.chartRenders.WithLabelValues("svg")), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.viewRequests), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When recording HTTP and system metrics", func() {
			Convey("Then nothing should panic", func() {
				So(func() {
					RecordHTTPRequest("/api/data", "GET", "200")
					RecordHTTPRequestDuration("/api/data", "GET", "200", 4.2)
					RecordErrorByEndpoint("/api/normalize", "POST", "malformed_source")
					RecordRateLimited("/api/chart")
					RecordLoadDuration(3)
					RecordNormalizeDuration(1)
					UpdateSystemMemoryUsage(1 << 20)
					UpdateSystemGoroutineCount(8)
					RecordSystemGCPauseTime(0.3)
				}, ShouldNotPanic)
			})
		})

		Convey("Then the custom registry should be exposed", func() {
			So(GetRegistry(), ShouldEqual, customRegistry)
		})
	})
}
