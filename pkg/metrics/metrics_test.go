package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestPackageHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording through the package helpers", func() {
			Convey("Then none of them panic", func() {
				So(func() {
					RecordEventIngested()
					RecordMutationApplied("put")
					RecordMutationApplied("delete")
					RecordReportRecompute(1.5)
					RecordMemoHit()
					RecordMemoMiss()
					RecordSnapshotRebuild(0.2)
					UpdateRosterSize(22)
					UpdateCalendarSize(120)
					UpdateQueueSize(3)
					UpdateQueueCapacity(100)
					RecordQueueEnqueue()
					RecordQueueDequeue()
					RecordQueueEnqueueError()
					UpdateWorkerCount(4)
					RecordWorkerApplyLatency(0.8)
					RecordWorkerError()
					RecordHTTPRequest("events", "POST", "202")
					RecordHTTPRequestDuration("events", "POST", "202", 2.0)
					RecordErrorByComponent("http_events", "client_error")
					UpdateSystemMemoryUsage(1 << 20)
					UpdateSystemGoroutineCount(10)
					RecordSystemGCPauseTime(0.1)
				}, ShouldNotPanic)
			})
		})

		Convey("When asking for the registry", func() {
			Convey("Then it is usable for scraping", func() {
				registry := GetRegistry()
				So(registry, ShouldNotBeNil)

				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})
	})
}
