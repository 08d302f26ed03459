package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager()

			Convey("Then it should be enabled with the default refresh interval", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Enabled(), ShouldBeTrue)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(false),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"school": "mergington"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options should be applied", func() {
				So(manager.Enabled(), ShouldBeFalse)
				So(manager.RefreshInterval(), ShouldEqual, 5*time.Second)
			})

			Convey("And collectors should be registered under the custom names", func() {
				manager.activitiesTotal.Set(9)
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				found := false
				for _, mf := range families {
					if mf.GetName() == "test_namespace_test_subsystem_activities_total" {
						found = true
						So(mf.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "mergington")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When passing empty option values", func() {
			manager := NewManager(WithNamespace(""), WithSubsystem(""), WithRefreshInterval(0), WithHistogramBuckets(nil))

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "mergington")
				So(manager.subsystem, ShouldEqual, "activities")
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})
	})
}

func TestRosterMetrics(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording roster operations", func() {
			before := testutil.ToFloat64(globalManager.enrollments.WithLabelValues("Chess Club", "signup", "ok"))
			RecordRosterOperation("Chess Club", "signup", "ok")
			RecordRosterOperation("Chess Club", "signup", "ok")

			Convey("Then the counter should advance", func() {
				after := testutil.ToFloat64(globalManager.enrollments.WithLabelValues("Chess Club", "signup", "ok"))
				So(after-before, ShouldEqual, 2)
			})
		})

		Convey("When reading the refresh interval", func() {
			Convey("Then it should come from the global manager", func() {
				So(RefreshInterval(), ShouldEqual, globalManager.RefreshInterval())
				So(RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})

		Convey("When updating gauges", func() {
			UpdateRosterSize("Drama Club", 4)
			UpdateDirectoryTotals(9, 16)

			Convey("Then the gauges should hold the latest values", func() {
				So(testutil.ToFloat64(globalManager.rosterSize.WithLabelValues("Drama Club")), ShouldEqual, 4)
				So(testutil.ToFloat64(globalManager.activitiesTotal), ShouldEqual, 9)
				So(testutil.ToFloat64(globalManager.participantTotal), ShouldEqual, 16)
			})
		})

		Convey("When recording pipeline, repository, HTTP and system metrics", func() {
			Convey("Then nothing should panic", func() {
				So(func() {
					RecordChangePublished()
					RecordChangeDropped()
					RecordChangeProcessed()
					UpdateQueueSize(3)
					UpdateQueueCapacity(1024)
					UpdateWorkerCount(2)
					RecordWorkerProcessingLatency(0.5)
					RecordRepositoryUpdateLatency(0.1)
					RecordRepositoryQueryLatency(0.1)
					RecordHTTPRequest("signup", "POST", "200")
					RecordHTTPRequestDuration("signup", "POST", "200", 1.5)
					RecordErrorByType("not_found", "medium")
					RecordErrorByEndpoint("signup", "POST", "not_found")
					UpdateSystemMemoryUsage(1 << 20)
					UpdateSystemGoroutineCount(12)
					RecordSystemGCPauseTime(0.2)
				}, ShouldNotPanic)
			})
		})

		Convey("When gathering the custom registry", func() {
			RecordHTTPRequest("activities", "GET", "200")
			families, err := GetRegistry().Gather()

			Convey("Then service metrics should be exposed", func() {
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, mf := range families {
					names = append(names, mf.GetName())
				}
				So(strings.Join(names, ","), ShouldContainSubstring, "mergington_activities_http_requests_total")
			})
		})
	})
}
