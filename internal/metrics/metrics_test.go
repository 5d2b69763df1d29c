package metrics_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/proxy-health-gateway/internal/metrics"
)

var _ = Describe("Metrics", func() {
	var m *metrics.Metrics

	BeforeEach(func() {
		m = metrics.NewMetrics()
	})

	Describe("IncrementRequests", func() {
		It("should count inbound requests", func() {
			m.IncrementRequests()
			m.IncrementRequests()

			snap := m.Snapshot()
			Expect(snap.TotalRequests).To(Equal(int64(2)))
		})
	})

	Describe("RecordResponse", func() {
		It("should record outcome counts and durations", func() {
			m.RecordResponse("success", 100*time.Millisecond, 200)
			m.RecordResponse("success", 200*time.Millisecond, 200)

			snap := m.Snapshot()
			outcome := snap.Outcomes["success"]

			Expect(outcome.Count).To(Equal(int64(2)))
			Expect(outcome.AvgResponse).To(Equal(150 * time.Millisecond))
			Expect(snap.StatusCodes[200]).To(Equal(int64(2)))
		})

		It("should track outcomes and status codes separately", func() {
			m.RecordResponse("success", 100*time.Millisecond, 200)
			m.RecordResponse("invalid_format", time.Millisecond, 400)
			m.RecordResponse("upstream_timeout", 10*time.Second, 504)

			snap := m.Snapshot()
			Expect(snap.Outcomes).To(HaveLen(3))
			Expect(snap.StatusCodes[200]).To(Equal(int64(1)))
			Expect(snap.StatusCodes[400]).To(Equal(int64(1)))
			Expect(snap.StatusCodes[504]).To(Equal(int64(1)))
		})

		It("should calculate percentiles correctly", func() {
			for i := 1; i <= 100; i++ {
				m.RecordResponse("success", time.Duration(i)*time.Millisecond, 200)
			}

			outcome := m.Snapshot().Outcomes["success"]

			Expect(outcome.P50Response).To(BeNumerically("~", 50*time.Millisecond, 1*time.Millisecond))
			Expect(outcome.P95Response).To(BeNumerically("~", 95*time.Millisecond, 1*time.Millisecond))
			Expect(outcome.P99Response).To(BeNumerically("~", 99*time.Millisecond, 1*time.Millisecond))
		})

		It("should limit stored durations to 1000 samples", func() {
			for i := 1; i <= 1500; i++ {
				m.RecordResponse("success", time.Duration(i)*time.Millisecond, 200)
			}

			outcome := m.Snapshot().Outcomes["success"]

			Expect(outcome.Count).To(Equal(int64(1500)))
			Expect(outcome.AvgResponse).To(BeNumerically(">", 500*time.Millisecond))
		})
	})

	Describe("UpdateUpstreamHealth", func() {
		It("should report upstream reachability once probed", func() {
			Expect(m.Snapshot().UpstreamProbed).To(BeFalse())

			m.UpdateUpstreamHealth(true)
			snap := m.Snapshot()
			Expect(snap.UpstreamProbed).To(BeTrue())
			Expect(snap.UpstreamHealthy).To(BeTrue())

			m.UpdateUpstreamHealth(false)
			Expect(m.Snapshot().UpstreamHealthy).To(BeFalse())
		})
	})

	Describe("Snapshot", func() {
		It("should include uptime", func() {
			time.Sleep(10 * time.Millisecond)
			Expect(m.Snapshot().Uptime).To(BeNumerically(">", 0))
		})

		It("should handle empty metrics", func() {
			snap := m.Snapshot()
			Expect(snap.TotalRequests).To(Equal(int64(0)))
			Expect(snap.Outcomes).To(BeEmpty())
			Expect(snap.StatusCodes).To(BeEmpty())
		})

		It("should return independent snapshots", func() {
			m.RecordResponse("success", time.Millisecond, 200)
			snap1 := m.Snapshot()

			m.RecordResponse("success", time.Millisecond, 200)
			snap2 := m.Snapshot()

			Expect(snap1.StatusCodes[200]).To(Equal(int64(1)))
			Expect(snap2.StatusCodes[200]).To(Equal(int64(2)))
		})
	})
})

var _ = Describe("Resources", func() {
	It("should report Go runtime usage", func() {
		usage := metrics.Resources()
		Expect(usage.Goroutines).To(BeNumerically(">", 0))
		Expect(usage.SysMB).To(BeNumerically(">=", usage.AllocMB))
	})
})
