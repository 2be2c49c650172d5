package grpcapi

import (
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/example/muse/internal/metrics"
)

func testutilCount(m *metrics.Metrics, method string) float64 {
	return testutil.ToFloat64(m.GrpcRequestsTotal.WithLabelValues(method, "success"))
}
