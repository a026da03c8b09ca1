package metrics

import (
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
)

type MetricsTestSuite struct {
	suite.Suite
}

func TestMetricsSuite(t *testing.T) {
	suite.Run(t, new(MetricsTestSuite))
}

func (suite *MetricsTestSuite) TestObserveFetch() {
	m := New(prometheus.NewRegistry())

	m.ObserveFetch("Market data", "local", time.Millisecond, errors.New("missing"))
	m.ObserveFetch("Market data", "stooq", time.Millisecond, nil)

	suite.Equal(1.0, testutil.ToFloat64(m.ProviderFetches.WithLabelValues("Market data", "local", OutcomeFailure)))
	suite.Equal(1.0, testutil.ToFloat64(m.ProviderFetches.WithLabelValues("Market data", "stooq", OutcomeSuccess)))
}

func (suite *MetricsTestSuite) TestObserveSnapshot() {
	m := New(prometheus.NewRegistry())

	m.ObserveSnapshot(67, nil)
	m.ObserveSnapshot(0, errors.New("VIX data failed"))

	suite.Equal(67.0, testutil.ToFloat64(m.Score))
	suite.Equal(1.0, testutil.ToFloat64(m.Snapshots.WithLabelValues(OutcomeSuccess)))
	suite.Equal(1.0, testutil.ToFloat64(m.Snapshots.WithLabelValues(OutcomeFailure)))
}

func (suite *MetricsTestSuite) TestNilMetricsIsNoop() {
	var m *Metrics

	suite.NotPanics(func() {
		m.ObserveFetch("Market data", "local", time.Millisecond, nil)
		m.ObserveSnapshot(50, nil)
	})
}

func (suite *MetricsTestSuite) TestServeExposesMetrics() {
	reg := prometheus.NewRegistry()
	New(reg).ObserveSnapshot(81, nil)

	srv, err := Serve("127.0.0.1:0", reg)
	suite.Require().NoError(err)

	defer srv.Close()

	resp, err := http.Get("http://" + srv.Addr + "/metrics")
	suite.Require().NoError(err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	suite.Require().NoError(err)
	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Contains(string(body), "marketpulse_score 81")
}

func (suite *MetricsTestSuite) TestServePortInUse() {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	suite.Require().NoError(err)

	defer ln.Close()

	srv, err := Serve(ln.Addr().String(), prometheus.NewRegistry())
	suite.Error(err)
	suite.Nil(srv)
	suite.Contains(err.Error(), ln.Addr().String())
}
