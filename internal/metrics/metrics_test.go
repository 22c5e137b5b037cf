package metrics

import (
	"Supermarket-Vision-Backend/domain"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	app := fiber.New()
	app.Get("/metrics", m.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestScannerMetrics(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	m.Scanner.CycleFinished(domain.ScanModeRealtime, time.Second, nil)
	m.Scanner.CycleFinished(domain.ScanModeRealtime, time.Second, errors.New("timeout"))
	m.Scanner.TickDropped()
	m.Scanner.StateChanged(domain.ScannerAnalyzing)
	m.Scanner.DetectionsApplied(4)

	body := scrape(t, m)
	assert.Contains(t, body, `scanner_cycles_total{mode="realtime",result="success"} 1`)
	assert.Contains(t, body, `scanner_cycles_total{mode="realtime",result="error"} 1`)
	assert.Contains(t, body, "scanner_dropped_ticks_total 1")
	assert.Contains(t, body, `scanner_state{state="analyzing"} 1`)
	assert.Contains(t, body, `scanner_state{state="idle"} 0`)
	assert.Contains(t, body, "scanner_current_detections 4")
}

func TestProxyAndBrokerMetrics(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	m.Proxy.UpstreamCall("openai", domain.AnalysisTypeAnalyze, time.Second, nil)
	m.Broker.Connected(true)
	m.Broker.Delivered(10 * time.Millisecond)
	m.Broker.Failed()

	body := scrape(t, m)
	assert.Contains(t, body, `inference_upstream_requests_total{provider="openai",result="success",type="analyze"} 1`)
	assert.Contains(t, body, "mqtt_connection_status 1")
	assert.Contains(t, body, "mqtt_messages_delivered_total 1")
	assert.Contains(t, body, "mqtt_errors_total 1")
}
