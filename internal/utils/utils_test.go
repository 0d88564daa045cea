package utils

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDShape(t *testing.T) {
	id := NewID("char")
	assert.Regexp(t, regexp.MustCompile(`^char_[0-9a-f]{12}$`), id)
	assert.NotEqual(t, id, NewID("char"))
}

func TestSequentialIDsArePerPrefix(t *testing.T) {
	next := SequentialIDs()
	assert.Equal(t, "msg_1", next("msg"))
	assert.Equal(t, "msg_2", next("msg"))
	assert.Equal(t, "item_1", next("item"))
}

func TestMetricsCollector(t *testing.T) {
	m := NewMetricsCollector()
	m.IncrementCounter(MetricEventsAppended)
	m.AddCounter(MetricEventsAppended, 4)
	m.IncGauge(MetricWSConnections)
	m.IncGauge(MetricWSConnections)
	m.DecGauge(MetricWSConnections)
	m.RecordHistogram(MetricApplyDurationMs, 3)
	m.RecordHistogram(MetricApplyDurationMs, 9)

	assert.EqualValues(t, 5, m.GetCounterValue(MetricEventsAppended))
	assert.EqualValues(t, 1, m.GetGauge(MetricWSConnections))

	snap := m.GetMetrics()
	hist := snap["histograms"].(map[string]map[string]int64)[MetricApplyDurationMs]
	assert.Equal(t, map[string]int64{"count": 2, "sum": 12, "min": 3, "max": 9}, hist)
}

func TestLoggerLevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{out: &buf, level: INFO, enabled: true}

	l.Debug("hidden", nil)
	l.Info("store recovered", map[string]interface{}{"reason": "invalid json", "backup": "x.corrupt"})

	out := buf.String()
	require.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, "[INFO]")
	assert.Contains(t, out, "store recovered | backup=x.corrupt reason=invalid json")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLogLevel("debug"))
	assert.Equal(t, WARNING, ParseLogLevel("warn"))
	assert.Equal(t, ERROR, ParseLogLevel("ERROR"))
	assert.Equal(t, INFO, ParseLogLevel(""))
}
