package observ

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fakeClock(step time.Duration) func() time.Time {
	cur := time.Unix(0, 0)
	return func() time.Time {
		cur = cur.Add(step)
		return cur
	}
}

func TestTimerReportSkipsOpenPhases(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(time.Millisecond)

	load := tm.Begin("load")
	tm.End(load, "2 components")
	tm.End(load, "ignored")
	tm.Begin("manifest")

	rep := tm.Report()
	require.Len(t, rep.Phases, 1)
	require.Equal(t, "load", rep.Phases[0].Name)
	require.Equal(t, "2 components", rep.Phases[0].Note)
	require.InDelta(t, 1.0, rep.Phases[0].DurationMS, 1e-9)
	require.InDelta(t, 1.0, rep.TotalMS, 1e-9)
}

func TestMeasureAndWriteTo(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(2 * time.Millisecond)
	tm.Measure("transform+write", func() string { return "4 artifacts" })
	tm.End(-1, "")
	tm.End(7, "")

	var buf bytes.Buffer
	_, err := tm.Report().WriteTo(&buf)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "transform+write")
	require.Contains(t, buf.String(), "// 4 artifacts")
	require.Contains(t, buf.String(), "total")
}

func TestEmptyReport(t *testing.T) {
	rep := NewTimer().Report()
	require.Empty(t, rep.Phases)
	require.Zero(t, rep.TotalMS)
}
