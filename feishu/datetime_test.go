package feishu

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToEpochMillis_SecondsAreScaled(t *testing.T) {
	ms, ok := toEpochMillis(1705286200, time.Now)
	require.True(t, ok)
	assert.Equal(t, int64(1705286200000), ms)

	ms, ok = toEpochMillis(float64(1705286200), time.Now)
	require.True(t, ok)
	assert.Equal(t, int64(1705286200000), ms)
}

func TestToEpochMillis_MillisPassThrough(t *testing.T) {
	ms, ok := toEpochMillis(int64(1705286200000), time.Now)
	require.True(t, ok)
	assert.Equal(t, int64(1705286200000), ms)
}

func TestToEpochMillis_StringFormats(t *testing.T) {
	expected := time.Date(2024, 1, 15, 10, 30, 0, 0, time.Local).UnixMilli()

	for _, input := range []string{
		"2024-01-15 10:30:00",
		"2024/01/15 10:30:00",
		"2024年01月15日 10:30:00",
	} {
		ms, ok := toEpochMillis(input, time.Now)
		require.True(t, ok, input)
		assert.Equal(t, expected, ms, input)
	}

	dateOnly := time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local).UnixMilli()
	ms, ok := toEpochMillis("2024-01-15", time.Now)
	require.True(t, ok)
	assert.Equal(t, dateOnly, ms)
}

func TestToEpochMillis_RFC3339(t *testing.T) {
	ms, ok := toEpochMillis("2024-01-15T10:30:00Z", time.Now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC).UnixMilli(), ms)
}

func TestToEpochMillis_NowSentinel(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return fixed }

	ms, ok := toEpochMillis("now", now)
	require.True(t, ok)
	assert.Equal(t, fixed.UnixMilli(), ms)

	ms, ok = toEpochMillis("NOW", now)
	require.True(t, ok)
	assert.Equal(t, fixed.UnixMilli(), ms)
}

func TestToEpochMillis_NativeTime(t *testing.T) {
	ts := time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC)
	ms, ok := toEpochMillis(ts, time.Now)
	require.True(t, ok)
	assert.Equal(t, ts.UnixMilli(), ms)
}

func TestToEpochMillis_Rejections(t *testing.T) {
	for name, input := range map[string]any{
		"empty string": "",
		"whitespace":   "   ",
		"garbage":      "not a date",
		"bool":         true,
		"nil":          nil,
	} {
		_, ok := toEpochMillis(input, time.Now)
		assert.False(t, ok, name)
	}
}
