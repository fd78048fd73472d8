package departures

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountdown(t *testing.T) {
	now := baseTime

	tests := []struct {
		name    string
		offset  int64
		walking int
		mode    CountdownMode
		want    int
		ok      bool
	}{
		{"185s with 2 min walk", 185, 2, CountdownWrap, 1, true},
		{"exactly now", 0, 0, CountdownWrap, 0, true},
		{"just under a minute", 59, 0, CountdownWrap, 0, true},
		{"half a minute ago floors down", -30, 0, CountdownWrap, -1, true},
		{"walking time makes it negative", 120, 5, CountdownWrap, -3, true},
		{"65 minutes wraps to 5", 65 * 60, 0, CountdownWrap, 5, true},
		{"two hours wraps to 0", 120 * 60, 0, CountdownWrap, 0, true},
		{"5 minutes ago stays negative", -5 * 60, 0, CountdownWrap, -5, true},
		{"15 minutes ago loses its sign", -15 * 60, 0, CountdownWrap, 15, true},
		{"65 minutes exact", 65 * 60, 3, CountdownExact, 62, true},
		{"15 minutes ago exact", -15 * 60, 0, CountdownExact, -15, true},
		{"65 minutes dropped", 65 * 60, 0, CountdownDrop, 0, false},
		{"an hour ago dropped", -60 * 60, 0, CountdownDrop, 0, false},
		{"10 minutes kept in drop mode", 10 * 60, 2, CountdownDrop, 8, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Countdown(now.Unix()+tc.offset, now, tc.walking, tc.mode)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCountdownRoundsNow(t *testing.T) {
	// now rounds up to the next second, leaving 179s: still 2 minutes
	now := baseTime.Add(600 * time.Millisecond)
	got, ok := Countdown(baseTime.Unix()+180, now, 0, CountdownWrap)
	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestParseCountdownMode(t *testing.T) {
	mode, err := ParseCountdownMode("")
	require.NoError(t, err)
	assert.Equal(t, CountdownWrap, mode)

	mode, err = ParseCountdownMode("drop")
	require.NoError(t, err)
	assert.Equal(t, CountdownDrop, mode)

	_, err = ParseCountdownMode("clamp")
	assert.Error(t, err)
}
