package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDuration(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "hours minutes seconds", in: "PT1H2M3S", want: "1h 2m 3s"},
		{name: "seconds only", in: "PT45S", want: "45s"},
		{name: "minutes only", in: "PT10M", want: "10m"},
		{name: "hours and seconds", in: "PT2H5S", want: "2h 5s"},
		{name: "zero", in: "PT0S", want: "0s"},
		{name: "days fold into hours", in: "P1DT2H", want: "26h"},
		{name: "empty", in: "", want: "unknown"},
		{name: "garbage", in: "ten minutes", want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Duration(tt.in))
		})
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{in: 0, want: "0"},
		{in: 999, want: "999"},
		{in: 1000, want: "1.0K"},
		{in: 1500, want: "1.5K"},
		{in: 2_300_000, want: "2.3M"},
		{in: 4_560_000_000, want: "4.6B"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Count(tt.in))
		})
	}
}

func TestIsLikelyShort(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "thirty seconds", in: "PT30S", want: true},
		{name: "exactly one minute", in: "PT1M", want: true},
		{name: "sixty seconds", in: "PT60S", want: true},
		{name: "one minute one second", in: "PT1M1S", want: false},
		{name: "long video", in: "PT12M30S", want: false},
		{name: "hour component", in: "PT1H", want: false},
		{name: "empty", in: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsLikelyShort(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 10))
	assert.Equal(t, "hel", Truncate("hello", 3))
	assert.Equal(t, "héll", Truncate("héllo", 4))
	assert.Equal(t, "", Truncate("hello", 0))
	assert.Equal(t, "日本", Truncate("日本語", 2))
}
