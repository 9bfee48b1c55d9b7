package utils

import (
	"testing"
	"time"

	"hotelparadise/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateTime(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "local date time",
			input: "2026-03-10T08:30:00",
			want:  time.Date(2026, 3, 10, 8, 30, 0, 0, madrid),
		},
		{
			name:  "date only",
			input: "2026-03-10",
			want:  time.Date(2026, 3, 10, 0, 0, 0, 0, madrid),
		},
		{
			name:  "with offset",
			input: "2026-03-10T08:30:00Z",
			want:  time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC),
		},
		{
			name:  "unix seconds",
			input: "1773131400",
			want:  time.Unix(1773131400, 0),
		},
		{name: "empty", input: " ", wantErr: true},
		{name: "garbage", input: "10/03/2026", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateTime(tt.input, madrid)
			if tt.wantErr {
				assert.ErrorIs(t, err, types.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{input: "14:00", want: 14 * time.Hour},
		{input: "09:30:15", want: 9*time.Hour + 30*time.Minute + 15*time.Second},
		{input: "25:00", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, types.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{header: "Bearer abc.def.ghi", token: "abc.def.ghi", ok: true},
		{header: "bearer abc", token: "abc", ok: true},
		{header: "Basic abc", ok: false},
		{header: "Bearer", ok: false},
		{header: "Bearer   ", ok: false},
		{header: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			token, ok := BearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.token, token)
		})
	}
}

func TestOptionalText(t *testing.T) {
	blank := "   "
	text := "  Grifo roto\x00 "

	assert.Nil(t, OptionalText(nil))
	assert.Nil(t, OptionalText(&blank))
	assert.Equal(t, "Grifo roto", *OptionalText(&text))
}
