package winrt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGUID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    GUID
		wantErr bool
	}{
		{
			name:  "canonical",
			input: "5BFFA85A-3384-3540-9940-699120D428A8",
			want: GUID{
				Data1: 0x5BFFA85A, Data2: 0x3384, Data3: 0x3540,
				Data4: [8]byte{0x99, 0x40, 0x69, 0x91, 0x20, 0xD4, 0x28, 0xA8},
			},
		},
		{
			name:  "braced",
			input: "{00000036-0000-0000-C000-000000000046}",
			want: GUID{
				Data1: 0x36,
				Data4: [8]byte{0xC0, 0, 0, 0, 0, 0, 0, 0x46},
			},
		},
		{
			name:  "lowercase",
			input: "ea79a752-f7c2-4265-b1bd-c4dec4e4f080",
			want: GUID{
				Data1: 0xEA79A752, Data2: 0xF7C2, Data3: 0x4265,
				Data4: [8]byte{0xB1, 0xBD, 0xC4, 0xDE, 0xC4, 0xE4, 0xF0, 0x80},
			},
		},
		{name: "too short", input: "5BFFA85A-3384-3540-9940", wantErr: true},
		{name: "bad hex", input: "5BFFA85G-3384-3540-9940-699120D428A8", wantErr: true},
		{name: "wrong grouping", input: "5BFFA85A33-84-3540-9940-699120D428A8", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGUID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGUIDString(t *testing.T) {
	g := MustGUID("5a14bc41-5b76-3140-b680-8825562683ac")
	assert.Equal(t, "5A14BC41-5B76-3140-B680-8825562683AC", g.String())
}

func TestGUIDRoundTrip(t *testing.T) {
	for _, g := range []GUID{IIDIOcrEngineStatics, IIDIOcrEngine, IIDIAsyncInfo, IIDIRandomAccessStream} {
		parsed, err := ParseGUID(g.String())
		require.NoError(t, err)
		assert.Equal(t, g, parsed)
	}
}

func TestMustGUIDPanics(t *testing.T) {
	assert.Panics(t, func() { MustGUID("not-a-guid") })
}
