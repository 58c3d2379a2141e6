package timestamp

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaw_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantSeconds *int64
		wantNanos   int64
		wantText    *string
		wantMissing bool
	}{
		{name: "null", input: `null`, wantMissing: true},
		{name: "integer", input: `1709541000`, wantSeconds: ptr(int64(1709541000))},
		{name: "negative", input: `-60`, wantSeconds: ptr(int64(-60))},
		{name: "float", input: `12.5`, wantSeconds: ptr(int64(12)), wantNanos: 500000000},
		{name: "string", input: `"2024-03-04"`, wantText: ptr("2024-03-04")},
		{name: "seconds object", input: `{"seconds":10,"nanoseconds":7}`, wantSeconds: ptr(int64(10)), wantNanos: 7},
		{name: "underscore object", input: `{"_seconds":11,"_nanoseconds":3}`, wantSeconds: ptr(int64(11)), wantNanos: 3},
		{name: "object without seconds", input: `{"foo":1}`, wantMissing: true},
		{name: "boolean", input: `false`, wantMissing: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Raw
			require.NoError(t, json.Unmarshal([]byte(tt.input), &r))

			assert.Equal(t, tt.wantMissing, r.IsMissing())
			assert.Equal(t, tt.wantSeconds, r.Seconds)
			assert.Equal(t, tt.wantNanos, r.Nanos)
			assert.Equal(t, tt.wantText, r.Text)
		})
	}
}

func TestRaw_InsideDocument(t *testing.T) {
	var doc struct {
		ID        string `json:"id"`
		Timestamp Raw    `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"id":"a1","timestamp":{"seconds":5}}`), &doc))
	assert.Equal(t, "a1", doc.ID)
	require.NotNil(t, doc.Timestamp.Seconds)
	assert.Equal(t, int64(5), *doc.Timestamp.Seconds)

	var bare struct {
		Timestamp Raw `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"id":"a2"}`), &bare))
	assert.True(t, bare.Timestamp.IsMissing())
}

func TestRaw_MarshalJSON(t *testing.T) {
	instant := time.Date(2024, 3, 4, 15, 30, 0, 0, time.FixedZone("WIB", 7*3600))

	out, err := json.Marshal(FromTime(instant))
	require.NoError(t, err)
	assert.JSONEq(t, `"2024-03-04T08:30:00Z"`, string(out))

	out, err = json.Marshal(FromSeconds(0))
	require.NoError(t, err)
	assert.JSONEq(t, `"1970-01-01T00:00:00Z"`, string(out))

	out, err = json.Marshal(FromText("later"))
	require.NoError(t, err)
	assert.JSONEq(t, `"later"`, string(out))

	out, err = json.Marshal(Raw{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestFromNullableTime(t *testing.T) {
	assert.True(t, FromNullableTime(nil).IsMissing())

	now := time.Now()
	r := FromNullableTime(&now)
	require.NotNil(t, r.Time)
	assert.True(t, now.Equal(*r.Time))
}

func ptr[T any](v T) *T {
	return &v
}
