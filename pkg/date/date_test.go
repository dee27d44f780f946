// Copyright (c) 2026 Kinora. All rights reserved.

package date_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinora/kinora/pkg/date"
)

/*
TestDate_Parse verifies the wire-format parser, including rejection of
non-calendar strings.
*/
func TestDate_Parse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		isValid bool
	}{
		{"valid_date", "1967-03-25", true},
		{"valid_floor", "1895-12-28", true},
		{"with_time_component", "1967-03-25T10:00:00Z", false},
		{"garbage", "not-a-date", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := date.Parse(tt.input)

			if tt.isValid {
				require.NoError(t, err)
				assert.Equal(t, tt.input, parsed.String())
			} else {
				assert.Error(t, err)
			}
		})
	}
}

/*
TestDate_JSON verifies symmetric JSON encoding: quoted "yyyy-MM-dd"
strings, with null standing in for the zero value.
*/
func TestDate_JSON(t *testing.T) {
	d := date.New(1980, time.May, 17)

	encoded, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"1980-05-17"`, string(encoded))

	var decoded date.Date
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.True(t, d.Equal(decoded.Time))

	// Zero value round-trips through null.
	encoded, err = json.Marshal(date.Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(encoded))

	var zero date.Date
	require.NoError(t, json.Unmarshal([]byte("null"), &zero))
	assert.True(t, zero.IsZero())
}

/*
TestDate_FromTime verifies truncation to the UTC calendar day.
*/
func TestDate_FromTime(t *testing.T) {
	stamp := time.Date(2001, time.June, 5, 23, 45, 12, 0, time.UTC)
	assert.Equal(t, "2001-06-05", date.FromTime(stamp).String())

	assert.True(t, date.FromTime(time.Time{}).IsZero())
}
