package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"150", 15000},
		{"12.5", 1250},
		{"0.005", 1},
		{"0.004", 0},
		{"99.999", 10000},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	_, err := Parse("abc")
	assert.Error(t, err)

	_, err = Parse("-1")
	assert.ErrorIs(t, err, ErrNegative)

	for _, huge := range []string{"92233720368547758.08", "184467440737095516.17", "1e30"} {
		_, err = Parse(huge)
		assert.ErrorIs(t, err, ErrOutOfRange, huge)
	}

	got, err := Parse("92233720368547758.07")
	require.NoError(t, err)
	assert.Equal(t, int64(9223372036854775807), got)
}

func TestFromDecimal(t *testing.T) {
	got, err := FromDecimal(decimal.RequireFromString("75.25"))
	require.NoError(t, err)
	assert.Equal(t, int64(7525), got)
}

func TestJSON(t *testing.T) {
	b, err := json.Marshal(map[string]json.Number{"total": JSON(15000)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":150.00}`, string(b))
	assert.Equal(t, "0.05", string(JSON(5)))
}
