package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "together/pkg/domain-errors"
)

func TestParseEther(t *testing.T) {
	cases := []struct {
		in   string
		want Amount
	}{
		{"0.01", 10_000_000},
		{"0.005", 5_000_000},
		{"0.0003", 300_000},
		{"1", GweiPerEther},
		{"2.5", 2_500_000_000},
		{".5", 500_000_000},
		{"0.000000001", 1},
		{"0", 0},
	}
	for _, tc := range cases {
		got, err := ParseEther(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, bad := range []string{"", "-1", "abc", "1.2.3", "0.0000000001", "1e3", "99999999999999999999"} {
		_, err := ParseEther(bad)
		require.Error(t, err, bad)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput), bad)
	}
}

func TestAmount_String(t *testing.T) {
	assert.Equal(t, "0.01", MustEther("0.01").String())
	assert.Equal(t, "0", Amount(0).String())
	assert.Equal(t, "3", MustEther("3.000").String())
	assert.Equal(t, "0.000000001", Amount(1).String())
}

func TestAmount_Add(t *testing.T) {
	sum, err := MustEther("0.01").Add(MustEther("0.005"))
	require.NoError(t, err)
	assert.Equal(t, MustEther("0.015"), sum)

	_, err = Amount(math.MaxUint64).Add(1)
	require.Error(t, err)
}

func TestAmount_JSON(t *testing.T) {
	var payload struct {
		Payment Amount `json:"payment"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"payment":"0.01"}`), &payload))
	assert.Equal(t, MustEther("0.01"), payload.Payment)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"payment":"0.01"}`, string(out))
}
