package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		Balance Money `json:"walletBalance"`
	}{Balance: MustMoney("0")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"walletBalance":"0.00"}`, string(out))

	var in struct {
		A Money `json:"a"`
		B Money `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"100.50","b":25}`), &in))
	assert.Equal(t, "100.50", in.A.String())
	assert.Equal(t, "25.00", in.B.String())
}

func TestMoneyArithmeticRoundTrip(t *testing.T) {
	start := MustMoney("100.00")
	delta := MustMoney("0.10")
	for i := 0; i < 10; i++ {
		start = start.Add(delta)
	}
	for i := 0; i < 10; i++ {
		start = start.Sub(delta)
	}
	assert.True(t, start.Equal(MustMoney("100.00")))
	assert.Equal(t, "-12.35", MustMoney("12.345").Neg().String())
}
