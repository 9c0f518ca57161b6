package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRound2HalfUp(t *testing.T) {
	require.Equal(t, 22.01, Round2(22.005))
	require.Equal(t, 1.25, Round2(1.245))
	require.Equal(t, 10.0, Round2(10.0))
	require.Equal(t, -1.5, Round2(-1.495))
}

func TestOrderTotal(t *testing.T) {
	lines := []Line{
		{Price: 10.00, Quantity: 2},
		{Price: 5.005, Quantity: 1},
	}
	require.Equal(t, 22.01, OrderTotal(lines, 3.00))
}

func TestOrderTotalClampsToZero(t *testing.T) {
	lines := []Line{{Price: 2.00, Quantity: 1}}
	require.Equal(t, 0.0, OrderTotal(lines, 10.00))
}

func TestOrderTotalNoDiscount(t *testing.T) {
	lines := []Line{{Price: 1.10, Quantity: 3}}
	require.Equal(t, 3.30, OrderTotal(lines, 0))
}
