package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartItemRecalcTotal(t *testing.T) {
	price := 2.5
	line := CartItem{Quantity: 3, UnitPrice: &price}
	line.RecalcTotal()
	require.NotNil(t, line.TotalPrice)
	assert.InDelta(t, 7.5, *line.TotalPrice, 1e-9)

	line.UnitPrice = nil
	line.RecalcTotal()
	assert.Nil(t, line.TotalPrice)
}

func TestSessionEstimatedTotal(t *testing.T) {
	p1, p2 := 1.5, 4.0
	s := ShoppingSession{CartItems: []CartItem{
		{Quantity: 2, UnitPrice: &p1},
		{Quantity: 1, UnitPrice: &p2},
		{Quantity: 5}, // unpriced
	}}
	for i := range s.CartItems {
		s.CartItems[i].RecalcTotal()
	}
	assert.InDelta(t, 7.0, s.EstimatedTotal(), 1e-9)
}

func TestFindCartItemReturnsMutableLine(t *testing.T) {
	s := ShoppingSession{CartItems: []CartItem{{ProductID: "milk", Quantity: 1}}}

	line := s.FindCartItem("milk")
	require.NotNil(t, line)
	line.Quantity = 9
	assert.Equal(t, 9.0, s.CartItems[0].Quantity)

	assert.Nil(t, s.FindCartItem("ghost"))
}

func TestUnitValid(t *testing.T) {
	for _, u := range Units() {
		assert.True(t, u.Valid(), string(u))
	}
	assert.False(t, Unit("BUSHEL").Valid())
	assert.False(t, Unit("each").Valid(), "units are case sensitive")
	assert.False(t, Unit("").Valid())
}
