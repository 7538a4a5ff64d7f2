package cart_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/till/internal/cart"
	"github.com/MrJamesThe3rd/till/internal/product"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testProducts() []*product.Product {
	return []*product.Product{
		{ID: 1, Name: "Espresso", Price: price("10"), Stock: 20},
		{ID: 2, Name: "Muffin", Price: price("5"), Stock: 8},
		{ID: 3, Name: "Bagel", Price: price("3.25"), Stock: 0},
		{ID: 4, Name: "Iced Espresso", Price: price("4.10"), Stock: 5},
	}
}

func newCart(t *testing.T) (*cart.Cart, *cart.MockCheckouter) {
	t.Helper()

	ctrl := gomock.NewController(t)
	co := cart.NewMockCheckouter(ctrl)

	c := cart.New(co)
	c.SetProducts(testProducts())

	return c, co
}

func TestCart_AddMergesLines(t *testing.T) {
	tests := []struct {
		name  string
		first int
		again int
		want  int
	}{
		{name: "OneAndOne", first: 1, again: 1, want: 2},
		{name: "TwoAndThree", first: 2, again: 3, want: 5},
		{name: "ZeroCountsAsOne", first: 0, again: 4, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newCart(t)

			_, err := c.Add(1, tt.first)
			require.NoError(t, err)

			p, err := c.Add(1, tt.again)
			require.NoError(t, err)
			assert.Equal(t, "Espresso", p.Name)

			lines := c.Lines()
			require.Len(t, lines, 1)
			assert.Equal(t, tt.want, lines[0].Quantity)
		})
	}
}

func TestCart_AddErrors(t *testing.T) {
	t.Run("OutOfStock", func(t *testing.T) {
		c, _ := newCart(t)

		_, err := c.AddOne(1)
		require.NoError(t, err)

		before := c.Lines()

		_, err = c.AddOne(3)
		assert.ErrorIs(t, err, cart.ErrInsufficientStock)
		assert.Equal(t, before, c.Lines())
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		c, _ := newCart(t)

		_, err := c.AddOne(99)
		assert.ErrorIs(t, err, cart.ErrProductNotFound)
		assert.Zero(t, c.Len())
	})
}

func TestCart_ChangeQuantity(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{input: "0", want: 1},
		{input: "-3", want: 1},
		{input: "abc", want: 1},
		{input: "", want: 1},
		{input: "7", want: 7},
		{input: " 12 ", want: 12},
		{input: "3abc", want: 3},
		{input: "2.7", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, _ := newCart(t)

			_, err := c.Add(2, 4)
			require.NoError(t, err)

			require.NoError(t, c.ChangeQuantity(0, tt.input))
			assert.Equal(t, tt.want, c.Lines()[0].Quantity)
		})
	}
}

func TestCart_ChangeQuantity_BadIndex(t *testing.T) {
	c, _ := newCart(t)

	assert.ErrorIs(t, c.ChangeQuantity(0, "2"), cart.ErrLineNotFound)
	assert.ErrorIs(t, c.SetQuantity(-1, 2), cart.ErrLineNotFound)
}

func TestCart_RemoveShiftsAndTotals(t *testing.T) {
	c, _ := newCart(t)

	_, err := c.Add(1, 2)
	require.NoError(t, err)
	_, err = c.Add(2, 3)
	require.NoError(t, err)
	_, err = c.Add(4, 1)
	require.NoError(t, err)

	require.NoError(t, c.Remove(0))

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, int64(2), lines[0].ProductID)
	assert.Equal(t, int64(4), lines[1].ProductID)

	total, count := c.Totals()
	assert.True(t, price("19.10").Equal(total), "total %s", total)
	assert.Equal(t, 4, count)

	assert.ErrorIs(t, c.Remove(2), cart.ErrLineNotFound)
}

func TestCart_Totals(t *testing.T) {
	c, _ := newCart(t)

	_, err := c.Add(1, 2)
	require.NoError(t, err)
	_, err = c.Add(2, 3)
	require.NoError(t, err)

	total, count := c.Totals()
	assert.True(t, price("35").Equal(total), "total %s", total)
	assert.Equal(t, 5, count)
}

func TestCart_Clear(t *testing.T) {
	c, _ := newCart(t)

	_, err := c.Add(1, 2)
	require.NoError(t, err)

	c.Clear()

	total, count := c.Totals()
	assert.True(t, total.IsZero())
	assert.Zero(t, count)
}

func TestCart_Checkout(t *testing.T) {
	t.Run("EmptyCartMakesNoCall", func(t *testing.T) {
		c, _ := newCart(t)

		_, err := c.Checkout(context.Background())
		assert.ErrorIs(t, err, cart.ErrEmptyCart)
	})

	t.Run("SuccessClearsCart", func(t *testing.T) {
		c, co := newCart(t)

		_, err := c.Add(1, 2)
		require.NoError(t, err)
		_, err = c.Add(2, 1)
		require.NoError(t, err)

		co.EXPECT().
			Checkout(gomock.Any(), []cart.Item{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 1}}).
			Return(&cart.Receipt{TransactionID: 51}, nil)

		receipt, err := c.Checkout(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(51), receipt.TransactionID)
		assert.Zero(t, c.Len())
	})

	t.Run("FailureKeepsCart", func(t *testing.T) {
		c, co := newCart(t)

		_, err := c.Add(2, 3)
		require.NoError(t, err)

		before := c.Lines()
		serverErr := errors.New("Product 2 out of stock")

		co.EXPECT().Checkout(gomock.Any(), gomock.Any()).Return(nil, serverErr)

		_, err = c.Checkout(context.Background())
		assert.ErrorIs(t, err, serverErr)
		assert.Equal(t, before, c.Lines())
	})
}

func TestCart_Search(t *testing.T) {
	c, _ := newCart(t)

	got := c.Search("espresso", 8)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(4), got[1].ID)

	assert.Len(t, c.Search("e", 1), 1)
	assert.Nil(t, c.Search("", 8))
}

func TestCart_BestMatch(t *testing.T) {
	c, _ := newCart(t)

	exact := c.BestMatch("iced espresso")
	require.NotNil(t, exact)
	assert.Equal(t, int64(4), exact.ID)

	partial := c.BestMatch("UFF")
	require.NotNil(t, partial)
	assert.Equal(t, int64(2), partial.ID)

	assert.Nil(t, c.BestMatch("croissant"))
}
