package view

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/till/internal/cart"
	"github.com/MrJamesThe3rd/till/internal/product"
)

func TestRegisterModel_ReloadsProductsDroppedDuringCheckout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := product.NewMockRepository(ctrl)
	repo.EXPECT().ListProducts(gomock.Any()).Return([]*product.Product{{ID: 1, Name: "Espresso", Stock: 3}}, nil)

	m := NewRegisterModel(product.NewService(repo), cart.NewMockCheckouter(ctrl), testSettings(t))
	m.state = registerStateCheckingOut

	var tm tea.Model = m
	tm, _ = tm.Update(registerProductsMsg{products: []*product.Product{{ID: 1, Name: "Espresso", Stock: 5}}})
	assert.True(t, tm.(RegisterModel).loading)
	assert.Empty(t, tm.(RegisterModel).cart.Products())

	tm, cmd := tm.Update(checkoutMsg{err: errors.New("connection reset")})
	require.NotNil(t, cmd)
	assert.Equal(t, registerStateBrowse, tm.(RegisterModel).state)

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	require.Len(t, batch, 2)

	msg, ok := batch[1]().(registerProductsMsg)
	require.True(t, ok)

	tm, _ = tm.Update(msg)
	assert.False(t, tm.(RegisterModel).loading)
	require.Len(t, tm.(RegisterModel).cart.Products(), 1)
	assert.Equal(t, 3, tm.(RegisterModel).cart.Products()[0].Stock)
}

func TestRegisterModel_CheckoutFailureWithoutPendingLoad(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := NewRegisterModel(product.NewService(product.NewMockRepository(ctrl)), cart.NewMockCheckouter(ctrl), testSettings(t))
	m.state = registerStateCheckingOut
	m.loading = false

	tm, cmd := m.Update(checkoutMsg{err: cart.ErrEmptyCart})
	assert.NotNil(t, cmd)
	assert.False(t, tm.(RegisterModel).loading)
	assert.Equal(t, registerStateBrowse, tm.(RegisterModel).state)
}
