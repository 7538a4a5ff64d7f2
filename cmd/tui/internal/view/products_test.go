package view

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/till/internal/product"
)

func productNames(m ProductsModel) []string {
	var names []string
	for _, p := range m.catalog.Products() {
		names = append(names, p.Name)
	}

	return names
}

func TestProductsModel_IgnoresPreviousScreenReplies(t *testing.T) {
	previous := &product.Catalog{}
	for range 5 {
		previous.Begin()
	}

	m := NewProductsModel(product.NewService(nil), testSettings(t))
	require.NotNil(t, m.Init())

	var tm tea.Model = m
	tm, _ = tm.Update(catalogMsg{catalog: previous, seq: 5, products: []*product.Product{{ID: 1, Name: "Old"}}})
	tm, _ = tm.Update(catalogMsg{catalog: m.catalog, seq: 1, products: []*product.Product{{ID: 1, Name: "Fresh"}}})
	assert.Equal(t, []string{"Fresh"}, productNames(tm.(ProductsModel)))
	assert.False(t, tm.(ProductsModel).loading)

	m = tm.(ProductsModel)
	require.NotNil(t, m.refresh())

	tm, _ = m.Update(catalogMsg{catalog: m.catalog, seq: 2, products: []*product.Product{{ID: 1, Name: "Fresh"}, {ID: 2, Name: "Bagel"}}})
	assert.Equal(t, []string{"Fresh", "Bagel"}, productNames(tm.(ProductsModel)))
}

func TestProductsModel_DropsOutdatedReply(t *testing.T) {
	m := NewProductsModel(product.NewService(nil), testSettings(t))
	m.Init()
	m.refresh()

	var tm tea.Model = m
	tm, _ = tm.Update(catalogMsg{catalog: m.catalog, seq: 2, products: []*product.Product{{ID: 2, Name: "Newer"}}})
	tm, _ = tm.Update(catalogMsg{catalog: m.catalog, seq: 1, products: []*product.Product{{ID: 1, Name: "Older"}}})

	assert.Equal(t, []string{"Newer"}, productNames(tm.(ProductsModel)))
}
