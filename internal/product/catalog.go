package product

// Catalog holds the product list from the most recent refresh.
//
// Refreshes may overlap when mutations are issued quickly. Each refresh takes a
// sequence number from Begin, and Apply ignores responses to requests older
// than the newest one already applied, so the list always reflects the last
// request issued rather than the last response to arrive.
type Catalog struct {
	products []*Product
	issued   uint64
	applied  uint64
}

// Begin returns the sequence number for a new refresh.
func (c *Catalog) Begin() uint64 {
	c.issued++
	return c.issued
}

// Latest is the sequence number of the most recently issued refresh.
func (c *Catalog) Latest() uint64 {
	return c.issued
}

// Apply stores products fetched by refresh seq. It reports false, leaving the
// catalog untouched, when a newer refresh has already been applied.
func (c *Catalog) Apply(seq uint64, products []*Product) bool {
	if seq < c.applied {
		return false
	}

	c.applied = seq
	c.products = products

	return true
}

func (c *Catalog) Products() []*Product {
	return c.products
}

func (c *Catalog) Find(id int64) *Product {
	for _, p := range c.products {
		if p.ID == id {
			return p
		}
	}

	return nil
}

// Stats summarizes the catalog for the admin header.
type Stats struct {
	Count      int
	TotalStock int
}

func (c *Catalog) Stats() Stats {
	st := Stats{Count: len(c.products)}
	for _, p := range c.products {
		st.TotalStock += p.Stock
	}

	return st
}
