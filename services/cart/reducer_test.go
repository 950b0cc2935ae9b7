package cart

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	shirtVariant = Variant{
		ID:    "v1",
		Title: "S",
		Price: Money{Amount: "10.00", CurrencyCode: "USD"},
	}
	shirtProduct = Product{ID: "p1", Handle: "shirt", Title: "Shirt"}

	capVariant = Variant{
		ID:    "v2",
		Title: "One size",
		Price: Money{Amount: "7.50", CurrencyCode: "USD"},
	}
	capProduct = Product{ID: "p2", Handle: "cap", Title: "Cap"}
)

func TestAddItem(t *testing.T) {

	t.Run("Add to empty cart", func(t *testing.T) {
		cart := AddItem(Cart{UID: "cart-1"}, shirtVariant, shirtProduct)

		assert.Len(t, cart.Lines, 1)
		assert.Equal(t, 1, cart.TotalQuantity)
		assert.Equal(t, "10", cart.Cost.TotalAmount.Amount)
		assert.Equal(t, "USD", cart.Cost.TotalAmount.CurrencyCode)
		assert.Equal(t, "10", cart.Lines[0].Cost.TotalAmount.Amount)
	})

	t.Run("Merge on add", func(t *testing.T) {
		cart := AddItem(Cart{UID: "cart-1"}, shirtVariant, shirtProduct)
		cart = AddItem(cart, shirtVariant, shirtProduct)

		assert.Len(t, cart.Lines, 1)
		assert.Equal(t, 2, cart.Lines[0].Quantity)
		assert.Equal(t, 2, cart.TotalQuantity)
		assert.Equal(t, "20", cart.Cost.TotalAmount.Amount)
	})

	t.Run("Add does not mutate input", func(t *testing.T) {
		before := AddItem(Cart{UID: "cart-1"}, shirtVariant, shirtProduct)
		_ = AddItem(before, shirtVariant, shirtProduct)

		assert.Equal(t, 1, before.Lines[0].Quantity)
		assert.Equal(t, 1, before.TotalQuantity)
	})

	t.Run("Version bumps on every mutation", func(t *testing.T) {
		cart := AddItem(Cart{UID: "cart-1"}, shirtVariant, shirtProduct)
		assert.Equal(t, 1, cart.Version)

		cart = UpdateItem(cart, "v1", UpdatePlus)
		assert.Equal(t, 2, cart.Version)
	})
}

func TestUpdateItem(t *testing.T) {

	t.Run("Plus recomputes from unit price", func(t *testing.T) {
		cart := AddItem(Cart{UID: "cart-1"}, shirtVariant, shirtProduct)
		cart = UpdateItem(cart, "v1", UpdatePlus)

		assert.Equal(t, 2, cart.TotalQuantity)
		assert.Equal(t, "20", cart.Cost.TotalAmount.Amount)
	})

	t.Run("Minus to zero removes line", func(t *testing.T) {
		cart := AddItem(Cart{UID: "cart-1"}, shirtVariant, shirtProduct)
		cart = UpdateItem(cart, "v1", UpdateMinus)

		assert.Empty(t, cart.Lines)
		assert.Equal(t, 0, cart.TotalQuantity)
		assert.Equal(t, "0", cart.Cost.TotalAmount.Amount)
	})

	t.Run("Repeated minus never leaves a non-positive quantity", func(t *testing.T) {
		cart := AddItem(Cart{UID: "cart-1"}, shirtVariant, shirtProduct)
		for i := 0; i < 5; i++ {
			cart = UpdateItem(cart, "v1", UpdateMinus)
		}

		assert.Empty(t, cart.Lines)
		assert.Equal(t, 0, cart.TotalQuantity)
	})

	t.Run("Delete removes line unconditionally", func(t *testing.T) {
		cart := AddItem(Cart{UID: "cart-1"}, shirtVariant, shirtProduct)
		cart = UpdateItem(cart, "v1", UpdatePlus)
		cart = UpdateItem(cart, "v1", UpdateDelete)

		assert.Empty(t, cart.Lines)
		assert.Equal(t, 0, cart.TotalQuantity)
	})

	t.Run("Empty cart keeps identity", func(t *testing.T) {
		cart := Cart{UID: "cart-1", RemoteID: "remote-1", CheckoutURL: "https://shop.example.com/checkout"}
		cart = AddItem(cart, shirtVariant, shirtProduct)
		cart = UpdateItem(cart, "v1", UpdateDelete)

		assert.Equal(t, "remote-1", cart.RemoteID)
		assert.Equal(t, "https://shop.example.com/checkout", cart.CheckoutURL)
		assert.Equal(t, "0", cart.Cost.TotalAmount.Amount)
	})

	t.Run("Unknown merchandise leaves lines untouched", func(t *testing.T) {
		cart := AddItem(Cart{UID: "cart-1"}, shirtVariant, shirtProduct)
		cart = UpdateItem(cart, "unknown", UpdatePlus)

		assert.Len(t, cart.Lines, 1)
		assert.Equal(t, 1, cart.TotalQuantity)
	})
}

func TestTotalsStayConsistent(t *testing.T) {
	// Totals must hold after every single action, not just at the end.
	cart := Cart{UID: "cart-1"}

	steps := []func(Cart) Cart{
		func(c Cart) Cart { return AddItem(c, shirtVariant, shirtProduct) },
		func(c Cart) Cart { return AddItem(c, capVariant, capProduct) },
		func(c Cart) Cart { return AddItem(c, shirtVariant, shirtProduct) },
		func(c Cart) Cart { return UpdateItem(c, "v2", UpdatePlus) },
		func(c Cart) Cart { return UpdateItem(c, "v1", UpdateMinus) },
		func(c Cart) Cart { return UpdateItem(c, "v2", UpdateDelete) },
		func(c Cart) Cart { return UpdateItem(c, "v1", UpdateMinus) },
	}

	for i, step := range steps {
		cart = step(cart)

		wantQuantity := 0
		wantTotal := 0.0
		for _, line := range cart.Lines {
			assert.Greater(t, line.Quantity, 0, "step %d", i)
			wantQuantity += line.Quantity

			lineTotal, err := strconv.ParseFloat(line.Cost.TotalAmount.Amount, 64)
			assert.NoError(t, err)
			wantTotal += lineTotal
		}

		gotTotal, err := strconv.ParseFloat(cart.Cost.TotalAmount.Amount, 64)
		assert.NoError(t, err)

		assert.Equal(t, wantQuantity, cart.TotalQuantity, "step %d", i)
		assert.Equal(t, wantTotal, gotTotal, "step %d", i)
	}
}

func TestScenario(t *testing.T) {
	cart := AddItem(Cart{UID: "cart-1"}, shirtVariant, shirtProduct)
	assert.Len(t, cart.Lines, 1)
	assert.Equal(t, 1, cart.TotalQuantity)
	assert.Equal(t, "10", cart.Cost.TotalAmount.Amount)

	cart = UpdateItem(cart, "v1", UpdatePlus)
	assert.Equal(t, 2, cart.TotalQuantity)
	assert.Equal(t, "20", cart.Cost.TotalAmount.Amount)

	cart = UpdateItem(cart, "v1", UpdateDelete)
	assert.Equal(t, 0, cart.TotalQuantity)
	assert.Empty(t, cart.Lines)
}

func TestSortedLines(t *testing.T) {
	cart := AddItem(Cart{UID: "cart-1"}, shirtVariant, shirtProduct)
	cart = AddItem(cart, capVariant, capProduct)

	sorted := cart.SortedLines()
	assert.Equal(t, "Cap", sorted[0].Merchandise.Product.Title)
	assert.Equal(t, "Shirt", sorted[1].Merchandise.Product.Title)

	// stored order stays insertion order
	assert.Equal(t, "Shirt", cart.Lines[0].Merchandise.Product.Title)
}
