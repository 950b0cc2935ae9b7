package cart

type UpdateType string

const (
	UpdatePlus   UpdateType = "plus"
	UpdateMinus  UpdateType = "minus"
	UpdateDelete UpdateType = "delete"
)

// AddItem returns a new cart with the variant added. When a line for the
// same merchandise already exists its quantity is incremented by one;
// otherwise a new line with quantity one is appended. The caller must
// replace its held reference: the input cart is never mutated.
func AddItem(cart Cart, variant Variant, product Product) Cart {
	lines := copyLines(cart.Lines)

	found := false
	for i, line := range lines {
		if line.Merchandise.ID == variant.ID {
			lines[i].Quantity++
			found = true
			break
		}
	}

	if !found {
		lines = append(lines, Line{
			Merchandise: Merchandise{
				ID:              variant.ID,
				Title:           variant.Title,
				SelectedOptions: variant.SelectedOptions,
				Product:         product,
			},
			Quantity:  1,
			UnitPrice: variant.Price,
		})
	}

	cart.Lines = lines

	return recompute(cart)
}

// UpdateItem returns a new cart with the matching line incremented,
// decremented or deleted. A quantity that reaches zero removes the line.
// Unknown merchandise ids leave the cart unchanged apart from the
// version bump.
func UpdateItem(cart Cart, merchandiseID string, updateType UpdateType) Cart {
	lines := copyLines(cart.Lines)

	for i, line := range lines {
		if line.Merchandise.ID != merchandiseID {
			continue
		}

		switch updateType {
		case UpdatePlus:
			lines[i].Quantity++
		case UpdateMinus:
			lines[i].Quantity--
		case UpdateDelete:
			lines[i].Quantity = 0
		}

		break
	}

	cart.Lines = lines

	return recompute(cart)
}

// recompute derives every quantity and amount from scratch over all
// lines, so that repeated mutations can never drift. Lines at quantity
// zero or below are dropped. The cart identity (UID, RemoteID,
// CheckoutURL) always survives, even when the last line goes.
func recompute(cart Cart) Cart {
	lines := make([]Line, 0, len(cart.Lines))
	totalQuantity := 0
	totalAmount := 0.0

	for _, line := range cart.Lines {
		if line.Quantity <= 0 {
			continue
		}

		lineTotal := parseAmount(line.UnitPrice.Amount) * float64(line.Quantity)
		line.Cost = LineCost{
			TotalAmount: Money{
				Amount:       formatAmount(lineTotal),
				CurrencyCode: line.UnitPrice.CurrencyCode,
			},
		}

		totalQuantity += line.Quantity
		totalAmount += lineTotal
		lines = append(lines, line)
	}

	cart.Lines = lines
	cart.TotalQuantity = totalQuantity

	currency := cart.CurrencyCode()
	cart.Cost = CartCost{
		SubtotalAmount: Money{Amount: formatAmount(totalAmount), CurrencyCode: currency},
		TotalAmount:    Money{Amount: formatAmount(totalAmount), CurrencyCode: currency},
		// Authoritative tax is computed by the backend at checkout.
		TotalTaxAmount: Money{Amount: "0", CurrencyCode: currency},
	}
	cart.Version++

	return cart
}

func copyLines(lines []Line) []Line {
	copied := make([]Line, len(lines))
	copy(copied, lines)
	return copied
}
