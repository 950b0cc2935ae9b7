package cart

import (
	"sort"
	"strconv"
)

const (
	// Currency of an empty cart, until the first line dictates one.
	DefaultCurrency = "USD"
)

type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Product struct {
	ID            string `json:"id"`
	Handle        string `json:"handle"`
	Title         string `json:"title"`
	FeaturedImage string `json:"featuredImage,omitempty"`
}

// Variant is the purchasable unit that gets added to a cart.
type Variant struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Price           Money            `json:"price"`
	SelectedOptions []SelectedOption `json:"selectedOptions,omitempty"`
}

// Merchandise identifies which variant a line represents. Its ID is the
// natural key for matching and deduplicating lines.
type Merchandise struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	SelectedOptions []SelectedOption `json:"selectedOptions,omitempty"`
	Product         Product          `json:"product"`
}

type LineCost struct {
	TotalAmount Money `json:"totalAmount"`
}

type Line struct {
	// UID is the backend's line identifier; empty until the backend
	// has accepted the line.
	UID         string      `json:"uid,omitempty"`
	Merchandise Merchandise `json:"merchandise"`
	Quantity    int         `json:"quantity"`
	// UnitPrice is captured at creation time; the line total is always
	// derived from it, never divided back out of an accumulated total.
	UnitPrice Money    `json:"unitPrice"`
	Cost      LineCost `json:"cost"`
}

type CartCost struct {
	SubtotalAmount Money `json:"subtotalAmount"`
	TotalAmount    Money `json:"totalAmount"`
	TotalTaxAmount Money `json:"totalTaxAmount"`
}

// Cart mirrors the backend cart for immediate UI feedback; the backend
// remains authoritative for anything touching settlement.
type Cart struct {
	UID           string   `json:"uid"`
	RemoteID      string   `json:"remoteId,omitempty"`
	CheckoutURL   string   `json:"checkoutUrl,omitempty"`
	Version       int      `json:"version"`
	Lines         []Line   `json:"lines"`
	TotalQuantity int      `json:"totalQuantity"`
	Cost          CartCost `json:"cost"`
	// OutOfSync signals that the last backend push failed: what the
	// customer sees locally may not be what checkout will charge.
	OutOfSync bool `json:"outOfSync,omitempty"`
}

func (cart Cart) CurrencyCode() string {
	if len(cart.Lines) > 0 {
		return cart.Lines[0].UnitPrice.CurrencyCode
	}
	return DefaultCurrency
}

// SortedLines returns the lines ordered by product title for display;
// the stored order is insertion order and carries no meaning.
func (cart Cart) SortedLines() []Line {
	lines := make([]Line, len(cart.Lines))
	copy(lines, cart.Lines)
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].Merchandise.Product.Title < lines[j].Merchandise.Product.Title
	})
	return lines
}

func parseAmount(amount string) float64 {
	value, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return 0
	}
	return value
}

func formatAmount(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
