package commerceapi

import (
	"context"
)

// RemoteCart is the backend's authoritative view of a cart.
type RemoteCart struct {
	ID          string       `json:"id"`
	CheckoutURL string       `json:"checkoutUrl"`
	Version     int          `json:"version"`
	Lines       []RemoteLine `json:"lines"`
}

type RemoteLine struct {
	ID              string `json:"id"`
	MerchandiseID   string `json:"merchandiseId"`
	Title           string `json:"title"`
	Quantity        int    `json:"quantity"`
	UnitPriceAmount string `json:"unitPriceAmount"`
	CurrencyCode    string `json:"currencyCode"`
	ProductID       string `json:"productId"`
	ProductHandle   string `json:"productHandle"`
	ProductTitle    string `json:"productTitle"`
}

// LineInput describes the absolute desired state of a single line.
type LineInput struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

//go:generate mockgen -source=api.go -package commerceapi -destination client_mock.go CartAPI
type CartAPI interface {
	CreateCart(c context.Context) (RemoteCart, error)
	GetCart(c context.Context, cartUID string) (RemoteCart, error)
	AddLine(c context.Context, cartUID string, line LineInput) (RemoteCart, error)
	UpdateLineQuantity(c context.Context, cartUID string, lineUID string, quantity int) (RemoteCart, error)
	RemoveLine(c context.Context, cartUID string, lineUID string) (RemoteCart, error)
	ReplaceLines(c context.Context, cartUID string, version int, lines []LineInput) (RemoteCart, error)
}
