package cartapi

import (
	"fmt"
	"net/http"
	"net/url"

	formcodec "github.com/go-playground/form/v4"

	"github.com/MarcGrol/storefront/lib/myerrors"
)

// AddItem is the form payload posted by a product page when a variant
// is put in the cart.
type AddItem struct {
	VariantUID   string   `form:"variantUid"`
	VariantTitle string   `form:"variantTitle"`
	Price        Amount   `form:"price"`
	Product      Product  `form:"product"`
	Options      []Option `form:"options"`
}

type Amount struct {
	Amount   string `form:"amount"`
	Currency string `form:"currency"`
}

type Product struct {
	UID           string `form:"uid"`
	Handle        string `form:"handle"`
	Title         string `form:"title"`
	FeaturedImage string `form:"featuredImage"`
}

type Option struct {
	Name  string `form:"name"`
	Value string `form:"value"`
}

func NewAddItemFromRequest(r *http.Request) (AddItem, error) {
	err := r.ParseForm()
	if err != nil {
		return AddItem{}, myerrors.NewInvalidInputError(err)
	}
	return NewAddItemFromValues(r.Form)
}

func NewAddItemFromValues(values url.Values) (AddItem, error) {
	addItem := AddItem{}
	err := formcodec.NewDecoder().Decode(&addItem, values)
	if err != nil {
		return addItem, myerrors.NewInvalidInputError(fmt.Errorf("error decoding form: %s", err))
	}

	return addItem, addItem.validate()
}

func (a AddItem) validate() error {
	if a.VariantUID == "" {
		return myerrors.NewInvalidInputError(fmt.Errorf("missing variantUid"))
	}
	if a.Price.Amount == "" {
		return myerrors.NewInvalidInputError(fmt.Errorf("missing price.amount"))
	}
	if a.Price.Currency == "" {
		return myerrors.NewInvalidInputError(fmt.Errorf("missing price.currency"))
	}
	if a.Product.UID == "" {
		return myerrors.NewInvalidInputError(fmt.Errorf("missing product.uid"))
	}

	return nil
}

func (a AddItem) ToForm() (url.Values, error) {
	values, err := formcodec.NewEncoder().Encode(a)
	if err != nil {
		return nil, fmt.Errorf("error encoding form: %s", err)
	}

	return values, nil
}
