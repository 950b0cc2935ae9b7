package commerceapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/storefront/lib/myhttpclient"
)

func TestCartAPIClient(t *testing.T) {

	t.Run("Add line", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		sender := myhttpclient.NewMockHTTPSender(ctrl)
		sender.EXPECT().Send(gomock.Any(), http.MethodPost, "https://api.example.com/carts/cart-123/lines",
			[]byte(`{"merchandiseId":"v1","quantity":2}`)).
			Return(200, []byte(`{"id":"cart-123","checkoutUrl":"https://shop.example.com/checkout","version":2,"lines":[{"id":"line-1","merchandiseId":"v1","quantity":2,"unitPriceAmount":"10.00","currencyCode":"USD"}]}`), nil)

		client := NewClient("https://api.example.com", sender)

		cart, err := client.AddLine(context.TODO(), "cart-123", LineInput{MerchandiseID: "v1", Quantity: 2})
		assert.NoError(t, err)
		assert.Equal(t, "cart-123", cart.ID)
		assert.Equal(t, 2, cart.Version)
		assert.Len(t, cart.Lines, 1)
		assert.Equal(t, "v1", cart.Lines[0].MerchandiseID)
	})

	t.Run("Non-2xx is an error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		sender := myhttpclient.NewMockHTTPSender(ctrl)
		sender.EXPECT().Send(gomock.Any(), http.MethodGet, "https://api.example.com/carts/unknown", gomock.Any()).
			Return(404, []byte(`{"message":"not found"}`), nil)

		client := NewClient("https://api.example.com", sender)

		_, err := client.GetCart(context.TODO(), "unknown")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("Replace lines carries version", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		sender := myhttpclient.NewMockHTTPSender(ctrl)
		sender.EXPECT().Send(gomock.Any(), http.MethodPut, "https://api.example.com/carts/cart-123/lines",
			[]byte(`{"version":7,"lines":[{"merchandiseId":"v1","quantity":3}]}`)).
			Return(200, []byte(`{"id":"cart-123","version":8,"lines":[]}`), nil)

		client := NewClient("https://api.example.com", sender)

		cart, err := client.ReplaceLines(context.TODO(), "cart-123", 7, []LineInput{{MerchandiseID: "v1", Quantity: 3}})
		assert.NoError(t, err)
		assert.Equal(t, 8, cart.Version)
	})
}
