package commerceapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MarcGrol/storefront/lib/myhttpclient"
)

type client struct {
	baseURL    string
	httpClient myhttpclient.HTTPSender
}

func NewClient(baseURL string, httpClient myhttpclient.HTTPSender) *client {
	return &client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (cl client) CreateCart(c context.Context) (RemoteCart, error) {
	return cl.call(c, http.MethodPost, "/carts", nil)
}

func (cl client) GetCart(c context.Context, cartUID string) (RemoteCart, error) {
	return cl.call(c, http.MethodGet, fmt.Sprintf("/carts/%s", cartUID), nil)
}

func (cl client) AddLine(c context.Context, cartUID string, line LineInput) (RemoteCart, error) {
	return cl.call(c, http.MethodPost, fmt.Sprintf("/carts/%s/lines", cartUID), line)
}

func (cl client) UpdateLineQuantity(c context.Context, cartUID string, lineUID string, quantity int) (RemoteCart, error) {
	return cl.call(c, http.MethodPut, fmt.Sprintf("/carts/%s/lines/%s", cartUID, lineUID),
		struct {
			Quantity int `json:"quantity"`
		}{Quantity: quantity})
}

func (cl client) RemoveLine(c context.Context, cartUID string, lineUID string) (RemoteCart, error) {
	return cl.call(c, http.MethodDelete, fmt.Sprintf("/carts/%s/lines/%s", cartUID, lineUID), nil)
}

func (cl client) ReplaceLines(c context.Context, cartUID string, version int, lines []LineInput) (RemoteCart, error) {
	return cl.call(c, http.MethodPut, fmt.Sprintf("/carts/%s/lines", cartUID),
		struct {
			Version int         `json:"version"`
			Lines   []LineInput `json:"lines"`
		}{Version: version, Lines: lines})
}

func (cl client) call(c context.Context, method string, path string, payload interface{}) (RemoteCart, error) {
	var requestBody []byte
	if payload != nil {
		var err error
		requestBody, err = json.Marshal(payload)
		if err != nil {
			return RemoteCart{}, fmt.Errorf("error marshalling request for %s %s: %s", method, path, err)
		}
	}

	httpRespCode, respBody, err := cl.httpClient.Send(c, method, cl.baseURL+path, requestBody)
	if err != nil {
		return RemoteCart{}, fmt.Errorf("error calling cart-api %s %s: %s", method, path, err)
	}

	if httpRespCode < 200 || httpRespCode >= 300 {
		return RemoteCart{}, fmt.Errorf("error calling cart-api %s %s: %d", method, path, httpRespCode)
	}

	resp := RemoteCart{}
	err = json.Unmarshal(respBody, &resp)
	if err != nil {
		return RemoteCart{}, fmt.Errorf("error parsing cart-api response: %s", err)
	}

	return resp, nil
}
