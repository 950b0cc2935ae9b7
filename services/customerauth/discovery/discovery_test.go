package discovery

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/storefront/lib/mytime"
)

func TestDiscovery(t *testing.T) {

	t.Run("Fetches and caches configuration", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c := context.TODO()
		fetchCount := 0
		server := httptest.NewServer(configHandler(&fetchCount))
		defer server.Close()

		nower := mytime.NewMockNower(ctrl)
		nower.EXPECT().Now().Return(mytime.ExampleTime).Times(2)

		sut := New(server.URL, nower)

		// when: two lookups within the ttl window
		first, err := sut.Discover(c)
		assert.NoError(t, err)
		second, err := sut.Discover(c)
		assert.NoError(t, err)

		// then: one fetch served both
		assert.Equal(t, 1, fetchCount)
		assert.Equal(t, first, second)
		assert.Equal(t, server.URL+"/authorize", first.AuthorizationEndpoint)
		assert.Equal(t, server.URL+"/token", first.TokenEndpoint)
		assert.Equal(t, server.URL+"/keys", first.JWKSURI)
	})

	t.Run("Refetches after ttl expiry", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c := context.TODO()
		fetchCount := 0
		server := httptest.NewServer(configHandler(&fetchCount))
		defer server.Close()

		nower := mytime.NewMockNower(ctrl)
		gomock.InOrder(
			nower.EXPECT().Now().Return(mytime.ExampleTime),
			nower.EXPECT().Now().Return(mytime.ExampleTime.Add(6*time.Minute)),
		)

		sut := New(server.URL, nower)

		// when
		_, err := sut.Discover(c)
		assert.NoError(t, err)
		_, err = sut.Discover(c)
		assert.NoError(t, err)

		// then
		assert.Equal(t, 2, fetchCount)
	})

	t.Run("Fetch failure is a hard error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c := context.TODO()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		nower := mytime.NewMockNower(ctrl)
		nower.EXPECT().Now().Return(mytime.ExampleTime)

		sut := New(server.URL, nower)

		// when
		_, err := sut.Discover(c)

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "status 500")
	})

	t.Run("Incomplete document is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c := context.TODO()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"issuer":"https://example.com"}`)
		}))
		defer server.Close()

		nower := mytime.NewMockNower(ctrl)
		nower.EXPECT().Now().Return(mytime.ExampleTime)

		sut := New(server.URL, nower)

		// when
		_, err := sut.Discover(c)

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "incomplete configuration")
	})
}

func configHandler(fetchCount *int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/.well-known/openid-configuration" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		*fetchCount++

		base := "http://" + r.Host
		fmt.Fprintf(w, `{
			"issuer": %q,
			"authorization_endpoint": %q,
			"token_endpoint": %q,
			"jwks_uri": %q
		}`, base, base+"/authorize", base+"/token", base+"/keys")
	}
}
