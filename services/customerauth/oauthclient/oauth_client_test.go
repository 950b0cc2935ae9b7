package oauthclient

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/storefront/lib/codeverifier"
	"github.com/MarcGrol/storefront/services/customerauth/discovery"
)

func TestComposeAuthURL(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c := context.TODO()

	discoverer := discovery.NewMockDiscoverer(ctrl)
	discoverer.EXPECT().Discover(gomock.Any()).Return(discovery.ProviderMetadata{
		AuthorizationEndpoint: "https://accounts.example.com/oauth/authorize",
		TokenEndpoint:         "https://accounts.example.com/oauth/token",
	}, nil)

	sut := NewOAuthClient("client-1", discoverer)

	// when
	authURL, verifier, err := sut.ComposeAuthURL(c, ComposeAuthURLRequest{
		CompletionURL: "https://shop.example.com/auth/callback",
		Scope:         "openid email",
		State:         "state-123",
		Nonce:         "nonce-456",
		LoginHint:     "marc@example.com",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, verifier)

	// then
	u, err := url.Parse(authURL)
	assert.NoError(t, err)
	assert.Equal(t, "accounts.example.com", u.Host)
	assert.Equal(t, "/oauth/authorize", u.Path)

	query := u.Query()
	assert.Equal(t, "client-1", query.Get("client_id"))
	assert.Equal(t, "code", query.Get("response_type"))
	assert.Equal(t, "https://shop.example.com/auth/callback", query.Get("redirect_uri"))
	assert.Equal(t, "openid email", query.Get("scope"))
	assert.Equal(t, "state-123", query.Get("state"))
	assert.Equal(t, "nonce-456", query.Get("nonce"))
	assert.Equal(t, "marc@example.com", query.Get("login_hint"))
	assert.Equal(t, "S256", query.Get("code_challenge_method"))

	// the challenge in the url must derive from the returned verifier
	_, expectedChallenge, err := codeverifier.NewVerifierFrom(verifier).CreateChallenge()
	assert.NoError(t, err)
	assert.Equal(t, expectedChallenge, query.Get("code_challenge"))
}

func TestGetAccessToken(t *testing.T) {

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c := context.TODO()

		var receivedForm url.Values
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.ParseForm()
			receivedForm = r.Form
			fmt.Fprint(w, `{"token_type":"Bearer","expires_in":3600,"access_token":"token-abc","id_token":"id-token-xyz"}`)
		}))
		defer server.Close()

		discoverer := discovery.NewMockDiscoverer(ctrl)
		discoverer.EXPECT().Discover(gomock.Any()).Return(discovery.ProviderMetadata{
			TokenEndpoint: server.URL + "/token",
		}, nil)

		sut := NewOAuthClient("client-1", discoverer)

		// when
		resp, err := sut.GetAccessToken(c, GetTokenRequest{
			RedirectURI:  "https://shop.example.com/auth/callback",
			Code:         "code-789",
			CodeVerifier: "verifier-abc",
		})

		// then
		assert.NoError(t, err)
		assert.Equal(t, "token-abc", resp.AccessToken)
		assert.Equal(t, 3600, resp.ExpiresIn)
		assert.Equal(t, "id-token-xyz", resp.IDToken)

		assert.Equal(t, "authorization_code", receivedForm.Get("grant_type"))
		assert.Equal(t, "client-1", receivedForm.Get("client_id"))
		assert.Equal(t, "code-789", receivedForm.Get("code"))
		assert.Equal(t, "verifier-abc", receivedForm.Get("code_verifier"))
		assert.Equal(t, "https://shop.example.com/auth/callback", receivedForm.Get("redirect_uri"))
	})

	t.Run("Token endpoint rejects", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c := context.TODO()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":"invalid_grant"}`)
		}))
		defer server.Close()

		discoverer := discovery.NewMockDiscoverer(ctrl)
		discoverer.EXPECT().Discover(gomock.Any()).Return(discovery.ProviderMetadata{
			TokenEndpoint: server.URL + "/token",
		}, nil)

		sut := NewOAuthClient("client-1", discoverer)

		// when
		_, err := sut.GetAccessToken(c, GetTokenRequest{Code: "bad-code"})

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "400")
	})
}

func TestValidateIDToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c := context.TODO()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	assert.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pub := key.Public().(*rsa.PublicKey)
		fmt.Fprintf(w, `{"keys":[{"kty":"RSA","kid":"key-1","alg":"RS256","use":"sig","n":%q,"e":%q}]}`,
			base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()))
	}))
	defer server.Close()

	discoverer := discovery.NewMockDiscoverer(ctrl)
	discoverer.EXPECT().Discover(gomock.Any()).Return(discovery.ProviderMetadata{
		JWKSURI: server.URL + "/keys",
	}, nil).AnyTimes()

	sut := NewOAuthClient("client-1", discoverer)

	signToken := func(nonce string) string {
		token := jwt.NewWithClaims(jwt.SigningMethodRS256, idTokenClaims{
			Nonce: nonce,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "https://accounts.example.com",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		token.Header["kid"] = "key-1"
		signed, err := token.SignedString(key)
		assert.NoError(t, err)
		return signed
	}

	t.Run("Valid token with matching nonce", func(t *testing.T) {
		err := sut.ValidateIDToken(c, signToken("nonce-456"), "nonce-456")
		assert.NoError(t, err)
	})

	t.Run("Nonce mismatch", func(t *testing.T) {
		err := sut.ValidateIDToken(c, signToken("nonce-456"), "other-nonce")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "nonce")
	})

	t.Run("Tampered token", func(t *testing.T) {
		err := sut.ValidateIDToken(c, signToken("nonce-456")+"x", "nonce-456")
		assert.Error(t, err)
	})
}
