package oauthclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"

	"github.com/MarcGrol/storefront/lib/codeverifier"
	"github.com/MarcGrol/storefront/lib/myerrors"
	"github.com/MarcGrol/storefront/lib/myhttpclient"
	"github.com/MarcGrol/storefront/services/customerauth/discovery"
)

type ComposeAuthURLRequest struct {
	CompletionURL string
	Scope         string
	State         string
	Nonce         string
	LoginHint     string
}

type GetTokenRequest struct {
	RedirectURI  string
	Code         string
	CodeVerifier string
}

type GetTokenResponse struct {
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	AccessToken  string `json:"access_token"`
	Scope        string `json:"scope"`
	RefreshToken string `json:"refresh_token"`
	IDToken      string `json:"id_token"`
}

//go:generate mockgen -source=oauth_client.go -package oauthclient -destination oauth_client_mock.go OauthClient
type OauthClient interface {
	ComposeAuthURL(c context.Context, req ComposeAuthURLRequest) (string, string, error)
	GetAccessToken(c context.Context, req GetTokenRequest) (GetTokenResponse, error)
	ValidateIDToken(c context.Context, idToken string, expectedNonce string) error
}

type oauthClient struct {
	clientID   string
	discoverer discovery.Discoverer
}

func NewOAuthClient(clientID string, discoverer discovery.Discoverer) *oauthClient {
	return &oauthClient{
		clientID:   clientID,
		discoverer: discoverer,
	}
}

// ComposeAuthURL builds the authorization redirect. A fresh code-verifier
// is created per call and returned to the caller, which must hold on to
// it until the callback comes in.
func (oc oauthClient) ComposeAuthURL(c context.Context, req ComposeAuthURLRequest) (string, string, error) {
	metadata, err := oc.discoverer.Discover(c)
	if err != nil {
		return "", "", myerrors.NewUnavailableError(fmt.Errorf("error discovering endpoints: %s", err))
	}

	u, err := url.Parse(metadata.AuthorizationEndpoint)
	if err != nil {
		return "", "", err
	}

	verifier, err := codeverifier.NewVerifier()
	if err != nil {
		return "", "", myerrors.NewInternalError(fmt.Errorf("error creating verifier: %s", err))
	}

	method, challenge, err := verifier.CreateChallenge()
	if err != nil {
		return "", "", err
	}

	/*  Example:
	https://accounts.example.com/oauth/authorize
		?client_id=shp_88276c2a-a211-4bd5-87ab-4e303f3d5cf2
		&code_challenge=u2SjlD_HjSkyOJE0XihKi0a_n1nED879osPq0SiXY90
		&code_challenge_method=S256
		&nonce=9Yh1bWKkQNUEkZjnjqMIBQ
		&redirect_uri=https%3A%2F%2Fshop.example.com%2Fauth%2Fcallback
		&response_type=code
		&scope=openid+email+customer-account-api%3Afull
		&state=b8Ir7Io1T-gvmTVF3E3xFw
	*/

	query := url.Values{
		"client_id":             []string{oc.clientID},
		"code_challenge":        []string{challenge},
		"code_challenge_method": []string{method},
		"nonce":                 []string{req.Nonce},
		"redirect_uri":          []string{req.CompletionURL},
		"response_type":         []string{"code"},
		"scope":                 []string{req.Scope},
		"state":                 []string{req.State},
	}
	if req.LoginHint != "" {
		query.Set("login_hint", req.LoginHint)
	}
	u.RawQuery = query.Encode()

	return u.String(), verifier.GetValue(), nil
}

func (oc oauthClient) GetAccessToken(c context.Context, req GetTokenRequest) (GetTokenResponse, error) {
	metadata, err := oc.discoverer.Discover(c)
	if err != nil {
		return GetTokenResponse{}, myerrors.NewUnavailableError(fmt.Errorf("error discovering endpoints: %s", err))
	}

	requestBody := url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {oc.clientID},
		"redirect_uri":  {req.RedirectURI},
		"code":          {req.Code},
		"code_verifier": {req.CodeVerifier},
	}.Encode()

	httpClient := myhttpclient.NewFormSender()
	httpRespCode, respBody, err := httpClient.Send(c, http.MethodPost, metadata.TokenEndpoint, []byte(requestBody))
	if err != nil {
		return GetTokenResponse{}, fmt.Errorf("error getting token: %s", err)
	}

	if httpRespCode != 200 {
		return GetTokenResponse{}, fmt.Errorf("error getting token: %d", httpRespCode)
	}

	resp := GetTokenResponse{}
	err = json.Unmarshal(respBody, &resp)
	if err != nil {
		return GetTokenResponse{}, fmt.Errorf("error parsing response: %s", err)
	}

	if resp.AccessToken == "" {
		return GetTokenResponse{}, fmt.Errorf("token response without access_token")
	}

	return resp, nil
}

type idTokenClaims struct {
	Nonce string `json:"nonce"`
	jwt.RegisteredClaims
}

// ValidateIDToken verifies the token signature against the provider's
// published keys and requires the nonce claim to match the one that
// started the flow.
func (oc oauthClient) ValidateIDToken(c context.Context, idToken string, expectedNonce string) error {
	metadata, err := oc.discoverer.Discover(c)
	if err != nil {
		return myerrors.NewUnavailableError(fmt.Errorf("error discovering endpoints: %s", err))
	}

	jwks, err := keyfunc.Get(metadata.JWKSURI, keyfunc.Options{Ctx: c})
	if err != nil {
		return fmt.Errorf("error fetching jwks from %s: %s", metadata.JWKSURI, err)
	}
	defer jwks.EndBackground()

	claims := idTokenClaims{}
	token, err := jwt.ParseWithClaims(idToken, &claims, jwks.Keyfunc)
	if err != nil {
		return fmt.Errorf("error parsing id_token: %s", err)
	}
	if !token.Valid {
		return fmt.Errorf("id_token is not valid")
	}

	if expectedNonce == "" || claims.Nonce != expectedNonce {
		return fmt.Errorf("id_token nonce does not match")
	}

	return nil
}
