package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/MarcGrol/storefront/lib/mytime"
)

const (
	wellKnownPath = "/.well-known/openid-configuration"

	// Endpoints rarely move, but a restart of the identity provider must
	// be picked up without redeploying us.
	cacheTTL = 5 * time.Minute

	httpClientTimeout = 5 * time.Second
)

// ProviderMetadata is the subset of the openid-configuration document
// that the authorization flow needs.
type ProviderMetadata struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	JWKSURI               string `json:"jwks_uri"`
}

//go:generate mockgen -source=discovery.go -package discovery -destination discovery_mock.go Discoverer
type Discoverer interface {
	Discover(c context.Context) (ProviderMetadata, error)
}

type cachedDiscoverer struct {
	issuer     string
	httpClient *http.Client
	nower      mytime.Nower

	mutex     sync.Mutex
	metadata  ProviderMetadata
	fetchedAt time.Time
	populated bool
}

func New(issuer string, nower mytime.Nower) *cachedDiscoverer {
	return &cachedDiscoverer{
		issuer: issuer,
		httpClient: &http.Client{
			Timeout: httpClientTimeout,
		},
		nower: nower,
	}
}

// Discover returns the provider's endpoints, fetching the configuration
// document at most once per TTL window. A fetch failure is a hard error:
// we never fall back on expired metadata.
func (d *cachedDiscoverer) Discover(c context.Context) (ProviderMetadata, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	now := d.nower.Now()
	if d.populated && now.Sub(d.fetchedAt) < cacheTTL {
		return d.metadata, nil
	}

	metadata, err := d.fetch(c)
	if err != nil {
		return ProviderMetadata{}, err
	}

	d.metadata = metadata
	d.fetchedAt = now
	d.populated = true

	return d.metadata, nil
}

func (d *cachedDiscoverer) fetch(c context.Context) (ProviderMetadata, error) {
	configURL := d.issuer + wellKnownPath

	httpReq, err := http.NewRequestWithContext(c, http.MethodGet, configURL, nil)
	if err != nil {
		return ProviderMetadata{}, fmt.Errorf("error creating request for %s: %s", configURL, err)
	}

	httpResp, err := d.httpClient.Do(httpReq)
	if err != nil {
		return ProviderMetadata{}, fmt.Errorf("error fetching %s: %s", configURL, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return ProviderMetadata{}, fmt.Errorf("error fetching %s: status %d", configURL, httpResp.StatusCode)
	}

	metadata := ProviderMetadata{}
	err = json.NewDecoder(httpResp.Body).Decode(&metadata)
	if err != nil {
		return ProviderMetadata{}, fmt.Errorf("error parsing %s: %s", configURL, err)
	}

	if metadata.AuthorizationEndpoint == "" || metadata.TokenEndpoint == "" {
		return ProviderMetadata{}, fmt.Errorf("incomplete configuration document at %s", configURL)
	}

	return metadata, nil
}
