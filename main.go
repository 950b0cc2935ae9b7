package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/storefront/lib/myhttpclient"
	"github.com/MarcGrol/storefront/lib/mypublisher"
	"github.com/MarcGrol/storefront/lib/mypubsub"
	"github.com/MarcGrol/storefront/lib/myqueue"
	"github.com/MarcGrol/storefront/lib/mystore"
	"github.com/MarcGrol/storefront/lib/mytime"
	"github.com/MarcGrol/storefront/lib/myuuid"
	"github.com/MarcGrol/storefront/services/cart"
	"github.com/MarcGrol/storefront/services/commerceapi"
	"github.com/MarcGrol/storefront/services/customerauth"
	"github.com/MarcGrol/storefront/services/customerauth/discovery"
	"github.com/MarcGrol/storefront/services/customerauth/oauthclient"
	"github.com/MarcGrol/storefront/services/warmup"
)

func main() {
	c := context.Background()

	router := mux.NewRouter()
	nower := mytime.RealNower{}
	uuider := myuuid.RealUUIDer{}

	queue, queueCleanup, err := myqueue.New(c)
	if err != nil {
		log.Fatalf("Error creating task queue: %s", err)
	}
	defer queueCleanup()

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		log.Fatalf("Error creating pubsub: %s", err)
	}
	defer pubsubCleanup()

	publisher, publisherCleanup, err := mypublisher.New(c, pubsub, queue, nower)
	if err != nil {
		log.Fatalf("Error creating publisher: %s", err)
	}
	defer publisherCleanup()
	publisher.RegisterEndpoints(c, router)

	issuer := os.Getenv("OAUTH_ISSUER")
	if issuer == "" {
		log.Fatalf("Missing env OAUTH_ISSUER")
	}
	discoverer := discovery.New(issuer, nower)

	authCleanup := createAuthService(c, router, discoverer, nower, publisher)
	defer authCleanup()

	warmup.NewService(discoverer).RegisterEndpoints(c, router)

	cartCleanup := createCartService(c, router, queue, publisher, pubsub, uuider)
	defer cartCleanup()

	startWebServerBlocking(router)
}

func createAuthService(c context.Context, router *mux.Router, discoverer discovery.Discoverer, nower mytime.Nower, publisher mypublisher.Publisher) func() {
	clientID := os.Getenv("OAUTH_CLIENT_ID")
	if clientID == "" {
		log.Fatalf("Missing env OAUTH_CLIENT_ID")
	}

	attemptStore, cleanup, err := mystore.New[customerauth.FlowAttempt](c)
	if err != nil {
		log.Fatalf("Error creating flow-attempt store: %s", err)
	}

	oauthClient := oauthclient.NewOAuthClient(clientID, discoverer)

	authService := customerauth.NewWebService(attemptStore, oauthClient, nower, publisher)
	err = authService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering customerauth service: %s", err)
	}

	return cleanup
}

func createCartService(c context.Context, router *mux.Router, queue myqueue.TaskQueuer, publisher mypublisher.Publisher, subscriber mypubsub.PubSub, uuider myuuid.UUIDer) func() {
	apiURL := os.Getenv("COMMERCE_API_URL")
	if apiURL == "" {
		log.Fatalf("Missing env COMMERCE_API_URL")
	}
	apiToken := os.Getenv("COMMERCE_API_TOKEN")

	cartStore, cleanup, err := mystore.New[cart.Cart](c)
	if err != nil {
		log.Fatalf("Error creating cart store: %s", err)
	}

	cartAPI := commerceapi.NewClient(apiURL, myhttpclient.NewWithBearerToken(apiToken))

	cartService := cart.NewWebService(cartStore, cartAPI, queue, publisher, subscriber, uuider)
	err = cartService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering cart service: %s", err)
	}

	return cleanup
}

func startWebServerBlocking(router *mux.Router) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting webserver on port %s (try http://localhost:%s)", port, port)
	err := http.ListenAndServe(fmt.Sprintf(":%s", port), router)
	if err != nil {
		log.Fatalf("Error starting webserver on port %s: %s", port, err)
	}
}
