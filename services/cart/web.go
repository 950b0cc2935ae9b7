package cart

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/storefront/lib/mycontext"
	"github.com/MarcGrol/storefront/lib/myerrors"
	"github.com/MarcGrol/storefront/lib/myhttp"
	"github.com/MarcGrol/storefront/lib/mylog"
	"github.com/MarcGrol/storefront/lib/mypublisher"
	"github.com/MarcGrol/storefront/lib/mypubsub"
	"github.com/MarcGrol/storefront/lib/myqueue"
	"github.com/MarcGrol/storefront/lib/mystore"
	"github.com/MarcGrol/storefront/lib/myuuid"
	"github.com/MarcGrol/storefront/services/cart/cartevents"
	"github.com/MarcGrol/storefront/services/cartapi"
	"github.com/MarcGrol/storefront/services/commerceapi"
)

//go:embed templates
var templateFolder embed.FS
var (
	cartPageTemplate *template.Template
)

func init() {
	cartPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/cart.html"))
}

const cartSessionCookieName = "cartSession"

type webService struct {
	logger  mylog.Logger
	service *service
	uuider  myuuid.UUIDer
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(cartStore mystore.Store[Cart], cartAPI commerceapi.CartAPI, queue myqueue.TaskQueuer, publisher mypublisher.Publisher, subscriber mypubsub.PubSub, uuider myuuid.UUIDer) *webService {
	return &webService{
		logger:  mylog.New("cart"),
		service: newService(cartStore, cartAPI, queue, publisher, subscriber),
		uuider:  uuider,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	// Endpoints that compose the user-interface
	router.HandleFunc("/cart", s.cartPage()).Methods("GET")
	router.HandleFunc("/cart/add", s.addItemToCartPage()).Methods("POST")
	router.HandleFunc("/cart/update", s.updateCartItemPage()).Methods("POST")
	router.HandleFunc("/cart/refresh", s.refreshCartPage()).Methods("POST")

	// Triggered by the task queue to push local cart state to the backend
	router.HandleFunc("/api/cart/{cartUID}/sync", s.syncCartWebhook()).Methods("PUT")

	err := s.service.CreateTopics(c)
	if err != nil {
		return err
	}

	// Listen for our own sync outcomes
	router.HandleFunc("/api/cart/event", s.handleEventEnvelope()).Methods("POST")

	return s.service.Subscribe(c)
}

// cartUIDFromRequest resolves the cart session cookie, minting a fresh
// cart uid for first-time visitors.
func (s *webService) cartUIDFromRequest(w http.ResponseWriter, r *http.Request) string {
	cartUID, err := myhttp.ReadCookie(r, cartSessionCookieName)
	if err != nil || cartUID == "" {
		cartUID = s.uuider.Create()
		myhttp.WriteSessionCookie(w, cartSessionCookieName, cartUID, 0)
	}

	return cartUID
}

func (s *webService) cartPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		cartUID := s.cartUIDFromRequest(w, r)

		cart, err := s.service.getCart(c, cartUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = cartPageTemplate.Execute(w, cartPageData(cart))
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInternalError(fmt.Errorf("error executing template: %s", err)))
			return
		}
	}
}

func (s *webService) addItemToCartPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		cartUID := s.cartUIDFromRequest(w, r)

		addItem, err := cartapi.NewAddItemFromRequest(r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		variant, product := fromAddItem(addItem)

		_, err = s.service.addItem(c, cartUID, variant, product)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		http.Redirect(w, r, "/cart", http.StatusSeeOther)
	}
}

func (s *webService) updateCartItemPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		cartUID := s.cartUIDFromRequest(w, r)

		err := r.ParseForm()
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}

		merchandiseID := r.Form.Get("merchandiseUid")
		if merchandiseID == "" {
			errorWriter.WriteError(c, w, 2, myerrors.NewInvalidInputError(fmt.Errorf("missing merchandiseUid")))
			return
		}

		updateType, err := parseUpdateType(r.Form.Get("updateType"))
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		_, err = s.service.updateItem(c, cartUID, merchandiseID, updateType)
		if err != nil {
			errorWriter.WriteError(c, w, 4, err)
			return
		}

		http.Redirect(w, r, "/cart", http.StatusSeeOther)
	}
}

func (s *webService) refreshCartPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		cartUID := s.cartUIDFromRequest(w, r)

		_, err := s.service.refresh(c, cartUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		http.Redirect(w, r, "/cart", http.StatusSeeOther)
	}
}

func (s *webService) syncCartWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		cartUID := mux.Vars(r)["cartUID"]

		err := s.service.processSync(c, cartUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: fmt.Sprintf("Successfully synced cart %s", cartUID),
		})
	}
}

func (s *webService) handleEventEnvelope() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := cartevents.DispatchEvent(c, r.Body, s.service)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Successfully processed event",
		})
	}
}

type cartPageView struct {
	Cart  Cart
	Lines []Line
}

func cartPageData(cart Cart) cartPageView {
	return cartPageView{
		Cart:  cart,
		Lines: cart.SortedLines(),
	}
}

func parseUpdateType(value string) (UpdateType, error) {
	switch UpdateType(value) {
	case UpdatePlus, UpdateMinus, UpdateDelete:
		return UpdateType(value), nil
	default:
		return "", myerrors.NewInvalidInputError(fmt.Errorf("unknown updateType %q", value))
	}
}

func fromAddItem(addItem cartapi.AddItem) (Variant, Product) {
	variant := Variant{
		ID:    addItem.VariantUID,
		Title: addItem.VariantTitle,
		Price: Money{
			Amount:       addItem.Price.Amount,
			CurrencyCode: addItem.Price.Currency,
		},
	}
	for _, option := range addItem.Options {
		variant.SelectedOptions = append(variant.SelectedOptions, SelectedOption{
			Name:  option.Name,
			Value: option.Value,
		})
	}

	product := Product{
		ID:            addItem.Product.UID,
		Handle:        addItem.Product.Handle,
		Title:         addItem.Product.Title,
		FeaturedImage: addItem.Product.FeaturedImage,
	}

	return variant, product
}
