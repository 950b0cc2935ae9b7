package cart

import (
	"context"
	"fmt"

	"github.com/MarcGrol/storefront/lib/myerrors"
	"github.com/MarcGrol/storefront/lib/myevents"
	"github.com/MarcGrol/storefront/lib/mylog"
	"github.com/MarcGrol/storefront/lib/mypublisher"
	"github.com/MarcGrol/storefront/lib/mypubsub"
	"github.com/MarcGrol/storefront/lib/myqueue"
	"github.com/MarcGrol/storefront/lib/mystore"
	"github.com/MarcGrol/storefront/services/cart/cartevents"
	"github.com/MarcGrol/storefront/services/commerceapi"
)

type service struct {
	cartStore  mystore.Store[Cart]
	cartAPI    commerceapi.CartAPI
	queue      myqueue.TaskQueuer
	publisher  mypublisher.Publisher
	subscriber mypubsub.PubSub
	logger     mylog.Logger
}

func newService(cartStore mystore.Store[Cart], cartAPI commerceapi.CartAPI, queue myqueue.TaskQueuer, pub mypublisher.Publisher, subscriber mypubsub.PubSub) *service {
	return &service{
		cartStore:  cartStore,
		cartAPI:    cartAPI,
		queue:      queue,
		publisher:  pub,
		subscriber: subscriber,
		logger:     mylog.New("cart"),
	}
}

func (s *service) CreateTopics(c context.Context) error {
	err := s.publisher.CreateTopic(c, cartevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", cartevents.TopicName, err)
	}

	return nil
}

func (s *service) getCart(c context.Context, cartUID string) (Cart, error) {
	cart, found, err := s.cartStore.Get(c, cartUID)
	if err != nil {
		return Cart{}, myerrors.NewInternalError(err)
	}
	if !found {
		cart = Cart{UID: cartUID}
	}

	return cart, nil
}

// addItem applies the mutation locally first: the updated cart is the
// answer, the backend sync happens afterwards and never blocks or
// rolls back the local state.
func (s *service) addItem(c context.Context, cartUID string, variant Variant, product Product) (Cart, error) {
	s.logger.Log(c, cartUID, mylog.SeverityInfo, "Add variant %s to cart %s", variant.ID, cartUID)

	var cart Cart
	err := s.cartStore.RunInTransaction(c, func(c context.Context) error {
		var err error
		cart, err = s.getCart(c, cartUID)
		if err != nil {
			return err
		}

		if len(cart.Lines) > 0 && variant.Price.CurrencyCode != cart.CurrencyCode() {
			return myerrors.NewInvalidInputError(fmt.Errorf("currency %s does not match cart currency %s",
				variant.Price.CurrencyCode, cart.CurrencyCode()))
		}

		cart = AddItem(cart, variant, product)

		err = s.cartStore.Put(c, cartUID, cart)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing cart: %s", err))
		}

		err = s.publisher.Publish(c, cartevents.TopicName, cartevents.CartLineAdded{
			CartUID:       cartUID,
			MerchandiseID: variant.ID,
			Quantity:      quantityOf(cart, variant.ID),
		})
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error publishing event: %s", err))
		}

		return nil
	})
	if err != nil {
		return Cart{}, err
	}

	s.requestSync(c, cart)

	return cart, nil
}

func (s *service) updateItem(c context.Context, cartUID string, merchandiseID string, updateType UpdateType) (Cart, error) {
	s.logger.Log(c, cartUID, mylog.SeverityInfo, "Update %s on cart %s: %s", merchandiseID, cartUID, updateType)

	var cart Cart
	err := s.cartStore.RunInTransaction(c, func(c context.Context) error {
		var found bool
		var err error
		cart, found, err = s.cartStore.Get(c, cartUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("cart with uid %s not found", cartUID))
		}
		if quantityOf(cart, merchandiseID) == 0 {
			return myerrors.NewNotFoundError(fmt.Errorf("cart %s has no line for merchandise %s", cartUID, merchandiseID))
		}

		cart = UpdateItem(cart, merchandiseID, updateType)

		err = s.cartStore.Put(c, cartUID, cart)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing cart: %s", err))
		}

		remaining := quantityOf(cart, merchandiseID)
		var event myevents.Event
		if remaining == 0 {
			event = cartevents.CartLineRemoved{CartUID: cartUID, MerchandiseID: merchandiseID}
		} else {
			event = cartevents.CartLineUpdated{CartUID: cartUID, MerchandiseID: merchandiseID, Quantity: remaining}
		}
		err = s.publisher.Publish(c, cartevents.TopicName, event)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error publishing event: %s", err))
		}

		return nil
	})
	if err != nil {
		return Cart{}, err
	}

	s.requestSync(c, cart)

	return cart, nil
}

// requestSync schedules an asynchronous push of the cart to the
// backend. The caller never blocks on the backend and a failed enqueue
// is logged only: the local cart stays the source of truth for the UI,
// the next mutation or a full refresh converges again.
func (s *service) requestSync(c context.Context, cart Cart) {
	err := s.queue.Enqueue(c, myqueue.Task{
		UID:            fmt.Sprintf("cart-sync-%s-%d", cart.UID, cart.Version),
		WebhookURLPath: fmt.Sprintf("/api/cart/%s/sync", cart.UID),
		Payload:        []byte{},
	})
	if err != nil {
		s.logger.Log(c, cart.UID, mylog.SeverityWarn, "Error enqueueing sync of cart %s: %s", cart.UID, err)
	}
}

// processSync is driven by the task queue. An error propagates as a
// non-2xx on the webhook so the queue redelivers.
func (s *service) processSync(c context.Context, cartUID string) error {
	version, err := s.syncNow(c, cartUID)
	if err != nil {
		s.logger.Log(c, cartUID, mylog.SeverityWarn, "Sync of cart %s failed: %s", cartUID, err)

		pubErr := s.publisher.Publish(c, cartevents.TopicName, cartevents.CartSyncFailed{
			CartUID: cartUID,
			Version: version,
			Reason:  err.Error(),
		})
		if pubErr != nil {
			s.logger.Log(c, cartUID, mylog.SeverityWarn, "Error publishing sync-failure: %s", pubErr)
		}

		return err
	}

	return nil
}

// syncNow pushes the absolute local line state to the backend cart,
// creating the backend cart on first use. The version accompanies the
// push so that the backend can reject stale writes; it is also returned
// so that a failure can be reported against the version that was
// attempted.
func (s *service) syncNow(c context.Context, cartUID string) (int, error) {
	cart, found, err := s.cartStore.Get(c, cartUID)
	if err != nil {
		return 0, myerrors.NewInternalError(err)
	}
	if !found {
		return 0, myerrors.NewNotFoundError(fmt.Errorf("cart with uid %s not found", cartUID))
	}

	if cart.RemoteID == "" {
		remote, err := s.cartAPI.CreateCart(c)
		if err != nil {
			return cart.Version, fmt.Errorf("error creating backend cart: %s", err)
		}

		err = s.cartStore.RunInTransaction(c, func(c context.Context) error {
			current, _, err := s.cartStore.Get(c, cartUID)
			if err != nil {
				return err
			}
			current.RemoteID = remote.ID
			current.CheckoutURL = remote.CheckoutURL
			return s.cartStore.Put(c, cartUID, current)
		})
		if err != nil {
			return cart.Version, myerrors.NewInternalError(fmt.Errorf("error storing backend cart uid: %s", err))
		}

		cart.RemoteID = remote.ID
	}

	lines := make([]commerceapi.LineInput, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		lines = append(lines, commerceapi.LineInput{
			MerchandiseID: line.Merchandise.ID,
			Quantity:      line.Quantity,
		})
	}

	_, err = s.cartAPI.ReplaceLines(c, cart.RemoteID, cart.Version, lines)
	if err != nil {
		return cart.Version, fmt.Errorf("error pushing lines to backend cart %s: %s", cart.RemoteID, err)
	}

	return cart.Version, s.clearOutOfSync(c, cartUID)
}

func (s *service) clearOutOfSync(c context.Context, cartUID string) error {
	return s.cartStore.RunInTransaction(c, func(c context.Context) error {
		current, found, err := s.cartStore.Get(c, cartUID)
		if err != nil || !found || !current.OutOfSync {
			return err
		}

		current.OutOfSync = false

		return s.cartStore.Put(c, cartUID, current)
	})
}

// refresh replaces the local cart with the authoritative backend state.
func (s *service) refresh(c context.Context, cartUID string) (Cart, error) {
	s.logger.Log(c, cartUID, mylog.SeverityInfo, "Refresh cart %s from backend", cartUID)

	var cart Cart
	err := s.cartStore.RunInTransaction(c, func(c context.Context) error {
		current, found, err := s.cartStore.Get(c, cartUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found || current.RemoteID == "" {
			return myerrors.NewNotFoundError(fmt.Errorf("cart with uid %s has no backend cart", cartUID))
		}

		remote, err := s.cartAPI.GetCart(c, current.RemoteID)
		if err != nil {
			return myerrors.NewUnavailableError(fmt.Errorf("error fetching backend cart: %s", err))
		}

		cart = fromRemote(cartUID, remote)

		return s.cartStore.Put(c, cartUID, cart)
	})
	if err != nil {
		return Cart{}, err
	}

	return cart, nil
}

func fromRemote(cartUID string, remote commerceapi.RemoteCart) Cart {
	cart := Cart{
		UID:         cartUID,
		RemoteID:    remote.ID,
		CheckoutURL: remote.CheckoutURL,
		Version:     remote.Version,
	}

	for _, line := range remote.Lines {
		cart.Lines = append(cart.Lines, Line{
			UID: line.ID,
			Merchandise: Merchandise{
				ID:    line.MerchandiseID,
				Title: line.Title,
				Product: Product{
					ID:     line.ProductID,
					Handle: line.ProductHandle,
					Title:  line.ProductTitle,
				},
			},
			Quantity: line.Quantity,
			UnitPrice: Money{
				Amount:       line.UnitPriceAmount,
				CurrencyCode: line.CurrencyCode,
			},
		})
	}

	recomputed := recompute(cart)
	recomputed.Version = remote.Version // backend version wins over local bump

	return recomputed
}

func quantityOf(cart Cart, merchandiseID string) int {
	for _, line := range cart.Lines {
		if line.Merchandise.ID == merchandiseID {
			return line.Quantity
		}
	}
	return 0
}
