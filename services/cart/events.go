package cart

import (
	"context"
	"fmt"

	"github.com/MarcGrol/storefront/lib/myerrors"
	"github.com/MarcGrol/storefront/lib/myhttp"
	"github.com/MarcGrol/storefront/lib/mylog"
	"github.com/MarcGrol/storefront/services/cart/cartevents"
)

func (s *service) Subscribe(c context.Context) error {
	err := s.subscriber.Subscribe(c, cartevents.TopicName, myhttp.GuessHostnameWithScheme()+"/api/cart/event")
	if err != nil {
		return fmt.Errorf("error subscribing to topic %s: %s", cartevents.TopicName, err)
	}

	return nil
}

func (s *service) OnCartLineAdded(c context.Context, topic string, event cartevents.CartLineAdded) error {
	return nil
}

func (s *service) OnCartLineUpdated(c context.Context, topic string, event cartevents.CartLineUpdated) error {
	return nil
}

func (s *service) OnCartLineRemoved(c context.Context, topic string, event cartevents.CartLineRemoved) error {
	return nil
}

// OnCartSyncFailed flags the cart so the page can warn that the backend
// may disagree with what the customer sees. The flag goes away when a
// later push succeeds or the cart is refreshed.
func (s *service) OnCartSyncFailed(c context.Context, topic string, event cartevents.CartSyncFailed) error {
	s.logger.Log(c, event.CartUID, mylog.SeverityWarn, "Cart %s is out of sync: %s", event.CartUID, event.Reason)

	return s.cartStore.RunInTransaction(c, func(c context.Context) error {
		cart, found, err := s.cartStore.Get(c, event.CartUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			return nil
		}

		cart.OutOfSync = true

		return s.cartStore.Put(c, event.CartUID, cart)
	})
}
