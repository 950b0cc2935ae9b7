package cartevents

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/MarcGrol/storefront/lib/myerrors"
	"github.com/MarcGrol/storefront/lib/myevents"
)

const (
	TopicName           = "cart"
	cartLineAddedName   = TopicName + ".line.added"
	cartLineUpdatedName = TopicName + ".line.updated"
	cartLineRemovedName = TopicName + ".line.removed"
	cartSyncFailedName  = TopicName + ".sync.failed"
)

type CartEventService interface {
	Subscribe(c context.Context) error
	OnCartLineAdded(c context.Context, topic string, event CartLineAdded) error
	OnCartLineUpdated(c context.Context, topic string, event CartLineUpdated) error
	OnCartLineRemoved(c context.Context, topic string, event CartLineRemoved) error
	OnCartSyncFailed(c context.Context, topic string, event CartSyncFailed) error
}

func DispatchEvent(c context.Context, reader io.Reader, service CartEventService) error {
	envelope, err := myevents.ParseEventEnvelope(reader)
	if err != nil {
		return myerrors.NewInvalidInputError(err)
	}

	switch envelope.EventTypeName {
	case cartLineAddedName:
		{
			event := CartLineAdded{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnCartLineAdded(c, envelope.Topic, event)
		}
	case cartLineUpdatedName:
		{
			event := CartLineUpdated{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnCartLineUpdated(c, envelope.Topic, event)
		}
	case cartLineRemovedName:
		{
			event := CartLineRemoved{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnCartLineRemoved(c, envelope.Topic, event)
		}
	case cartSyncFailedName:
		{
			event := CartSyncFailed{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnCartSyncFailed(c, envelope.Topic, event)
		}
	default:
		return myerrors.NewNotImplementedError(fmt.Errorf("event %s not supported", envelope.EventTypeName))
	}
}

type CartLineAdded struct {
	CartUID       string
	MerchandiseID string
	Quantity      int
}

func (e CartLineAdded) GetEventTypeName() string {
	return cartLineAddedName
}

func (e CartLineAdded) GetAggregateName() string {
	return e.CartUID
}

type CartLineUpdated struct {
	CartUID       string
	MerchandiseID string
	Quantity      int
}

func (e CartLineUpdated) GetEventTypeName() string {
	return cartLineUpdatedName
}

func (e CartLineUpdated) GetAggregateName() string {
	return e.CartUID
}

type CartLineRemoved struct {
	CartUID       string
	MerchandiseID string
}

func (e CartLineRemoved) GetEventTypeName() string {
	return cartLineRemovedName
}

func (e CartLineRemoved) GetAggregateName() string {
	return e.CartUID
}

type CartSyncFailed struct {
	CartUID string
	Version int
	Reason  string
}

func (e CartSyncFailed) GetEventTypeName() string {
	return cartSyncFailedName
}

func (e CartSyncFailed) GetAggregateName() string {
	return e.CartUID
}
