package services

import (
	"encoding/json"
	"fmt"

	"wishnest/internal/apperrors"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

// EventPublisher sends a domain event to the wishlist event queue.
// *rabbitmq.Client satisfies it; services treat a nil publisher as
// "events disabled".
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// Visibility decides whether an actor may view (and act on) an owner's
// wishlist and items. FriendService implements it.
type Visibility interface {
	CanView(actorID, ownerID string) (bool, error)
}

// publishEvent marshals and publishes a domain event. Failures are logged
// and swallowed: event delivery is best-effort and never fails the request.
func publishEvent(events EventPublisher, routingKey string, payload map[string]interface{}) {
	if events == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := events.Publish(routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}

// invalidInput converts a validator error into the Invalid kind with a
// field-level message, matching the first failed tag.
func invalidInput(err error) error {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		e := verrs[0]
		return apperrors.New(apperrors.Invalid,
			fmt.Sprintf("field '%s' failed on the '%s' rule", e.Field(), e.Tag()))
	}
	return apperrors.Wrap(apperrors.Invalid, "invalid payload", err)
}
