// Package notifier delivers best-effort alerts about committed mutations.
// Delivery runs outside the request path: callers enqueue and move on, and
// every transport failure is logged and swallowed. Events from concurrent
// requests carry no ordering guarantee.
package notifier

import (
	"fmt"
	"time"

	"github.com/Entelsac/ENTEL-SAC/internal/models"
)

// Notifier receives one call per contractual trigger. Implementations must
// never block the caller and must never surface delivery errors.
type Notifier interface {
	OrderCreated(order *models.Order, actor *models.User)
	OrderFulfilled(order *models.Order, actor *models.User)
	UserCreated(user *models.User, actor *models.User)
}

// Event is a rendered notification ready for the transport.
type Event struct {
	Text string
}

func orderCreatedText(order *models.Order, actor *models.User) string {
	return fmt.Sprintf("New order #%d from %s (phone %s) at %s",
		order.ID, actor.Username, order.Phone, order.CreatedAt.Format(time.RFC3339))
}

func orderFulfilledText(order *models.Order, actor *models.User) string {
	return fmt.Sprintf("Order #%d fulfilled by %s at %s",
		order.ID, actor.Username, time.Now().Format(time.RFC3339))
}

func userCreatedText(user *models.User, actor *models.User) string {
	return fmt.Sprintf("User %s (role %s) created by %s at %s",
		user.Username, user.Role, actor.Username, time.Now().Format(time.RFC3339))
}

// Nop discards every notification. Used in tests and when no transport is
// configured.
type Nop struct{}

func (Nop) OrderCreated(*models.Order, *models.User)   {}
func (Nop) OrderFulfilled(*models.Order, *models.User) {}
func (Nop) UserCreated(*models.User, *models.User)     {}
