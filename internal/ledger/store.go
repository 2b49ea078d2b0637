package ledger

import (
	"context"

	"github.com/crease/crease/pkg/cricket"
)

// Store persists deliveries. Implementations keep append order through
// Delivery.Seq, which Insert assigns.
type Store interface {
	// Insert appends d to its match and returns it with Seq set.
	Insert(ctx context.Context, d cricket.Delivery) (cricket.Delivery, error)
	// List returns a match's deliveries in append order.
	List(ctx context.Context, matchID string) ([]cricket.Delivery, error)
	// Delete removes one delivery and, in the same write, overwrites the
	// stored legal ball numbers given in renumber (keyed by delivery ID).
	// It returns a NOT_FOUND error when the delivery does not belong to the
	// match.
	Delete(ctx context.Context, matchID, deliveryID string, renumber map[string]int) error
}
