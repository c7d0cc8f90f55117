package partner

import (
	"context"

	"github.com/crediario/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository defines the persistence operations for customers
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByIDForUpdate loads a customer while acquiring an exclusive
	// row-level lock (SELECT ... FOR UPDATE) that is held until the
	// enclosing transaction commits or rolls back. It is only valid on a
	// repository obtained from a transaction scope; every balance mutation
	// must go through this lock.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByPhone returns (nil, nil) when no customer has the phone
	FindByPhone(ctx context.Context, phone string) (*Customer, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Customer], error)
	Save(ctx context.Context, customer *Customer) error

	// Delete removes the customer; the store cascades to invoices and
	// payments and nulls out notification references.
	Delete(ctx context.Context, id uuid.UUID) error
}
