package ports

import (
	"context"
	"time"

	"github.com/arborhq/planwise/internal/domain"
)

// CustomerRepository is the three-layer customer data store. LoadCustomer
// joins all three layers; a missing customer surfaces
// domain.ErrCustomerNotFound.
type CustomerRepository interface {
	LoadCustomer(ctx context.Context, customerID string) (*domain.EnrichedCustomer, error)
	ListCustomers(ctx context.Context) ([]domain.CustomerSummaryItem, error)
}

// PlanCatalog serves the read-only supplier plan catalog. Entries are
// returned as published; structural rate validation happens when a plan is
// costed, where invalid entries are skipped with a diagnostic.
type PlanCatalog interface {
	Plans(ctx context.Context, zipCode string) ([]domain.Plan, error)
	PlanByID(ctx context.Context, planID string) (*domain.Plan, error)
}

// Cache is a read-through cache for request-independent data such as enriched
// customer snapshots.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping() error
	Close() error
}
