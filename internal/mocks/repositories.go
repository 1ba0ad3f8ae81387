package mocks

import (
	"context"
	"fmt"

	"github.com/arborhq/planwise/internal/domain"
)

// MockCustomerRepository is a mock implementation of CustomerRepository interface
type MockCustomerRepository struct {
	Customers         map[string]*domain.EnrichedCustomer
	LoadCustomerFunc  func(ctx context.Context, customerID string) (*domain.EnrichedCustomer, error)
	ListCustomersFunc func(ctx context.Context) ([]domain.CustomerSummaryItem, error)
}

func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{
		Customers: make(map[string]*domain.EnrichedCustomer),
	}
}

func (m *MockCustomerRepository) LoadCustomer(ctx context.Context, customerID string) (*domain.EnrichedCustomer, error) {
	if m.LoadCustomerFunc != nil {
		return m.LoadCustomerFunc(ctx, customerID)
	}
	if customer, ok := m.Customers[customerID]; ok {
		return customer, nil
	}
	return nil, fmt.Errorf("customer %s: %w", customerID, domain.ErrCustomerNotFound)
}

func (m *MockCustomerRepository) ListCustomers(ctx context.Context) ([]domain.CustomerSummaryItem, error) {
	if m.ListCustomersFunc != nil {
		return m.ListCustomersFunc(ctx)
	}
	items := make([]domain.CustomerSummaryItem, 0, len(m.Customers))
	for id, customer := range m.Customers {
		items = append(items, domain.CustomerSummaryItem{
			CustomerID:  id,
			DisplayName: customer.Profile.Personal.DisplayName,
			Description: customer.Insights.SegmentDescription,
		})
	}
	return items, nil
}

// MockPlanCatalog is a mock implementation of PlanCatalog interface
type MockPlanCatalog struct {
	CatalogPlans []domain.Plan
	PlansFunc    func(ctx context.Context, zipCode string) ([]domain.Plan, error)
	PlanByIDFunc func(ctx context.Context, planID string) (*domain.Plan, error)
}

func NewMockPlanCatalog() *MockPlanCatalog {
	return &MockPlanCatalog{}
}

func (m *MockPlanCatalog) Plans(ctx context.Context, zipCode string) ([]domain.Plan, error) {
	if m.PlansFunc != nil {
		return m.PlansFunc(ctx, zipCode)
	}
	return m.CatalogPlans, nil
}

func (m *MockPlanCatalog) PlanByID(ctx context.Context, planID string) (*domain.Plan, error) {
	if m.PlanByIDFunc != nil {
		return m.PlanByIDFunc(ctx, planID)
	}
	for i := range m.CatalogPlans {
		if m.CatalogPlans[i].ID == planID {
			plan := m.CatalogPlans[i]
			return &plan, nil
		}
	}
	return nil, fmt.Errorf("plan %s not found", planID)
}
