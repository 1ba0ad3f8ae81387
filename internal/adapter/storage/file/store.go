// Package file implements the customer repository and plan catalog on top of
// JSON data files. The dataset is the three customer layers plus the supplier
// catalog; each file is read once and held in memory until ClearCache.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/arborhq/planwise/internal/domain"
)

const (
	rawUtilityDataFile = "raw_utility_data.json"
	userProfilesFile   = "user_profiles.json"
	systemAnalysisFile = "system_analysis.json"
	supplierPlansFile  = "supplier_plans.json"
)

type rawDataDocument struct {
	Customers []domain.RawCustomerData `json:"customers"`
}

type profilesDocument struct {
	Profiles []domain.UserProfile `json:"profiles"`
}

type insightsDocument struct {
	Insights []domain.CustomerInsights `json:"insights"`
}

type plansDocument struct {
	Plans []domain.Plan `json:"plans"`
}

// Store serves all three customer data layers and the plan catalog from a
// data directory. Safe for concurrent use; each file loads lazily on first
// access.
type Store struct {
	dir string
	log *zap.Logger

	mu       sync.Mutex
	rawData  map[string]domain.RawCustomerData
	profiles []domain.UserProfile
	insights map[string]domain.CustomerInsights
	plans    []domain.Plan
}

func NewStore(dir string, log *zap.Logger) *Store {
	return &Store{dir: dir, log: log}
}

// LoadCustomer joins the three layers for one customer. A customer missing
// from any layer is reported as domain.ErrCustomerNotFound.
func (s *Store) LoadCustomer(ctx context.Context, customerID string) (*domain.EnrichedCustomer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureCustomerData(); err != nil {
		return nil, err
	}

	raw, ok := s.rawData[customerID]
	if !ok {
		return nil, fmt.Errorf("customer %s: %w", customerID, domain.ErrCustomerNotFound)
	}
	insights, ok := s.insights[customerID]
	if !ok {
		return nil, fmt.Errorf("analysis for customer %s: %w", customerID, domain.ErrCustomerNotFound)
	}

	for _, profile := range s.profiles {
		if profile.CustomerID == customerID {
			return &domain.EnrichedCustomer{RawData: raw, Profile: profile, Insights: insights}, nil
		}
	}
	return nil, fmt.Errorf("profile for customer %s: %w", customerID, domain.ErrCustomerNotFound)
}

// ListCustomers returns the customer directory: one entry per profile, with
// the segment description attached when analysis exists.
func (s *Store) ListCustomers(ctx context.Context) ([]domain.CustomerSummaryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureCustomerData(); err != nil {
		return nil, err
	}

	items := make([]domain.CustomerSummaryItem, 0, len(s.profiles))
	for _, profile := range s.profiles {
		item := domain.CustomerSummaryItem{
			CustomerID:  profile.CustomerID,
			DisplayName: profile.Personal.DisplayName,
			Description: "Customer profile",
		}
		if insights, ok := s.insights[profile.CustomerID]; ok && insights.SegmentDescription != "" {
			item.Description = insights.SegmentDescription
		}
		items = append(items, item)
	}
	return items, nil
}

// Plans returns the supplier catalog. The catalog is single-market, so the
// zip code is accepted for interface fit but not used to filter.
func (s *Store) Plans(ctx context.Context, zipCode string) ([]domain.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensurePlans(); err != nil {
		return nil, err
	}

	plans := make([]domain.Plan, len(s.plans))
	copy(plans, s.plans)
	return plans, nil
}

func (s *Store) PlanByID(ctx context.Context, planID string) (*domain.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensurePlans(); err != nil {
		return nil, err
	}

	for i := range s.plans {
		if s.plans[i].ID == planID {
			plan := s.plans[i]
			return &plan, nil
		}
	}
	return nil, fmt.Errorf("plan %s not found", planID)
}

// ClearCache drops every loaded file so the next access re-reads from disk.
func (s *Store) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawData = nil
	s.profiles = nil
	s.insights = nil
	s.plans = nil
}

// ensureCustomerData loads the three customer layers. Caller holds s.mu.
func (s *Store) ensureCustomerData() error {
	if s.rawData != nil && s.profiles != nil && s.insights != nil {
		return nil
	}

	var rawDoc rawDataDocument
	if err := s.readFile(rawUtilityDataFile, &rawDoc); err != nil {
		return err
	}
	var profileDoc profilesDocument
	if err := s.readFile(userProfilesFile, &profileDoc); err != nil {
		return err
	}
	var insightsDoc insightsDocument
	if err := s.readFile(systemAnalysisFile, &insightsDoc); err != nil {
		return err
	}

	s.rawData = make(map[string]domain.RawCustomerData, len(rawDoc.Customers))
	for _, c := range rawDoc.Customers {
		s.rawData[c.CustomerID] = c
	}
	s.profiles = profileDoc.Profiles
	s.insights = make(map[string]domain.CustomerInsights, len(insightsDoc.Insights))
	for _, i := range insightsDoc.Insights {
		s.insights[i.CustomerID] = i
	}

	s.log.Info("Customer data loaded",
		zap.Int("customers", len(s.rawData)),
		zap.Int("profiles", len(s.profiles)),
		zap.Int("insights", len(s.insights)),
	)
	return nil
}

// ensurePlans loads the supplier catalog. Caller holds s.mu.
func (s *Store) ensurePlans() error {
	if s.plans != nil {
		return nil
	}

	var doc plansDocument
	if err := s.readFile(supplierPlansFile, &doc); err != nil {
		return err
	}

	s.plans = doc.Plans
	s.log.Info("Supplier catalog loaded", zap.Int("plans", len(s.plans)))
	return nil
}

func (s *Store) readFile(name string, out interface{}) error {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
