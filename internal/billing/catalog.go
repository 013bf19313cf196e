// Package billing holds the plan catalog that maps processor price ids to
// product plans.
package billing

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/TheManishHQ/shipos-kit/internal/models"
)

type PriceType string

const (
	PriceRecurring PriceType = "recurring"
	PriceOneTime   PriceType = "one-time"
)

type Price struct {
	ProductID       string    `yaml:"productId" json:"productId"`
	Amount          int64     `yaml:"amount" json:"amount"`
	Currency        string    `yaml:"currency" json:"currency"`
	Type            PriceType `yaml:"type" json:"type"`
	Interval        string    `yaml:"interval,omitempty" json:"interval,omitempty"`
	TrialPeriodDays int64     `yaml:"trialPeriodDays,omitempty" json:"trialPeriodDays,omitempty"`
	SeatBased       bool      `yaml:"seatBased,omitempty" json:"seatBased,omitempty"`
}

type Plan struct {
	ID           string  `yaml:"id" json:"id"`
	IsFree       bool    `yaml:"isFree,omitempty" json:"isFree,omitempty"`
	IsEnterprise bool    `yaml:"isEnterprise,omitempty" json:"isEnterprise,omitempty"`
	Recommended  bool    `yaml:"recommended,omitempty" json:"recommended,omitempty"`
	Prices       []Price `yaml:"prices" json:"prices"`
}

type catalogFile struct {
	Plans []Plan `yaml:"plans"`
}

type Catalog struct {
	mu      sync.RWMutex
	plans   []*Plan
	byPrice map[string]*Plan
}

func NewCatalog() *Catalog {
	return &Catalog{byPrice: make(map[string]*Plan)}
}

// LoadFromFile reads a YAML plan catalog. An empty path yields the default
// catalog.
func LoadFromFile(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plans config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse plans config: %w", err)
	}

	catalog := NewCatalog()
	for i := range file.Plans {
		if err := catalog.Register(&file.Plans[i]); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

func (c *Catalog) Register(plan *Plan) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, price := range plan.Prices {
		if existing, ok := c.byPrice[price.ProductID]; ok {
			return fmt.Errorf("price %q is listed by plans %q and %q", price.ProductID, existing.ID, plan.ID)
		}
	}
	for _, price := range plan.Prices {
		c.byPrice[price.ProductID] = plan
	}
	c.plans = append(c.plans, plan)
	return nil
}

func (c *Catalog) All() []*Plan {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]*Plan, len(c.plans))
	copy(result, c.plans)
	return result
}

func (c *Catalog) PlanForProduct(productID string) *Plan {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byPrice[productID]
}

func (c *Catalog) Price(productID string) (Price, bool) {
	plan := c.PlanForProduct(productID)
	if plan == nil {
		return Price{}, false
	}
	for _, p := range plan.Prices {
		if p.ProductID == productID {
			return p, true
		}
	}
	return Price{}, false
}

// TrialPeriodDays returns the trial length configured for productID, or 0.
func (c *Catalog) TrialPeriodDays(productID string) int64 {
	price, ok := c.Price(productID)
	if !ok {
		return 0
	}
	return price.TrialPeriodDays
}

func (c *Catalog) FreePlan() *Plan {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.plans {
		if p.IsFree {
			return p
		}
	}
	return nil
}

var activeSubscriptionStatuses = map[string]bool{
	"active":   true,
	"trialing": true,
}

// ActivePlan resolves the plan a user is entitled to from their purchases.
// One-time purchases and active or trialing subscriptions count. Without a
// paid plan the free plan applies when the catalog has one.
func (c *Catalog) ActivePlan(purchases []models.Purchase) *Plan {
	for _, p := range purchases {
		switch p.Type {
		case models.PurchaseOneTime:
		case models.PurchaseSubscription:
			if p.Status == nil || !activeSubscriptionStatuses[*p.Status] {
				continue
			}
		default:
			continue
		}
		if plan := c.PlanForProduct(p.ProductID); plan != nil {
			return plan
		}
	}
	return c.FreePlan()
}
