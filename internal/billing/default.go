package billing

// Default returns the built-in catalog used when no plans file is
// configured.
func Default() *Catalog {
	catalog := NewCatalog()
	for _, plan := range []*Plan{
		{ID: "free", IsFree: true},
		{
			ID:          "pro",
			Recommended: true,
			Prices: []Price{
				{ProductID: "price_pro_monthly", Amount: 2900, Currency: "USD", Type: PriceRecurring, Interval: "month", TrialPeriodDays: 14},
				{ProductID: "price_pro_yearly", Amount: 29000, Currency: "USD", Type: PriceRecurring, Interval: "year"},
			},
		},
		{
			ID: "lifetime",
			Prices: []Price{
				{ProductID: "price_lifetime", Amount: 99900, Currency: "USD", Type: PriceOneTime},
			},
		},
		{ID: "enterprise", IsEnterprise: true},
	} {
		// Built-in prices are unique.
		_ = catalog.Register(plan)
	}
	return catalog
}
