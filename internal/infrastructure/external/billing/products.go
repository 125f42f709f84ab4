package billing

import (
	"github.com/bivex/habitpass/internal/domain/valueobject"
)

// Product is a store product backing a catalog plan
type Product struct {
	ID           string
	Subscription bool
}

// ProductMap maps catalog plans to store products
type ProductMap map[valueobject.PlanID]Product

// DefaultProducts derives store product IDs from a bundle prefix, e.g. "com.habitpass"
func DefaultProducts(prefix string) ProductMap {
	return ProductMap{
		valueobject.PlanPremiumMonthly:    {ID: prefix + ".premium.monthly", Subscription: true},
		valueobject.PlanPremiumAnnual:     {ID: prefix + ".premium.annual", Subscription: true},
		valueobject.PlanAdRemovalBasic:    {ID: prefix + ".adremoval.basic"},
		valueobject.PlanAdRemovalComplete: {ID: prefix + ".adremoval.complete"},
	}
}
