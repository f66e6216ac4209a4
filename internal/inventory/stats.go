package inventory

import (
	"sort"

	"github.com/shopspring/decimal"
)

type Stats struct {
	TotalSweets         int             `json:"total_sweets"`
	TotalCategories     int             `json:"total_categories"`
	Categories          []string        `json:"categories"`
	TotalInventoryValue decimal.Decimal `json:"total_inventory_value"`
	AveragePrice        decimal.Decimal `json:"average_price"`
	LowStockCount       int             `json:"low_stock_count"`
	LowStockThreshold   int             `json:"low_stock_threshold"`
}

// Stats summarises the current stock. Categories are distinct and sorted; the
// average price is rounded to cents.
func (s *Store) Stats(lowStockThreshold int) Stats {
	items := s.ListAll()

	st := Stats{
		Categories:          Categories(items),
		TotalInventoryValue: decimal.Zero,
		AveragePrice:        decimal.Zero,
		LowStockThreshold:   lowStockThreshold,
	}
	st.TotalSweets = len(items)
	st.TotalCategories = len(st.Categories)
	if len(items) == 0 {
		return st
	}

	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Price)
		st.TotalInventoryValue = st.TotalInventoryValue.Add(it.Value())
		if it.Quantity <= lowStockThreshold {
			st.LowStockCount++
		}
	}
	st.AveragePrice = sum.Div(decimal.NewFromInt(int64(len(items)))).Round(2)

	return st
}

func Categories(items []Item) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.Category]; ok {
			continue
		}
		seen[it.Category] = struct{}{}
		out = append(out, it.Category)
	}
	sort.Strings(out)
	return out
}
