// Package inventory holds the shop's stock: sweets keyed by a store-minted id,
// the purchase/restock ledger, and the aggregates the dashboard shows.
package inventory

import (
	"github.com/shopspring/decimal"
)

const DefaultLowStockThreshold = 5

func init() {
	// Prices and totals go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Value is price times quantity on hand.
func (it Item) Value() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

type PurchaseReceipt struct {
	SweetID           string          `json:"sweet_id"`
	SweetName         string          `json:"sweet_name"`
	QuantityPurchased int             `json:"quantity_purchased"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	RemainingStock    int             `json:"remaining_stock"`
}

type RestockReceipt struct {
	SweetID       string `json:"sweet_id"`
	SweetName     string `json:"sweet_name"`
	QuantityAdded int    `json:"quantity_added"`
	PreviousStock int    `json:"previous_stock"`
	NewStock      int    `json:"new_stock"`
}

// SuggestedCategories feeds the category picker in the UI. The store accepts
// any non-blank category.
var SuggestedCategories = []string{
	"Chocolate",
	"Candy",
	"Pastry",
	"Nut-Based",
	"Milk-Based",
	"Vegetable-Based",
	"Syrup-Based",
	"Fruit-Based",
	"Ice Cream",
	"Cookies",
	"Other",
}
