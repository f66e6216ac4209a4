package shop

import (
	"github.com/shopspring/decimal"

	"SweetShop/internal/inventory"
)

// Inventory is the part of *inventory.Store the handlers use.
type Inventory interface {
	Add(name, category string, price decimal.Decimal, quantity int) (string, error)
	Delete(id string) bool
	GetByID(id string) (inventory.Item, bool)
	ListAll() []inventory.Item
	SearchByName(query string) []inventory.Item
	SearchByCategory(query string) []inventory.Item
	SearchByPriceRange(lo, hi decimal.Decimal) ([]inventory.Item, error)
	Purchase(id string, quantity int) (inventory.PurchaseReceipt, error)
	Restock(id string, quantity int) (inventory.RestockReceipt, error)
	LowStock(threshold int) []inventory.Item
	TotalInventoryValue() decimal.Decimal
	Stats(lowStockThreshold int) inventory.Stats
	Transactions() []inventory.Transaction
}

var _ Inventory = (*inventory.Store)(nil)
