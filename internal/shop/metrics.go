package shop

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"SweetShop/internal/inventory"
)

const namespace = "sweetshop"

type InventoryMetrics struct {
	Purchased prometheus.Counter
	Restocked prometheus.Counter
	Rejected  *prometheus.CounterVec
}

// NewInventoryMetrics registers transaction counters plus gauges that read the
// inventory at scrape time.
func NewInventoryMetrics(reg prometheus.Registerer, inv Inventory, lowStock int) *InventoryMetrics {
	m := &InventoryMetrics{
		Purchased: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "units_purchased_total",
			Help:      "Units sold through successful purchases",
		}),
		Restocked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "units_restocked_total",
			Help:      "Units added through successful restocks",
		}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_rejected_total",
			Help:      "Purchases and restocks refused by the inventory",
		}, []string{"kind", "reason"}),
	}

	value := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "inventory_value",
		Help:      "Sum of price times quantity over all sweets",
	}, func() float64 { return inv.TotalInventoryValue().InexactFloat64() })

	sweets := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sweets",
		Help:      "Number of sweets in the catalog",
	}, func() float64 { return float64(len(inv.ListAll())) })

	low := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "low_stock_sweets",
		Help:        "Sweets at or below the low stock threshold",
		ConstLabels: prometheus.Labels{"threshold": strconv.Itoa(lowStock)},
	}, func() float64 { return float64(len(inv.LowStock(lowStock))) })

	reg.MustRegister(m.Purchased, m.Restocked, m.Rejected, value, sweets, low)
	return m
}

func (m *InventoryMetrics) purchased(units int) {
	if m != nil {
		m.Purchased.Add(float64(units))
	}
}

func (m *InventoryMetrics) restocked(units int) {
	if m != nil {
		m.Restocked.Add(float64(units))
	}
}

func (m *InventoryMetrics) rejected(kind inventory.TransactionKind, err error) {
	if m != nil {
		m.Rejected.WithLabelValues(string(kind), reason(err)).Inc()
	}
}

func reason(err error) string {
	switch {
	case errors.Is(err, inventory.ErrValidation):
		return "validation"
	case errors.Is(err, inventory.ErrNotFound):
		return "not_found"
	case errors.Is(err, inventory.ErrInsufficientStock):
		return "insufficient_stock"
	default:
		return "other"
	}
}
