package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type SampleSweet struct {
	Name     string
	Category string
	Price    decimal.Decimal
	Quantity int
}

var SampleSweets = []SampleSweet{
	{"Kaju Katli", "Nut-Based", decimal.NewFromInt(50), 20},
	{"Gajar Halwa", "Vegetable-Based", decimal.NewFromInt(30), 15},
	{"Gulab Jamun", "Milk-Based", decimal.NewFromInt(10), 50},
	{"Chocolate Cake", "Pastry", decimal.NewFromInt(100), 8},
	{"Rasgulla", "Milk-Based", decimal.NewFromInt(8), 30},
	{"Almond Barfi", "Nut-Based", decimal.NewFromInt(60), 12},
	{"Jalebi", "Syrup-Based", decimal.NewFromInt(15), 25},
}

// Seed adds the demo sweets and returns their ids in order.
func Seed(s *Store, sweets []SampleSweet) ([]string, error) {
	ids := make([]string, 0, len(sweets))
	for _, sw := range sweets {
		id, err := s.Add(sw.Name, sw.Category, sw.Price, sw.Quantity)
		if err != nil {
			return ids, fmt.Errorf("seed %q: %w", sw.Name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
