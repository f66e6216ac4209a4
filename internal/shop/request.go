package shop

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"SweetShop/internal/inventory"
)

const maxBodyBytes = 1 << 20

const (
	searchByName       = "name"
	searchByCategory   = "category"
	searchByPriceRange = "price_range"
)

var (
	errBadPriceRange     = errors.New("invalid price range format, use 'min-max' (e.g. '10-50')")
	errUnknownSearchType = errors.New("unknown search type, use name, category or price_range")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type addReq struct {
	Name     string          `json:"name" validate:"required"`
	Category string          `json:"category" validate:"required"`
	Price    decimal.Decimal `json:"price"`
	Quantity *int            `json:"quantity" validate:"required,gte=0"`
}

type quantityReq struct {
	Quantity int `json:"quantity"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("extra data after json object")
	}
	return nil
}

// validationErrors maps json field names to the rule they broke, or returns
// nil when err is not a validator failure.
func validationErrors(err error) map[string]string {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return nil
	}
	out := make(map[string]string, len(ves))
	for _, fe := range ves {
		out[fe.Field()] = "failed on rule: " + fe.Tag()
	}
	return out
}

// parsePriceRange reads "<min>-<max>", e.g. "10-50" or "2.5-7.25".
func parsePriceRange(s string) (decimal.Decimal, decimal.Decimal, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return decimal.Zero, decimal.Zero, errBadPriceRange
	}

	lo, err := decimal.NewFromString(strings.TrimSpace(parts[0]))
	if err != nil {
		return decimal.Zero, decimal.Zero, errBadPriceRange
	}
	hi, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
	if err != nil {
		return decimal.Zero, decimal.Zero, errBadPriceRange
	}
	return lo, hi, nil
}

// search runs one of the three searches. An empty query finds nothing for
// every search type.
func search(inv Inventory, searchType, query string) ([]inventory.Item, error) {
	if searchType == "" {
		searchType = searchByName
	}

	switch searchType {
	case searchByName:
		return inv.SearchByName(query), nil
	case searchByCategory:
		return inv.SearchByCategory(query), nil
	case searchByPriceRange:
		if query == "" {
			return []inventory.Item{}, nil
		}
		lo, hi, err := parsePriceRange(query)
		if err != nil {
			return nil, err
		}
		return inv.SearchByPriceRange(lo, hi)
	default:
		return nil, errUnknownSearchType
	}
}
