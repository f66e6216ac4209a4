package shop

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"SweetShop/internal/inventory"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
}).ParseFS(templateFS, "templates/*.html"))

const (
	msgSuccess = "success"
	msgError   = "error"

	flashCookie = "sweetshop_flash"
)

type pageData struct {
	Sweets            []inventory.Item
	LowStockCount     int
	LowStockThreshold int
	TotalValue        decimal.Decimal
	Categories        []string
	Suggested         []string

	Searching   bool
	SearchType  string
	SearchQuery string

	Message     string
	MessageKind string
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	sweets := s.Store.ListAll()

	data := pageData{
		Sweets:            sweets,
		LowStockCount:     len(s.Store.LowStock(s.lowStock())),
		LowStockThreshold: s.lowStock(),
		TotalValue:        s.Store.TotalInventoryValue(),
		Categories:        inventory.Categories(sweets),
		Suggested:         inventory.SuggestedCategories,
		SearchType:        searchByName,
	}
	data.Message, data.MessageKind = flash(w, r)

	s.render(w, r, http.StatusOK, data)
}

func (s *Server) searchPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	searchType := q.Get("type")
	if searchType == "" {
		searchType = searchByName
	}
	query := strings.TrimSpace(q.Get("query"))

	sweets, err := search(s.Store, searchType, query)
	if err != nil {
		s.redirect(w, r, msgError, err.Error())
		return
	}

	s.render(w, r, http.StatusOK, pageData{
		Sweets:            sweets,
		LowStockThreshold: s.lowStock(),
		Suggested:         inventory.SuggestedCategories,
		Searching:         true,
		SearchType:        searchType,
		SearchQuery:       query,
	})
}

func (s *Server) addSweet(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.PostFormValue("name"))
	category := strings.TrimSpace(r.PostFormValue("category"))

	price, err := decimal.NewFromString(strings.TrimSpace(r.PostFormValue("price")))
	if err != nil {
		s.redirect(w, r, msgError, "Error adding sweet: price must be a number")
		return
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("quantity")))
	if err != nil {
		s.redirect(w, r, msgError, "Error adding sweet: quantity must be a whole number")
		return
	}

	id, err := s.Store.Add(name, category, price, quantity)
	if err != nil {
		if !errors.Is(err, inventory.ErrValidation) {
			s.logger().Error("add sweet failed", zap.Error(err))
		}
		s.redirect(w, r, msgError, "Error adding sweet: "+err.Error())
		return
	}

	s.logger().Info("sweet added", zap.String("sweet_id", id), zap.String("name", name))
	s.redirect(w, r, msgSuccess, fmt.Sprintf("Sweet '%s' added successfully! ID: %s", name, id))
}

func (s *Server) deleteSweet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sweet, ok := s.Store.GetByID(id)
	if !ok {
		s.redirect(w, r, msgError, "Sweet not found.")
		return
	}
	if !s.Store.Delete(id) {
		s.redirect(w, r, msgError, "Error deleting sweet.")
		return
	}

	s.logger().Info("sweet deleted", zap.String("sweet_id", id))
	s.redirect(w, r, msgSuccess, fmt.Sprintf("Sweet '%s' deleted successfully!", sweet.Name))
}

func (s *Server) purchase(w http.ResponseWriter, r *http.Request) {
	id := r.PostFormValue("sweet_id")
	quantity, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("quantity")))
	if err != nil {
		s.redirect(w, r, msgError, "Invalid purchase quantity: must be a whole number")
		return
	}

	receipt, err := s.Store.Purchase(id, quantity)
	if err != nil {
		s.metrics.rejected(inventory.KindPurchase, err)
		s.redirect(w, r, msgError, transactionMessage("purchase", err))
		return
	}

	s.metrics.purchased(receipt.QuantityPurchased)
	s.redirect(w, r, msgSuccess, fmt.Sprintf("Purchased %d x %s for ₹%s. Remaining stock: %d",
		receipt.QuantityPurchased, receipt.SweetName, receipt.TotalCost.StringFixed(2), receipt.RemainingStock))
}

func (s *Server) restock(w http.ResponseWriter, r *http.Request) {
	id := r.PostFormValue("sweet_id")
	quantity, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("quantity")))
	if err != nil {
		s.redirect(w, r, msgError, "Invalid restock quantity: must be a whole number")
		return
	}

	receipt, err := s.Store.Restock(id, quantity)
	if err != nil {
		s.metrics.rejected(inventory.KindRestock, err)
		s.redirect(w, r, msgError, transactionMessage("restock", err))
		return
	}

	s.metrics.restocked(receipt.QuantityAdded)
	s.redirect(w, r, msgSuccess, fmt.Sprintf("Restocked %d x %s. New stock: %d",
		receipt.QuantityAdded, receipt.SweetName, receipt.NewStock))
}

func transactionMessage(action string, err error) string {
	if errors.Is(err, inventory.ErrValidation) {
		return fmt.Sprintf("Invalid %s quantity: %s", action, err)
	}
	return err.Error()
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, "index.html", data); err != nil {
		s.logger().Error("render page failed", zap.Error(err), zap.String("path", r.URL.Path))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// redirect sends the browser back to the dashboard. The message rides in a
// cookie that the next dashboard render consumes.
func (s *Server) redirect(w http.ResponseWriter, r *http.Request, kind, msg string) {
	v := url.Values{}
	v.Set("msg", msg)
	v.Set("kind", kind)

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    v.Encode(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// flash pops the pending message, if any.
func flash(w http.ResponseWriter, r *http.Request) (string, string) {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return "", ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	q, err := url.ParseQuery(c.Value)
	if err != nil || q.Get("msg") == "" {
		return "", ""
	}
	if q.Get("kind") == msgSuccess {
		return q.Get("msg"), msgSuccess
	}
	return q.Get("msg"), msgError
}
