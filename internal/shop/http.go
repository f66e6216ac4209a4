package shop

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"SweetShop/internal/inventory"
	"SweetShop/pkg/kit"
)

type Server struct {
	Store Inventory
	Log   *zap.Logger

	// LowStockThreshold feeds the dashboard, /api/stats and /api/low-stock.
	// Nil means inventory.DefaultLowStockThreshold; zero is a valid threshold.
	LowStockThreshold *int

	metrics *InventoryMetrics
}

func (s *Server) lowStock() int {
	if s.LowStockThreshold != nil {
		return *s.LowStockThreshold
	}
	return inventory.DefaultLowStockThreshold
}

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *Server) apiList(w http.ResponseWriter, _ *http.Request) {
	sweets := s.Store.ListAll()
	kit.WriteOK(w, http.StatusOK, map[string]any{
		"sweets": sweets,
		"count":  len(sweets),
	})
}

func (s *Server) apiGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sweet, ok := s.Store.GetByID(id)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "Sweet not found", map[string]any{"id": id})
		return
	}
	kit.WriteOK(w, http.StatusOK, map[string]any{"sweet": sweet})
}

func (s *Server) apiCreate(w http.ResponseWriter, r *http.Request) {
	var req addReq
	if err := decodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}
	if err := validate.Struct(req); err != nil {
		if ve := validationErrors(err); ve != nil {
			kit.WriteError(w, r, http.StatusBadRequest, "invalid request body", map[string]any{"validation_errors": ve})
			return
		}
		kit.WriteError(w, r, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	id, err := s.Store.Add(req.Name, req.Category, req.Price, *req.Quantity)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	sweet, _ := s.Store.GetByID(id)
	s.logger().Info("sweet added", zap.String("sweet_id", id), zap.String("name", sweet.Name))
	kit.WriteOK(w, http.StatusCreated, map[string]any{"id": id, "sweet": sweet})
}

func (s *Server) apiDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if !s.Store.Delete(id) {
		kit.WriteError(w, r, http.StatusNotFound, "Sweet not found", map[string]any{"id": id})
		return
	}

	s.logger().Info("sweet deleted", zap.String("sweet_id", id))
	kit.WriteOK(w, http.StatusOK, map[string]any{"id": id, "deleted": true})
}

func (s *Server) apiPurchase(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req quantityReq
	if err := decodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	receipt, err := s.Store.Purchase(id, req.Quantity)
	if err != nil {
		s.metrics.rejected(inventory.KindPurchase, err)
		s.writeStoreError(w, r, err)
		return
	}

	s.metrics.purchased(receipt.QuantityPurchased)
	kit.WriteOK(w, http.StatusOK, map[string]any{"purchase": receipt})
}

func (s *Server) apiRestock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req quantityReq
	if err := decodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	receipt, err := s.Store.Restock(id, req.Quantity)
	if err != nil {
		s.metrics.rejected(inventory.KindRestock, err)
		s.writeStoreError(w, r, err)
		return
	}

	s.metrics.restocked(receipt.QuantityAdded)
	kit.WriteOK(w, http.StatusOK, map[string]any{"restock": receipt})
}

func (s *Server) apiSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	searchType := q.Get("type")
	query := strings.TrimSpace(q.Get("query"))

	sweets, err := search(s.Store, searchType, query)
	if err != nil {
		if errors.Is(err, errBadPriceRange) || errors.Is(err, errUnknownSearchType) {
			kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
			return
		}
		s.writeStoreError(w, r, err)
		return
	}

	kit.WriteOK(w, http.StatusOK, map[string]any{
		"sweets": sweets,
		"count":  len(sweets),
	})
}

func (s *Server) apiLowStock(w http.ResponseWriter, r *http.Request) {
	threshold := s.lowStock()
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			kit.WriteError(w, r, http.StatusBadRequest, "threshold must be an integer", map[string]any{"threshold": raw})
			return
		}
		threshold = n
	}

	sweets := s.Store.LowStock(threshold)
	kit.WriteOK(w, http.StatusOK, map[string]any{
		"sweets":    sweets,
		"count":     len(sweets),
		"threshold": threshold,
	})
}

func (s *Server) apiStats(w http.ResponseWriter, _ *http.Request) {
	kit.WriteOK(w, http.StatusOK, map[string]any{"stats": s.Store.Stats(s.lowStock())})
}

func (s *Server) apiTransactions(w http.ResponseWriter, _ *http.Request) {
	txs := s.Store.Transactions()
	kit.WriteOK(w, http.StatusOK, map[string]any{
		"transactions": txs,
		"count":        len(txs),
	})
}

func (s *Server) apiCategories(w http.ResponseWriter, _ *http.Request) {
	kit.WriteOK(w, http.StatusOK, map[string]any{"categories": inventory.SuggestedCategories})
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	var short *inventory.InsufficientStockError

	switch {
	case errors.Is(err, inventory.ErrValidation):
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, inventory.ErrNotFound):
		kit.WriteError(w, r, http.StatusNotFound, err.Error(), nil)
	case errors.As(err, &short):
		kit.WriteError(w, r, http.StatusConflict, err.Error(), map[string]any{
			"available": short.Available,
			"requested": short.Requested,
		})
	default:
		s.logger().Error("inventory operation failed", zap.Error(err), zap.String("path", r.URL.Path))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}
