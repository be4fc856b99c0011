package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apperrors "prodboard/internal/errors"
	mw "prodboard/internal/middleware"
	"prodboard/pkg/contracts/domain"
)

// CompositionHandler handles unit cost composition requests
type CompositionHandler struct {
	service      CompositionService
	validator    *mw.Validator
	logger       *slog.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewCompositionHandler creates a new composition handler
func NewCompositionHandler(service CompositionService, validator *mw.Validator, logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *CompositionHandler {
	return &CompositionHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "composition_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the composition routes
func (h *CompositionHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/products", h.GetProducts)
	r.Post("/quote", h.PostQuote)
	return r
}

// GetProducts handles GET /api/composition/products
func (h *CompositionHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Products(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"products": products,
		"count":    len(products),
	})
}

// PostQuote handles POST /api/composition/quote
func (h *CompositionHandler) PostQuote(w http.ResponseWriter, r *http.Request) {
	var req domain.QuoteRequest
	if err := h.validator.Decode(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	quote, err := h.service.Quote(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, quote)
}
