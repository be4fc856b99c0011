package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/invopop/jsonschema"

	"prodboard/internal/view"
	"prodboard/pkg/contracts/domain"
)

// SchemaHandler publishes the JSON schemas of the request bodies so the UI
// can build its forms from them.
type SchemaHandler struct {
	projectionInput *jsonschema.Schema
	viewRequest     *jsonschema.Schema
}

// NewSchemaHandler reflects the schemas once.
func NewSchemaHandler() *SchemaHandler {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	return &SchemaHandler{
		projectionInput: reflector.Reflect(&domain.CostProjectionInput{}),
		viewRequest:     reflector.Reflect(&view.Request{}),
	}
}

// Routes returns the schema routes
func (h *SchemaHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/projection-input", h.GetProjectionInput)
	r.Get("/view-request", h.GetViewRequest)
	return r
}

// GetProjectionInput handles GET /api/schema/projection-input
func (h *SchemaHandler) GetProjectionInput(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.projectionInput)
}

// GetViewRequest handles GET /api/schema/view-request
func (h *SchemaHandler) GetViewRequest(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.viewRequest)
}
