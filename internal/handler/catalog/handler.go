package catalog

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	catalogmodel "github.com/MIGUELNINOSILVA/makers/internal/model/catalog"
	catalogservice "github.com/MIGUELNINOSILVA/makers/internal/service/catalog"
	"github.com/MIGUELNINOSILVA/makers/pkg/utils"
)

const defaultPageSize = 10

// Handler serves the read-only catalog endpoints.
type Handler struct {
	catalogSvc *catalogservice.Service
}

// New creates the catalog handler.
func New(catalogSvc *catalogservice.Service) *Handler {
	return &Handler{catalogSvc: catalogSvc}
}

// RegisterRoutes mounts the catalog endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.handleList)
	r.Get("/products/search", h.handleSearch)
	r.Get("/products/by-brand/{brandName}", h.handleByBrand)
	r.Get("/products/{id}", h.handleShow)
	r.Get("/inventory/summary", h.handleInventorySummary)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", defaultPageSize)

	products, err := h.catalogSvc.List(r.Context(), perPage, (page-1)*perPage)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"products": products,
		"page":     page,
		"per_page": perPage,
	})
}

func (h *Handler) handleShow(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, found, err := h.catalogSvc.Get(r.Context(), id)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to load product")
		return
	}
	if !found {
		utils.RespondError(w, http.StatusNotFound, "product not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, product)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	filter := catalogmodel.SearchFilter{
		Query:      params.Get("q"),
		Brand:      params.Get("brand"),
		Model:      params.Get("model"),
		Category:   params.Get("category"),
		Attributes: catalogservice.ParseAttributePairs(params.Get("attributes")),
	}

	products, err := h.catalogSvc.Search(r.Context(), filter)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to search products")
		return
	}

	searchParams := map[string]string{
		"q":          filter.Query,
		"brand":      filter.Brand,
		"model":      filter.Model,
		"category":   filter.Category,
		"attributes": params.Get("attributes"),
	}

	response := map[string]any{
		"products":      products,
		"search_params": searchParams,
	}
	if len(products) == 0 {
		response["message"] = "No products were found matching the search criteria."
	}
	utils.RespondJSON(w, http.StatusOK, response)
}

func (h *Handler) handleByBrand(w http.ResponseWriter, r *http.Request) {
	brandName := chi.URLParam(r, "brandName")

	products, err := h.catalogSvc.ByBrand(r.Context(), brandName)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to load brand products")
		return
	}

	if len(products) == 0 {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"products":       []catalogservice.BrandProduct{},
			"message":        fmt.Sprintf("No products were found for the brand %q.", brandName),
			"brand_searched": brandName,
		})
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"products":       products,
		"total_found":    len(products),
		"brand_searched": brandName,
	})
}

func (h *Handler) handleInventorySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.catalogSvc.InventorySummary(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to build inventory summary")
		return
	}
	utils.RespondJSON(w, http.StatusOK, summary)
}

func queryInt(r *http.Request, key string, fallback int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			return value
		}
	}
	return fallback
}
