package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/premsinghsengar10/scan-and-bill/internal/core/domain"
	"github.com/premsinghsengar10/scan-and-bill/internal/core/service"
)

// IdempotencyKeyHeader carries the client's checkout retry token.
const IdempotencyKeyHeader = "Idempotency-Key"

type CheckoutService interface {
	Checkout(ctx context.Context, userID, customerName, customerMobile, storeID, idempotencyKey string) (*domain.Order, error)
	OrdersByStore(ctx context.Context, storeID string) ([]domain.Order, error)
	StatsByStore(ctx context.Context, storeID string) (*service.StoreStats, error)
}

type ProductService interface {
	ProductByBarcode(ctx context.Context, barcode string) (*domain.Product, error)
	List(ctx context.Context, storeID string) ([]domain.Product, error)
	AddProductWithStock(ctx context.Context, product *domain.Product, initialStock int) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, details *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	AddStock(ctx context.Context, barcode string, quantity int, storeID string) error
}

type CartService interface {
	Cart(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID, serialNumber string) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, serialNumber string) (*domain.Cart, error)
}

type StoreService interface {
	List(ctx context.Context) ([]domain.Store, error)
}

type HTTPHandler struct {
	checkout CheckoutService
	products ProductService
	carts    CartService
	stores   StoreService
	log      logrus.FieldLogger
}

func NewHTTPHandler(
	checkout CheckoutService,
	products ProductService,
	carts CartService,
	stores StoreService,
	log logrus.FieldLogger,
) *HTTPHandler {
	return &HTTPHandler{
		checkout: checkout,
		products: products,
		carts:    carts,
		stores:   stores,
		log:      log,
	}
}

// Router wires every route of the backend.
func (h *HTTPHandler) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/orders/checkout", h.Checkout).Methods(http.MethodPost)

	api.HandleFunc("/stores", h.ListStores).Methods(http.MethodGet)
	api.HandleFunc("/products", h.ListProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/barcode/{barcode}", h.ProductByBarcode).Methods(http.MethodGet)

	api.HandleFunc("/cart/{userId}", h.GetCart).Methods(http.MethodGet)
	api.HandleFunc("/cart/{userId}/items", h.AddCartItem).Methods(http.MethodPost)
	api.HandleFunc("/cart/{userId}/items/{serial}", h.RemoveCartItem).Methods(http.MethodDelete)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/products", h.CreateProduct).Methods(http.MethodPost)
	admin.HandleFunc("/products/{id}", h.UpdateProduct).Methods(http.MethodPut)
	admin.HandleFunc("/products/{id}", h.DeleteProduct).Methods(http.MethodDelete)
	admin.HandleFunc("/inventory/add", h.AddStock).Methods(http.MethodPost)
	admin.HandleFunc("/orders", h.OrdersByStore).Methods(http.MethodGet)
	admin.HandleFunc("/stats", h.StoreStats).Methods(http.MethodGet)

	return r
}

type CheckoutRequest struct {
	UserID         string `json:"userId"`
	CustomerName   string `json:"customerName"`
	CustomerMobile string `json:"customerMobile"`
	StoreID        string `json:"storeId"`
	IdempotencyKey string `json:"idempotencyKey"`
}

func (h *HTTPHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" || req.StoreID == "" {
		writeError(w, http.StatusBadRequest, "userId and storeId are required")
		return
	}

	// The header wins over the body field.
	key := r.Header.Get(IdempotencyKeyHeader)
	if key == "" {
		key = req.IdempotencyKey
	}

	order, err := h.checkout.Checkout(r.Context(), req.UserID, req.CustomerName, req.CustomerMobile, req.StoreID, key)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *HTTPHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.stores.List(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stores)
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context(), r.URL.Query().Get("storeId"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *HTTPHandler) ProductByBarcode(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.ProductByBarcode(r.Context(), mux.Vars(r)["barcode"])
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.Cart(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

type addCartItemRequest struct {
	SerialNumber string `json:"serialNumber"`
}

func (h *HTTPHandler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SerialNumber == "" {
		writeError(w, http.StatusBadRequest, "serialNumber is required")
		return
	}

	cart, err := h.carts.AddItem(r.Context(), mux.Vars(r)["userId"], req.SerialNumber)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *HTTPHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	cart, err := h.carts.RemoveItem(r.Context(), vars["userId"], vars["serial"])
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *HTTPHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product domain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if product.Barcode == "" || product.StoreID == "" {
		writeError(w, http.StatusBadRequest, "barcode and storeId are required")
		return
	}

	initialStock, err := strconv.Atoi(r.URL.Query().Get("initialStock"))
	if err != nil || initialStock < 0 {
		writeError(w, http.StatusBadRequest, "initialStock must be a non-negative integer")
		return
	}

	created, err := h.products.AddProductWithStock(r.Context(), &product, initialStock)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *HTTPHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var details domain.Product
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.products.UpdateProduct(r.Context(), mux.Vars(r)["id"], &details)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.DeleteProduct(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addStockRequest struct {
	Barcode  string `json:"barcode"`
	Quantity int    `json:"quantity"`
	StoreID  string `json:"storeId"`
}

func (h *HTTPHandler) AddStock(w http.ResponseWriter, r *http.Request) {
	var req addStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Barcode == "" || req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "barcode and a positive quantity are required")
		return
	}

	if err := h.products.AddStock(r.Context(), req.Barcode, req.Quantity, req.StoreID); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) OrdersByStore(w http.ResponseWriter, r *http.Request) {
	storeID := r.URL.Query().Get("storeId")
	if storeID == "" {
		writeError(w, http.StatusBadRequest, "storeId is required")
		return
	}

	orders, err := h.checkout.OrdersByStore(r.Context(), storeID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *HTTPHandler) StoreStats(w http.ResponseWriter, r *http.Request) {
	storeID := r.URL.Query().Get("storeId")
	if storeID == "" {
		writeError(w, http.StatusBadRequest, "storeId is required")
		return
	}

	stats, err := h.checkout.StatsByStore(r.Context(), storeID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeDomainError maps the domain failure taxonomy to HTTP statuses:
// NotFound -> 404, InvalidState -> 400, Conflict -> 409.
func (h *HTTPHandler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrCartNotFound),
		errors.Is(err, domain.ErrCartItemNotFound),
		errors.Is(err, domain.ErrUnitNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrStoreNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrCartEmpty):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnitSold),
		errors.Is(err, domain.ErrVersionConflict),
		errors.Is(err, domain.ErrDuplicateBarcode),
		errors.Is(err, domain.ErrDuplicateIdempotencyKey):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.log.WithError(err).Error("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
