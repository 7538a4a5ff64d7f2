// Package posapitest runs an in-memory point-of-sale API for tests.
package posapitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrJamesThe3rd/till/internal/transaction"
)

type Product struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Cost  float64 `json:"cost"`
	Stock int     `json:"stock"`
}

type Item struct {
	ProductID   int64   `json:"product_id"`
	Quantity    int     `json:"quantity"`
	PriceAtSale float64 `json:"price_at_sale"`
}

type Transaction struct {
	ID          int64   `json:"id"`
	Timestamp   string  `json:"timestamp"`
	TotalAmount float64 `json:"total_amount"`
	Items       []Item  `json:"items"`
}

type failure struct {
	status  int
	message string
}

// Server is a fake API. Transactions are kept newest first, like the real
// listing.
type Server struct {
	*httptest.Server

	// AdminKey, when set, is required on reset requests.
	AdminKey string
	// Now stamps new transactions.
	Now func() time.Time

	mu           sync.Mutex
	products     []Product
	transactions []Transaction
	nextProduct  int64
	nextTx       int64
	requests     []string
	failNext     *failure
}

// New starts a server and stops it when the test ends.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		Now:         time.Now,
		nextProduct: 1,
		nextTx:      1,
	}

	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)

	return s
}

// APIURL is the base URL a client should be configured with.
func (s *Server) APIURL() string {
	return s.URL + "/api"
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.record)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.listProducts)
			r.With(middleware.AllowContentType("application/json")).Post("/", s.createProduct)
			r.Get("/{id}", s.getProduct)
			r.With(middleware.AllowContentType("application/json")).Put("/{id}", s.updateProduct)
			r.Delete("/{id}", s.deleteProduct)
		})

		r.With(middleware.AllowContentType("application/json")).Post("/checkout", s.checkout)

		r.Get("/transactions", s.listTransactions)
		r.Get("/transactions/{id}", s.getTransaction)

		r.Post("/reset_seed", s.resetSeed)
	})

	return r
}

// record logs each request and serves a queued failure, if any.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)
		f := s.failNext
		s.failNext = nil
		s.mu.Unlock()

		if f != nil {
			writeError(w, f.status, f.message)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SeedProducts adds products, assigning ids to those without one.
func (s *Server) SeedProducts(products ...Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range products {
		if p.ID == 0 {
			p.ID = s.nextProduct
		}

		s.nextProduct = max(s.nextProduct, p.ID+1)
		s.products = append(s.products, p)
	}
}

// SeedTransactions adds transactions to the listing. They are expected newest
// first.
func (s *Server) SeedTransactions(txs ...Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tx := range txs {
		s.nextTx = max(s.nextTx, tx.ID+1)
		s.transactions = append(s.transactions, tx)
	}
}

// FailNext makes the next request, whatever it is, fail with status and an
// {"error": message} body.
func (s *Server) FailNext(status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failNext = &failure{status: status, message: message}
}

// Requests returns "METHOD /path" for every request served so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.requests)
}

func (s *Server) Products() []Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.products)
}

func (s *Server) Transactions() []Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.transactions)
}

func (s *Server) listProducts(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	products := slices.Clone(s.products)
	s.mu.Unlock()

	if products == nil {
		products = []Product{}
	}

	writeJSON(w, http.StatusOK, products)
}

func (s *Server) findProduct(id int64) int {
	return slices.IndexFunc(s.products, func(p Product) bool { return p.ID == id })
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findProduct(id)
	if idx < 0 {
		writeDetail(w, http.StatusNotFound, "Product not found")
		return
	}

	writeJSON(w, http.StatusOK, s.products[idx])
}

type productPayload struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price"`
	Cost  *float64 `json:"cost"`
	Stock *int     `json:"stock"`
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if req.Name == nil || req.Price == nil || req.Cost == nil {
		writeDetail(w, http.StatusUnprocessableEntity, "name, price and cost are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := Product{ID: s.nextProduct, Name: *req.Name, Price: *req.Price, Cost: *req.Cost}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}

	s.nextProduct++
	s.products = append(s.products, p)

	writeJSON(w, http.StatusCreated, map[string]any{"message": "Product added", "id": p.ID})
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req productPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findProduct(id)
	if idx < 0 {
		writeDetail(w, http.StatusNotFound, "Product not found")
		return
	}

	p := &s.products[idx]
	if req.Name != nil {
		p.Name = *req.Name
	}

	if req.Price != nil {
		p.Price = *req.Price
	}

	if req.Cost != nil {
		p.Cost = *req.Cost
	}

	if req.Stock != nil {
		p.Stock = *req.Stock
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Product updated"})
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findProduct(id)
	if idx < 0 {
		writeDetail(w, http.StatusNotFound, "Product not found")
		return
	}

	s.products = slices.Delete(s.products, idx, idx+1)

	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

type checkoutEntry struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// checkout validates every entry before changing any stock, like the real
// server's single database transaction.
func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	var entries []checkoutEntry
	if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid cart format")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		idx := s.findProduct(e.ProductID)
		if idx < 0 || s.products[idx].Stock < e.Quantity {
			writeDetail(w, http.StatusBadRequest, fmt.Sprintf("Product %d out of stock or missing", e.ProductID))
			return
		}
	}

	tx := Transaction{
		ID:        s.nextTx,
		Timestamp: s.Now().UTC().Format(transaction.TimestampLayout),
	}

	for _, e := range entries {
		p := &s.products[s.findProduct(e.ProductID)]
		p.Stock -= e.Quantity
		tx.TotalAmount += p.Price * float64(e.Quantity)
		tx.Items = append(tx.Items, Item{ProductID: p.ID, Quantity: e.Quantity, PriceAtSale: p.Price})
	}

	s.nextTx++
	s.transactions = append([]Transaction{tx}, s.transactions...)

	writeJSON(w, http.StatusCreated, map[string]any{"message": "Checkout success", "transaction_id": tx.ID})
}

type transactionSummary struct {
	ID          int64   `json:"id"`
	Timestamp   string  `json:"timestamp"`
	TotalAmount float64 `json:"total_amount"`
}

func (s *Server) listTransactions(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]transactionSummary, len(s.transactions))
	for i, tx := range s.transactions {
		out[i] = transactionSummary{ID: tx.ID, Timestamp: tx.Timestamp, TotalAmount: tx.TotalAmount}
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.transactions, func(tx Transaction) bool { return tx.ID == id })
	if idx < 0 {
		writeDetail(w, http.StatusNotFound, "Transaction not found")
		return
	}

	tx := s.transactions[idx]
	if tx.Items == nil {
		tx.Items = []Item{}
	}

	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) resetSeed(w http.ResponseWriter, r *http.Request) {
	if s.AdminKey != "" && r.Header.Get("X-Admin-Key") != s.AdminKey {
		writeDetail(w, http.StatusForbidden, "admin key required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = []Product{
		{ID: 1, Name: "Espresso", Price: 2.5, Cost: 0.8, Stock: 50},
		{ID: 2, Name: "Latte", Price: 3.75, Cost: 1.1, Stock: 40},
	}
	s.transactions = nil
	s.nextProduct = 3
	s.nextTx = 1

	writeJSON(w, http.StatusOK, map[string]any{
		"message":              "reset complete",
		"products_created":     len(s.products),
		"transactions_created": 0,
	})
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid id")
		return 0, false
	}

	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
