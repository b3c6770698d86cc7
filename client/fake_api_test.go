package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
)

// fakeAPI is an httptest-backed stand-in for the storefront backend. It
// keeps a mutable cart aggregate and counts calls per endpoint.
type fakeAPI struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.Mutex
	user     User
	cart     CartAggregate
	products map[uint]Product
	calls    map[string]int

	orderResponse   func(w http.ResponseWriter, r *http.Request)
	restoreStatus   int
	restoredItems   []CartItem
	lastOrderFields map[string]string
}

func newFakeAPI(t *testing.T) *fakeAPI {
	f := &fakeAPI{
		t:             t,
		user:          User{UserID: 1, FirstName: "Jane", Email: "jane@example.com"},
		products:      make(map[uint]Product),
		calls:         make(map[string]int),
		restoreStatus: http.StatusOK,
	}
	f.cart = CartAggregate{UserID: 1}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		f.count("me")
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		f.writeJSON(w, f.user)
	})
	mux.HandleFunc("GET /cart/getcart/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.count("getcart")
		f.mu.Lock()
		defer f.mu.Unlock()
		f.writeJSON(w, f.cart)
	})
	mux.HandleFunc("GET /products/product/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.count("product")
		id, _ := strconv.ParseUint(r.PathValue("id"), 10, 64)
		f.mu.Lock()
		product, ok := f.products[uint(id)]
		f.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			f.writeJSON(w, map[string]string{"error": "Product not found"})
			return
		}
		f.writeJSON(w, product)
	})
	mux.HandleFunc("PUT /cart/updatetotalprice", func(w http.ResponseWriter, r *http.Request) {
		f.count("updatetotalprice")
		var in struct {
			TotalPrice float64 `json:"total_price"`
		}
		json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		f.cart.TotalPrice = in.TotalPrice
		out := f.cart
		f.mu.Unlock()
		f.writeJSON(w, out)
	})
	mux.HandleFunc("PUT /cart/updatecartitem", func(w http.ResponseWriter, r *http.Request) {
		f.count("updatecartitem")
		var in struct {
			ProductID uint `json:"product_id"`
			Quantity  int  `json:"quantity"`
		}
		json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		for i := range f.cart.Items {
			if f.cart.Items[i].ProductID == in.ProductID {
				f.cart.Items[i].Quantity = in.Quantity
			}
		}
		out := f.cart
		f.mu.Unlock()
		f.writeJSON(w, out)
	})
	mux.HandleFunc("DELETE /cart/removefromcart", func(w http.ResponseWriter, r *http.Request) {
		f.count("removefromcart")
		var in struct {
			ProductID uint `json:"product_id"`
		}
		json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		var kept []CartItem
		for _, item := range f.cart.Items {
			if item.ProductID != in.ProductID {
				kept = append(kept, item)
			}
		}
		f.cart.Items = kept
		out := f.cart
		f.mu.Unlock()
		f.writeJSON(w, out)
	})
	mux.HandleFunc("DELETE /cart/clearcart/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.count("clearcart")
		f.mu.Lock()
		f.cart.Items = nil
		f.cart.TotalPrice = 0
		f.mu.Unlock()
		f.writeJSON(w, map[string]string{"message": "Cart cleared"})
	})
	mux.HandleFunc("GET /cart/count", func(w http.ResponseWriter, r *http.Request) {
		f.count("count")
		f.mu.Lock()
		total := 0
		for _, item := range f.cart.Items {
			total += item.Quantity
		}
		f.mu.Unlock()
		f.writeJSON(w, map[string]int{"count": total})
	})
	mux.HandleFunc("POST /orders/create", func(w http.ResponseWriter, r *http.Request) {
		f.count("createorder")
		r.ParseMultipartForm(16 << 20)
		f.mu.Lock()
		f.lastOrderFields = make(map[string]string)
		for key, values := range r.MultipartForm.Value {
			f.lastOrderFields[key] = values[0]
		}
		f.mu.Unlock()
		if f.orderResponse != nil {
			f.orderResponse(w, r)
			return
		}
		f.writeJSON(w, map[string]interface{}{
			"order": PlacedOrder{OrderID: 77, OrderRef: "ref-77", Status: "pending"},
		})
	})
	mux.HandleFunc("POST /cart/restore", func(w http.ResponseWriter, r *http.Request) {
		f.count("restore")
		var in struct {
			Items []CartItem `json:"items"`
		}
		json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		f.restoredItems = in.Items
		status := f.restoreStatus
		f.mu.Unlock()
		if status != http.StatusOK {
			w.WriteHeader(status)
			f.writeJSON(w, map[string]string{"error": "restore failed"})
			return
		}
		f.writeJSON(w, map[string]string{"message": "restored"})
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAPI) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (f *fakeAPI) count(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeAPI) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) addProduct(id uint, price float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[id] = Product{
		ProductID: id,
		Name:      fmt.Sprintf("Product %d", id),
		Price:     price,
		Status:    "active",
	}
}

func (f *fakeAPI) setCartItems(items ...CartItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cart.Items = items
}

func (f *fakeAPI) client() *Client {
	return New(f.server.URL, "test-token")
}

// orderFailure makes order creation answer with the given status and error
// message.
func (f *fakeAPI) orderFailure(status int, message string) {
	f.orderResponse = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		f.writeJSON(w, map[string]string{"error": message})
	}
}

// orderSuccessWithoutOrder answers 200 with a body missing the order object.
func (f *fakeAPI) orderSuccessWithoutOrder() {
	f.orderResponse = func(w http.ResponseWriter, r *http.Request) {
		f.writeJSON(w, map[string]string{"message": "accepted"})
	}
}

func itemsByProduct(items []ResolvedItem) map[uint]ResolvedItem {
	out := make(map[uint]ResolvedItem, len(items))
	for _, item := range items {
		out[item.Product.ProductID] = item
	}
	return out
}

func hasItem(items []ResolvedItem, productID uint) bool {
	_, ok := itemsByProduct(items)[productID]
	return ok
}
