package userControllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/SajanaWickramarathna/CSdrop-sub000/models"
	"github.com/SajanaWickramarathna/CSdrop-sub000/testutil"
)

func doJSON(t *testing.T, r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doForm(t *testing.T, r http.Handler, method, path, token string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, mw.WriteField(key, value))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetMe(t *testing.T) {
	r, db := testutil.SetupRouter(t)
	user := testutil.CreateUser(t, db, "me@example.com", models.RoleCustomer)

	w := doJSON(t, r, http.MethodGet, "/api/users/me", testutil.Token(t, user), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, user.UserID, got.UserID)
	assert.Equal(t, "me@example.com", got.Email)

	w = doJSON(t, r, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListUsersWithRoleFilter(t *testing.T) {
	r, db := testutil.SetupRouter(t)
	admin := testutil.CreateUser(t, db, "admin@example.com", models.RoleAdmin)
	testutil.CreateUser(t, db, "c1@example.com", models.RoleCustomer)
	testutil.CreateUser(t, db, "c2@example.com", models.RoleCustomer)

	token := testutil.Token(t, admin)
	w := doJSON(t, r, http.MethodGet, "/api/users?role=customer", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users []models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	assert.Len(t, users, 2)

	w = doJSON(t, r, http.MethodGet, "/api/users?role=wizard", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListUsersForbiddenForCustomers(t *testing.T) {
	r, db := testutil.SetupRouter(t)
	customer := testutil.CreateUser(t, db, "cust@example.com", models.RoleCustomer)

	w := doJSON(t, r, http.MethodGet, "/api/users", testutil.Token(t, customer), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminCreatesUserWithRole(t *testing.T) {
	r, db := testutil.SetupRouter(t)
	admin := testutil.CreateUser(t, db, "admin@example.com", models.RoleAdmin)

	w := doForm(t, r, http.MethodPost, "/api/users/create", testutil.Token(t, admin), map[string]string{
		"firstname": "Dana",
		"email":     "dana@example.com",
		"password":  "secret123",
		"role":      "deliverer",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, models.RoleDeliverer, created.Role)

	// staff accounts do not get carts
	var count int64
	require.NoError(t, db.Model(&models.Cart{}).Where("user_id = ?", created.UserID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestAdminCreatesCustomerWithCart(t *testing.T) {
	r, db := testutil.SetupRouter(t)
	admin := testutil.CreateUser(t, db, "admin@example.com", models.RoleAdmin)

	w := doForm(t, r, http.MethodPost, "/api/users/create", testutil.Token(t, admin), map[string]string{
		"firstname": "Cole",
		"email":     "cole@example.com",
		"password":  "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, models.RoleCustomer, created.Role)

	var cart models.Cart
	assert.NoError(t, db.Where("user_id = ?", created.UserID).First(&cart).Error)
}

func TestUpdateOwnProfile(t *testing.T) {
	r, db := testutil.SetupRouter(t)
	user := testutil.CreateUser(t, db, "me@example.com", models.RoleCustomer)

	w := doForm(t, r, http.MethodPut, "/api/users/update", testutil.Token(t, user), map[string]string{
		"firstname": "Updated",
		"phone":     "+94770000000",
		"password":  "newpass456",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored models.User
	require.NoError(t, db.First(&stored, "user_id = ?", user.UserID).Error)
	assert.Equal(t, "Updated", stored.FirstName)
	assert.Equal(t, "+94770000000", stored.Phone)
	assert.Equal(t, "User", stored.LastName, "untouched fields preserved")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("newpass456")))
}

func TestDeactivateUser(t *testing.T) {
	r, db := testutil.SetupRouter(t)
	admin := testutil.CreateUser(t, db, "admin@example.com", models.RoleAdmin)
	target := testutil.CreateUser(t, db, "target@example.com", models.RoleCustomer)

	w := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/users/status/%d", target.UserID),
		testutil.Token(t, admin), map[string]string{"status": "inactive"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored models.User
	require.NoError(t, db.First(&stored, "user_id = ?", target.UserID).Error)
	assert.Equal(t, models.UserStatusInactive, stored.Status)
}

func TestDeleteUserRemovesCart(t *testing.T) {
	r, db := testutil.SetupRouter(t)
	admin := testutil.CreateUser(t, db, "admin@example.com", models.RoleAdmin)
	target := testutil.CreateUser(t, db, "target@example.com", models.RoleCustomer)
	product := testutil.CreateCatalog(t, db, "Thing", 10, 5)

	var cart models.Cart
	require.NoError(t, db.Where("user_id = ?", target.UserID).First(&cart).Error)
	require.NoError(t, db.Create(&models.CartItem{CartID: cart.CartID, ProductID: product.ProductID, Quantity: 1}).Error)

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/users/delete/%d", target.UserID),
		testutil.Token(t, admin), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var userCount, cartCount, itemCount int64
	db.Model(&models.User{}).Where("user_id = ?", target.UserID).Count(&userCount)
	db.Model(&models.Cart{}).Where("user_id = ?", target.UserID).Count(&cartCount)
	db.Model(&models.CartItem{}).Where("cart_id = ?", cart.CartID).Count(&itemCount)
	assert.Zero(t, userCount)
	assert.Zero(t, cartCount)
	assert.Zero(t, itemCount)
}
