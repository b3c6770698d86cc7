package brandController_test

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

	"github.com/SajanaWickramarathna/CSdrop-sub000/models"
	"github.com/SajanaWickramarathna/CSdrop-sub000/testutil"
)

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
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateAndListBrands(t *testing.T) {
	r, db := testutil.SetupRouter(t)
	admin := testutil.CreateUser(t, db, "admin@example.com", models.RoleAdmin)
	token := testutil.Token(t, admin)

	w := doForm(t, r, http.MethodPost, "/api/brands/create", token,
		map[string]string{"name": "Acme", "description": "Tools"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/brands", nil)
	list := httptest.NewRecorder()
	r.ServeHTTP(list, req)
	require.Equal(t, http.StatusOK, list.Code)

	var brands []models.Brand
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &brands))
	require.Len(t, brands, 1)
	assert.Equal(t, "Acme", brands[0].Name)
}

func TestCreateBrandRequiresStaff(t *testing.T) {
	r, db := testutil.SetupRouter(t)
	customer := testutil.CreateUser(t, db, "cust@example.com", models.RoleCustomer)

	w := doForm(t, r, http.MethodPost, "/api/brands/create", testutil.Token(t, customer),
		map[string]string{"name": "Acme"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteBrandBlockedWhileReferenced(t *testing.T) {
	r, db := testutil.SetupRouter(t)
	admin := testutil.CreateUser(t, db, "admin@example.com", models.RoleAdmin)
	token := testutil.Token(t, admin)
	product := testutil.CreateCatalog(t, db, "Drill", 99, 3)

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/brands/delete/%d", product.BrandID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusConflict, w.Code)

	// once the product is gone the brand can be removed
	require.NoError(t, db.Unscoped().Delete(&models.Product{}, "product_id = ?", product.ProductID).Error)
	req = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/brands/delete/%d", product.BrandID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
