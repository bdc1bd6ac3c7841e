package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"toolmart/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubServer fakes just enough of the backend surface for gateway tests.
func stubServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode([]models.Category{{ID: 1, Name: "Tools"}})
		case http.MethodPost:
			var category models.Category
			require.NoError(t, json.NewDecoder(r.Body).Decode(&category))
			category.ID = 2
			json.NewEncoder(w).Encode(category)
		}
	})

	mux.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		var product models.Product
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("data")), &product))

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		file.Close()

		product.ID = 1
		product.Image = "/uploads/123-456" + header.Filename[strings.LastIndex(header.Filename, "."):]
		json.NewEncoder(w).Encode(product)
	})

	mux.HandleFunc("/api/products/9", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Product not found"})
	})

	mux.HandleFunc("/api/orders/1/status", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Status string `json:"status"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(models.Order{ID: 1, Status: req.Status})
	})

	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Invalid password"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-1", "message": "Login successful"})
	})

	mux.HandleFunc("/api/session", func(w http.ResponseWriter, r *http.Request) {
		authenticated := r.Header.Get("X-Session-Token") == "tok-1"
		json.NewEncoder(w).Encode(map[string]bool{"authenticated": authenticated})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchAndCreateCategories(t *testing.T) {
	c := New(stubServer(t).URL)

	categories, err := c.FetchCategories()
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Tools", categories[0].Name)

	created, err := c.CreateCategory(models.Category{Name: "Parts"})
	require.NoError(t, err)
	assert.Equal(t, 2, created.ID)
}

func TestCreateProductSendsMultipart(t *testing.T) {
	c := New(stubServer(t).URL)

	created, err := c.CreateProduct(
		models.Product{Name: "Hammer", Price: 19.9},
		"a.png", strings.NewReader("image bytes"))
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, "/uploads/123-456.png", created.Image)
}

func TestAPIErrorCarriesServerMessage(t *testing.T) {
	c := New(stubServer(t).URL)

	err := c.DeleteProduct(9)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Product not found", apiErr.Message)
}

func TestUpdateOrderStatus(t *testing.T) {
	c := New(stubServer(t).URL)

	updated, err := c.UpdateOrderStatus(1, models.OrderStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusApproved, updated.Status)
}

func TestLoginAttachesSessionToken(t *testing.T) {
	c := New(stubServer(t).URL)

	err := c.Login("nope")
	require.Error(t, err)

	require.NoError(t, c.Login("secret"))
	authenticated, err := c.CheckSession()
	require.NoError(t, err)
	assert.True(t, authenticated)
}

func TestAdminStoreLocalOnlyCategoryEdits(t *testing.T) {
	c := New(stubServer(t).URL)
	store := NewAdminStore(c)

	require.NoError(t, store.LoadCategories())
	require.Len(t, store.Categories, 1)

	store.UpdateCategory(models.Category{ID: 1, Name: "Renamed"})
	assert.Equal(t, "Renamed", store.Categories[0].Name)

	store.DeleteCategory(1)
	assert.Empty(t, store.Categories)

	// The backend never saw either edit; a reload restores server state
	require.NoError(t, store.LoadCategories())
	require.Len(t, store.Categories, 1)
	assert.Equal(t, "Tools", store.Categories[0].Name)
}
