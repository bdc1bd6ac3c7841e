// Package client is a typed gateway over the toolmart HTTP API, covering the
// catalog and ordering endpoints plus the admin session handshake.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"toolmart/models"
)

// APIError is a server-reported failure, decoded from the {"error": ...}
// body the API returns on every failed request.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	token string
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{},
	}
}

// do issues a request and decodes the JSON response into out (if non-nil).
// Non-2xx responses come back as *APIError.
func (c *Client) do(method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("X-Session-Token", c.token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: "request failed"}
		var failure struct {
			Error string `json:"error"`
		}
		if derr := json.NewDecoder(resp.Body).Decode(&failure); derr == nil && failure.Error != "" {
			apiErr.Message = failure.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) getJSON(path string, out any) error {
	return c.do(http.MethodGet, path, nil, "", out)
}

func (c *Client) postJSON(path string, in, out any) error {
	return c.sendJSON(http.MethodPost, path, in, out)
}

func (c *Client) sendJSON(method, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.do(method, path, bytes.NewReader(body), "application/json", out)
}

// productForm builds the multipart body the product endpoints expect: a
// "data" field with the product JSON and an optional "image" file part.
func productForm(product models.Product, imageName string, image io.Reader) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	data, err := json.Marshal(product)
	if err != nil {
		return nil, "", err
	}
	if err := w.WriteField("data", string(data)); err != nil {
		return nil, "", err
	}

	if image != nil {
		part, err := w.CreateFormFile("image", imageName)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, image); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

func (c *Client) FetchCategories() ([]models.Category, error) {
	var categories []models.Category
	err := c.getJSON("/api/categories", &categories)
	return categories, err
}

func (c *Client) CreateCategory(category models.Category) (models.Category, error) {
	var created models.Category
	err := c.postJSON("/api/categories", category, &created)
	return created, err
}

func (c *Client) FetchBrands() ([]models.Brand, error) {
	var brands []models.Brand
	err := c.getJSON("/api/brands", &brands)
	return brands, err
}

func (c *Client) CreateBrand(brand models.Brand) (models.Brand, error) {
	var created models.Brand
	err := c.postJSON("/api/brands", brand, &created)
	return created, err
}

func (c *Client) FetchProducts() ([]models.Product, error) {
	var products []models.Product
	err := c.getJSON("/api/products", &products)
	return products, err
}

// CreateProduct uploads a new product; the image is required by the server.
func (c *Client) CreateProduct(product models.Product, imageName string, image io.Reader) (models.Product, error) {
	body, contentType, err := productForm(product, imageName, image)
	if err != nil {
		return models.Product{}, err
	}

	var created models.Product
	err = c.do(http.MethodPost, "/api/products", body, contentType, &created)
	return created, err
}

// UpdateProduct sends a partial or full product; pass a nil image reader to
// keep the stored one.
func (c *Client) UpdateProduct(product models.Product, imageName string, image io.Reader) (models.Product, error) {
	body, contentType, err := productForm(product, imageName, image)
	if err != nil {
		return models.Product{}, err
	}

	var updated models.Product
	err = c.do(http.MethodPut, fmt.Sprintf("/api/products/%d", product.ID), body, contentType, &updated)
	return updated, err
}

func (c *Client) DeleteProduct(id int) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/api/products/%d", id), nil, "", nil)
}

func (c *Client) FetchOrders() ([]models.Order, error) {
	var orders []models.Order
	err := c.getJSON("/api/orders", &orders)
	return orders, err
}

func (c *Client) CreateOrder(order models.Order) (models.Order, error) {
	var created models.Order
	err := c.postJSON("/api/orders", order, &created)
	return created, err
}

func (c *Client) UpdateOrderStatus(id int, status string) (models.Order, error) {
	var updated models.Order
	err := c.sendJSON(http.MethodPut, fmt.Sprintf("/api/orders/%d/status", id), map[string]string{"status": status}, &updated)
	return updated, err
}

// Login verifies the admin password with the server and keeps the issued
// session token for subsequent requests.
func (c *Client) Login(password string) error {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.postJSON("/api/login", map[string]string{"password": password}, &resp); err != nil {
		return err
	}
	c.token = resp.Token
	return nil
}

func (c *Client) Logout() error {
	if err := c.do(http.MethodPost, "/api/logout", nil, "", nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

func (c *Client) CheckSession() (bool, error) {
	var resp struct {
		Authenticated bool `json:"authenticated"`
	}
	err := c.getJSON("/api/session", &resp)
	return resp.Authenticated, err
}
