package client

import (
	"io"

	"toolmart/models"
)

// AdminStore caches the four collections for an admin UI and funnels
// mutations through the gateway client.
//
// NOTE: UpdateCategory, DeleteCategory, UpdateBrand and DeleteBrand mutate
// only the local cache. The backend exposes no update/delete endpoints for
// categories and brands, so those edits vanish on the next Load. Kept as-is
// pending a decision on whether the endpoints are a missing feature.
type AdminStore struct {
	client *Client

	Categories []models.Category
	Brands     []models.Brand
	Products   []models.Product
	Orders     []models.Order
}

func NewAdminStore(c *Client) *AdminStore {
	return &AdminStore{client: c}
}

func (s *AdminStore) LoadCategories() error {
	categories, err := s.client.FetchCategories()
	if err != nil {
		return err
	}
	s.Categories = categories
	return nil
}

func (s *AdminStore) LoadBrands() error {
	brands, err := s.client.FetchBrands()
	if err != nil {
		return err
	}
	s.Brands = brands
	return nil
}

func (s *AdminStore) LoadProducts() error {
	products, err := s.client.FetchProducts()
	if err != nil {
		return err
	}
	s.Products = products
	return nil
}

func (s *AdminStore) LoadOrders() error {
	orders, err := s.client.FetchOrders()
	if err != nil {
		return err
	}
	s.Orders = orders
	return nil
}

func (s *AdminStore) AddCategory(category models.Category) error {
	created, err := s.client.CreateCategory(category)
	if err != nil {
		return err
	}
	s.Categories = append(s.Categories, created)
	return nil
}

// UpdateCategory replaces the cached category only; nothing is persisted.
func (s *AdminStore) UpdateCategory(category models.Category) {
	for i := range s.Categories {
		if s.Categories[i].ID == category.ID {
			s.Categories[i] = category
			return
		}
	}
}

// DeleteCategory removes the cached category only; nothing is persisted.
func (s *AdminStore) DeleteCategory(id int) {
	for i := range s.Categories {
		if s.Categories[i].ID == id {
			s.Categories = append(s.Categories[:i], s.Categories[i+1:]...)
			return
		}
	}
}

func (s *AdminStore) AddBrand(brand models.Brand) error {
	created, err := s.client.CreateBrand(brand)
	if err != nil {
		return err
	}
	s.Brands = append(s.Brands, created)
	return nil
}

// UpdateBrand replaces the cached brand only; nothing is persisted.
func (s *AdminStore) UpdateBrand(brand models.Brand) {
	for i := range s.Brands {
		if s.Brands[i].ID == brand.ID {
			s.Brands[i] = brand
			return
		}
	}
}

// DeleteBrand removes the cached brand only; nothing is persisted.
func (s *AdminStore) DeleteBrand(id int) {
	for i := range s.Brands {
		if s.Brands[i].ID == id {
			s.Brands = append(s.Brands[:i], s.Brands[i+1:]...)
			return
		}
	}
}

func (s *AdminStore) AddProduct(product models.Product, imageName string, image io.Reader) error {
	created, err := s.client.CreateProduct(product, imageName, image)
	if err != nil {
		return err
	}
	s.Products = append(s.Products, created)
	return nil
}

func (s *AdminStore) UpdateProduct(product models.Product, imageName string, image io.Reader) error {
	updated, err := s.client.UpdateProduct(product, imageName, image)
	if err != nil {
		return err
	}
	for i := range s.Products {
		if s.Products[i].ID == updated.ID {
			s.Products[i] = updated
			return nil
		}
	}
	return nil
}

func (s *AdminStore) DeleteProduct(id int) error {
	if err := s.client.DeleteProduct(id); err != nil {
		return err
	}
	for i := range s.Products {
		if s.Products[i].ID == id {
			s.Products = append(s.Products[:i], s.Products[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *AdminStore) UpdateOrderStatus(id int, status string) error {
	updated, err := s.client.UpdateOrderStatus(id, status)
	if err != nil {
		return err
	}
	for i := range s.Orders {
		if s.Orders[i].ID == id {
			s.Orders[i].Status = updated.Status
			return nil
		}
	}
	return nil
}
