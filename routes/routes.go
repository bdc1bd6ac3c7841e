package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"toolmart/config"
	"toolmart/db"
	"toolmart/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust this for production
	},
}

// Connected clients map with mutex for thread safety
var clients = make(map[*websocket.Conn]bool)
var broadcast = make(chan []byte, 100) // Buffered channel to prevent blocking
var mutex = &sync.Mutex{}
var validate = validator.New()

// Admin session tokens, process-lifetime only
var sessions = make(map[string]bool)
var sessionMu = &sync.Mutex{}

// Allowed image extensions, case-sensitive on the original filename
var imageNamePattern = regexp.MustCompile(`\.(jpg|jpeg|png|gif)$`)

type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

func SetupRoutes(app *fiber.App) {

	wsHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error().Err(err).Msg("Error upgrading websocket")
			return
		}
		defer conn.Close()

		mutex.Lock()
		clients[conn] = true
		mutex.Unlock()
		log.Info().Stringer("addr", conn.RemoteAddr()).Msg("Order feed client connected")

		// Readers only consume the feed; any read error drops the client
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Warn().Err(err).Msg("WebSocket read error")
				}
				mutex.Lock()
				delete(clients, conn)
				mutex.Unlock()
				log.Info().Stringer("addr", conn.RemoteAddr()).Msg("Order feed client disconnected")
				break
			}
		}
	})

	// Handle broadcasting order events to all clients
	go func() {
		for message := range broadcast {
			mutex.Lock()
			for client := range clients {
				err := client.WriteMessage(websocket.TextMessage, message)
				if err != nil {
					log.Warn().Err(err).Msg("WebSocket write error")
					client.Close()
					delete(clients, client)
				}
			}
			mutex.Unlock()
		}
	}()

	// Mount WebSocket endpoint
	app.Get("/ws", wsHandler)

	api := app.Group("/api")

	api.Post("/login", loginHandler)
	api.Post("/logout", logoutHandler)
	api.Get("/session", sessionHandler)

	// Category routes
	categories := api.Group("/categories")
	categories.Get("/", getAllCategories)
	categories.Post("/", createCategory)

	// Brand routes
	brands := api.Group("/brands")
	brands.Get("/", getAllBrands)
	brands.Post("/", createBrand)

	// Product routes
	products := api.Group("/products")
	products.Get("/", getAllProducts)
	products.Post("/", createProduct)
	products.Put("/:id", updateProduct)
	products.Delete("/:id", deleteProduct)

	// Order routes
	orders := api.Group("/orders")
	orders.Get("/", getAllOrders)
	orders.Post("/", createOrder)
	orders.Put("/:id/status", updateOrderStatus)
}

var errBadImageName = errors.New("disallowed image extension")
var errInvalidProduct = errors.New("invalid product fields")

// saveImage validates the uploaded filename, stores the file under the
// uploads directory with a generated name, and returns the public path.
func saveImage(c *fiber.Ctx, file *multipart.FileHeader) (string, error) {
	if !imageNamePattern.MatchString(file.Filename) {
		return "", errBadImageName
	}

	// Millis-random prefix keeps concurrent uploads from colliding
	filename := fmt.Sprintf("%d-%d%s", time.Now().UnixMilli(), rand.Intn(1_000_000_000), filepath.Ext(file.Filename))
	if err := c.SaveFile(file, filepath.Join(config.AppConfig.UploadsDir, filename)); err != nil {
		return "", err
	}

	return "/uploads/" + filename, nil
}

// removeImage unlinks a stored image by its public path. Best-effort: a
// failure is logged and never aborts the operation that triggered it.
func removeImage(publicPath string) {
	name := strings.TrimPrefix(publicPath, "/uploads/")
	if name == "" || name == publicPath {
		return
	}
	if err := os.Remove(filepath.Join(config.AppConfig.UploadsDir, name)); err != nil {
		log.Warn().Err(err).Str("image", publicPath).Msg("Failed to remove image file")
	}
}

func broadcastOrder(order models.Order) {
	message, err := json.Marshal(order)
	if err != nil {
		return
	}
	select {
	case broadcast <- message:
	default:
		log.Warn().Int("order_id", order.ID).Msg("Order feed backlog full, dropping event")
	}
}

func loginHandler(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Password is required",
		})
	}

	if req.Password != config.AppConfig.AdminPassword {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid password",
		})
	}

	token := uuid.New().String()
	sessionMu.Lock()
	sessions[token] = true
	sessionMu.Unlock()

	return c.JSON(LoginResponse{
		Message: "Login successful",
		Token:   token,
	})
}

func logoutHandler(c *fiber.Ctx) error {
	token := c.Get("X-Session-Token")

	sessionMu.Lock()
	delete(sessions, token)
	sessionMu.Unlock()

	return c.JSON(fiber.Map{
		"success": true,
	})
}

func sessionHandler(c *fiber.Ctx) error {
	token := c.Get("X-Session-Token")

	sessionMu.Lock()
	authenticated := sessions[token]
	sessionMu.Unlock()

	return c.JSON(fiber.Map{
		"authenticated": authenticated,
	})
}

// GetAllCategories - GET /api/categories
func getAllCategories(c *fiber.Ctx) error {
	categories, err := db.Categories.All()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load categories")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get categories",
		})
	}

	return c.JSON(categories)
}

// CreateCategory - POST /api/categories
func createCategory(c *fiber.Ctx) error {
	category := new(models.Category)

	if err := c.BodyParser(category); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}

	if err := validate.Struct(category); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name field is required",
		})
	}

	err := db.Categories.Mutate(func(items []models.Category) ([]models.Category, error) {
		category.ID = db.NextID(items)
		return append(items, *category), nil
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create category")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create category",
		})
	}

	return c.JSON(category)
}

// GetAllBrands - GET /api/brands
func getAllBrands(c *fiber.Ctx) error {
	brands, err := db.Brands.All()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load brands")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get brands",
		})
	}

	return c.JSON(brands)
}

// CreateBrand - POST /api/brands
func createBrand(c *fiber.Ctx) error {
	brand := new(models.Brand)

	if err := c.BodyParser(brand); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}

	if err := validate.Struct(brand); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name field is required",
		})
	}

	err := db.Brands.Mutate(func(items []models.Brand) ([]models.Brand, error) {
		brand.ID = db.NextID(items)
		return append(items, *brand), nil
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create brand")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create brand",
		})
	}

	return c.JSON(brand)
}

// GetAllProducts - GET /api/products
func getAllProducts(c *fiber.Ctx) error {
	products, err := db.Products.All()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load products")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get products",
		})
	}

	return c.JSON(products)
}

// CreateProduct - POST /api/products (multipart: data + image)
func createProduct(c *fiber.Ctx) error {
	product := new(models.Product)
	if err := json.Unmarshal([]byte(c.FormValue("data")), product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse product data",
		})
	}

	if err := validate.Struct(product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name field is required",
		})
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Image file is required",
		})
	}

	imagePath, err := saveImage(c, file)
	if errors.Is(err, errBadImageName) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only image files (jpg, jpeg, png, gif) can be uploaded",
		})
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to store uploaded image")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to store uploaded image",
		})
	}
	product.Image = imagePath

	err = db.Products.Mutate(func(items []models.Product) ([]models.Product, error) {
		product.ID = db.NextID(items)
		return append(items, *product), nil
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create product")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create product",
		})
	}

	return c.JSON(product)
}

// UpdateProduct - PUT /api/products/:id (multipart: data + optional image)
func updateProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid product ID",
		})
	}

	// The partial payload is syntax-checked up front so a malformed body is
	// rejected before any file or record is touched
	data := c.FormValue("data")
	if data != "" {
		if err := json.Unmarshal([]byte(data), new(models.Product)); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Failed to parse product data",
			})
		}
	}

	// Optional replacement image is stored before the record is touched; an
	// upload with no matching record leaves an orphan file, same as before
	newImage := ""
	if file, ferr := c.FormFile("image"); ferr == nil {
		newImage, err = saveImage(c, file)
		if errors.Is(err, errBadImageName) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Only image files (jpg, jpeg, png, gif) can be uploaded",
			})
		}
		if err != nil {
			log.Error().Err(err).Msg("Failed to store uploaded image")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to store uploaded image",
			})
		}
	}

	var updated models.Product
	oldImage := ""
	err = db.Products.Mutate(func(items []models.Product) ([]models.Product, error) {
		for i := range items {
			if items[i].ID != id {
				continue
			}
			// Shallow merge: decode the partial payload over a copy of the
			// stored record, id preserved
			updated = items[i]
			if data != "" {
				if uerr := json.Unmarshal([]byte(data), &updated); uerr != nil {
					return nil, fmt.Errorf("parse product data: %w", uerr)
				}
			}
			updated.ID = id
			if newImage != "" {
				oldImage = items[i].Image
				updated.Image = newImage
			}
			// The merged record must still satisfy the same rules as a create
			if verr := validate.Struct(&updated); verr != nil {
				return nil, errInvalidProduct
			}
			items[i] = updated
			return items, nil
		}
		return nil, db.ErrNotFound
	})
	if errors.Is(err, db.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Product not found",
		})
	}
	if errors.Is(err, errInvalidProduct) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Product fields are invalid",
		})
	}
	if err != nil {
		log.Error().Err(err).Int("id", id).Msg("Failed to update product")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update product",
		})
	}

	// Old image is only unlinked after the new record is committed
	if oldImage != "" {
		removeImage(oldImage)
	}

	return c.JSON(updated)
}

// DeleteProduct - DELETE /api/products/:id
func deleteProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid product ID",
		})
	}

	var removed models.Product
	err = db.Products.Mutate(func(items []models.Product) ([]models.Product, error) {
		for i := range items {
			if items[i].ID == id {
				removed = items[i]
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, db.ErrNotFound
	})
	if errors.Is(err, db.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Product not found",
		})
	}
	if err != nil {
		log.Error().Err(err).Int("id", id).Msg("Failed to delete product")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete product",
		})
	}

	if removed.Image != "" {
		removeImage(removed.Image)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product deleted successfully",
	})
}

// GetAllOrders - GET /api/orders
func getAllOrders(c *fiber.Ctx) error {
	orders, err := db.Orders.All()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load orders")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get orders",
		})
	}

	return c.JSON(orders)
}

// CreateOrder - POST /api/orders
func createOrder(c *fiber.Ctx) error {
	order := new(models.Order)

	if err := c.BodyParser(order); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}

	if err := validate.Struct(order); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	err := db.Orders.Mutate(func(items []models.Order) ([]models.Order, error) {
		order.ID = db.NextID(items)
		return append(items, *order), nil
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create order")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create order",
		})
	}

	broadcastOrder(*order)

	return c.JSON(order)
}

// UpdateOrderStatus - PUT /api/orders/:id/status
func updateOrderStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid order ID",
		})
	}

	var req StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}

	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Status must be one of pending, approved, rejected",
		})
	}

	var updated models.Order
	err = db.Orders.Mutate(func(items []models.Order) ([]models.Order, error) {
		for i := range items {
			if items[i].ID == id {
				// Status is the only mutable field on an order
				items[i].Status = req.Status
				updated = items[i]
				return items, nil
			}
		}
		return nil, db.ErrNotFound
	})
	if errors.Is(err, db.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Order not found",
		})
	}
	if err != nil {
		log.Error().Err(err).Int("id", id).Msg("Failed to update order status")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update order status",
		})
	}

	broadcastOrder(updated)

	return c.JSON(updated)
}
