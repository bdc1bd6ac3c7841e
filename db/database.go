package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"toolmart/models"

	"github.com/rs/zerolog/log"
)

// ErrNotFound is returned when a record id is absent from its collection.
var ErrNotFound = errors.New("record not found")

var (
	Categories *Collection[models.Category]
	Brands     *Collection[models.Brand]
	Products   *Collection[models.Product]
	Orders     *Collection[models.Order]
)

func InitDatabase(dataDir string) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatal().Err(err).Str("dir", dataDir).Msg("Failed to create data directory")
	}

	Categories = NewCollection[models.Category](filepath.Join(dataDir, "categories.json"))
	Brands = NewCollection[models.Brand](filepath.Join(dataDir, "brands.json"))
	Products = NewCollection[models.Product](filepath.Join(dataDir, "products.json"))
	Orders = NewCollection[models.Order](filepath.Join(dataDir, "orders.json"))

	// Seed each collection file with an empty array on first boot
	for _, path := range []string{Categories.path, Brands.path, Products.path, Orders.path} {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte("[]"), 0644); err != nil {
				log.Fatal().Err(err).Str("file", path).Msg("Failed to initialize collection file")
			}
		}
	}

	log.Info().Str("dir", dataDir).Msg("Data files ready")
}

type Record interface {
	RecordID() int
}

// NextID returns 1 for an empty collection, otherwise max(id)+1. Only safe
// under the collection mutex held by Mutate.
func NextID[T Record](items []T) int {
	next := 1
	for _, item := range items {
		if id := item.RecordID(); id >= next {
			next = id + 1
		}
	}
	return next
}

// Collection is one JSON array file. The mutex serializes every
// read-modify-write cycle so concurrent requests cannot lose updates or
// allocate duplicate ids.
type Collection[T Record] struct {
	path string
	mu   sync.Mutex
}

func NewCollection[T Record](path string) *Collection[T] {
	return &Collection[T]{path: path}
}

// All returns the full collection as stored, or an empty slice if the file
// does not exist yet.
func (c *Collection[T]) All() ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

// Mutate runs fn over the current collection contents under the collection
// lock and persists whatever fn returns. An error from fn aborts the write.
func (c *Collection[T]) Mutate(fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load()
	if err != nil {
		return err
	}
	items, err = fn(items)
	if err != nil {
		return err
	}
	return c.save(items)
}

func (c *Collection[T]) load() ([]T, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.path, err)
	}

	items := []T{}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse %s: %w", c.path, err)
	}
	return items, nil
}

// save writes pretty-printed JSON to a temp file and renames it over the
// collection file, so readers never observe a partial write.
func (c *Collection[T]) save(items []T) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(c.path), err)
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.path, err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replace %s: %w", c.path, err)
	}
	return nil
}
