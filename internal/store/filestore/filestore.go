// Package filestore keeps each collection in a pretty-printed JSON file
// under a data directory, seeding missing files on open. Every operation
// reads and rewrites a whole file under the store mutex, so within one
// process two writers cannot clobber each other.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/minimarket/storefront/internal/models"
	"github.com/minimarket/storefront/internal/store"
)

const (
	usersFile = "users.json"
	itemsFile = "items.json"
	cartsFile = "carts.json"
)

var seedItems = []models.Item{
	{ID: "1", Name: "T-Shirt", Price: 199, Category: "clothing", Description: "Comfortable cotton t-shirt"},
	{ID: "2", Name: "Jeans", Price: 799, Category: "clothing", Description: "Blue slim jeans"},
	{ID: "3", Name: "Headphones", Price: 1299, Category: "electronics", Description: "Over-ear headphones"},
	{ID: "4", Name: "Coffee Mug", Price: 149, Category: "home", Description: "Ceramic mug 350ml"},
}

// userRecord is the on-disk user shape. models.User hides the hash
// from API JSON, so persisting it here needs an explicit field.
type userRecord struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
}

type Store struct {
	dir string
	mu  sync.Mutex
}

func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &Store{dir: dir}

	if err := s.initFile(usersFile, []userRecord{}); err != nil {
		return nil, err
	}
	if err := s.initFile(itemsFile, seedItems); err != nil {
		return nil, err
	}
	if err := s.initFile(cartsFile, map[string][]models.CartEntry{}); err != nil {
		return nil, err
	}

	// A present but corrupt file fails open, not the first request.
	if err := s.readFile(usersFile, &[]userRecord{}); err != nil {
		return nil, err
	}
	if err := s.readFile(itemsFile, &[]models.Item{}); err != nil {
		return nil, err
	}
	if err := s.readFile(cartsFile, &map[string][]models.CartEntry{}); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) initFile(name string, seed any) error {
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", name, err)
	}
	return s.writeFile(name, seed)
}

func (s *Store) readFile(name string, out any) error {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (s *Store) writeFile(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (s *Store) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var users []userRecord
	if err := s.readFile(usersFile, &users); err != nil {
		return err
	}
	for _, existing := range users {
		if existing.Username == u.Username {
			return store.ErrUsernameTaken
		}
	}
	users = append(users, userRecord{ID: u.ID, Username: u.Username, PasswordHash: u.PasswordHash})
	return s.writeFile(usersFile, users)
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var users []userRecord
	if err := s.readFile(usersFile, &users); err != nil {
		return nil, err
	}
	for _, rec := range users {
		if rec.Username == username {
			return &models.User{ID: rec.ID, Username: rec.Username, PasswordHash: rec.PasswordHash}, nil
		}
	}
	return nil, store.ErrNotFound
}

func matches(it models.Item, f store.Filter) bool {
	if f.Category != "" && it.Category != f.Category {
		return false
	}
	if f.MinPrice != nil && it.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && it.Price > *f.MaxPrice {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(it.Name), q) &&
			!strings.Contains(strings.ToLower(it.Description), q) {
			return false
		}
	}
	return true
}

func (s *Store) ListItems(_ context.Context, f store.Filter) ([]models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []models.Item
	if err := s.readFile(itemsFile, &items); err != nil {
		return nil, err
	}

	result := make([]models.Item, 0, len(items))
	for _, it := range items {
		if matches(it, f) {
			result = append(result, it)
		}
	}
	return result, nil
}

func (s *Store) GetItem(_ context.Context, id string) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []models.Item
	if err := s.readFile(itemsFile, &items); err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateItem(_ context.Context, it *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []models.Item
	if err := s.readFile(itemsFile, &items); err != nil {
		return err
	}
	items = append(items, *it)
	return s.writeFile(itemsFile, items)
}

func applyPatch(it *models.Item, patch store.ItemPatch) {
	if patch.Name != nil {
		it.Name = *patch.Name
	}
	if patch.Price != nil {
		it.Price = *patch.Price
	}
	if patch.Category != nil {
		it.Category = *patch.Category
	}
	if patch.Description != nil {
		it.Description = *patch.Description
	}
	if patch.Image != nil {
		it.Image = *patch.Image
	}
}

func (s *Store) UpdateItem(_ context.Context, id string, patch store.ItemPatch) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []models.Item
	if err := s.readFile(itemsFile, &items); err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			applyPatch(&items[i], patch)
			if err := s.writeFile(itemsFile, items); err != nil {
				return nil, err
			}
			updated := items[i]
			return &updated, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) DeleteItem(_ context.Context, id string) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []models.Item
	if err := s.readFile(itemsFile, &items); err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			removed := items[i]
			items = append(items[:i], items[i+1:]...)
			if err := s.writeFile(itemsFile, items); err != nil {
				return nil, err
			}
			return &removed, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) LoadCart(_ context.Context, userID string) ([]models.CartEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	carts := map[string][]models.CartEntry{}
	if err := s.readFile(cartsFile, &carts); err != nil {
		return nil, err
	}
	entries := carts[userID]
	if entries == nil {
		entries = []models.CartEntry{}
	}
	return entries, nil
}

func (s *Store) SaveCart(_ context.Context, userID string, entries []models.CartEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	carts := map[string][]models.CartEntry{}
	if err := s.readFile(cartsFile, &carts); err != nil {
		return err
	}
	if entries == nil {
		entries = []models.CartEntry{}
	}
	carts[userID] = entries
	return s.writeFile(cartsFile, carts)
}
