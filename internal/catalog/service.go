package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/minimarket/storefront/internal/events"
	"github.com/minimarket/storefront/internal/logging"
	"github.com/minimarket/storefront/internal/models"
	"github.com/minimarket/storefront/internal/store"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = store.ErrNotFound
)

type Service struct {
	Items    store.ItemStore
	Producer *events.Producer
}

type CreateRequest struct {
	Name        string
	Price       float64
	Category    string
	Description string
	Image       string
}

func (s *Service) List(ctx context.Context, f store.Filter) ([]models.Item, error) {
	return s.Items.ListItems(ctx, f)
}

func (s *Service) Get(ctx context.Context, id string) (*models.Item, error) {
	return s.Items.GetItem(ctx, id)
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Item, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create")

	if req.Name == "" {
		return nil, fmt.Errorf("name required: %w", ErrValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("price cannot be negative: %w", ErrValidation)
	}
	if req.Category == "" {
		req.Category = "general"
	}

	item := &models.Item{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		Description: req.Description,
		Image:       req.Image,
	}
	if err := s.Items.CreateItem(ctx, item); err != nil {
		l.Error("create_item_error", "error", err)
		return nil, err
	}

	s.publish(ctx, map[string]any{"type": "item_created", "itemID": item.ID, "name": item.Name})
	l.Info("create_item_success", "itemID", item.ID)
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, patch store.ItemPatch) (*models.Item, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.update")

	if patch.Price != nil && *patch.Price < 0 {
		return nil, fmt.Errorf("price cannot be negative: %w", ErrValidation)
	}

	item, err := s.Items.UpdateItem(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, map[string]any{"type": "item_updated", "itemID": item.ID, "name": item.Name})
	l.Info("update_item_success", "itemID", item.ID)
	return item, nil
}

// Delete removes the item from the catalog only. Cart entries that still
// reference it are left alone; stale references are tolerated by design.
func (s *Service) Delete(ctx context.Context, id string) (*models.Item, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.delete")

	item, err := s.Items.DeleteItem(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, map[string]any{"type": "item_deleted", "itemID": id})
	l.Info("delete_item_success", "itemID", id)
	return item, nil
}

func (s *Service) publish(ctx context.Context, event map[string]any) {
	if err := s.Producer.PublishEvent(ctx, events.TopicProducts, fmt.Sprint(event["itemID"]), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "error", err)
	}
}
