// Package storage defines the persistence interface for catalog collections.
package storage

import (
	"context"
	"time"

	"github.com/hyperjump/storefront/internal/models"
)

// CollectionInfo summarizes one stored collection.
type CollectionInfo struct {
	Name      string    `json:"name"`
	Items     int64     `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Storage persists collections of listing items in display order.
type Storage interface {
	// PutItems replaces the stored contents of collection with items, keeping their order.
	PutItems(ctx context.Context, collection string, items []*models.ListItem) error
	// ListItems returns the items of collection in stored order.
	ListItems(ctx context.Context, collection string) ([]*models.ListItem, error)
	GetItem(ctx context.Context, collection, id string) (*models.ListItem, error)
	DeleteCollection(ctx context.Context, collection string) error
	Collections(ctx context.Context) ([]CollectionInfo, error)
	CountItems(ctx context.Context, collection string) (int64, error)

	Close() error
}
