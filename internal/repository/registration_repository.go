package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/noah-isme/training-registration-api/internal/models"
	"github.com/noah-isme/training-registration-api/pkg/storage"
)

var (
	// ErrCorruptCollection marks a stored blob that is not a JSON array.
	ErrCorruptCollection = errors.New("registration collection is corrupt")
	// ErrUnreadableRecords marks an array holding elements that do not decode as registrations.
	// Load still returns the readable ones alongside it.
	ErrUnreadableRecords = errors.New("registration collection has unreadable records")
)

// RegistrationRepository keeps the whole registration collection as one JSON array under one key.
type RegistrationRepository struct {
	store storage.BlobStore
	key   string
}

// NewRegistrationRepository constructs the repository over any blob backend.
func NewRegistrationRepository(store storage.BlobStore, key string) *RegistrationRepository {
	return &RegistrationRepository{store: store, key: key}
}

// Key returns the storage key of the collection.
func (r *RegistrationRepository) Key() string {
	return r.key
}

// Load reads the collection. A key that was never written yields an empty slice. Elements that fail
// to decode are skipped and reported through ErrUnreadableRecords together with the rest.
func (r *RegistrationRepository) Load(ctx context.Context) ([]models.Registration, error) {
	raw, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []models.Registration{}, nil
		}
		return nil, fmt.Errorf("load registrations: %w", err)
	}
	if len(raw) == 0 {
		return []models.Registration{}, nil
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCollection, err)
	}

	items := make([]models.Registration, 0, len(elements))
	var skipped []string
	for i, element := range elements {
		var item models.Registration
		if err := decodeRecord(element, &item); err != nil {
			skipped = append(skipped, fmt.Sprintf("#%d: %v", i, err))
			continue
		}
		if item.ApprovalStatus == "" {
			item.ApprovalStatus = models.ApprovalPending
		}
		items = append(items, item)
	}
	if len(skipped) > 0 {
		return items, fmt.Errorf("%w: %d of %d skipped (%s)", ErrUnreadableRecords, len(skipped), len(elements), strings.Join(skipped, "; "))
	}
	return items, nil
}

func decodeRecord(element json.RawMessage, item *models.Registration) error {
	if bytes.Equal(bytes.TrimSpace(element), []byte("null")) {
		return errors.New("null record")
	}
	return json.Unmarshal(element, item)
}

// Save rewrites the whole collection.
func (r *RegistrationRepository) Save(ctx context.Context, items []models.Registration) error {
	if items == nil {
		items = []models.Registration{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode registrations: %w", err)
	}
	if err := r.store.Put(ctx, r.key, raw); err != nil {
		return fmt.Errorf("save registrations: %w", err)
	}
	return nil
}
