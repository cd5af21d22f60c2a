package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yourusername/techspec-bot/internal/domain/constants"
	"github.com/yourusername/techspec-bot/internal/domain/entity"
	"github.com/yourusername/techspec-bot/internal/domain/repository"
	"github.com/yourusername/techspec-bot/pkg/logger"
)

// PersistedState the three independent records stored per owner
type PersistedState struct {
	User              *entity.User
	SavedBuilds       []*entity.CustomConfiguration
	TutorialCompleted bool
}

// Persistence typed access to the owner's stored records
type Persistence struct {
	store repository.KeyValueStore
}

// NewPersistence wraps a raw key/value store
func NewPersistence(store repository.KeyValueStore) *Persistence {
	return &Persistence{store: store}
}

// Load reads all records once. Unreadable records are logged and treated as absent;
// Load never fails because of stored data.
func (p *Persistence) Load(ctx context.Context, ownerID int64) PersistedState {
	var state PersistedState

	var user entity.User
	if ok := p.readJSON(ctx, ownerID, constants.StorageKeyUser, &user); ok {
		state.User = &user
	}

	var builds []*entity.CustomConfiguration
	if ok := p.readJSON(ctx, ownerID, constants.StorageKeyBuilds, &builds); ok {
		for _, b := range builds {
			if b != nil {
				state.SavedBuilds = append(state.SavedBuilds, b)
			}
		}
	}

	var completed bool
	if ok := p.readJSON(ctx, ownerID, constants.StorageKeyTutorialComplete, &completed); ok {
		state.TutorialCompleted = completed
	}

	return state
}

// SaveUser stores or (for nil) removes the identity record.
func (p *Persistence) SaveUser(ctx context.Context, ownerID int64, user *entity.User) error {
	if user == nil {
		if err := p.store.Delete(ctx, ownerID, constants.StorageKeyUser); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	}
	return p.writeJSON(ctx, ownerID, constants.StorageKeyUser, user)
}

// SaveBuilds overwrites the saved-builds list.
func (p *Persistence) SaveBuilds(ctx context.Context, ownerID int64, builds []*entity.CustomConfiguration) error {
	if builds == nil {
		builds = []*entity.CustomConfiguration{}
	}
	return p.writeJSON(ctx, ownerID, constants.StorageKeyBuilds, builds)
}

// MarkTutorialCompleted one-shot onboarding flag
func (p *Persistence) MarkTutorialCompleted(ctx context.Context, ownerID int64) error {
	return p.writeJSON(ctx, ownerID, constants.StorageKeyTutorialComplete, true)
}

func (p *Persistence) readJSON(ctx context.Context, ownerID int64, key string, dst any) bool {
	raw, ok, err := p.store.Get(ctx, ownerID, key)
	if err != nil {
		logPersistenceReadError(ownerID, &entity.PersistenceReadError{Key: key, Err: err})
		return false
	}
	if !ok || len(raw) == 0 {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		logPersistenceReadError(ownerID, &entity.PersistenceReadError{Key: key, Err: err})
		return false
	}
	return true
}

func (p *Persistence) writeJSON(ctx context.Context, ownerID int64, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := p.store.Set(ctx, ownerID, key, raw); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

func logPersistenceReadError(ownerID int64, err error) {
	logger.ErrorLogger.Printf("⚠️ owner=%d: %v (ignored)", ownerID, err)
}
