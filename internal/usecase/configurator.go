package usecase

import (
	"context"
	"sync"

	"github.com/yourusername/techspec-bot/internal/domain/constants"
	"github.com/yourusername/techspec-bot/internal/domain/repository"
	"github.com/yourusername/techspec-bot/pkg/logger"
)

// ConfiguratorUseCase hands out one Session per chat user.
type ConfiguratorUseCase struct {
	ai          repository.AIRepository
	persistence *Persistence
	inrRate     float64

	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewConfiguratorUseCase a non-positive inrRate falls back to constants.USDToINRRate.
func NewConfiguratorUseCase(ai repository.AIRepository, store repository.KeyValueStore, inrRate float64) *ConfiguratorUseCase {
	if inrRate <= 0 {
		inrRate = constants.USDToINRRate
	}
	return &ConfiguratorUseCase{
		ai:          ai,
		persistence: NewPersistence(store),
		inrRate:     inrRate,
		sessions:    make(map[int64]*Session),
	}
}

// Session returns the user's session, loading persisted records on first use.
func (u *ConfiguratorUseCase) Session(ctx context.Context, ownerID int64) *Session {
	u.mu.Lock()
	defer u.mu.Unlock()

	if s, ok := u.sessions[ownerID]; ok {
		return s
	}
	stored := u.persistence.Load(ctx, ownerID)
	s := NewSession(ownerID, u.ai, u.persistence, stored)
	u.sessions[ownerID] = s
	logger.InfoLogger.Printf("🆕 session owner=%d builds=%d signed_in=%t", ownerID, len(stored.SavedBuilds), stored.User != nil)
	return s
}

// INRRate conversion rate used for display
func (u *ConfiguratorUseCase) INRRate() float64 {
	return u.inrRate
}
