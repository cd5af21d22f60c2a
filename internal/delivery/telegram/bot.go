package telegram

import (
	"context"
	"errors"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/techspec-bot/internal/domain/entity"
	"github.com/yourusername/techspec-bot/internal/usecase"
)

// botAPI the subset of *tgbotapi.BotAPI the handler uses
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type inputMode string

const (
	inputNone   inputMode = ""
	inputRename inputMode = "rename"
)

// BotHandler Telegram bot handler
type BotHandler struct {
	bot          botAPI
	api          *tgbotapi.BotAPI
	configurator *usecase.ConfiguratorUseCase

	inputMu   sync.RWMutex
	inputMode map[int64]inputMode

	workerPool *workerPool
	// dispatch hands a job to the worker pool; tests run jobs inline
	dispatch func(job *aiJob) bool
}

// NewBotHandler connects to the Bot API with token.
func NewBotHandler(token string, configurator *usecase.ConfiguratorUseCase) (*BotHandler, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	h := newBotHandler(api, configurator)
	h.api = api
	return h, nil
}

func newBotHandler(bot botAPI, configurator *usecase.ConfiguratorUseCase) *BotHandler {
	h := &BotHandler{
		bot:          bot,
		configurator: configurator,
		inputMode:    make(map[int64]inputMode),
	}
	h.workerPool = newWorkerPool(h, defaultWorkerCount)
	h.dispatch = h.workerPool.submit
	return h
}

// GetBotUsername returns the bot's username from Telegram API state.
func (h *BotHandler) GetBotUsername() string {
	if h.api == nil {
		return ""
	}
	return h.api.Self.UserName
}

func (h *BotHandler) session(ctx context.Context, userID int64) *usecase.Session {
	return h.configurator.Session(ctx, userID)
}

func (h *BotHandler) rate() float64 {
	return h.configurator.INRRate()
}

func (h *BotHandler) setInputMode(userID int64, mode inputMode) {
	h.inputMu.Lock()
	defer h.inputMu.Unlock()
	if mode == inputNone {
		delete(h.inputMode, userID)
		return
	}
	h.inputMode[userID] = mode
}

// takeInputMode returns and clears the pending input mode.
func (h *BotHandler) takeInputMode(userID int64) inputMode {
	h.inputMu.Lock()
	defer h.inputMu.Unlock()
	mode := h.inputMode[userID]
	delete(h.inputMode, userID)
	return mode
}

// userErrorText short explanation for a failed action
func userErrorText(err error) string {
	var genErr *entity.GenerationError
	var advErr *entity.AdvisorError
	var imgErr *entity.ImageGenerationError

	switch {
	case err == nil:
		return ""
	case errors.Is(err, entity.ErrBusy):
		return "Still working on your previous request, please wait."
	case errors.Is(err, entity.ErrNotSignedIn):
		return "Please sign in to save builds (/signin)."
	case errors.Is(err, entity.ErrNoConfiguration):
		return "There is no build to work with yet. Pick a device first (/start)."
	case errors.Is(err, entity.ErrNoDeviceType):
		return "Choose a phone or a laptop first (/start)."
	case errors.Is(err, entity.ErrEmptyName):
		return "The name must not be empty."
	case errors.Is(err, entity.ErrBuildNotFound):
		return "That saved build no longer exists."
	case errors.Is(err, entity.ErrUnknownComponent), errors.Is(err, entity.ErrUnknownOption):
		return "That option is no longer available. Please reopen the build."
	case errors.Is(err, entity.ErrStaleKeyboard):
		return "Those buttons belong to another build. Here is the current one."
	case errors.Is(err, entity.ErrInvalidState):
		return "That action is not available right now."
	case errors.As(err, &genErr):
		return "The AI could not design this device. Please rephrase your request and try again."
	case errors.As(err, &advErr):
		return "The Market Advisor could not find a recommendation. Please try again."
	case errors.As(err, &imgErr):
		return "The product image could not be updated."
	default:
		return "Unexpected error. Please try again."
	}
}
