package telegram

import (
	"context"
	"errors"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/techspec-bot/internal/domain/entity"
	"github.com/yourusername/techspec-bot/internal/usecase"
)

// Start runs the update loop until ctx is cancelled.
func (h *BotHandler) Start(ctx context.Context) error {
	if h.api == nil {
		return errors.New("telegram bot is not connected")
	}
	h.workerPool.start(ctx)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := h.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			h.api.StopReceivingUpdates()
			h.workerPool.shutdown()
			return ctx.Err()
		case update := <-updates:
			if update.CallbackQuery != nil {
				go h.handleCallback(ctx, update.CallbackQuery)
				continue
			}
			if update.Message == nil {
				continue
			}
			go h.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage private chats only
func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message == nil || message.From == nil || message.Chat == nil || !message.Chat.IsPrivate() {
		return
	}
	if message.IsCommand() || strings.HasPrefix(strings.TrimSpace(message.Text), "/") {
		h.handleCommand(ctx, message)
		return
	}
	if strings.TrimSpace(message.Text) == "" {
		return
	}
	h.handleTextMessage(ctx, message.From.ID, message.Chat.ID, message.Text)
}

// handleTextMessage free text means different things depending on the current state.
func (h *BotHandler) handleTextMessage(ctx context.Context, userID, chatID int64, text string) {
	sess := h.session(ctx, userID)
	text = strings.TrimSpace(text)

	if h.takeInputMode(userID) == inputRename {
		if err := sess.RenameDevice(text); err != nil {
			h.sendMessage(chatID, userErrorText(err))
			return
		}
		h.showScreen(ctx, chatID, userID)
		return
	}

	if err := sess.Error(); err != nil {
		h.send(chatID, renderError(err))
		return
	}

	switch sess.State() {
	case usecase.StateEnteringPrompt:
		h.submitGenerate(ctx, chatID, userID, text)
	case usecase.StateEnteringAdvisorCriteria:
		h.submitAdvisor(ctx, chatID, userID, text)
	case usecase.StateLoading:
		h.sendMessage(chatID, userErrorText(entity.ErrBusy))
	default:
		h.sendMessage(chatID, "Use the buttons to continue, or /help for commands.")
		h.showScreen(ctx, chatID, userID)
	}
}

func (h *BotHandler) submitGenerate(ctx context.Context, chatID, userID int64, prompt string) {
	sess := h.session(ctx, userID)
	h.dispatch(&aiJob{
		ctx:    ctx,
		userID: userID,
		chatID: chatID,
		kind:   "generate",
		run: func(jobCtx context.Context) {
			h.sendChatAction(chatID, tgbotapi.ChatTyping)
			h.send(chatID, renderLoading(sess.View()))
			if err := sess.Generate(jobCtx, prompt); err != nil {
				log.Printf("generate user=%d: %v", userID, err)
				if errors.Is(err, entity.ErrBusy) || errors.Is(err, entity.ErrInvalidState) || errors.Is(err, entity.ErrNoDeviceType) {
					h.sendMessage(chatID, userErrorText(err))
					return
				}
			}
			h.showScreen(jobCtx, chatID, userID)
		},
	})
}

func (h *BotHandler) submitAdvisor(ctx context.Context, chatID, userID int64, priorities string) {
	sess := h.session(ctx, userID)
	h.dispatch(&aiJob{
		ctx:    ctx,
		userID: userID,
		chatID: chatID,
		kind:   "advisor",
		run: func(jobCtx context.Context) {
			h.sendChatAction(chatID, tgbotapi.ChatTyping)
			h.send(chatID, screen{text: "🔎 Searching the market and analysing devices..."})
			if err := sess.FindDevice(jobCtx, priorities); err != nil {
				log.Printf("advisor user=%d: %v", userID, err)
				if errors.Is(err, entity.ErrBusy) || errors.Is(err, entity.ErrInvalidState) {
					h.sendMessage(chatID, userErrorText(err))
					return
				}
			}
			h.showScreen(jobCtx, chatID, userID)
		},
	})
}

// submitImageRefresh regenerates the render after a visual change. Superseded results are dropped silently.
func (h *BotHandler) submitImageRefresh(ctx context.Context, chatID, userID int64, ticket *usecase.ImageRefresh) {
	if ticket == nil {
		return
	}
	sess := h.session(ctx, userID)
	accepted := h.dispatch(&aiJob{
		ctx:    ctx,
		userID: userID,
		chatID: chatID,
		kind:   "image",
		run: func(jobCtx context.Context) {
			h.sendChatAction(chatID, tgbotapi.ChatUploadPhoto)
			err := sess.RefreshImage(jobCtx, ticket)
			switch {
			case errors.Is(err, entity.ErrStaleImage):
				return
			case err != nil:
				h.send(chatID, screen{
					text: "⚠️ " + escape(userErrorText(err)) + " The previous render is kept.",
					markup: keyboard([]tgbotapi.InlineKeyboardButton{
						button("✖️ Dismiss", cbClearImageError),
					}),
				})
				return
			}
			v := sess.View()
			if v.Configuration != nil {
				h.sendImage(chatID, v.Configuration.ImageURL, "🎨 "+escape(v.Configuration.DeviceName))
			}
		},
	})
	if accepted {
		return
	}
	sess.AbandonImage(ticket)
	v := sess.View()
	if v.State == usecase.StateShowingConfig && v.Configuration != nil {
		h.send(chatID, renderConfiguration(v, h.rate()))
	}
}

func (h *BotHandler) send(chatID int64, s screen) *tgbotapi.Message {
	return h.sendHTML(chatID, s.text, s.markup)
}

// showScreen renders whatever the session currently shows as fresh messages.
func (h *BotHandler) showScreen(ctx context.Context, chatID, userID int64) {
	v := h.session(ctx, userID).View()
	rate := h.rate()

	if v.Error != nil {
		h.send(chatID, renderError(v.Error))
		return
	}
	if v.View == usecase.ViewSavedBuilds {
		h.send(chatID, renderSavedBuilds(v, rate, cbLoadBuild))
		return
	}

	switch v.State {
	case usecase.StateSelectingDevice:
		if v.TutorialVisible {
			h.send(chatID, renderTutorial(v.TutorialStep))
		}
		h.send(chatID, renderDeviceMenu(v))
	case usecase.StateEnteringPrompt:
		h.send(chatID, renderPromptRequest(v))
	case usecase.StateLoading:
		h.send(chatID, renderLoading(v))
	case usecase.StateShowingConfig:
		if v.Configuration != nil {
			h.sendImage(chatID, v.Configuration.ImageURL, escape(v.Configuration.DeviceName))
		}
		h.send(chatID, renderConfiguration(v, rate))
	case usecase.StateEnteringAdvisorCriteria:
		h.send(chatID, renderAdvisorForm(v))
	case usecase.StateShowingAdvisorResult:
		if v.AdvisorResult != nil {
			h.sendImage(chatID, v.AdvisorResult.ImageURL, escape(v.AdvisorResult.DeviceName))
		}
		h.send(chatID, renderAdvisorResult(v, rate))
	}
}
