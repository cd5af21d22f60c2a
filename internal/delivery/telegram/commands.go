package telegram

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/techspec-bot/internal/domain/entity"
	"github.com/yourusername/techspec-bot/internal/infrastructure/export"
	"github.com/yourusername/techspec-bot/pkg/money"
)

// handleCommand slash commands
func (h *BotHandler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	if message == nil || message.From == nil || message.Chat == nil {
		return
	}
	userID := message.From.ID
	chatID := message.Chat.ID
	cmd := extractCommand(message)
	if cmd == "" {
		h.sendMessage(chatID, "Unknown command. /help for the list.")
		return
	}
	sess := h.session(ctx, userID)

	switch cmd {
	case "start":
		h.setInputMode(userID, inputNone)
		sess.ShowMain()
		h.showScreen(ctx, chatID, userID)
	case "help":
		h.sendHTML(chatID, helpText, nil)
	case "builds":
		sess.ShowSavedBuilds()
		h.showScreen(ctx, chatID, userID)
	case "save":
		saved, err := sess.SaveBuild(ctx)
		if err != nil {
			h.sendMessage(chatID, userErrorText(err))
			return
		}
		h.sendHTML(chatID, fmt.Sprintf("💾 <b>%s</b> saved.", escape(saved.DeviceName)), nil)
	case "rename":
		arg := commandArgs(message)
		if arg == "" {
			if sess.View().Configuration == nil {
				h.sendMessage(chatID, userErrorText(entity.ErrNoConfiguration))
				return
			}
			h.setInputMode(userID, inputRename)
			h.sendMessage(chatID, "✏️ Send the new name for this build.")
			return
		}
		if err := sess.RenameDevice(arg); err != nil {
			h.sendMessage(chatID, userErrorText(err))
			return
		}
		h.showScreen(ctx, chatID, userID)
	case "compare":
		h.sendComparePicker(chatID, sess.View())
	case "currency":
		next := sess.View().Currency.Toggle()
		if arg := commandArgs(message); arg != "" {
			next = money.ParseCurrency(arg)
		}
		sess.SetCurrency(next)
		h.sendMessage(chatID, "💱 Prices are now shown in "+string(next)+".")
	case "signin":
		provider := commandArgs(message)
		if provider == "" {
			provider = "google"
		}
		if err := sess.SignIn(ctx, provider); err != nil {
			h.sendMessage(chatID, "Use /signin google or /signin apple.")
			return
		}
		h.sendMessage(chatID, "✅ Signed in as "+sess.View().User.Name)
	case "signout":
		if err := sess.SignOut(ctx); err != nil {
			log.Printf("signout user=%d: %v", userID, err)
			h.sendMessage(chatID, "Sign-out failed. Please try again.")
			return
		}
		h.setInputMode(userID, inputNone)
		h.sendMessage(chatID, "👋 Signed out.")
		h.showScreen(ctx, chatID, userID)
	case "export":
		h.handleExportCommand(chatID, userID, sess.View().SavedBuilds)
	case "startover", "reset":
		sess.StartOver()
		h.setInputMode(userID, inputNone)
		h.showScreen(ctx, chatID, userID)
	default:
		h.sendMessage(chatID, "Unknown command. /help for the list.")
	}
}

func (h *BotHandler) handleExportCommand(chatID, userID int64, builds []*entity.CustomConfiguration) {
	if len(builds) == 0 {
		h.sendMessage(chatID, "📂 You have no saved builds to export.")
		return
	}
	data, err := export.BuildsWorkbook(builds)
	if err != nil {
		log.Printf("builds export user=%d: %v", userID, err)
		h.sendMessage(chatID, "Could not build the XLSX file.")
		return
	}
	name := fmt.Sprintf("builds_%s.xlsx", time.Now().Format("20060102"))
	if err := h.sendDocument(chatID, name, data, fmt.Sprintf("📊 %d saved builds", len(builds))); err != nil {
		log.Printf("document send error chat=%d: %v", chatID, err)
		h.sendMessage(chatID, "Could not send the file. Please try again.")
	}
}

func extractCommand(msg *tgbotapi.Message) string {
	if msg == nil {
		return ""
	}
	if msg.IsCommand() {
		return strings.ToLower(msg.Command())
	}
	txt := strings.TrimSpace(msg.Text)
	if !strings.HasPrefix(txt, "/") {
		return ""
	}
	first := strings.TrimPrefix(strings.Fields(txt)[0], "/")
	if first == "" {
		return ""
	}
	parts := strings.SplitN(first, "@", 2)
	return strings.ToLower(parts[0])
}

// commandArgs text after the command, trimmed
func commandArgs(msg *tgbotapi.Message) string {
	if msg.IsCommand() {
		return strings.TrimSpace(msg.CommandArguments())
	}
	fields := strings.SplitN(strings.TrimSpace(msg.Text), " ", 2)
	if len(fields) < 2 {
		return ""
	}
	return strings.TrimSpace(fields[1])
}
