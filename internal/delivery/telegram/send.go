package telegram

import (
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/techspec-bot/pkg/datauri"
)

const (
	messageLimit  = 4096
	captionLimit  = 1024
	parseModeHTML = "HTML"
)

// sendHTML sends an HTML message, split to the Telegram limit. Markup goes on the last chunk.
func (h *BotHandler) sendHTML(chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) *tgbotapi.Message {
	if strings.TrimSpace(text) == "" {
		log.Printf("⚠️ empty message skipped chat=%d", chatID)
		return nil
	}

	chunks := splitIntoChunks(text, messageLimit)
	var last *tgbotapi.Message
	for i, chunk := range chunks {
		msg := tgbotapi.NewMessage(chatID, chunk)
		msg.ParseMode = parseModeHTML
		msg.DisableWebPagePreview = true
		if markup != nil && i == len(chunks)-1 {
			msg.ReplyMarkup = *markup
		}
		sent, err := h.bot.Send(msg)
		if err != nil {
			log.Printf("send error chat=%d: %v", chatID, err)
			return last
		}
		last = &sent
	}
	return last
}

// sendMessage plain text, no markup
func (h *BotHandler) sendMessage(chatID int64, text string) {
	h.sendHTML(chatID, escape(text), nil)
}

// editHTML replaces an inline screen in place.
func (h *BotHandler) editHTML(chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) {
	if messageID == 0 {
		h.sendHTML(chatID, text, markup)
		return
	}
	var edit tgbotapi.EditMessageTextConfig
	if markup != nil {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, *markup)
	} else {
		edit = tgbotapi.NewEditMessageText(chatID, messageID, text)
	}
	edit.ParseMode = parseModeHTML
	edit.DisableWebPagePreview = true
	if _, err := h.bot.Send(edit); err != nil {
		// "message is not modified" and deleted messages land here; fall back to a fresh message
		log.Printf("edit error chat=%d msg=%d: %v", chatID, messageID, err)
		if !strings.Contains(err.Error(), "not modified") {
			h.sendHTML(chatID, text, markup)
		}
	}
}

// sendImage posts a product render. Data URIs are uploaded as bytes, anything else as a URL.
func (h *BotHandler) sendImage(chatID int64, imageURL, caption string) {
	if imageURL == "" {
		return
	}

	var file tgbotapi.RequestFileData
	if _, data, err := datauri.Decode(imageURL); err == nil {
		file = tgbotapi.FileBytes{Name: "device.jpg", Bytes: data}
	} else if strings.HasPrefix(imageURL, "http") {
		file = tgbotapi.FileURL(imageURL)
	} else {
		log.Printf("⚠️ unsupported image URL chat=%d: %v", chatID, err)
		return
	}

	photo := tgbotapi.NewPhoto(chatID, file)
	photo.Caption = truncateRunes(caption, captionLimit)
	photo.ParseMode = parseModeHTML
	if _, err := h.bot.Send(photo); err != nil {
		log.Printf("photo send error chat=%d: %v", chatID, err)
	}
}

// sendDocument uploads generated files (XLSX exports).
func (h *BotHandler) sendDocument(chatID int64, name string, data []byte, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = caption
	_, err := h.bot.Send(doc)
	return err
}

func (h *BotHandler) answerCallback(callbackID, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		log.Printf("callback answer error: %v", err)
	}
}

func (h *BotHandler) sendChatAction(chatID int64, action string) {
	if _, err := h.bot.Request(tgbotapi.NewChatAction(chatID, action)); err != nil {
		log.Printf("chat action error chat=%d: %v", chatID, err)
	}
}

// splitIntoChunks splits on line boundaries where possible so HTML tags stay balanced.
func splitIntoChunks(s string, limit int) []string {
	if limit <= 0 || len(s) <= limit {
		return []string{s}
	}
	var chunks []string
	var current strings.Builder

	for _, line := range strings.SplitAfter(s, "\n") {
		if current.Len()+len(line) > limit && current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		for len(line) > limit {
			cut := limit
			for cut > 0 && !isRuneStart(line[cut]) {
				cut--
			}
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
