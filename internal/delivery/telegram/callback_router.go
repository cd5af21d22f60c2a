package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/techspec-bot/internal/domain/constants"
	"github.com/yourusername/techspec-bot/internal/domain/entity"
	"github.com/yourusername/techspec-bot/internal/infrastructure/export"
	"github.com/yourusername/techspec-bot/internal/usecase"
)

// Callback data. Telegram caps callback data at 64 bytes, so builds, components and
// options are addressed by index.
const (
	cbDevicePhone     = "dev:phone"
	cbDeviceLaptop    = "dev:laptop"
	cbHero            = "hero"
	cbAdvisor         = "adv"
	cbAdvisorPhone    = "adv_dev:phone"
	cbAdvisorLaptop   = "adv_dev:laptop"
	cbAdvisorRange    = "adv_range"
	cbAdvisorSearch   = "adv_search"
	cbBuilds          = "builds"
	cbShowMain        = "main"
	cbLoadBuild       = "load"
	cbSignInGoogle    = "signin:google"
	cbSignInApple     = "signin:apple"
	cbSignOut         = "signout"
	cbTutorialNext    = "tut_next"
	cbTutorialSkip    = "tut_skip"
	cbStartOver       = "reset"
	cbDismissError    = "err_ok"
	cbComponent       = "comp"
	cbOption          = "opt"
	cbShowConfig      = "cfg"
	cbSave            = "save"
	cbRename          = "rename"
	cbCompare         = "cmp_pick"
	cbCompareWith     = "cmp"
	cbExportCompare   = "xcmp"
	cbCart            = "cart"
	cbCurrency        = "cur"
	cbClearImageError = "img_ok"

	configTagLen = 8
)

// handleCallback inline button presses
func (h *BotHandler) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq == nil || cq.From == nil || cq.Message == nil || cq.Message.Chat == nil {
		return
	}
	if !cq.Message.Chat.IsPrivate() {
		return
	}
	h.answerCallback(cq.ID, "")

	userID := cq.From.ID
	chatID := cq.Message.Chat.ID
	msgID := cq.Message.MessageID
	sess := h.session(ctx, userID)
	action, arg, _ := strings.Cut(cq.Data, ":")

	switch action {
	case "dev":
		dt, ok := entity.ParseDeviceType(arg)
		if !ok {
			return
		}
		if err := sess.SelectDevice(dt); err != nil {
			h.sendMessage(chatID, userErrorText(err))
			return
		}
		s := renderPromptRequest(sess.View())
		h.editHTML(chatID, msgID, s.text, s.markup)

	case cbHero:
		h.submitHero(ctx, chatID, userID)

	case cbAdvisor:
		if err := sess.SelectAdvisor(); err != nil {
			h.sendMessage(chatID, userErrorText(err))
			return
		}
		h.editScreen(chatID, msgID, renderAdvisorForm(sess.View()))

	case "adv_dev":
		dt, ok := entity.ParseDeviceType(arg)
		if !ok {
			return
		}
		if err := sess.SetAdvisorDevice(dt); err != nil {
			h.sendMessage(chatID, userErrorText(err))
			return
		}
		h.editScreen(chatID, msgID, renderAdvisorForm(sess.View()))

	case cbAdvisorRange:
		i, ok := parseIndex(arg, len(constants.AdvisorPriceRanges))
		if !ok {
			return
		}
		if err := sess.SetAdvisorPriceRange(constants.AdvisorPriceRanges[i]); err != nil {
			h.sendMessage(chatID, userErrorText(err))
			return
		}
		h.editScreen(chatID, msgID, renderAdvisorForm(sess.View()))

	case cbAdvisorSearch:
		h.submitAdvisor(ctx, chatID, userID, "")

	case cbBuilds:
		sess.ShowSavedBuilds()
		h.editScreen(chatID, msgID, renderSavedBuilds(sess.View(), h.rate(), cbLoadBuild))

	case cbShowMain:
		sess.ShowMain()
		h.showScreen(ctx, chatID, userID)

	case cbLoadBuild:
		v := sess.View()
		i, ok := parseIndex(arg, len(v.SavedBuilds))
		if !ok {
			h.sendMessage(chatID, userErrorText(entity.ErrBuildNotFound))
			return
		}
		if err := sess.LoadBuild(v.SavedBuilds[i].DeviceName); err != nil {
			h.sendMessage(chatID, userErrorText(err))
			return
		}
		h.showScreen(ctx, chatID, userID)

	case "signin":
		if err := sess.SignIn(ctx, arg); err != nil {
			log.Printf("signin user=%d: %v", userID, err)
			h.sendMessage(chatID, "Sign-in failed. Please try again.")
			return
		}
		v := sess.View()
		if v.State == usecase.StateSelectingDevice && v.View == usecase.ViewMain {
			h.editScreen(chatID, msgID, renderDeviceMenu(v))
			return
		}
		h.sendMessage(chatID, "✅ Signed in as "+v.User.Name)

	case cbSignOut:
		if err := sess.SignOut(ctx); err != nil {
			log.Printf("signout user=%d: %v", userID, err)
			h.sendMessage(chatID, "Sign-out failed. Please try again.")
			return
		}
		h.setInputMode(userID, inputNone)
		h.sendMessage(chatID, "👋 Signed out.")
		h.showScreen(ctx, chatID, userID)

	case cbTutorialNext:
		if err := sess.NextTutorialStep(ctx); err != nil {
			log.Printf("tutorial user=%d: %v", userID, err)
		}
		v := sess.View()
		if v.TutorialVisible {
			h.editScreen(chatID, msgID, renderTutorial(v.TutorialStep))
			return
		}
		h.editHTML(chatID, msgID, "✅ You are all set. Use /help any time.", nil)

	case cbTutorialSkip:
		if err := sess.SkipTutorial(ctx); err != nil {
			log.Printf("tutorial user=%d: %v", userID, err)
		}
		h.editHTML(chatID, msgID, "Tutorial hidden. Use /help any time.", nil)

	case cbStartOver:
		sess.StartOver()
		h.setInputMode(userID, inputNone)
		h.showScreen(ctx, chatID, userID)

	case cbDismissError:
		sess.DismissError()
		h.showScreen(ctx, chatID, userID)

	case cbComponent:
		raw, tag := splitConfigTag(arg)
		i, err := strconv.Atoi(raw)
		if err != nil {
			return
		}
		if !h.checkConfigTag(chatID, msgID, sess.View(), tag) {
			return
		}
		s, ok := renderComponentOptions(sess.View(), i, h.rate())
		if !ok {
			h.sendMessage(chatID, userErrorText(entity.ErrUnknownComponent))
			return
		}
		h.editScreen(chatID, msgID, s)

	case cbOption:
		h.handleOptionCallback(ctx, sess, chatID, userID, msgID, arg)

	case cbShowConfig:
		v := sess.View()
		if v.Configuration == nil {
			h.showScreen(ctx, chatID, userID)
			return
		}
		h.editScreen(chatID, msgID, renderConfiguration(v, h.rate()))

	case cbSave:
		saved, err := sess.SaveBuild(ctx)
		if err != nil {
			h.sendMessage(chatID, userErrorText(err))
			return
		}
		h.sendHTML(chatID, fmt.Sprintf("💾 <b>%s</b> saved.", escape(saved.DeviceName)), nil)

	case cbRename:
		if sess.View().Configuration == nil {
			h.sendMessage(chatID, userErrorText(entity.ErrNoConfiguration))
			return
		}
		h.setInputMode(userID, inputRename)
		h.sendMessage(chatID, "✏️ Send the new name for this build.")

	case cbCompare:
		h.sendComparePicker(chatID, sess.View())

	case cbCompareWith:
		v := sess.View()
		i, ok := parseIndex(arg, len(v.SavedBuilds))
		if !ok {
			h.sendMessage(chatID, userErrorText(entity.ErrBuildNotFound))
			return
		}
		view, err := sess.CompareWith(v.SavedBuilds[i].DeviceName)
		if err != nil {
			h.sendMessage(chatID, userErrorText(err))
			return
		}
		h.editScreen(chatID, msgID, renderComparison(view, v.Currency, h.rate(), i))

	case cbExportCompare:
		v := sess.View()
		i, ok := parseIndex(arg, len(v.SavedBuilds))
		if !ok {
			h.sendMessage(chatID, userErrorText(entity.ErrBuildNotFound))
			return
		}
		view, err := sess.CompareWith(v.SavedBuilds[i].DeviceName)
		if err != nil {
			h.sendMessage(chatID, userErrorText(err))
			return
		}
		data, err := export.ComparisonWorkbook(comparisonTable(view))
		if err != nil {
			log.Printf("comparison export user=%d: %v", userID, err)
			h.sendMessage(chatID, "Could not build the XLSX file.")
			return
		}
		if err := h.sendDocument(chatID, "comparison.xlsx", data, "⚖️ "+view.CurrentName+" vs "+view.OtherName); err != nil {
			log.Printf("document send error chat=%d: %v", chatID, err)
		}

	case cbCart:
		h.sendHTML(chatID, renderCart(sess.View(), h.rate()), nil)

	case cbCurrency:
		v := sess.View()
		sess.SetCurrency(v.Currency.Toggle())
		v = sess.View()
		switch {
		case v.State == usecase.StateShowingConfig && v.Configuration != nil:
			h.editScreen(chatID, msgID, renderConfiguration(v, h.rate()))
		case v.State == usecase.StateShowingAdvisorResult:
			h.editScreen(chatID, msgID, renderAdvisorResult(v, h.rate()))
		default:
			h.sendMessage(chatID, "💱 Prices are now shown in "+string(v.Currency)+".")
		}

	case cbClearImageError:
		sess.ClearImageError()
		v := sess.View()
		if v.State == usecase.StateShowingConfig && v.Configuration != nil {
			h.editScreen(chatID, msgID, renderConfiguration(v, h.rate()))
		}

	default:
		log.Printf("unknown callback %q from user %d", cq.Data, userID)
	}
}

// handleOptionCallback "opt:<component>:<option>[@<config tag>]"
func (h *BotHandler) handleOptionCallback(ctx context.Context, sess *usecase.Session, chatID, userID int64, msgID int, arg string) {
	raw, tag := splitConfigTag(arg)
	ci, oi, ok := parseIndexPair(raw)
	if !ok {
		return
	}
	v := sess.View()
	if !h.checkConfigTag(chatID, msgID, v, tag) {
		return
	}
	if v.Configuration == nil || ci >= len(v.Configuration.Customizations) {
		h.sendMessage(chatID, userErrorText(entity.ErrUnknownComponent))
		return
	}
	comp := v.Configuration.Customizations[ci]
	if oi >= len(comp.Options) {
		h.sendMessage(chatID, userErrorText(entity.ErrUnknownOption))
		return
	}

	ticket, err := sess.SelectOption(comp.Component, comp.Options[oi].Selection)
	if err != nil {
		h.sendMessage(chatID, userErrorText(err))
		return
	}
	h.editScreen(chatID, msgID, renderConfiguration(sess.View(), h.rate()))
	if ticket != nil {
		h.submitImageRefresh(ctx, chatID, userID, ticket)
	}
}

// checkConfigTag rejects taps on a keyboard rendered for another configuration and
// re-renders the one on screen now.
func (h *BotHandler) checkConfigTag(chatID int64, msgID int, v usecase.SessionView, tag string) bool {
	if tag == configTag(v.Configuration) {
		return true
	}
	h.sendMessage(chatID, userErrorText(entity.ErrStaleKeyboard))
	if v.State == usecase.StateShowingConfig && v.Configuration != nil {
		h.editScreen(chatID, msgID, renderConfiguration(v, h.rate()))
	}
	return false
}

func (h *BotHandler) submitHero(ctx context.Context, chatID, userID int64) {
	sess := h.session(ctx, userID)
	h.dispatch(&aiJob{
		ctx:    ctx,
		userID: userID,
		chatID: chatID,
		kind:   "hero",
		run: func(jobCtx context.Context) {
			h.sendChatAction(chatID, tgbotapi.ChatTyping)
			h.send(chatID, screen{text: "⏳ Designing the value flagship. This can take up to a minute..."})
			if err := sess.SelectHero(jobCtx); err != nil {
				log.Printf("hero user=%d: %v", userID, err)
				if errors.Is(err, entity.ErrBusy) || errors.Is(err, entity.ErrInvalidState) {
					h.sendMessage(chatID, userErrorText(err))
					return
				}
			}
			h.showScreen(jobCtx, chatID, userID)
		},
	})
}

func (h *BotHandler) sendComparePicker(chatID int64, v usecase.SessionView) {
	if v.Configuration == nil {
		h.sendMessage(chatID, userErrorText(entity.ErrNoConfiguration))
		return
	}
	if len(v.SavedBuilds) == 0 {
		h.sendMessage(chatID, "Save at least one build to compare against.")
		return
	}
	h.send(chatID, renderSavedBuilds(v, h.rate(), cbCompareWith))
}

func (h *BotHandler) editScreen(chatID int64, msgID int, s screen) {
	h.editHTML(chatID, msgID, s.text, s.markup)
}

// comparisonTable flattens a comparison for the XLSX export.
func comparisonTable(view usecase.ComparisonView) export.ComparisonTable {
	table := export.ComparisonTable{
		CurrentName:  view.CurrentName,
		OtherName:    view.OtherName,
		CurrentTotal: view.CurrentTotal,
		OtherTotal:   view.OtherTotal,
	}
	for _, rows := range [][]usecase.ComparisonRow{view.Rows, view.Benchmarks} {
		for _, r := range rows {
			table.Lines = append(table.Lines, export.ComparisonLine{
				Label:     r.Label,
				Current:   r.Current,
				Other:     r.Other,
				Different: r.Different,
			})
		}
	}
	return table
}

func parseIndex(raw string, n int) (int, bool) {
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 || i >= n {
		return 0, false
	}
	return i, true
}

func parseIndexPair(raw string) (int, int, bool) {
	a, b, found := strings.Cut(raw, ":")
	if !found {
		return 0, 0, false
	}
	first, err := strconv.Atoi(a)
	if err != nil || first < 0 {
		return 0, 0, false
	}
	second, err := strconv.Atoi(b)
	if err != nil || second < 0 {
		return 0, 0, false
	}
	return first, second, true
}
