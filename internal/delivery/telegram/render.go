package telegram

import (
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/techspec-bot/internal/domain/constants"
	"github.com/yourusername/techspec-bot/internal/domain/entity"
	"github.com/yourusername/techspec-bot/internal/usecase"
	"github.com/yourusername/techspec-bot/pkg/money"
)

// screen rendered text plus its inline keyboard
type screen struct {
	text   string
	markup *tgbotapi.InlineKeyboardMarkup
}

func escape(s string) string {
	return html.EscapeString(s)
}

func keyboard(rows ...[]tgbotapi.InlineKeyboardButton) *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func button(text, data string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(truncateRunes(text, 60), data)
}

func deviceIcon(dt entity.DeviceType) string {
	if dt == entity.DeviceLaptop {
		return "💻"
	}
	return "📱"
}

func renderDeviceMenu(v usecase.SessionView) screen {
	var b strings.Builder
	b.WriteString("🛠 <b>TechSpec AI</b>\n\nWhat would you like to do?\n")
	b.WriteString("• Design a custom phone or laptop from a description\n")
	b.WriteString("• Try the value-flagship preset\n")
	b.WriteString("• Ask the Market Advisor for the best device you can buy today\n")
	if v.User != nil {
		fmt.Fprintf(&b, "\n👤 Signed in as <b>%s</b>", escape(v.User.Name))
	}

	rows := [][]tgbotapi.InlineKeyboardButton{
		{button("📱 Phone", cbDevicePhone), button("💻 Laptop", cbDeviceLaptop)},
		{button("⭐ Value flagship", cbHero)},
		{button("🔎 Market Advisor", cbAdvisor)},
		{button(fmt.Sprintf("📂 Saved builds (%d)", len(v.SavedBuilds)), cbBuilds)},
	}
	if v.User == nil {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			button("Sign in with Google", cbSignInGoogle),
			button("Sign in with Apple", cbSignInApple),
		})
	} else {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{button("🚪 Sign out", cbSignOut)})
	}
	return screen{text: b.String(), markup: keyboard(rows...)}
}

func renderTutorial(step int) screen {
	if step < 0 || step >= len(constants.TutorialSteps) {
		step = 0
	}
	card := constants.TutorialSteps[step]
	text := fmt.Sprintf("💡 <b>%s</b> (%d/%d)\n\n%s", escape(card.Title), step+1, len(constants.TutorialSteps), escape(card.Body))

	next := "Next ➡️"
	if step == len(constants.TutorialSteps)-1 {
		next = "Got it ✅"
	}
	return screen{text: text, markup: keyboard(
		[]tgbotapi.InlineKeyboardButton{button(next, cbTutorialNext), button("Skip", cbTutorialSkip)},
	)}
}

func renderPromptRequest(v usecase.SessionView) screen {
	text := fmt.Sprintf("%s Describe your dream <b>%s</b>.\n\nFor example: <i>a compact phone with a great camera and all-day battery under $600</i>.",
		deviceIcon(v.DeviceType), escape(string(v.DeviceType)))
	return screen{text: text, markup: keyboard(
		[]tgbotapi.InlineKeyboardButton{button("🔄 Start over", cbStartOver)},
	)}
}

func renderLoading(v usecase.SessionView) screen {
	if v.DeviceType == "" {
		return screen{text: "🔎 Searching the market and analysing devices..."}
	}
	return screen{text: fmt.Sprintf("⏳ Designing your %s. This can take up to a minute...", escape(string(v.DeviceType)))}
}

func renderError(err error) screen {
	text := fmt.Sprintf("❌ <b>Something went wrong</b>\n\n%s", escape(userErrorText(err)))
	return screen{text: text, markup: keyboard(
		[]tgbotapi.InlineKeyboardButton{button("OK", cbDismissError)},
	)}
}

// renderConfiguration summary of the current build with component buttons.
func renderConfiguration(v usecase.SessionView, rate float64) screen {
	cfg := v.Configuration
	if cfg == nil {
		return screen{text: "No configuration loaded."}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>%s</b>\n", deviceIcon(cfg.ResolveDeviceType()), escape(cfg.DeviceName))
	if cfg.Description != "" {
		fmt.Fprintf(&b, "<i>%s</i>\n", escape(cfg.Description))
	}
	b.WriteString("\n")

	for _, c := range cfg.Customizations {
		fmt.Fprintf(&b, "%s <b>%s:</b> %s", entity.ComponentIcon(c.Component), escape(c.Component), escape(c.Selection))
		if c.Price != 0 {
			fmt.Fprintf(&b, " (%s)", money.FormatSigned(c.Price, v.Currency, rate))
		}
		b.WriteString("\n")
	}

	if pb := cfg.PerformanceBenchmarks; pb != nil {
		fmt.Fprintf(&b, "\n📊 CPU %d · GPU %d", pb.CPUScore, pb.GPUScore)
		if pb.Summary != "" {
			fmt.Fprintf(&b, " · %s", escape(pb.Summary))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\n💵 Base price: %s\n", money.Format(cfg.BasePrice, v.Currency, rate))
	fmt.Fprintf(&b, "💰 <b>Total: %s</b>\n", money.Format(cfg.Total(), v.Currency, rate))

	if v.ImageLoading {
		b.WriteString("\n🎨 Updating the render...")
	}
	if v.ImageError != nil {
		fmt.Fprintf(&b, "\n⚠️ Image update failed, showing the previous render. (%s)", escape(v.ImageError.Error()))
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for i, c := range cfg.Customizations {
		row = append(row, button(entity.ComponentIcon(c.Component)+" "+c.Component, withConfigTag(fmt.Sprintf("%s:%d", cbComponent, i), cfg)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows,
		[]tgbotapi.InlineKeyboardButton{button("💾 Save", cbSave), button("✏️ Rename", cbRename)},
		[]tgbotapi.InlineKeyboardButton{button("⚖️ Compare", cbCompare), button("🛒 Add to cart", cbCart)},
		[]tgbotapi.InlineKeyboardButton{button("💱 "+string(v.Currency.Toggle()), cbCurrency), button("🔄 Start over", cbStartOver)},
	)
	if v.ImageError != nil {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{button("✖️ Dismiss image error", cbClearImageError)})
	}
	return screen{text: b.String(), markup: keyboard(rows...)}
}

// renderComponentOptions option picker for one component. Prices are deltas from the base price.
func renderComponentOptions(v usecase.SessionView, index int, rate float64) (screen, bool) {
	cfg := v.Configuration
	if cfg == nil || index < 0 || index >= len(cfg.Customizations) {
		return screen{}, false
	}
	c := cfg.Customizations[index]

	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>%s</b>\n", entity.ComponentIcon(c.Component), escape(c.Component))
	fmt.Fprintf(&b, "Current: <b>%s</b>\n", escape(c.Selection))
	if c.Reason != "" {
		fmt.Fprintf(&b, "<i>%s</i>\n", escape(c.Reason))
	}
	b.WriteString("\n")
	for _, opt := range c.Options {
		marker := "▫️"
		if opt.Selection == c.Selection {
			marker = "✅"
		}
		fmt.Fprintf(&b, "%s <b>%s</b> (%s)\n", marker, escape(opt.Selection), money.FormatSigned(opt.Price, v.Currency, rate))
		if opt.Reason != "" {
			fmt.Fprintf(&b, "   %s\n", escape(opt.Reason))
		}
	}
	fmt.Fprintf(&b, "\n💰 Total: %s", money.Format(cfg.Total(), v.Currency, rate))

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(c.Options)+1)
	for oi, opt := range c.Options {
		label := opt.Selection + " · " + money.FormatSigned(opt.Price, v.Currency, rate)
		if opt.Selection == c.Selection {
			label = "✅ " + label
		}
		rows = append(rows, []tgbotapi.InlineKeyboardButton{button(label, withConfigTag(fmt.Sprintf("%s:%d:%d", cbOption, index, oi), cfg))})
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{button("⬅️ Back", cbShowConfig)})
	return screen{text: b.String(), markup: keyboard(rows...)}, true
}

// configTag short fingerprint of a configuration. Component and option buttons carry it so
// taps on an older keyboard can be told apart from the build now on screen.
func configTag(cfg *entity.CustomConfiguration) string {
	if cfg == nil {
		return ""
	}
	if len(cfg.ID) > configTagLen {
		return cfg.ID[:configTagLen]
	}
	return cfg.ID
}

func withConfigTag(data string, cfg *entity.CustomConfiguration) string {
	if tag := configTag(cfg); tag != "" {
		return data + "@" + tag
	}
	return data
}

// splitConfigTag "0:1@ab12cd34" -> "0:1", "ab12cd34"
func splitConfigTag(arg string) (string, string) {
	rest, tag, _ := strings.Cut(arg, "@")
	return rest, tag
}

func renderAdvisorForm(v usecase.SessionView) screen {
	d := v.AdvisorDraft
	var b strings.Builder
	b.WriteString("🔎 <b>Market Advisor</b>\n\n")
	fmt.Fprintf(&b, "Device: <b>%s</b>\n", escape(string(d.DeviceType)))
	fmt.Fprintf(&b, "Price range: <b>%s</b>\n\n", escape(d.PriceRange))
	b.WriteString("Type your priorities (e.g. <i>battery life, camera, light weight</i>) or tap Search.")

	check := func(on bool, label string) string {
		if on {
			return "✅ " + label
		}
		return label
	}
	rows := [][]tgbotapi.InlineKeyboardButton{{
		button(check(d.DeviceType == entity.DevicePhone, "📱 Phone"), cbAdvisorPhone),
		button(check(d.DeviceType == entity.DeviceLaptop, "💻 Laptop"), cbAdvisorLaptop),
	}}
	var row []tgbotapi.InlineKeyboardButton
	for i, r := range constants.AdvisorPriceRanges {
		label := r
		if r == "None" {
			label = "Any price"
		}
		row = append(row, button(check(d.PriceRange == r, label), fmt.Sprintf("%s:%d", cbAdvisorRange, i)))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{button("🔎 Search", cbAdvisorSearch), button("⬅️ Back", cbStartOver)})
	return screen{text: b.String(), markup: keyboard(rows...)}
}

func renderAdvisorResult(v usecase.SessionView, rate float64) screen {
	r := v.AdvisorResult
	if r == nil {
		return screen{text: "No recommendation yet."}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🏆 <b>%s</b> by %s\n", escape(r.DeviceName), escape(r.Company))
	fmt.Fprintf(&b, "💰 About %s\n\n", money.Format(r.ApproximatePriceUSD, v.Currency, rate))
	if r.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", escape(r.Description))
	}
	writeList(&b, "📋 Key specs", "•", r.KeySpecs)
	writeList(&b, "👍 Pros", "+", r.Pros)
	writeList(&b, "👎 Cons", "−", r.Cons)
	if r.Reasoning != "" {
		fmt.Fprintf(&b, "🧭 <b>Why this one</b>\n%s\n\n", escape(r.Reasoning))
	}
	if len(r.GroundingSources) > 0 {
		b.WriteString("🔗 <b>Sources</b>\n")
		for i, s := range r.GroundingSources {
			fmt.Fprintf(&b, "%d. <a href=\"%s\">%s</a>\n", i+1, escape(s.URI), escape(s.Title))
		}
	}

	return screen{text: b.String(), markup: keyboard(
		[]tgbotapi.InlineKeyboardButton{button("💱 "+string(v.Currency.Toggle()), cbCurrency), button("🔄 Start over", cbStartOver)},
	)}
}

func writeList(b *strings.Builder, title, bullet string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "<b>%s</b>\n", title)
	for _, it := range items {
		fmt.Fprintf(b, "%s %s\n", bullet, escape(it))
	}
	b.WriteString("\n")
}

// renderSavedBuilds library view; callbackPrefix decides whether a tap loads or compares.
func renderSavedBuilds(v usecase.SessionView, rate float64, callbackPrefix string) screen {
	if len(v.SavedBuilds) == 0 {
		text := "📂 You have no saved builds yet."
		if v.User == nil {
			text += "\nSign in to save builds."
		}
		return screen{text: text, markup: keyboard(
			[]tgbotapi.InlineKeyboardButton{button("⬅️ Back", cbShowMain)},
		)}
	}

	var b strings.Builder
	if callbackPrefix == cbCompareWith {
		b.WriteString("⚖️ <b>Compare with which build?</b>\n\n")
	} else {
		b.WriteString("📂 <b>Saved builds</b>\n\n")
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(v.SavedBuilds)+1)
	for i, cfg := range v.SavedBuilds {
		dt := cfg.ResolveDeviceType()
		fmt.Fprintf(&b, "%d. %s <b>%s</b> · %s\n", i+1, deviceIcon(dt), escape(cfg.DeviceName), money.Format(cfg.Total(), v.Currency, rate))
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			button(fmt.Sprintf("%d. %s", i+1, cfg.DeviceName), fmt.Sprintf("%s:%d", callbackPrefix, i)),
		})
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{button("⬅️ Back", cbShowMain)})
	return screen{text: b.String(), markup: keyboard(rows...)}
}

// renderComparison side-by-side diff; differing rows are flagged.
func renderComparison(view usecase.ComparisonView, currency money.Currency, rate float64, otherIndex int) screen {
	var b strings.Builder
	fmt.Fprintf(&b, "⚖️ <b>%s</b> vs <b>%s</b>\n\n", escape(view.CurrentName), escape(view.OtherName))

	writeRows := func(rows []usecase.ComparisonRow) {
		for _, r := range rows {
			marker := "▫️"
			if r.Different {
				marker = "🔸"
			}
			fmt.Fprintf(&b, "%s <b>%s</b>\n   %s\n   %s\n", marker, escape(r.Label), escape(r.Current), escape(r.Other))
		}
	}
	writeRows(view.Rows)
	b.WriteString("\n📊 <b>Benchmarks</b>\n")
	writeRows(view.Benchmarks)

	fmt.Fprintf(&b, "\n💰 %s vs %s (%s)\n",
		money.Format(view.CurrentTotal, currency, rate),
		money.Format(view.OtherTotal, currency, rate),
		money.FormatSigned(view.PriceDifference, currency, rate))
	fmt.Fprintf(&b, "🔸 %d differences", view.DifferentCount())

	return screen{text: b.String(), markup: keyboard(
		[]tgbotapi.InlineKeyboardButton{
			button("📊 Export XLSX", fmt.Sprintf("%s:%d", cbExportCompare, otherIndex)),
			button("⬅️ Back", cbShowConfig),
		},
	)}
}

func renderCart(v usecase.SessionView, rate float64) string {
	cfg := v.Configuration
	if cfg == nil {
		return "🛒 Nothing to add yet."
	}
	return fmt.Sprintf("🛒 <b>%s</b> added to your cart.\nTotal: <b>%s</b>\n\nCheckout is not available in this demo.",
		escape(cfg.DeviceName), money.Format(cfg.Total(), v.Currency, rate))
}

const helpText = `🛠 <b>TechSpec AI</b> designs phones and laptops from a description.

/start - main menu
/builds - saved builds
/save - save the current build (sign-in required)
/rename &lt;name&gt; - rename the current build
/compare - compare the current build with a saved one
/currency - switch between USD and INR
/signin - demo sign-in
/signout - sign out and start over
/export - download saved builds as XLSX
/startover - reset everything
/help - this message`
