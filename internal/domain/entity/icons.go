package entity

import "strings"

type componentIcon struct {
	keyword string
	icon    string
}

// Checked in order, first match wins. Camera entries precede "ram" (substring of "camera").
var componentIcons = []componentIcon{
	{"cpu", "🧠"},
	{"gpu", "🎮"},
	{"camera system", "📷"},
	{"camera design", "📸"},
	{"ram", "💾"},
	{"storage", "🗄"},
	{"display", "🖥"},
	{"battery", "🔋"},
	{"material", "🎨"},
	{"keyboard", "⌨️"},
	{"design aesthetic", "✨"},
	{"form factor", "📱"},
	{"haptic", "📳"},
	{"audio", "🔊"},
	{"biometric", "🔐"},
	{"port", "🔌"},
	{"webcam", "🎥"},
	{"cooling", "❄️"},
}

// ComponentIcon best-effort icon by case-insensitive substring match; CPU icon by default.
func ComponentIcon(component string) string {
	name := strings.ToLower(component)
	for _, ci := range componentIcons {
		if strings.Contains(name, ci.keyword) {
			return ci.icon
		}
	}
	return componentIcons[0].icon
}
