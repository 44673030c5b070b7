package dispatch

import (
	"log/slog"
	"strings"
)

const chatSuffix = "@c.us"

// CanonicalChatIDs converts a stored phone number into the WhatsApp chat
// ids to attempt for it. Brazilian mobile numbers exist in the provider
// both with and without the extra ninth digit after the area code, so BR
// numbers produce two candidates, without-9 first. Anything else produces
// a single candidate.
func CanonicalChatIDs(phone string) []string {
	base := canonicalize(phone)
	bare := strings.TrimSuffix(base, chatSuffix)

	if len(bare) == 12 && strings.HasPrefix(bare, "55") {
		// 551591775589 -> 5515991775589
		with9 := bare[:4] + "9" + bare[4:] + chatSuffix
		return []string{base, with9}
	}

	if len(bare) == 13 && strings.HasPrefix(bare, "55") {
		// Pre-formatted chat id that kept the ninth digit.
		without9 := bare[:4] + bare[5:] + chatSuffix
		return []string{without9, base}
	}

	return []string{base}
}

// canonicalize normalizes a raw phone into a single chat id, assuming
// Brazil (country code 55) for numbers stored without one.
func canonicalize(phone string) string {
	if strings.Contains(phone, chatSuffix) {
		return phone
	}

	cleaned := digitsOnly(phone)
	if cleaned == "" {
		slog.Warn("phone number empty after cleaning", slog.String("phone", phone))
		return cleaned + chatSuffix
	}

	switch {
	case len(cleaned) == 11:
		// DDD + 9 digits: prepend 55 and drop the ninth digit.
		cleaned = "55" + cleaned[:2] + cleaned[3:]
	case len(cleaned) == 10:
		// DDD + 8 digits: prepend 55.
		cleaned = "55" + cleaned
	case strings.HasPrefix(cleaned, "55") && len(cleaned) == 13:
		// 55 + DDD + 9 digits: drop the ninth digit.
		cleaned = cleaned[:4] + cleaned[5:]
	case strings.HasPrefix(cleaned, "55") && len(cleaned) == 12:
		// Already canonical.
	default:
		slog.Warn("phone number with unexpected format",
			slog.String("phone", phone),
			slog.Int("digits", len(cleaned)),
		)
	}

	return cleaned + chatSuffix
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
