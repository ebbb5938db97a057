package handler

import (
	"context"
	"fmt"
	"html"
	"strings"

	"vocabbot/internal/dialogue"
	"vocabbot/internal/domain"
)

func (h *Handler) handleProfile(ctx context.Context, r *dialogue.Request) error {
	user, err := h.profile.Profile(ctx, r.UserID)
	if err != nil {
		return err
	}

	return r.Reply(ctx, dialogue.Message{
		Text:   h.profileText(user),
		HTML:   true,
		Inline: [][]dialogue.Button{row(button("🏆 Топ лидеров", actTopLeaders))},
	})
}

func (h *Handler) profileText(user *domain.User) string {
	status := "обычный"
	if user.Elite {
		status = "⭐ элитный"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "👤 %s\n\n", userLink(user))
	fmt.Fprintf(&b, "📚 Выучено слов: %d\n", user.LearnedWordsCount)
	fmt.Fprintf(&b, "🗂 Создано тем: %d\n", user.TopicsCount)
	fmt.Fprintf(&b, "🎖 Статус: %s\n", status)
	if link := h.referralLink(user.ReferralCode); link != "" {
		fmt.Fprintf(&b, "\n🔗 Ваша реферальная ссылка:\n%s", html.EscapeString(link))
	}
	return b.String()
}

// referralLink is empty when the bot username is not configured
func (h *Handler) referralLink(code string) string {
	if h.botUsername == "" || code == "" {
		return ""
	}
	return fmt.Sprintf("https://t.me/%s?start=%s", strings.TrimPrefix(h.botUsername, "@"), code)
}

func userLink(user *domain.User) string {
	return fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, user.UserID, html.EscapeString(user.DisplayName()))
}

func (h *Handler) handleLeaders(ctx context.Context, r *dialogue.Request) error {
	users, err := h.profile.Leaders(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return r.Answer(ctx, "Пока в топе никого нет", false)
	}

	var b strings.Builder
	b.WriteString("🏆 Топ по выученным словам:\n\n")
	for i := range users {
		fmt.Fprintf(&b, "%d. %s — %d\n", i+1, userLink(&users[i]), users[i].LearnedWordsCount)
	}
	return r.Reply(ctx, dialogue.Message{Text: b.String(), HTML: true})
}
