package handler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"vocabbot/internal/dialogue"
	"vocabbot/internal/domain"
	"vocabbot/internal/repository"
	"vocabbot/internal/session"
)

func (h *Handler) handleGrammar(ctx context.Context, r *dialogue.Request) error {
	return r.Reply(ctx, dialogue.Message{Text: "📘 Грамматика\n\nЧто будем изучать?", Inline: grammarButtons()})
}

func (h *Handler) handleIrregularVerbs(ctx context.Context, r *dialogue.Request) error {
	if err := h.store.SetState(ctx, r.UserID, domain.StateAwaitingVerb); err != nil {
		return err
	}
	return r.Reply(ctx, dialogue.Message{Text: "Введите глагол в начальной форме, например go:", Keyboard: cancelMenu()})
}

// handleVerbLookup shows the verb forms and waits for the next verb
func (h *Handler) handleVerbLookup(ctx context.Context, r *dialogue.Request) error {
	verb, err := h.grammar.FindVerb(ctx, r.Text)
	if handled, replyErr := rejectInput(ctx, r, err); handled {
		return replyErr
	}
	if errors.Is(err, repository.ErrNotFound) {
		return r.Reply(ctx, dialogue.Message{
			Text:     "Такого неправильного глагола нет в справочнике. Попробуйте другой:",
			Keyboard: cancelMenu(),
		})
	}
	if err != nil {
		return err
	}

	text := verbCard(verb) + "\n\nВведите следующий глагол или нажмите «" + btnCancel + "»."
	return r.Reply(ctx, dialogue.Message{Text: text, Keyboard: cancelMenu()})
}

func verbCard(v *domain.IrregularVerb) string {
	return fmt.Sprintf("Infinitive: %s\nPast Simple: %s\nPast Participle: %s\nПеревод: %s",
		v.Infinitive(), v.PastSimpleText(), v.PastParticipleText(), strings.Join(v.Translations(), ", "))
}

func (h *Handler) handleTenses(ctx context.Context, r *dialogue.Request) error {
	tenses, err := h.grammar.Tenses(ctx)
	if err != nil {
		return err
	}
	if len(tenses) == 0 {
		return r.Answer(ctx, "Справочник времён пуст", true)
	}

	rows := make([][]dialogue.Button, 0, len(tenses))
	for _, t := range tenses {
		rows = append(rows, row(button(t.Name+" — "+t.TranslationName, token(actTense, t.Name))))
	}
	return r.Reply(ctx, dialogue.Message{Text: "Выберите время:", Inline: rows})
}

func (h *Handler) handleTense(ctx context.Context, r *dialogue.Request) error {
	tense, err := h.grammar.Tense(ctx, r.Arg)
	if errors.Is(err, repository.ErrNotFound) {
		return r.Answer(ctx, "Время не найдено", true)
	}
	if err != nil {
		return err
	}
	return r.Reply(ctx, dialogue.Message{Text: tenseCard(tense), HTML: true})
}

func tenseCard(t *domain.Tense) string {
	e := html.EscapeString

	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b> (%s)\n\n%s\n\n", e(t.Name), e(t.TranslationName), e(t.Description))
	fmt.Fprintf(&b, "<b>Утверждение:</b> %s\n%s\n<i>%s</i>\n\n", e(t.Formula), e(t.Example), e(t.TranslationExample))
	fmt.Fprintf(&b, "<b>Отрицание:</b> %s\n%s\n<i>%s</i>\n\n", e(t.NegativeFormula), e(t.ExampleNegative), e(t.TranslationExampleNegative))
	fmt.Fprintf(&b, "<b>Вопрос:</b> %s\n%s\n<i>%s</i>", e(t.InterrogativeFormula), e(t.ExampleInterrogative), e(t.TranslationExampleInterrogative))
	return b.String()
}

// handleVerbDrill starts the irregular verb drill
func (h *Handler) handleVerbDrill(ctx context.Context, r *dialogue.Request) error {
	return h.askVerb(ctx, r)
}

func (h *Handler) askVerb(ctx context.Context, r *dialogue.Request) error {
	verb, err := h.grammar.RandomVerb(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		if err := h.store.Clear(ctx, r.UserID); err != nil {
			return err
		}
		return r.Reply(ctx, dialogue.Message{Text: "Список глаголов пуст.", Keyboard: mainMenu()})
	}
	if err != nil {
		return err
	}

	drill := verb.Drill()
	err = session.Transition(ctx, h.store, r.UserID, domain.StateVerbPastSimple, domain.Payload{Verb: drill})
	if err != nil {
		return err
	}
	return r.Reply(ctx, dialogue.Message{
		Text:     fmt.Sprintf("Глагол: %s (%s)\n\nВведите форму Past Simple:", drill.Infinitive, drill.Translation),
		Keyboard: drillMenu(),
	})
}

func (h *Handler) handleVerbPastSimple(ctx context.Context, r *dialogue.Request) error {
	payload, err := h.payload(ctx, r)
	if err != nil {
		return err
	}
	drill := payload.Verb
	if drill == nil {
		return h.expired(ctx, r)
	}

	if err := r.ReplyText(ctx, verbFeedback(r.Text, "Past Simple", drill.PastSimple)); err != nil {
		return err
	}
	if err := h.store.SetState(ctx, r.UserID, domain.StateVerbPastParticiple); err != nil {
		return err
	}
	return r.Reply(ctx, dialogue.Message{Text: "Теперь введите форму Past Participle:", Keyboard: drillMenu()})
}

func (h *Handler) handleVerbPastParticiple(ctx context.Context, r *dialogue.Request) error {
	payload, err := h.payload(ctx, r)
	if err != nil {
		return err
	}
	drill := payload.Verb
	if drill == nil {
		return h.expired(ctx, r)
	}

	if err := r.ReplyText(ctx, verbFeedback(r.Text, "Past Participle", drill.PastParticiple)); err != nil {
		return err
	}
	return h.askVerb(ctx, r)
}

func verbFeedback(input, form string, variants []string) string {
	if domain.MatchAnswer(input, variants...) {
		return msgCorrect
	}
	return fmt.Sprintf("❌ Неверно. %s: %s", form, strings.Join(variants, " / "))
}
