package handler

import (
	"strconv"

	"vocabbot/internal/dialogue"
	"vocabbot/internal/domain"
)

// Callback actions. Tokens are "action" or "action:arg".
const (
	actStartLearning  = "start_learning"
	actTopLeaders     = "top_leaders"
	actTopic          = "topic"
	actSearch         = "search"
	actVisibility     = "visibility"
	actDeleteTopic    = "delete_topic"
	actConfirmDelete  = "confirm_delete"
	actCancelDelete   = "cancel_delete"
	actAddWords       = "add_words"
	actDeleteWord     = "delete_word"
	actQuiz           = "quiz"
	actEnRu           = "eng_ru"
	actRuEn           = "ru_eng"
	actIrregularVerbs = "irregular_verbs"
	actTenses         = "tenses"
	actTense          = "tense"
	actVerbDrill      = "verb_drill"
)

func token(action, arg string) string {
	return action + ":" + arg
}

func idToken(action string, id int64) string {
	return token(action, strconv.FormatInt(id, 10))
}

func button(text, data string) dialogue.Button {
	return dialogue.Button{Text: text, Data: data}
}

func row(buttons ...dialogue.Button) []dialogue.Button {
	return buttons
}

// topicButtons lists topics as buttons opening them for the purpose
func topicButtons(topics []domain.Topic, purpose domain.SearchPurpose) [][]dialogue.Button {
	action := actTopic
	if purpose == domain.SearchForQuiz {
		action = actQuiz
	}

	rows := make([][]dialogue.Button, 0, len(topics)+1)
	for _, t := range topics {
		rows = append(rows, row(button(t.Content, idToken(action, t.ID))))
	}
	return rows
}

func searchButton(purpose domain.SearchPurpose) []dialogue.Button {
	return row(button("🔍 Поиск темы", token(actSearch, string(purpose))))
}

func topicCardButtons(topic *domain.Topic, userID int64) [][]dialogue.Button {
	rows := [][]dialogue.Button{
		row(button("➕ Добавить слова", idToken(actAddWords, topic.ID))),
		row(button("🗑 Удалить слово", idToken(actDeleteWord, topic.ID))),
		row(button("🔁 Повторить", idToken(actQuiz, topic.ID))),
	}
	if topic.OwnedBy(userID) {
		visibility := "🌐 Сделать публичной"
		if topic.Visible {
			visibility = "🔒 Сделать личной"
		}
		rows = append(rows,
			row(button(visibility, idToken(actVisibility, topic.ID))),
			row(button("❌ Удалить тему", idToken(actDeleteTopic, topic.ID))),
		)
	}
	return rows
}

func directionButtons(topicID int64) [][]dialogue.Button {
	return [][]dialogue.Button{
		row(button("English → Русский", idToken(actEnRu, topicID))),
		row(button("Русский → English", idToken(actRuEn, topicID))),
	}
}

func confirmDeleteButtons(topicID int64) [][]dialogue.Button {
	return [][]dialogue.Button{
		row(
			button("✅ Да, удалить", idToken(actConfirmDelete, topicID)),
			button("Отмена", actCancelDelete),
		),
	}
}

func grammarButtons() [][]dialogue.Button {
	return [][]dialogue.Button{
		row(button("📖 Неправильные глаголы", actIrregularVerbs)),
		row(button("⏳ Времена", actTenses)),
		row(button("🏋 Тренировка глаголов", actVerbDrill)),
	}
}
