package domain

import "strings"

// Direction describes which side of a pair is shown
type Direction string

const (
	// DirectionEnRu shows the word and expects the translation
	DirectionEnRu Direction = "en_ru"
	// DirectionRuEn shows the translation and expects the word
	DirectionRuEn Direction = "ru_en"
)

// Valid reports whether d is a known direction
func (d Direction) Valid() bool {
	return d == DirectionEnRu || d == DirectionRuEn
}

// State returns the awaiting-answer state for the direction
func (d Direction) State() StateTag {
	if d == DirectionRuEn {
		return StateQuizRuEn
	}
	return StateQuizEnRu
}

// DirectionForState maps an awaiting-answer state back to its direction
func DirectionForState(s StateTag) (Direction, bool) {
	switch s {
	case StateQuizEnRu:
		return DirectionEnRu, true
	case StateQuizRuEn:
		return DirectionRuEn, true
	}
	return "", false
}

// QuizItem is a single question of the drilling loop
type QuizItem struct {
	TopicID   int64     `json:"topic_id"`
	Direction Direction `json:"direction"`
	Prompt    string    `json:"prompt"`
	Answers   []string  `json:"answers"`
}

// NewQuizItem builds the question for entry in direction d
func NewQuizItem(e Entry, d Direction) *QuizItem {
	item := &QuizItem{TopicID: e.TopicID, Direction: d}
	if d == DirectionRuEn {
		item.Prompt = e.Translation
		item.Answers = Variants(e.Word)
	} else {
		item.Prompt = e.Word
		item.Answers = Variants(e.Translation)
	}
	return item
}

// Check reports whether input answers the question
func (q *QuizItem) Check(input string) bool {
	return MatchAnswer(input, q.Answers...)
}

// MaxAnswerVariants is the most spellings one answer may accept
const MaxAnswerVariants = 2

// Variants collects the non-empty accepted spellings, at most MaxAnswerVariants
func Variants(values ...string) []string {
	out := make([]string, 0, MaxAnswerVariants)
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
		if len(out) == MaxAnswerVariants {
			break
		}
	}
	return out
}

// MatchAnswer compares input with every variant ignoring case and
// surrounding whitespace
func MatchAnswer(input string, variants ...string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return false
	}
	for _, v := range variants {
		if strings.EqualFold(input, strings.TrimSpace(v)) {
			return true
		}
	}
	return false
}
