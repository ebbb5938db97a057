package domain

// StateTag is the step of a multi-turn conversation a user is in
type StateTag string

const (
	StateIdle                   StateTag = "idle"
	StateAwaitingTopicName      StateTag = "awaiting_topic_name"
	StateAwaitingTopicSearch    StateTag = "awaiting_topic_search"
	StateAwaitingWord           StateTag = "awaiting_word"
	StateAwaitingTranslation    StateTag = "awaiting_translation"
	StateQuizEnRu               StateTag = "awaiting_quiz_answer_en_ru"
	StateQuizRuEn               StateTag = "awaiting_quiz_answer_ru_en"
	StateAwaitingVerb           StateTag = "awaiting_verb"
	StateVerbPastSimple         StateTag = "awaiting_verb_past_simple"
	StateVerbPastParticiple     StateTag = "awaiting_verb_past_participle"
	StateAwaitingDeletionTarget StateTag = "awaiting_deletion_target"
	StateConfirmTopicDeletion   StateTag = "confirming_topic_deletion"
)

var knownStates = map[StateTag]struct{}{
	StateIdle:                   {},
	StateAwaitingTopicName:      {},
	StateAwaitingTopicSearch:    {},
	StateAwaitingWord:           {},
	StateAwaitingTranslation:    {},
	StateQuizEnRu:               {},
	StateQuizRuEn:               {},
	StateAwaitingVerb:           {},
	StateVerbPastSimple:         {},
	StateVerbPastParticiple:     {},
	StateAwaitingDeletionTarget: {},
	StateConfirmTopicDeletion:   {},
}

// Valid reports whether the tag is one of the known states
func (s StateTag) Valid() bool {
	_, ok := knownStates[s]
	return ok
}

// IsIdle treats the empty tag as idle
func (s StateTag) IsIdle() bool {
	return s == StateIdle || s == ""
}

// IsDrill reports whether the state belongs to a running drill loop.
// Drills survive unrelated text; other flows are cancelled by it.
func (s StateTag) IsDrill() bool {
	switch s {
	case StateQuizEnRu, StateQuizRuEn, StateVerbPastSimple, StateVerbPastParticiple:
		return true
	}
	return false
}

// SearchPurpose tells what a topic search result is picked for
type SearchPurpose string

const (
	SearchForWords SearchPurpose = "add"
	SearchForQuiz  SearchPurpose = "quiz"
)

// WordDraft is the scratch data of the add-word flow
type WordDraft struct {
	TopicID   int64  `json:"topic_id"`
	TopicName string `json:"topic_name"`
	Word      string `json:"word,omitempty"`
}

// DeletionTarget is the topic a deletion flow works on
type DeletionTarget struct {
	TopicID   int64  `json:"topic_id"`
	TopicName string `json:"topic_name"`
}

// TopicSearch is the scratch data of the topic search prompt
type TopicSearch struct {
	Purpose SearchPurpose `json:"purpose"`
}

// VerbDrill holds the irregular verb currently asked
type VerbDrill struct {
	Infinitive     string   `json:"infinitive"`
	Translation    string   `json:"translation"`
	PastSimple     []string `json:"past_simple"`
	PastParticiple []string `json:"past_participle"`
}

// Payload holds the scratch variables of the current flow.
// Each flow owns exactly one part.
type Payload struct {
	Word     *WordDraft      `json:"word,omitempty"`
	Quiz     *QuizItem       `json:"quiz,omitempty"`
	Deletion *DeletionTarget `json:"deletion,omitempty"`
	Search   *TopicSearch    `json:"search,omitempty"`
	Verb     *VerbDrill      `json:"verb,omitempty"`
}

// Merge overwrites every part that is set in other
func (p *Payload) Merge(other Payload) {
	if other.Word != nil {
		p.Word = other.Word
	}
	if other.Quiz != nil {
		p.Quiz = other.Quiz
	}
	if other.Deletion != nil {
		p.Deletion = other.Deletion
	}
	if other.Search != nil {
		p.Search = other.Search
	}
	if other.Verb != nil {
		p.Verb = other.Verb
	}
}
