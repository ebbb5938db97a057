package domain

import "strings"

// IrregularVerb holds the forms of one irregular verb.
// Second variants are optional.
type IrregularVerb struct {
	V1                string
	V1Second          string
	V2First           string
	V2Second          string
	V3First           string
	V3Second          string
	FirstTranslation  string
	SecondTranslation string
	ThirdTranslation  string
}

func joinForms(first, second string) string {
	switch {
	case first != "" && second != "":
		return first + " / " + second
	case first != "":
		return first
	default:
		return "Неизвестно"
	}
}

// Infinitive returns the infinitive with its alternative spelling
func (v IrregularVerb) Infinitive() string {
	return joinForms(v.V1, v.V1Second)
}

// PastSimpleText returns the Past Simple forms for display
func (v IrregularVerb) PastSimpleText() string {
	return joinForms(v.V2First, v.V2Second)
}

// PastParticipleText returns the Past Participle forms for display
func (v IrregularVerb) PastParticipleText() string {
	return joinForms(v.V3First, v.V3Second)
}

// Translations returns the non-empty translations in order
func (v IrregularVerb) Translations() []string {
	var out []string
	for _, t := range []string{v.FirstTranslation, v.SecondTranslation, v.ThirdTranslation} {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Drill builds the grammar drill payload for the verb
func (v IrregularVerb) Drill() *VerbDrill {
	return &VerbDrill{
		Infinitive:     v.Infinitive(),
		Translation:    strings.Join(v.Translations(), ", "),
		PastSimple:     Variants(v.V2First, v.V2Second),
		PastParticiple: Variants(v.V3First, v.V3Second),
	}
}

// Tense is one row of the tense reference table
type Tense struct {
	Name                            string
	TranslationName                 string
	Description                     string
	Formula                         string
	Example                         string
	TranslationExample              string
	NegativeFormula                 string
	ExampleNegative                 string
	TranslationExampleNegative      string
	InterrogativeFormula            string
	ExampleInterrogative            string
	TranslationExampleInterrogative string
}
