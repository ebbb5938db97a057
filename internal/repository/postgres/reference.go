package postgres

import (
	"context"
	"database/sql"

	"vocabbot/internal/domain"
)

const verbColumns = `
	v1, COALESCE(v1_second, ''), v2_first, COALESCE(v2_second, ''),
	v3_first, COALESCE(v3_second, ''), first_translation,
	COALESCE(second_translation, ''), COALESCE(third_translation, '')
`

const tenseColumns = `
	time_name, translation_name, description, formula, example,
	translation_example, negative_formula, example_negative,
	translation_example_negative, interrogative_formula,
	example_interrogative, translation_example_interrogative
`

// ReferenceRepo implements repository.ReferenceRepository
type ReferenceRepo struct {
	db *sql.DB
}

// NewReferenceRepo creates a new reference data repository
func NewReferenceRepo(db *sql.DB) *ReferenceRepo {
	return &ReferenceRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVerb(row rowScanner) (*domain.IrregularVerb, error) {
	var v domain.IrregularVerb
	err := row.Scan(
		&v.V1, &v.V1Second, &v.V2First, &v.V2Second, &v.V3First, &v.V3Second,
		&v.FirstTranslation, &v.SecondTranslation, &v.ThirdTranslation,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func scanTense(row rowScanner) (domain.Tense, error) {
	var t domain.Tense
	err := row.Scan(
		&t.Name, &t.TranslationName, &t.Description, &t.Formula, &t.Example,
		&t.TranslationExample, &t.NegativeFormula, &t.ExampleNegative,
		&t.TranslationExampleNegative, &t.InterrogativeFormula,
		&t.ExampleInterrogative, &t.TranslationExampleInterrogative,
	)
	return t, err
}

// FindVerb looks a verb up by its infinitive or alternative infinitive
func (r *ReferenceRepo) FindVerb(ctx context.Context, form string) (*domain.IrregularVerb, error) {
	query := `SELECT ` + verbColumns + `
		FROM irregular_verbs
		WHERE LOWER(v1) = LOWER($1) OR LOWER(v1_second) = LOWER($1)
		LIMIT 1
	`
	return scanVerb(r.db.QueryRowContext(ctx, query, form))
}

// RandomVerb returns a random irregular verb or nil if the table is empty
func (r *ReferenceRepo) RandomVerb(ctx context.Context) (*domain.IrregularVerb, error) {
	query := `SELECT ` + verbColumns + `
		FROM irregular_verbs
		ORDER BY RANDOM()
		LIMIT 1
	`
	return scanVerb(r.db.QueryRowContext(ctx, query))
}

// Tenses returns the whole tense table
func (r *ReferenceRepo) Tenses(ctx context.Context) ([]domain.Tense, error) {
	query := `SELECT ` + tenseColumns + ` FROM times ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenses []domain.Tense
	for rows.Next() {
		t, err := scanTense(rows)
		if err != nil {
			return nil, err
		}
		tenses = append(tenses, t)
	}

	return tenses, rows.Err()
}

// Tense returns one tense by name or nil if it doesn't exist
func (r *ReferenceRepo) Tense(ctx context.Context, name string) (*domain.Tense, error) {
	query := `SELECT ` + tenseColumns + ` FROM times WHERE time_name = $1`
	t, err := scanTense(r.db.QueryRowContext(ctx, query, name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
