package processing

import (
	"errors"
	"strings"
	"testing"

	"github.com/Caia-Tech/truthlens-ingest/pkg/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const englishText = `The city council met on Tuesday evening to discuss the new public transport plan.
Several residents spoke about the need for more frequent buses in the northern districts,
while others raised concerns about the cost of the project and the impact on local taxes.
The mayor said that the council would publish a detailed report next month and invited
everyone to share their opinions before the final vote takes place in the spring.`

const spanishText = `El ayuntamiento se reunió el martes por la noche para discutir el nuevo plan de transporte
público. Varios vecinos hablaron sobre la necesidad de tener autobuses más frecuentes en los
barrios del norte, mientras que otros expresaron su preocupación por el costo del proyecto y
el impacto en los impuestos locales. El alcalde dijo que el consejo publicará un informe
detallado el próximo mes e invitó a todos a compartir sus opiniones antes de la votación final.`

type stubDetector struct {
	lang string
	err  error
}

func (s stubDetector) Detect(string) (string, error) {
	return s.lang, s.err
}

func TestValidator_EnglishPasses(t *testing.T) {
	validator := NewValidator(NewNormalizer(), NewWhatlangDetector(), "en")

	outcome := validator.Validate(englishText, 50)

	assert.True(t, outcome.IsValid, outcome.Reason())
	assert.Empty(t, outcome.Reasons)
}

func TestValidator_TooShort(t *testing.T) {
	validator := NewValidator(NewNormalizer(), NewWhatlangDetector(), "en")

	outcome := validator.Validate("one two three four five six seven eight nine ten", 50)

	assert.False(t, outcome.IsValid)
	require.Len(t, outcome.Reasons, 1)
	assert.Contains(t, outcome.Reasons[0], "words")
	assert.Contains(t, outcome.Reasons[0], "10")
}

func TestValidator_WrongLanguage(t *testing.T) {
	words := len(strings.Fields(spanishText))
	require.GreaterOrEqual(t, words, 60)

	validator := NewValidator(NewNormalizer(), NewWhatlangDetector(), "en")
	outcome := validator.Validate(spanishText, 50)

	assert.False(t, outcome.IsValid)
	require.Len(t, outcome.Reasons, 1)
	assert.Contains(t, outcome.Reasons[0], "language")
}

func TestValidator_CheckOrder(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		minWords int
		detector LanguageDetector
		valid    bool
		reason   string
	}{
		{
			name:     "empty wins over everything",
			text:     "  &nbsp; *** ",
			minWords: 1,
			detector: stubDetector{lang: "de"},
			reason:   "empty",
		},
		{
			name:     "length checked before language",
			text:     "kurzer text",
			minWords: 5,
			detector: stubDetector{lang: "de"},
			reason:   "2 words < 5",
		},
		{
			name:     "detection failure is a reason",
			text:     "12345 67890",
			minWords: 1,
			detector: stubDetector{err: errors.New("no language detected")},
			reason:   "language detection failed",
		},
		{
			name:     "language mismatch",
			text:     "ein ganz normaler satz",
			minWords: 1,
			detector: stubDetector{lang: "de"},
			reason:   `language "de"`,
		},
		{
			name:     "required language is case-insensitive",
			text:     "a fine sentence",
			minWords: 3,
			detector: stubDetector{lang: "en"},
			valid:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := NewValidator(nil, tt.detector, "EN")
			outcome := validator.Validate(tt.text, tt.minWords)

			assert.Equal(t, tt.valid, outcome.IsValid)
			if tt.reason != "" {
				assert.Contains(t, outcome.Reason(), tt.reason)
			}
		})
	}
}

func TestValidator_InvalidUTF8IsOutcome(t *testing.T) {
	validator := NewValidator(nil, stubDetector{lang: "en"}, "en")

	outcome := validator.Validate("broken \xff", 1)

	assert.False(t, outcome.IsValid)
	assert.Contains(t, outcome.Reason(), document.ErrInvalidInput.Error())
}

func TestWhatlangDetector(t *testing.T) {
	detector := NewWhatlangDetector()

	lang, err := detector.Detect(englishText)
	require.NoError(t, err)
	assert.Equal(t, "en", lang)

	lang, err = detector.Detect(spanishText)
	require.NoError(t, err)
	assert.Equal(t, "es", lang)
}

func TestValidationConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultValidationConfig().Validate())
	assert.ErrorIs(t, (&ValidationConfig{MinWords: -1, RequiredLanguage: "en"}).Validate(), document.ErrInvalidConfig)
	assert.ErrorIs(t, (&ValidationConfig{MinWords: 10}).Validate(), document.ErrInvalidConfig)
}
