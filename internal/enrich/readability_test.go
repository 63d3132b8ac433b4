package enrich

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeReadability(t *testing.T) {
	metrics := AnalyzeReadability("The cat sat on the mat. The dog ran.")

	assert.Equal(t, 9, metrics.WordCount)
	assert.Equal(t, 2, metrics.SentenceCount)
	assert.Equal(t, 9, metrics.SyllableCount)
	assert.InDelta(t, 206.835-1.015*4.5-84.6*1.0, metrics.FleschReadingEase, 1e-9)
}

func TestFleschReadingEase_Ordering(t *testing.T) {
	simple := "We go out. We see the sun. It is hot."
	dense := "Comprehensive environmental regulations necessitate considerable administrative coordination among international organizations."

	assert.Greater(t, FleschReadingEase(simple), FleschReadingEase(dense))
}

func TestFleschReadingEase_Unbounded(t *testing.T) {
	longSentence := strings.Repeat("international cooperation ", 60)
	assert.Less(t, FleschReadingEase(longSentence), 0.0)
}

func TestFleschReadingEase_NoWords(t *testing.T) {
	assert.Equal(t, 0.0, FleschReadingEase(""))
	assert.Equal(t, 0.0, FleschReadingEase("... !!! ???"))
}

func TestCountSyllablesInWord(t *testing.T) {
	tests := []struct {
		word     string
		expected int
	}{
		{"cat", 1},
		{"make", 1},
		{"table", 2},
		{"reading", 2},
		{"beautiful", 3},
		{"the", 1},
		{"rhythm", 1},
		{"b", 1},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.expected, countSyllablesInWord(tt.word))
		})
	}
}
