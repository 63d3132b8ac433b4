package enrich

import (
	"regexp"
	"strings"
	"unicode"
)

var sentenceEnd = regexp.MustCompile(`[.!?]+`)

// ReadabilityMetrics holds the counts behind a Flesch reading ease score
type ReadabilityMetrics struct {
	WordCount     int `json:"word_count"`
	SentenceCount int `json:"sentence_count"`
	SyllableCount int `json:"syllable_count"`

	AverageWordsPerSentence float64 `json:"avg_words_per_sentence"`
	AverageSyllablesPerWord float64 `json:"avg_syllables_per_word"`
	FleschReadingEase       float64 `json:"flesch_reading_ease"`
}

// AnalyzeReadability computes the Flesch reading ease of text. The score is
// not clamped; very long sentences can push it below zero. Text without
// words scores zero.
func AnalyzeReadability(text string) ReadabilityMetrics {
	metrics := ReadabilityMetrics{}

	words := strings.Fields(text)
	for _, word := range words {
		if cleaned := cleanWord(word); cleaned != "" {
			metrics.WordCount++
			metrics.SyllableCount += countSyllablesInWord(cleaned)
		}
	}
	if metrics.WordCount == 0 {
		return metrics
	}

	metrics.SentenceCount = countSentences(text)
	metrics.AverageWordsPerSentence = float64(metrics.WordCount) / float64(metrics.SentenceCount)
	metrics.AverageSyllablesPerWord = float64(metrics.SyllableCount) / float64(metrics.WordCount)
	metrics.FleschReadingEase = 206.835 - 1.015*metrics.AverageWordsPerSentence - 84.6*metrics.AverageSyllablesPerWord

	return metrics
}

// FleschReadingEase is a shorthand for AnalyzeReadability(text).FleschReadingEase
func FleschReadingEase(text string) float64 {
	return AnalyzeReadability(text).FleschReadingEase
}

// countSentences counts runs of terminal punctuation; trailing text without a
// terminator counts as one more sentence
func countSentences(text string) int {
	parts := sentenceEnd.Split(text, -1)
	count := 0
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			count++
		}
	}
	if count == 0 {
		count = 1
	}
	return count
}

func countSyllablesInWord(word string) int {
	word = strings.ToLower(word)

	vowelGroups := 0
	prevWasVowel := false
	for _, char := range word {
		isVowel := strings.ContainsRune("aeiouy", char)
		if isVowel && !prevWasVowel {
			vowelGroups++
		}
		prevWasVowel = isVowel
	}

	// Silent e, except consonant + le
	if strings.HasSuffix(word, "e") && len(word) > 2 {
		if !strings.HasSuffix(word, "le") || strings.ContainsRune("aeiouy", rune(word[len(word)-3])) {
			vowelGroups--
		}
	}

	if vowelGroups <= 0 {
		vowelGroups = 1
	}
	return vowelGroups
}

// cleanWord strips everything but letters and digits
func cleanWord(word string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, word)
}
