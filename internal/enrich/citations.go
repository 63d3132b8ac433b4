package enrich

import "regexp"

// citationPatterns match the reference styles common in news and research text
var citationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\[\d+\]`),                  // [1]
	regexp.MustCompile(`\(\d{4}\)`),                // (2023)
	regexp.MustCompile(`(?i)et al\.`),              // Smith et al.
	regexp.MustCompile(`(?i)doi:[\w./-]+`),         // doi:10.1000/xyz
	regexp.MustCompile(`(?i)https?://[\w./&=?-]+`), // links
}

// HasCitations reports whether text contains any citation pattern
func HasCitations(text string) bool {
	for _, pattern := range citationPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}
