package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// boilerplateSelectors match page chrome that never belongs to an article
var boilerplateSelectors = []string{
	"nav", "header", "footer", "aside",
	"script", "style", "noscript", "iframe", "form", "template", "svg",
	"[role=navigation]", "[role=banner]", "[role=contentinfo]",
	".ad", ".ads", ".advert", ".advertisement", "[id^='ad-']", "[class*='ad-container']",
	".sidebar", ".navbox", ".infobox",
	".social", ".share", ".sharing", ".cookie-banner", ".newsletter",
}

// stripBoilerplate removes boilerplate elements in place and returns how many went
func stripBoilerplate(doc *goquery.Document, extra []string) int {
	selectors := boilerplateSelectors
	if len(extra) > 0 {
		selectors = append(append([]string{}, boilerplateSelectors...), extra...)
	}

	selection := doc.Find(strings.Join(selectors, ", "))
	removed := selection.Length()
	selection.Remove()

	return removed
}
