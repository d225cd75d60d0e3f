package scraper

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	minDescriptionLen = 50

	minSectionBlockLen = 50
	maxSectionBlockLen = 500
	maxSectionBlocks   = 3

	minLongestBlockLen = 100
	maxLongestBlockLen = 2000

	altPrefixLen = 20
)

var (
	spaceExpr = regexp.MustCompile(`\s+`)

	// Headings that usually introduce the marketing copy of a product page.
	sectionKeywords = []string{"harika", "genel", "bakış", "overview", "özellik", "features"}

	imageAttrs = []string{"content", "src", "data-src", "data-lazy-src", "data-original"}
)

type descriptionStrategy func(doc *goquery.Document) string

var descriptionStrategies = []descriptionStrategy{
	metaDescription,
	sectionDescription,
	longestBlockDescription,
}

// ExtractDescription walks the description strategies in order and returns
// the first result of at least 50 characters. When none is that long the
// first non-empty candidate is returned.
func ExtractDescription(doc *goquery.Document) string {
	var fallback string
	for _, strategy := range descriptionStrategies {
		text := strategy(doc)
		if text == "" {
			continue
		}
		if runeLen(text) >= minDescriptionLen {
			return text
		}
		if fallback == "" {
			fallback = text
		}
	}
	return fallback
}

func metaDescription(doc *goquery.Document) string {
	for _, sel := range []string{`meta[property="og:description"]`, `meta[name="description"]`} {
		if content, ok := doc.Find(sel).First().Attr("content"); ok {
			if text := collapse(content); text != "" {
				return text
			}
		}
	}
	return ""
}

// sectionDescription finds an overview-like heading and joins the text
// blocks that follow it.
func sectionDescription(doc *goquery.Document) string {
	heading := doc.Find("h1, h2").FilterFunction(func(_ int, s *goquery.Selection) bool {
		text := foldText(s.Text())
		for _, keyword := range sectionKeywords {
			if strings.Contains(text, foldText(keyword)) {
				return true
			}
		}
		return false
	}).First()
	if heading.Length() == 0 {
		return ""
	}

	var parts []string
	seen := map[string]bool{}
	heading.NextAllFiltered("p, div").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := collapse(s.Text())
		n := runeLen(text)
		if n > minSectionBlockLen && n < maxSectionBlockLen && !seen[text] {
			seen[text] = true
			parts = append(parts, text)
		}
		return len(parts) < maxSectionBlocks
	})

	return strings.Join(parts, " ")
}

func longestBlockDescription(doc *goquery.Document) string {
	var longest string
	doc.Find(`p, div[class*="content"], div[class*="description"], .description, .product-description`).
		Each(func(_ int, s *goquery.Selection) {
			text := collapse(s.Text())
			n := runeLen(text)
			if n > minLongestBlockLen && n < maxLongestBlockLen && n > runeLen(longest) {
				longest = text
			}
		})
	return longest
}

type imageCandidate func(doc *goquery.Document, productName string) *goquery.Selection

func selector(sel string) imageCandidate {
	return func(doc *goquery.Document, _ string) *goquery.Selection {
		return doc.Find(sel).First()
	}
}

func srcContains(word string) imageCandidate {
	return func(doc *goquery.Document, _ string) *goquery.Selection {
		return doc.Find("img").FilterFunction(func(_ int, s *goquery.Selection) bool {
			src, _ := s.Attr("src")
			return strings.Contains(strings.ToLower(src), word)
		}).First()
	}
}

func altMatchesName(doc *goquery.Document, productName string) *goquery.Selection {
	prefix := foldText(truncateRunes(strings.TrimSpace(productName), altPrefixLen))
	if prefix == "" {
		return nil
	}
	return doc.Find("img[alt]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		alt, _ := s.Attr("alt")
		return strings.Contains(foldText(alt), prefix)
	}).First()
}

var imageCandidates = []imageCandidate{
	selector(`meta[property="og:image"]`),
	selector(`meta[name="og:image"]`),
	srcContains("product"),
	altMatchesName,
	selector(`.product-image img`),
	selector(`.main-image img`),
	selector(`img[class*="product"]`),
	selector(`img[class*="main"]`),
	selector(`picture img`),
	selector(`img[src*=".jpg"], img[src*=".png"], img[src*=".webp"]`),
}

// ExtractImage tries the image candidates in order and returns the first
// absolute URL that does not look like an icon or a logo.
func ExtractImage(doc *goquery.Document, pageURL, productName string) string {
	for _, candidate := range imageCandidates {
		element := candidate(doc, productName)
		if element == nil || element.Length() == 0 {
			continue
		}

		raw := firstAttr(element, imageAttrs)
		if raw == "" {
			continue
		}

		image := AbsoluteURL(raw, pageURL)
		lower := strings.ToLower(image)
		if strings.Contains(lower, "icon") || strings.Contains(lower, "logo") {
			continue
		}
		return image
	}
	return ""
}

// AbsoluteURL resolves an image reference against the page origin.
func AbsoluteURL(raw, pageURL string) string {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return ""
	case strings.HasPrefix(raw, "//"):
		return "https:" + raw
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return raw
	}

	origin := originOf(pageURL)
	if origin == "" {
		return raw
	}
	if strings.HasPrefix(raw, "/") {
		return origin + raw
	}
	return origin + "/" + raw
}

func originOf(pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}

// firstAttr skips inline data: placeholders so lazy-load attributes are read.
func firstAttr(s *goquery.Selection, attrs []string) string {
	for _, attr := range attrs {
		v, ok := s.Attr(attr)
		v = strings.TrimSpace(v)
		if !ok || v == "" || strings.HasPrefix(v, "data:") {
			continue
		}
		return v
	}
	return ""
}

func collapse(s string) string {
	return strings.TrimSpace(spaceExpr.ReplaceAllString(s, " "))
}

func foldText(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "ı", "i")
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func truncateRunes(s string, n int) string {
	if runeLen(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
