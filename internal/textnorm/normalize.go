// Package textnorm canonicalizes raw comment text before mention matching
// and classification.
package textnorm

import (
	"regexp"
	"strings"

	"github.com/abadojack/whatlanggo"
	"github.com/forPelevin/gomoji"
	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/unicode/norm"
)

var (
	urlPattern        = regexp.MustCompile(`http\S+|www\.\S+`)
	sigilPattern      = regexp.MustCompile(`[@#]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Normalizer cleans raw comment text into the canonical matching form.
// Every step is total: malformed input degrades, it never errors.
type Normalizer struct {
	keepScriptLang string
	fallbackLang   string
}

// New builds a Normalizer. keepScriptLang is the ISO 639-1 code whose native
// script is preserved; fallbackLang is assumed when detection fails.
func New(keepScriptLang, fallbackLang string) *Normalizer {
	if fallbackLang == "" {
		fallbackLang = "en"
	}
	return &Normalizer{keepScriptLang: keepScriptLang, fallbackLang: fallbackLang}
}

// Normalize lowercases and trims the text, replaces emoji graphemes, URLs
// and @/# sigils with spaces, collapses whitespace, then transliterates to
// ASCII unless the detected language is the keep-native-script one.
func (n *Normalizer) Normalize(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = gomoji.ReplaceEmojisWith(t, ' ')
	t = urlPattern.ReplaceAllString(t, " ")
	t = sigilPattern.ReplaceAllString(t, " ")
	t = strings.TrimSpace(whitespacePattern.ReplaceAllString(t, " "))

	if n.detectLanguage(t) == n.keepScriptLang {
		return t
	}
	return unidecode.Unidecode(norm.NFKC.String(t))
}

// detectLanguage returns the dominant ISO 639-1 code of the cleaned text,
// falling back when the text is empty or the detector has no answer.
func (n *Normalizer) detectLanguage(t string) string {
	if t == "" {
		return n.fallbackLang
	}
	info := whatlanggo.Detect(t)
	code := info.Lang.Iso6391()
	if code == "" {
		return n.fallbackLang
	}
	return code
}
