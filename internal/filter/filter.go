package filter

import (
	"strings"
	"unicode"

	goaway "github.com/TwiN/go-away"
)

// окончания, с которыми слово из словаря go-away тоже считается совпадением
var suffixes = []string{"s", "es", "ed", "er", "ers", "ing", "in"}

// Filter проверяет текст сообщений на ненормативную лексику.
// Сравниваются только целые слова: "sextant" или "Scunthorpe" проходят.
// Основной словарь — go-away, поверх него можно задать свои слова (BANNED_WORDS).
type Filter struct {
	dictionary map[string]struct{}
	extra      map[string]struct{}
}

// New создаёт фильтр. extraWords сравниваются с отдельными словами без учёта регистра.
func New(extraWords []string) *Filter {
	dictionary := make(map[string]struct{}, len(goaway.DefaultProfanities)+len(goaway.DefaultFalseNegatives))
	for _, list := range [][]string{goaway.DefaultProfanities, goaway.DefaultFalseNegatives} {
		for _, w := range list {
			dictionary[w] = struct{}{}
		}
	}

	extra := make(map[string]struct{}, len(extraWords))
	for _, w := range extraWords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			extra[w] = struct{}{}
		}
	}
	return &Filter{dictionary: dictionary, extra: extra}
}

// IsProfane — реализация chat.ProfanityChecker
func (f *Filter) IsProfane(text string) bool {
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if word == "" {
			continue
		}
		if _, banned := f.extra[word]; banned {
			return true
		}
		if f.inDictionary(word) {
			return true
		}
	}
	return false
}

func (f *Filter) inDictionary(word string) bool {
	if _, ok := f.dictionary[word]; ok {
		return true
	}
	for _, suffix := range suffixes {
		stem, found := strings.CutSuffix(word, suffix)
		if !found || stem == "" {
			continue
		}
		if _, ok := f.dictionary[stem]; ok {
			return true
		}
	}
	return false
}
