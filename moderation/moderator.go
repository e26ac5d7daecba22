package moderation

import (
	"fmt"
	"log/slog"
	"os"
	"unicode"

	"github.com/abadojack/whatlanggo"
	goahocorasick "github.com/anknown/ahocorasick"
	"gopkg.in/yaml.v3"
)

const DefaultReplacement = '*'

// Verdict is the outcome of inspecting a message body.
type Verdict struct {
	Text     string
	Language string
	Words    []string
}

type IModerator interface {
	Inspect(text string) Verdict
}

type Moderator struct {
	matcher      *goahocorasick.Machine
	censoredChar rune
	log          *slog.Logger
}

type TextMapping struct {
	Normalized []rune
	OrigIdx    []int
}

// WordList is the YAML document holding the censored vocabulary.
//
//	replacement: "*"
//	words:
//	  - badger
type WordList struct {
	Replacement string   `yaml:"replacement"`
	Words       []string `yaml:"words"`
}

func LoadWordList(path string) (WordList, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return WordList{}, fmt.Errorf("read word list: %w", err)
	}
	var list WordList
	if err := yaml.Unmarshal(bytes, &list); err != nil {
		return WordList{}, fmt.Errorf("parse word list %s: %w", path, err)
	}
	return list, nil
}

// ReplacementRune is the first rune of Replacement, DefaultReplacement otherwise.
func (l WordList) ReplacementRune() rune {
	for _, r := range l.Replacement {
		return r
	}
	return DefaultReplacement
}

// NewModerator builds the Aho-Corasick automaton over the normalized words.
// Words that normalize to nothing (pure punctuation) are ignored.
func NewModerator(censoredWords []string, censoredChar rune, log *slog.Logger) (*Moderator, error) {
	patterns := make([][]rune, 0, len(censoredWords))
	for _, word := range censoredWords {
		if normalized := normalizeRunes([]rune(word)); len(normalized) > 0 {
			patterns = append(patterns, normalized)
		}
	}

	m := &Moderator{censoredChar: censoredChar, log: log}
	if len(patterns) == 0 {
		log.Warn("Moderation disabled, no usable censored word")
		return m, nil
	}
	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return nil, err
	}
	m.matcher = machine
	log.Debug("Moderator ready", "patterns", len(patterns))
	return m, nil
}

// Inspect censors the text and tags it with its ISO 639-1 language.
func (m *Moderator) Inspect(text string) Verdict {
	censored, words := m.Censor(text)
	return Verdict{
		Text:     censored,
		Language: whatlanggo.Detect(text).Lang.Iso6391(),
		Words:    words,
	}
}

// Censor replaces every forbidden pattern with the replacement rune, keeping
// spacing and punctuation around it.
func (m *Moderator) Censor(original string) (string, []string) {
	if m.matcher == nil {
		return original, nil
	}
	mapping := m.normalize(original)
	if len(mapping.Normalized) == 0 {
		return original, nil
	}

	spans := m.matcher.MultiPatternSearch(mapping.Normalized, false)
	if len(spans) == 0 {
		return original, nil
	}

	origRunes := []rune(original)
	var words []string
	for _, span := range spans {
		normStart := span.Pos
		normEnd := normStart + len(span.Word)
		if normStart < 0 || normEnd > len(mapping.OrigIdx) {
			continue
		}

		origStart := mapping.OrigIdx[normStart]
		origEnd := mapping.OrigIdx[normEnd-1] + 1
		for i := origStart; i < origEnd; i++ {
			origRunes[i] = m.censoredChar
		}
		words = append(words, string(span.Word))
	}
	return string(origRunes), words
}

// normalize lowers and simplifies the input, dropping noise, and remembers
// where each kept rune came from.
func (m *Moderator) normalize(input string) TextMapping {
	origRunes := []rune(input)
	norm := make([]rune, 0, len(origRunes))
	origIdx := make([]int, 0, len(origRunes))

	for i, r := range origRunes {
		clean := simplifyRune(r)
		if isNoise(clean) {
			continue
		}
		norm = append(norm, unicode.ToLower(clean))
		origIdx = append(origIdx, i)
	}
	return TextMapping{Normalized: norm, OrigIdx: origIdx}
}

func normalizeRunes(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		clean := simplifyRune(r)
		if isNoise(clean) {
			continue
		}
		out = append(out, unicode.ToLower(clean))
	}
	return out
}

// simplifyRune maps leet speak back to letters.
func simplifyRune(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
