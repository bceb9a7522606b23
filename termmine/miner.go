package termmine

import (
	"strings"
	"unicode"
)

// DefaultMinCount is the frequency a noun must reach to become a
// candidate term.
const DefaultMinCount = 5

// Token is one tagged word from a part-of-speech pass.
type Token struct {
	Text string
	Tag  string
}

// Tagger tags prose with part-of-speech labels. The production
// implementation wraps a statistical tagger; tests substitute a table
// lookup.
type Tagger interface {
	Tag(text string) ([]Token, error)
}

// Miner extracts candidate terminology from stripped document text.
type Miner struct {
	tagger   Tagger
	minCount int
}

// NewMiner creates a miner with the given tagger. minCount <= 0 selects
// DefaultMinCount.
func NewMiner(tagger Tagger, minCount int) *Miner {
	if minCount <= 0 {
		minCount = DefaultMinCount
	}
	return &Miner{tagger: tagger, minCount: minCount}
}

// Mine returns candidate terms from content: nouns, lowercased, with
// stopwords dropped, that occur at least minCount times. Order follows
// first appearance in the text.
func (m *Miner) Mine(content string) ([]string, error) {
	text := PlainText(content)
	if text == "" {
		return nil, nil
	}

	tokens, err := m.tagger.Tag(text)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	var order []string
	for _, tok := range tokens {
		if !isNounTag(tok.Tag) {
			continue
		}
		term := normalizeTerm(tok.Text)
		if term == "" || isStopword(term) {
			continue
		}
		if counts[term] == 0 {
			order = append(order, term)
		}
		counts[term]++
	}

	var terms []string
	for _, term := range order {
		if counts[term] >= m.minCount {
			terms = append(terms, term)
		}
	}
	return terms, nil
}

// isNounTag reports whether a Penn Treebank tag marks a noun (NN, NNS,
// NNP, NNPS).
func isNounTag(tag string) bool {
	return strings.HasPrefix(tag, "NN")
}

// normalizeTerm lowercases and trims a token, rejecting anything that
// is not a plain word of at least three letters.
func normalizeTerm(text string) string {
	term := strings.ToLower(strings.TrimSpace(text))
	if len(term) < 3 {
		return ""
	}
	for _, r := range term {
		if !unicode.IsLetter(r) && r != '-' {
			return ""
		}
	}
	return term
}
