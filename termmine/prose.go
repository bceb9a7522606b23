package termmine

import (
	prose "github.com/jdkato/prose/v2"
)

// ProseTagger tags text with the prose statistical part-of-speech model.
type ProseTagger struct{}

// NewProseTagger creates the production tagger.
func NewProseTagger() *ProseTagger {
	return &ProseTagger{}
}

func (p *ProseTagger) Tag(text string) ([]Token, error) {
	doc, err := prose.NewDocument(text,
		prose.WithExtraction(false),
		prose.WithSegmentation(false))
	if err != nil {
		return nil, err
	}

	proseTokens := doc.Tokens()
	tokens := make([]Token, len(proseTokens))
	for i, tok := range proseTokens {
		tokens[i] = Token{Text: tok.Text, Tag: tok.Tag}
	}
	return tokens, nil
}

var _ Tagger = (*ProseTagger)(nil)
