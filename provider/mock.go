package provider

import (
	"context"
	"fmt"

	"github.com/ZaguanLabs/doctran"
)

// MockClient is a configurable in-memory provider for tests. By default
// it echoes units back with a translation prefix and maps terms through
// the Terms table.
type MockClient struct {
	// Prefix is prepended to each translated unit text. Default "[xx] ".
	Prefix string

	// Terms maps a source term to its per-language translations. Terms
	// absent from the table are echoed unchanged.
	Terms map[string]map[string]string

	// Err, when set, is returned by every call.
	Err error

	// UnitCalls records every TranslateUnits request received.
	UnitCalls []UnitsRequest

	// TermCalls records every term batch received.
	TermCalls [][]string

	// FineTuneCalls records every training set submitted.
	FineTuneCalls [][]doctran.TrainingExample
}

// NewMockClient creates a mock provider with default behavior.
func NewMockClient() *MockClient {
	return &MockClient{Prefix: "[xx] "}
}

func (m *MockClient) TranslateUnits(ctx context.Context, req UnitsRequest) ([]doctran.TranslatedUnit, error) {
	m.UnitCalls = append(m.UnitCalls, req)
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]doctran.TranslatedUnit, len(req.Units))
	for i, u := range req.Units {
		out[i] = doctran.TranslatedUnit{Key: u.Key, Text: m.Prefix + u.Text}
	}
	return out, nil
}

func (m *MockClient) TranslateTerms(ctx context.Context, terms []string, targetLangs []string) (map[string][]string, error) {
	m.TermCalls = append(m.TermCalls, terms)
	if m.Err != nil {
		return nil, m.Err
	}
	result := map[string][]string{"source": terms}
	for _, lang := range targetLangs {
		translations := make([]string, len(terms))
		for i, term := range terms {
			if byLang, ok := m.Terms[term]; ok && byLang[lang] != "" {
				translations[i] = byLang[lang]
			} else {
				translations[i] = term
			}
		}
		result[lang] = translations
	}
	return result, nil
}

func (m *MockClient) SubmitFineTune(ctx context.Context, examples []doctran.TrainingExample) (string, error) {
	m.FineTuneCalls = append(m.FineTuneCalls, examples)
	if m.Err != nil {
		return "", m.Err
	}
	return fmt.Sprintf("ftjob-mock-%d", len(m.FineTuneCalls)), nil
}

var (
	_ ChunkTranslator = (*MockClient)(nil)
	_ TermTranslator  = (*MockClient)(nil)
	_ FineTuner       = (*MockClient)(nil)
)
