package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ZaguanLabs/doctran"
	"github.com/sashabaranov/go-openai"
)

// OpenAIClient implements the doctran provider interfaces against the
// OpenAI API: chunked unit translation, terminology translation, and
// fine-tuning job submission.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	targetLangs []string
}

// OpenAIConfig holds configuration for the OpenAI client.
type OpenAIConfig struct {
	APIKey      string   // OpenAI API key
	Model       string   // model to use (default: "gpt-4o-mini"); set a fine-tuned model ID here to use it
	Temperature float32  // temperature for generation (default: 0.2)
	BaseURL     string   // custom base URL (optional)
	TargetLangs []string // target language codes (default: ["ko", "ja"])
}

// NewOpenAIClient creates a new OpenAI client.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.2
	}

	langs := cfg.TargetLangs
	if len(langs) == 0 {
		langs = []string{"ko", "ja"}
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
		targetLangs: langs,
	}
}

// Model returns the model the client translates with.
func (c *OpenAIClient) Model() string { return c.model }

// TranslateUnits translates one chunk of keyed units. The response must
// parse as a JSON array of {seq, text} objects; anything else is a
// *doctran.ResponseFormatError, fatal for the chunk.
func (c *OpenAIClient) TranslateUnits(ctx context.Context, req UnitsRequest) ([]doctran.TranslatedUnit, error) {
	if len(req.Units) == 0 {
		return nil, nil
	}

	payload, err := json.Marshal(req.Units)
	if err != nil {
		return nil, &doctran.ProviderError{Message: "marshaling unit payload", Cause: err}
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are a professional technical translator."},
			{Role: openai.ChatMessageRoleUser, Content: req.PromptTemplate},
			{Role: openai.ChatMessageRoleUser, Content: string(payload)},
		},
		Temperature: c.temperature,
		MaxTokens:   16000,
	})
	if err != nil {
		return nil, &doctran.ProviderError{Message: "chat completion failed", Cause: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &doctran.ProviderError{Message: "no response choices"}
	}

	return doctran.ParseUnitsResponse(resp.Choices[0].Message.Content)
}

// termsPrompt is the terminology translation request template.
const termsPrompt = `You are a professional translator specializing in technical terms.

Translate each term in the following JSON array into every one of these target languages: %s.

Terms: %s

Return ONLY a JSON object with a "source" key holding the input terms in order, plus one key per target language code holding the translations in the same order. Every array must have exactly the same length as the input.
Example: {"source": ["cache"], "ko": ["캐시"], "ja": ["キャッシュ"]}
Do not wrap the JSON in markdown code fences.`

// TranslateTerms translates a batch of terms into each target language.
// A response that cannot be parsed into the expected shape does not fail
// the call: every term is assigned the per-language sentinel marker
// instead, so downstream length checks still hold.
func (c *OpenAIClient) TranslateTerms(ctx context.Context, terms []string, targetLangs []string) (map[string][]string, error) {
	if len(terms) == 0 {
		return map[string][]string{}, nil
	}
	if len(targetLangs) == 0 {
		targetLangs = c.targetLangs
	}

	wordsJSON, _ := json.Marshal(terms)
	langsJSON, _ := json.Marshal(targetLangs)
	prompt := fmt.Sprintf(termsPrompt, string(langsJSON), string(wordsJSON))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.temperature,
	})
	if err != nil {
		return nil, &doctran.ProviderError{Message: "term translation failed", Cause: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &doctran.ProviderError{Message: "no response choices"}
	}

	return parseTermsResponse(resp.Choices[0].Message.Content, terms, targetLangs), nil
}

// parseTermsResponse parses the term translation response, falling back to
// sentinel markers for every term when the shape is invalid.
func parseTermsResponse(content string, terms []string, targetLangs []string) map[string][]string {
	content = doctran.StripCodeFence(content)

	var parsed map[string][]string
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return sentinelTranslations(terms, targetLangs)
	}

	for _, lang := range targetLangs {
		if len(parsed[lang]) != len(terms) {
			return sentinelTranslations(terms, targetLangs)
		}
	}

	result := map[string][]string{"source": terms}
	for _, lang := range targetLangs {
		result[lang] = parsed[lang]
	}
	return result
}

// sentinelTranslations assigns the per-language error marker to every
// term. Deliberately not an error: see the terminology miner's fallback
// contract.
func sentinelTranslations(terms []string, targetLangs []string) map[string][]string {
	result := map[string][]string{"source": terms}
	for _, lang := range targetLangs {
		marks := make([]string, len(terms))
		for i := range marks {
			marks[i] = doctran.SentinelMarker(lang)
		}
		result[lang] = marks
	}
	return result
}

// SubmitFineTune uploads the examples as a JSONL dataset and creates a
// fine-tuning job. Fire-and-forget: the returned job ID can be polled
// with FineTuneStatus but the pipeline does not wait.
func (c *OpenAIClient) SubmitFineTune(ctx context.Context, examples []doctran.TrainingExample) (string, error) {
	if len(examples) == 0 {
		return "", &doctran.ProviderError{Message: "no training examples"}
	}

	data, err := buildFineTuneDataset(examples, c.targetLangs)
	if err != nil {
		return "", err
	}

	file, err := c.client.CreateFileBytes(ctx, openai.FileBytesRequest{
		Name:    "doctran_terms.jsonl",
		Bytes:   data,
		Purpose: openai.PurposeFineTune,
	})
	if err != nil {
		return "", &doctran.ProviderError{Message: "uploading training file", Cause: err}
	}

	job, err := c.client.CreateFineTuningJob(ctx, openai.FineTuningJobRequest{
		TrainingFile: file.ID,
		Model:        c.model,
	})
	if err != nil {
		return "", &doctran.ProviderError{Message: "creating fine-tuning job", Cause: err}
	}

	return job.ID, nil
}

// FineTuneStatus returns the current status of a fine-tuning job.
func (c *OpenAIClient) FineTuneStatus(ctx context.Context, jobID string) (string, error) {
	job, err := c.client.RetrieveFineTuningJob(ctx, jobID)
	if err != nil {
		return "", &doctran.ProviderError{Message: "retrieving fine-tuning job", Cause: err}
	}
	return string(job.Status), nil
}

// ListModels returns the IDs of models available to the API key.
func (c *OpenAIClient) ListModels(ctx context.Context) ([]string, error) {
	list, err := c.client.ListModels(ctx)
	if err != nil {
		return nil, &doctran.ProviderError{Message: "listing models", Cause: err}
	}

	ids := make([]string, len(list.Models))
	for i, m := range list.Models {
		ids[i] = m.ID
	}
	return ids, nil
}

// buildFineTuneDataset renders examples as prompt/completion JSONL.
func buildFineTuneDataset(examples []doctran.TrainingExample, targetLangs []string) ([]byte, error) {
	langNames := make([]string, len(targetLangs))
	for i, lang := range targetLangs {
		langNames[i] = doctran.GetLanguageName(lang)
	}

	type line struct {
		Prompt     string `json:"prompt"`
		Completion string `json:"completion"`
	}

	var buf bytes.Buffer
	for _, ex := range examples {
		completions := make([]string, 0, len(targetLangs))
		for i, lang := range targetLangs {
			completions = append(completions, fmt.Sprintf("%s: %s", langNames[i], ex.Translations[lang]))
		}
		entry := line{
			Prompt:     fmt.Sprintf("Translate '%s' into %s.", ex.Source, strings.Join(langNames, " and ")),
			Completion: strings.Join(completions, ", "),
		}
		data, err := json.Marshal(entry)
		if err != nil {
			return nil, &doctran.ProviderError{Message: "marshaling training example", Cause: err}
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// Verify OpenAIClient implements the provider interfaces.
var (
	_ ChunkTranslator = (*OpenAIClient)(nil)
	_ TermTranslator  = (*OpenAIClient)(nil)
	_ FineTuner       = (*OpenAIClient)(nil)
)
