// Package cost estimates the API spend of translating a documentation
// tree by tokenizing every supported file and applying per-model
// pricing.
package cost

import (
	"context"
	"fmt"
	"os"

	"github.com/ZaguanLabs/doctran"
	"github.com/pkoukk/tiktoken-go"
)

// MaxFileSize is the largest file tokenized; bigger files are skipped
// and reported instead of stalling the estimate.
const MaxFileSize = 10 * 1024 * 1024

// ModelPricing is USD per million tokens.
type ModelPricing struct {
	Input       float64
	CachedInput float64
	Output      float64
}

// Pricing maps model names to their published rates.
var Pricing = map[string]ModelPricing{
	"gpt-4o":                       {Input: 2.50, CachedInput: 1.25, Output: 10.00},
	"gpt-4o-realtime-preview":      {Input: 5.00, CachedInput: 2.50, Output: 20.00},
	"gpt-4o-mini":                  {Input: 0.15, CachedInput: 0.075, Output: 0.60},
	"gpt-4o-mini-realtime-preview": {Input: 0.60, CachedInput: 0.30, Output: 2.40},
	"o1":                           {Input: 15.00, CachedInput: 7.50, Output: 60.00},
	"o3-mini":                      {Input: 1.10, CachedInput: 0.55, Output: 4.40},
	"o1-mini":                      {Input: 1.10, CachedInput: 0.55, Output: 4.40},
}

// defaultPricingModel is assumed for models missing from the table.
const defaultPricingModel = "gpt-4o-mini"

// Encoder counts tokens in text. The production implementation wraps
// the cl100k_base BPE; tests substitute a word counter.
type Encoder interface {
	Count(text string) (int, error)
}

// TiktokenEncoder counts tokens with the cl100k_base encoding.
type TiktokenEncoder struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenEncoder loads the cl100k_base encoding.
func NewTiktokenEncoder() (*TiktokenEncoder, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("loading cl100k_base encoding: %w", err)
	}
	return &TiktokenEncoder{enc: enc}, nil
}

func (t *TiktokenEncoder) Count(text string) (int, error) {
	return len(t.enc.Encode(text, nil, nil)), nil
}

var _ Encoder = (*TiktokenEncoder)(nil)

// Estimate is a cost projection for a token count under one model.
type Estimate struct {
	Model      string
	Tokens     int
	Files      int
	Skipped    []string // paths skipped for size
	InputCost  float64
	OutputCost float64
	TotalCost  float64
}

// EstimateTokens prices a raw token count for a model. Unknown models
// fall back to the default pricing tier.
func EstimateTokens(tokens int, model string) Estimate {
	pricing, ok := Pricing[model]
	if !ok {
		pricing = Pricing[defaultPricingModel]
	}
	millions := float64(tokens) / 1_000_000
	return Estimate{
		Model:      model,
		Tokens:     tokens,
		InputCost:  millions * pricing.Input,
		OutputCost: millions * pricing.Output,
		TotalCost:  millions * (pricing.Input + pricing.Output),
	}
}

// EstimateFolder tokenizes every supported file under dir and prices
// the total. Cancellation between files returns the partial estimate
// together with ctx.Err(), so an interrupted run still reports what it
// counted.
func EstimateFolder(ctx context.Context, dir, model string, enc Encoder) (Estimate, error) {
	paths, err := doctran.MatchFiles(dir)
	if err != nil {
		return Estimate{}, err
	}

	var tokens, files int
	var skipped []string
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			est := EstimateTokens(tokens, model)
			est.Files = files
			est.Skipped = skipped
			return est, err
		}

		info, err := os.Stat(path)
		if err != nil {
			return Estimate{}, fmt.Errorf("stat %s: %w", path, err)
		}
		if info.Size() > MaxFileSize {
			skipped = append(skipped, path)
			continue
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return Estimate{}, fmt.Errorf("reading %s: %w", path, err)
		}

		n, err := enc.Count(string(content))
		if err != nil {
			// Tokenization failure skips the file, matching the
			// degrade-to-partial behavior of cancellation.
			skipped = append(skipped, path)
			continue
		}
		tokens += n
		files++
	}

	est := EstimateTokens(tokens, model)
	est.Files = files
	est.Skipped = skipped
	return est, nil
}
