package pricing

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rate is the price of one model in USD per 1K tokens.
type Rate struct {
	Input  float64 `yaml:"input"`
	Output float64 `yaml:"output"`
}

// Cost prices a test's sent and received tokens.
func (r Rate) Cost(sentTokens, receivedTokens int64) float64 {
	return (float64(sentTokens)/1000.0)*r.Input + (float64(receivedTokens)/1000.0)*r.Output
}

// Table maps provider -> model -> rate.
type Table struct {
	Providers map[string]map[string]Rate
}

func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pricing file: %w", err)
	}
	var providers map[string]map[string]Rate
	if err := yaml.Unmarshal(data, &providers); err != nil {
		return nil, fmt.Errorf("parsing pricing file: %w", err)
	}
	return &Table{Providers: providers}, nil
}

// Rate looks up the rate for a provider and model.
func (t *Table) Rate(provider, model string) (Rate, error) {
	models, ok := t.Providers[provider]
	if !ok {
		return Rate{}, fmt.Errorf("unknown provider %q", provider)
	}
	r, ok := models[model]
	if !ok {
		return Rate{}, fmt.Errorf("unknown model %q for provider %q", model, provider)
	}
	return r, nil
}
