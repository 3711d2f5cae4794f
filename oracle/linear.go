package oracle

import (
	"context"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// LinearModel regresses the priority label from standardized features.
// Fields are never written after LoadLinearModel returns.
type LinearModel struct {
	Version     string             `yaml:"version"`
	Means       map[string]float64 `yaml:"means"`
	Scales      map[string]float64 `yaml:"scales"`
	Weights     map[string]float64 `yaml:"weights"`
	Intercept   float64            `yaml:"intercept"`
	MaxPriority int                `yaml:"max_priority"`

	mean   []float64
	scale  []float64
	weight []float64
}

// LoadLinearModel reads a model file exported by the training pipeline.
func LoadLinearModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}
	return ParseLinearModel(data)
}

func ParseLinearModel(data []byte) (*LinearModel, error) {
	var m LinearModel
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse model file: %w", err)
	}
	if err := m.compile(); err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}
	return &m, nil
}

func (m *LinearModel) compile() error {
	if m.MaxPriority <= 0 {
		return fmt.Errorf("max_priority must be positive, got %d", m.MaxPriority)
	}
	if len(m.Weights) == 0 {
		return fmt.Errorf("no weights")
	}

	m.mean = make([]float64, len(FeatureNames))
	m.scale = make([]float64, len(FeatureNames))
	m.weight = make([]float64, len(FeatureNames))
	for i, name := range FeatureNames {
		m.mean[i] = m.Means[name]
		m.scale[i] = 1
		if s, ok := m.Scales[name]; ok {
			if s <= 0 {
				return fmt.Errorf("scale for %s must be positive", name)
			}
			m.scale[i] = s
		}
		m.weight[i] = m.Weights[name]
	}
	return nil
}

func (m *LinearModel) Predict(
	ctx context.Context,
	cards []CardFeatures,
	availableFunds float64,
) ([]Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]Prediction, 0, len(cards))
	for _, card := range cards {
		card.AvailableFunds = availableFunds
		out = append(out, Prediction{
			CardID:   card.CardID,
			Priority: m.priority(card.Vector()),
		})
	}
	return out, nil
}

func (m *LinearModel) priority(x []float64) int {
	y := m.Intercept
	for i, v := range x {
		y += m.weight[i] * (v - m.mean[i]) / m.scale[i]
	}

	switch {
	case math.IsNaN(y), y >= float64(m.MaxPriority):
		return m.MaxPriority
	case y <= 1:
		return 1
	}
	return int(math.Round(y))
}
