package predictor

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sozercan/carprice/internal/features"
)

// Linear is a local linear regression over the feature vector.
type Linear struct {
	Intercept    float64
	Coefficients features.Vector
}

type linearArtifact struct {
	Intercept    float64   `yaml:"intercept"`
	Coefficients []float64 `yaml:"coefficients"`
}

// LoadLinear reads a model artifact with an intercept and one coefficient per
// feature column, in features.Columns order.
func LoadLinear(path string) (*Linear, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var a linearArtifact
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse model artifact %s: %w", path, err)
	}
	if len(a.Coefficients) != features.NumFeatures {
		return nil, fmt.Errorf("model artifact %s: want %d coefficients, got %d",
			path, features.NumFeatures, len(a.Coefficients))
	}

	m := &Linear{Intercept: a.Intercept}
	copy(m.Coefficients[:], a.Coefficients)
	return m, nil
}

func (m *Linear) Name() string { return BackendLinear }

func (m *Linear) Predict(_ context.Context, v features.Vector) (float64, error) {
	y := m.Intercept
	for i, x := range v {
		y += m.Coefficients[i] * x
	}
	return y, nil
}
