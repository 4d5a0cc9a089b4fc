package classifier

import "github.com/crimson-sun/seizurewatch/internal/model"

// Threshold is the fixed decision boundary. A probability must strictly
// exceed it to count as a seizure.
const Threshold = 0.5

// Classifier turns a model probability into a seizure decision.
type Classifier struct {
	threshold float64
}

// New creates a Classifier using Threshold.
func New() *Classifier {
	return &Classifier{threshold: Threshold}
}

// IsSeizure reports whether probability is above the threshold.
func (c *Classifier) IsSeizure(probability float64) bool {
	return probability > c.threshold
}

// Classify reports the probability together with the thresholded decision.
func (c *Classifier) Classify(probability float64) model.Detection {
	return model.Detection{
		Probability: probability,
		IsSeizure:   c.IsSeizure(probability),
	}
}
