package neural

// DefaultLearningRate is used when a backward pass is requested without an
// explicit rate.
const DefaultLearningRate = 0.3

// DefaultMomentum is used when a backward pass is requested without an
// explicit momentum.
const DefaultMomentum = 0.0

// Sample is one supervised training example.
type Sample struct {
	Input  []float64 `json:"input"`
	Target []float64 `json:"target"`
}

// TrainingConfig controls a training run driven by the application layer.
type TrainingConfig struct {
	// Rate is the learning rate for weight and bias updates.
	Rate float64 `json:"rate"`

	// Momentum folds a fraction of the previous committed delta into each
	// update.
	Momentum float64 `json:"momentum"`

	// Iterations is the number of passes over the training set.
	Iterations int `json:"iterations"`

	// BatchSize is the number of samples accumulated before deltas are
	// committed. 1 means online updates.
	BatchSize int `json:"batchSize"`

	// ErrorTarget stops training early once the mean squared error drops
	// below it. Zero disables early stopping.
	ErrorTarget float64 `json:"errorTarget"`
}

// DefaultTrainingConfig returns the default training configuration.
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		Rate:       DefaultLearningRate,
		Momentum:   DefaultMomentum,
		Iterations: 1000,
		BatchSize:  1,
	}
}
