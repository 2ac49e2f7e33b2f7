// Package neural provides the application services that orchestrate node
// forward and backward passes.
package neural

import (
	"fmt"
	"sync"

	domainNeural "github.com/jocieb/carrot/internal/domain/neural"
	infraNeural "github.com/jocieb/carrot/internal/infrastructure/neural"
)

// Trainer drives a set of nodes through forward and backward passes. The
// caller supplies the topological order: inputs first, hidden nodes in
// forward order, outputs last. The backward pass runs in exact reverse. The
// node layer depends on this discipline but does not enforce it; the trainer
// is where it lives.
type Trainer struct {
	mu      sync.RWMutex
	inputs  []*infraNeural.Node
	hidden  []*infraNeural.Node
	outputs []*infraNeural.Node
	config  domainNeural.TrainingConfig
}

// NewTrainer creates a trainer over the given nodes. hidden must be in
// forward topological order and may be empty.
func NewTrainer(inputs, hidden, outputs []*infraNeural.Node, config domainNeural.TrainingConfig) (*Trainer, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("trainer requires at least one input node")
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("trainer requires at least one output node")
	}
	if config.Rate == 0 {
		config.Rate = domainNeural.DefaultLearningRate
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 1
	}
	if config.Iterations <= 0 {
		config.Iterations = 1
	}

	return &Trainer{
		inputs:  inputs,
		hidden:  hidden,
		outputs: outputs,
		config:  config,
	}, nil
}

// Forward runs a learning-enabled forward pass and returns the output
// activations.
func (t *Trainer) Forward(input []float64) ([]float64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.forward(input)
}

func (t *Trainer) forward(input []float64) ([]float64, error) {
	if len(input) != len(t.inputs) {
		return nil, fmt.Errorf("expected %d input values, got %d", len(t.inputs), len(input))
	}

	for i, node := range t.inputs {
		node.ActivateValue(input[i])
	}
	for _, node := range t.hidden {
		node.Activate()
	}

	output := make([]float64, len(t.outputs))
	for i, node := range t.outputs {
		output[i] = node.Activate()
	}
	return output, nil
}

// Backward runs a backward pass in reverse topological order, committing
// accumulated deltas when update is true.
func (t *Trainer) Backward(target []float64, update bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.backward(target, update)
}

func (t *Trainer) backward(target []float64, update bool) error {
	if len(target) != len(t.outputs) {
		return fmt.Errorf("expected %d target values, got %d", len(t.outputs), len(target))
	}

	for i := len(t.outputs) - 1; i >= 0; i-- {
		value := target[i]
		t.outputs[i].Propagate(t.config.Rate, t.config.Momentum, update, &value)
	}
	for i := len(t.hidden) - 1; i >= 0; i-- {
		t.hidden[i].Propagate(t.config.Rate, t.config.Momentum, update, nil)
	}
	return nil
}

// Predict runs an inference-only pass, leaving traces untouched.
func (t *Trainer) Predict(input []float64) ([]float64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(input) != len(t.inputs) {
		return nil, fmt.Errorf("expected %d input values, got %d", len(t.inputs), len(input))
	}

	for i, node := range t.inputs {
		node.ActivateValue(input[i])
	}
	for _, node := range t.hidden {
		node.NoTraceActivate()
	}

	output := make([]float64, len(t.outputs))
	for i, node := range t.outputs {
		output[i] = node.NoTraceActivate()
	}
	return output, nil
}

// TrainingResult summarizes a training run.
type TrainingResult struct {
	// Iterations actually executed, which may be fewer than configured
	// when the error target is reached early.
	Iterations int `json:"iterations"`

	// Error is the mean squared error of the final iteration.
	Error float64 `json:"error"`
}

// Train runs the configured number of iterations over the training set,
// committing deltas at batch boundaries and at the end of each iteration.
func (t *Trainer) Train(set []domainNeural.Sample) (TrainingResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(set) == 0 {
		return TrainingResult{}, fmt.Errorf("empty training set")
	}

	var result TrainingResult
	for iteration := 1; iteration <= t.config.Iterations; iteration++ {
		var sumSquared float64
		var count int

		for i, sample := range set {
			output, err := t.forward(sample.Input)
			if err != nil {
				return result, err
			}

			update := (i+1)%t.config.BatchSize == 0 || i == len(set)-1
			if err := t.backward(sample.Target, update); err != nil {
				return result, err
			}

			for j, value := range output {
				diff := sample.Target[j] - value
				sumSquared += diff * diff
				count++
			}
		}

		result.Iterations = iteration
		result.Error = sumSquared / float64(count)

		if t.config.ErrorTarget > 0 && result.Error <= t.config.ErrorTarget {
			break
		}
	}

	return result, nil
}

// Clear resets the transient state of every node the trainer drives. Used to
// sever recurrent memory between unrelated sequences.
func (t *Trainer) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, node := range t.inputs {
		node.Clear()
	}
	for _, node := range t.hidden {
		node.Clear()
	}
	for _, node := range t.outputs {
		node.Clear()
	}
}
