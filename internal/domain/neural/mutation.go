package neural

// MutationKind identifies an entry in the mutation-method catalog.
type MutationKind string

const (
	// MutationModActivation swaps the node's activation function for a
	// different entry from the method's allowed set.
	MutationModActivation MutationKind = "mod-activation"
	// MutationModBias perturbs the node's bias by a uniform random offset.
	MutationModBias MutationKind = "mod-bias"
)

// MutationMethod is a named perturbation recipe with kind-specific parameters.
type MutationMethod struct {
	Kind MutationKind `json:"kind"`

	// Allowed is the activation set MutationModActivation draws from.
	Allowed []ActivationType `json:"allowed,omitempty"`

	// Min and Max bound the uniform offset applied by MutationModBias.
	Min float64 `json:"min,omitempty"`
	Max float64 `json:"max,omitempty"`
}

// KnownMutation reports whether the kind exists in the catalog.
func KnownMutation(kind MutationKind) bool {
	switch kind {
	case MutationModActivation, MutationModBias:
		return true
	}
	return false
}

// ModActivation returns the default activation-swap method, allowing the
// whole catalog.
func ModActivation() MutationMethod {
	allowed := make([]ActivationType, len(AllActivations))
	copy(allowed, AllActivations)
	return MutationMethod{
		Kind:    MutationModActivation,
		Allowed: allowed,
	}
}

// ModBias returns the default bias-perturbation method.
func ModBias() MutationMethod {
	return MutationMethod{
		Kind: MutationModBias,
		Min:  -1,
		Max:  1,
	}
}
