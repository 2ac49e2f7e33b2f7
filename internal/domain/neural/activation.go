package neural

import (
	"fmt"
	"math"
)

// ActivationType identifies an entry in the activation-function catalog.
type ActivationType int

const (
	// ActivationLogistic is the standard sigmoid, the default squash.
	ActivationLogistic ActivationType = iota
	// ActivationTanh is the hyperbolic tangent.
	ActivationTanh
	// ActivationIdentity passes the state through unchanged.
	ActivationIdentity
	// ActivationStep is the binary threshold at zero.
	ActivationStep
	// ActivationReLU is the rectified linear unit.
	ActivationReLU
	// ActivationLeakyReLU is ReLU with a 0.1 slope for negative states.
	ActivationLeakyReLU
	// ActivationSoftsign is x / (1 + |x|).
	ActivationSoftsign
	// ActivationSinusoid is sin(x).
	ActivationSinusoid
	// ActivationGaussian is exp(-x^2).
	ActivationGaussian
	// ActivationBentIdentity is (sqrt(x^2+1)-1)/2 + x.
	ActivationBentIdentity
	// ActivationAbsolute is |x|.
	ActivationAbsolute
	// ActivationInverse is 1 - x.
	ActivationInverse
)

var activationNames = map[ActivationType]string{
	ActivationLogistic:     "logistic",
	ActivationTanh:         "tanh",
	ActivationIdentity:     "identity",
	ActivationStep:         "step",
	ActivationReLU:         "relu",
	ActivationLeakyReLU:    "leaky-relu",
	ActivationSoftsign:     "softsign",
	ActivationSinusoid:     "sinusoid",
	ActivationGaussian:     "gaussian",
	ActivationBentIdentity: "bent-identity",
	ActivationAbsolute:     "absolute",
	ActivationInverse:      "inverse",
}

// AllActivations lists every catalog entry, in declaration order.
var AllActivations = []ActivationType{
	ActivationLogistic,
	ActivationTanh,
	ActivationIdentity,
	ActivationStep,
	ActivationReLU,
	ActivationLeakyReLU,
	ActivationSoftsign,
	ActivationSinusoid,
	ActivationGaussian,
	ActivationBentIdentity,
	ActivationAbsolute,
	ActivationInverse,
}

// String returns the stable catalog name used for serialization.
func (a ActivationType) String() string {
	if name, ok := activationNames[a]; ok {
		return name
	}
	return "unknown"
}

// ActivationByName resolves a serialized name back to its catalog entry.
func ActivationByName(name string) (ActivationType, error) {
	for t, n := range activationNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown activation function %q", name)
}

// Apply evaluates the activation function at the given pre-activation state.
func (a ActivationType) Apply(x float64) float64 {
	switch a {
	case ActivationLogistic:
		return 1.0 / (1.0 + math.Exp(-x))
	case ActivationTanh:
		return math.Tanh(x)
	case ActivationIdentity:
		return x
	case ActivationStep:
		if x > 0 {
			return 1
		}
		return 0
	case ActivationReLU:
		if x > 0 {
			return x
		}
		return 0
	case ActivationLeakyReLU:
		if x >= 0 {
			return x
		}
		return 0.1 * x
	case ActivationSoftsign:
		return x / (1.0 + math.Abs(x))
	case ActivationSinusoid:
		return math.Sin(x)
	case ActivationGaussian:
		return math.Exp(-x * x)
	case ActivationBentIdentity:
		return (math.Sqrt(x*x+1.0)-1.0)/2.0 + x
	case ActivationAbsolute:
		return math.Abs(x)
	case ActivationInverse:
		return 1.0 - x
	default:
		return x
	}
}

// Derivative evaluates the slope of the activation function with respect to
// the pre-activation state.
func (a ActivationType) Derivative(x float64) float64 {
	switch a {
	case ActivationLogistic:
		fx := 1.0 / (1.0 + math.Exp(-x))
		return fx * (1.0 - fx)
	case ActivationTanh:
		t := math.Tanh(x)
		return 1.0 - t*t
	case ActivationIdentity:
		return 1
	case ActivationStep:
		return 0
	case ActivationReLU:
		if x > 0 {
			return 1
		}
		return 0
	case ActivationLeakyReLU:
		if x >= 0 {
			return 1
		}
		return 0.1
	case ActivationSoftsign:
		d := 1.0 + math.Abs(x)
		return 1.0 / (d * d)
	case ActivationSinusoid:
		return math.Cos(x)
	case ActivationGaussian:
		return -2.0 * x * math.Exp(-x*x)
	case ActivationBentIdentity:
		return x/(2.0*math.Sqrt(x*x+1.0)) + 1.0
	case ActivationAbsolute:
		if x < 0 {
			return -1
		}
		return 1
	case ActivationInverse:
		return -1
	default:
		return 1
	}
}
