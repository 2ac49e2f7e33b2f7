// Package neural provides domain types for the neural node core.
package neural

// NodeType represents the role of a node in a network.
type NodeType string

const (
	// NodeTypeInput is a node driven externally with forced values.
	NodeTypeInput NodeType = "input"
	// NodeTypeHidden is an interior node.
	NodeTypeHidden NodeType = "hidden"
	// NodeTypeOutput is a node compared against targets during learning.
	NodeTypeOutput NodeType = "output"
	// NodeTypeConstant is a frozen node whose bias and weights never update.
	NodeTypeConstant NodeType = "constant"
)

// ValidNodeType reports whether t is one of the known node types.
func ValidNodeType(t NodeType) bool {
	switch t {
	case NodeTypeInput, NodeTypeHidden, NodeTypeOutput, NodeTypeConstant:
		return true
	}
	return false
}

// NodeRecord is the persistent form of a node: its learned identity only.
// Topology belongs to the network and runtime state (activation, state,
// traces) is deliberately not captured.
type NodeRecord struct {
	ID     string   `json:"id"`
	Bias   float64  `json:"bias"`
	Type   NodeType `json:"type"`
	Squash string   `json:"squash"`
	Mask   float64  `json:"mask"`
}
