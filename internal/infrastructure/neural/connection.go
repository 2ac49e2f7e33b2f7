// Package neural implements the atomic computational unit of a network: a
// node that can be wired into arbitrary topologies, including recurrent,
// self-connected and gated ones, and that learns online through decayed
// eligibility traces.
package neural

// XTrace records, per downstream node, the extended eligibility accumulated
// through connections this connection's target gates. Nodes and Values are
// parallel and always equal length.
type XTrace struct {
	Nodes  []*Node
	Values []float64
}

// Connection is a directed weighted edge between two nodes. It is referenced
// by its source, its target and optionally a gater, and owned by none of
// them.
type Connection struct {
	From *Node
	To   *Node

	Weight float64

	// Gain multiplies the effective weight. 1 unless a gater drives it.
	Gain float64

	// Gater is the node whose activation sets Gain, or nil.
	Gater *Node

	// Eligibility is the decayed running sum of this connection's causal
	// contribution to the target's state.
	Eligibility float64

	// XTrace extends Eligibility per downstream node to account for gated
	// recurrent influence.
	XTrace XTrace

	TotalDeltaWeight    float64
	PreviousDeltaWeight float64
}

// NewConnection creates a connection from one node to another with the given
// initial weight.
func NewConnection(from, to *Node, weight float64) *Connection {
	return &Connection{
		From:   from,
		To:     to,
		Weight: weight,
		Gain:   1,
	}
}
