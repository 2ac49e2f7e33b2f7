package neural

import (
	domainNeural "github.com/jocieb/carrot/internal/domain/neural"
)

// Group is an ordered collection of nodes with an aggregate incoming
// connection set. Bulk connects from a node append into both the member's and
// the group's incoming sets.
type Group struct {
	Nodes []*Node

	// In aggregates connections created through bulk connects targeting
	// this group.
	In []*Connection
}

// NewGroup creates a group of size freshly constructed nodes of the given
// type.
func NewGroup(size int, nodeType domainNeural.NodeType) *Group {
	g := &Group{Nodes: make([]*Node, 0, size)}
	for i := 0; i < size; i++ {
		g.Nodes = append(g.Nodes, NewNode(nodeType))
	}
	return g
}

// Activate runs a learning-enabled forward pass over every member in order
// and returns their activations.
func (g *Group) Activate() []float64 {
	activations := make([]float64, len(g.Nodes))
	for i, node := range g.Nodes {
		activations[i] = node.Activate()
	}
	return activations
}

// NoTraceActivate runs an inference-only forward pass over every member in
// order and returns their activations.
func (g *Group) NoTraceActivate() []float64 {
	activations := make([]float64, len(g.Nodes))
	for i, node := range g.Nodes {
		activations[i] = node.NoTraceActivate()
	}
	return activations
}

// Clear resets the transient state of every member.
func (g *Group) Clear() {
	for _, node := range g.Nodes {
		node.Clear()
	}
}
