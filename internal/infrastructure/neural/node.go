package neural

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	domainNeural "github.com/jocieb/carrot/internal/domain/neural"
	"github.com/jocieb/carrot/internal/shared"
)

var rng = rand.New(rand.NewSource(time.Now().UnixNano()))

// SeedRandom reseeds the package random source. Useful for reproducible
// construction and mutation in tests and experiments.
func SeedRandom(seed int64) {
	rng = rand.New(rand.NewSource(seed))
}

// ErrorSignal is a node's error record from the latest backward pass. Valid
// only immediately after that pass.
type ErrorSignal struct {
	// Responsibility is the node's total error signal: Projected + Gated.
	Responsibility float64
	// Projected is the error arriving through outgoing connections.
	Projected float64
	// Gated is the error arriving through connections this node gates.
	Gated float64
}

// Node is the atomic computational and learning unit. It owns its scalar
// state and refers to, but never owns, the connections wiring it into a
// network.
type Node struct {
	ID   string
	Type domainNeural.NodeType

	Bias   float64
	Squash domainNeural.ActivationType

	// Activation is the last squashed output.
	Activation float64
	// State is the pre-squash accumulator.
	State float64
	// Old is the previous State, read by downstream self-gating.
	Old float64
	// Mask is the dropout multiplier, 0 or 1. It only affects the
	// learning-enabled activation path.
	Mask float64
	// Derivative is the squash slope at the last State. Transient.
	Derivative float64

	PreviousDeltaBias float64
	TotalDeltaBias    float64

	Error ErrorSignal

	// In, Out and Gated are ordered edge sets; insertion order matters
	// only for Disconnect's first-match semantics.
	In    []*Connection
	Out   []*Connection
	Gated []*Connection

	// Self is the node's always-present self-connection, inert while its
	// weight is 0.
	Self *Connection
}

// NewNode constructs a node of the given type with the default activation
// function. Non-input nodes start with a small random bias.
func NewNode(nodeType domainNeural.NodeType) *Node {
	n := &Node{
		ID:     uuid.NewString(),
		Type:   nodeType,
		Squash: domainNeural.ActivationLogistic,
		Mask:   1,
	}
	if nodeType != domainNeural.NodeTypeInput {
		n.Bias = rng.Float64()*0.2 - 0.1
	}
	n.Self = NewConnection(n, n, 0)
	return n
}

// ActivateValue forces the node's output to the given value, leaving State
// untouched. This is how input-type nodes are driven externally, on both the
// learning and the trace-free path.
func (n *Node) ActivateValue(value float64) float64 {
	n.Activation = value
	return n.Activation
}

// Activate runs a learning-enabled forward pass: it recomputes State from the
// self-connection, bias and incoming connections, squashes it, refreshes the
// gain of every connection this node gates, and maintains the eligibility and
// extended traces consumed later by Propagate.
func (n *Node) Activate() float64 {
	n.Old = n.State

	n.State = n.Self.Gain*n.Self.Weight*n.State + n.Bias
	for _, conn := range n.In {
		n.State += conn.From.Activation * conn.Weight * conn.Gain
	}

	n.Activation = n.Squash.Apply(n.State) * n.Mask
	n.Derivative = n.Squash.Derivative(n.State)

	// Per distinct downstream node, the influence of the connections this
	// node gates. The first contribution to a node whose self-connection
	// this node gates also carries that node's previous state.
	var nodes []*Node
	var influences []float64

	for _, conn := range n.Gated {
		node := conn.To
		if idx := indexOfNode(nodes, node); idx >= 0 {
			influences[idx] += conn.Weight * conn.From.Activation
		} else {
			influence := conn.Weight * conn.From.Activation
			if node.Self.Gater == n {
				influence += node.Old
			}
			nodes = append(nodes, node)
			influences = append(influences, influence)
		}
		// This node's output becomes the multiplier for the next pass.
		conn.Gain = n.Activation
	}

	for _, conn := range n.In {
		conn.Eligibility = n.Self.Gain*n.Self.Weight*conn.Eligibility +
			conn.From.Activation*conn.Gain

		for i, node := range nodes {
			influence := influences[i]
			if idx := indexOfNode(conn.XTrace.Nodes, node); idx >= 0 {
				conn.XTrace.Values[idx] = node.Self.Gain*node.Self.Weight*conn.XTrace.Values[idx] +
					n.Derivative*conn.Eligibility*influence
			} else {
				// Gating added after earlier activations starts a
				// fresh trace with no decay term.
				conn.XTrace.Nodes = append(conn.XTrace.Nodes, node)
				conn.XTrace.Values = append(conn.XTrace.Values, n.Derivative*conn.Eligibility*influence)
			}
		}
	}

	return n.Activation
}

// NoTraceActivate runs an inference-only forward pass: the same state,
// activation and gated-gain updates as Activate, without the dropout mask and
// without any trace bookkeeping.
func (n *Node) NoTraceActivate() float64 {
	n.State = n.Self.Gain*n.Self.Weight*n.State + n.Bias
	for _, conn := range n.In {
		n.State += conn.From.Activation * conn.Weight * conn.Gain
	}

	n.Activation = n.Squash.Apply(n.State)

	for _, conn := range n.Gated {
		conn.Gain = n.Activation
	}

	return n.Activation
}

// Propagate runs the backward learning step. target is meaningful only for
// output-type nodes and may be nil otherwise. With update false, deltas only
// accumulate; a later call with update true folds in momentum, applies the
// accumulated deltas and resets the accumulators, enabling batched updates.
//
// It must run after this node's own forward pass and after every downstream
// node has a finalized responsibility for this pass. That ordering is owed by
// the orchestrator, not enforced here.
func (n *Node) Propagate(rate, momentum float64, update bool, target *float64) {
	if rate == 0 {
		rate = domainNeural.DefaultLearningRate
	}

	if n.Type == domainNeural.NodeTypeOutput {
		var t float64
		if target != nil {
			t = *target
		}
		n.Error.Responsibility = t - n.Activation
		n.Error.Projected = n.Error.Responsibility
	} else {
		var errSum float64
		for _, conn := range n.Out {
			errSum += conn.To.Error.Responsibility * conn.Weight * conn.Gain
		}
		n.Error.Projected = n.Derivative * errSum

		errSum = 0
		for _, conn := range n.Gated {
			node := conn.To
			influence := conn.Weight * conn.From.Activation
			if node.Self.Gater == n {
				influence += node.Old
			}
			errSum += node.Error.Responsibility * influence
		}
		n.Error.Gated = n.Derivative * errSum

		n.Error.Responsibility = n.Error.Projected + n.Error.Gated
	}

	// Constant nodes are frozen multipliers: responsibility is computed
	// for upstream consumers but nothing updates.
	if n.Type == domainNeural.NodeTypeConstant {
		return
	}

	for _, conn := range n.In {
		gradient := n.Error.Projected * conn.Eligibility
		for i, node := range conn.XTrace.Nodes {
			gradient += node.Error.Responsibility * conn.XTrace.Values[i]
		}

		conn.TotalDeltaWeight += rate * gradient * n.Mask
		if update {
			conn.TotalDeltaWeight += momentum * conn.PreviousDeltaWeight
			conn.Weight += conn.TotalDeltaWeight
			conn.PreviousDeltaWeight = conn.TotalDeltaWeight
			conn.TotalDeltaWeight = 0
		}
	}

	n.TotalDeltaBias += rate * n.Error.Responsibility
	if update {
		n.TotalDeltaBias += momentum * n.PreviousDeltaBias
		n.Bias += n.TotalDeltaBias
		n.PreviousDeltaBias = n.TotalDeltaBias
		n.TotalDeltaBias = 0
	}
}

// Connect wires this node to target. Connecting to itself enables the
// self-connection by setting its weight; re-enabling an active one is a
// warning at most. Connecting to a distinct node fails if a connection to it
// already exists. The weight defaults to 1 when omitted.
func (n *Node) Connect(target *Node, weight ...float64) (*Connection, error) {
	w := 1.0
	if len(weight) > 0 {
		w = weight[0]
	}

	if target == n {
		if n.Self.Weight != 0 {
			if shared.WarningsEnabled() {
				log.Printf("neural: self-connection of node %s already enabled", n.ID)
			}
		} else {
			n.Self.Weight = w
		}
		return n.Self, nil
	}

	if n.IsProjectingTo(target) {
		return nil, fmt.Errorf("node %s already projects to node %s", n.ID, target.ID)
	}

	conn := NewConnection(n, target, w)
	target.In = append(target.In, conn)
	n.Out = append(n.Out, conn)

	return conn, nil
}

// ConnectGroup wires this node to every member of the group, registering each
// connection with the member and with the group's aggregate incoming set. The
// bulk path performs no duplicate check.
func (n *Node) ConnectGroup(group *Group, weight ...float64) []*Connection {
	w := 1.0
	if len(weight) > 0 {
		w = weight[0]
	}

	connections := make([]*Connection, 0, len(group.Nodes))
	for _, node := range group.Nodes {
		conn := NewConnection(n, node, w)
		node.In = append(node.In, conn)
		n.Out = append(n.Out, conn)
		group.In = append(group.In, conn)
		connections = append(connections, conn)
	}

	return connections
}

// Disconnect removes the first outgoing connection to target, keeping the
// target's incoming set and any gater's gated set consistent. Disconnecting
// the node from itself zeroes the self-connection weight, retaining the slot.
// A missing edge is a no-op. With twosided, the reverse edge is removed too.
func (n *Node) Disconnect(target *Node, twosided bool) {
	if target == n {
		n.Self.Weight = 0
		return
	}

	for i, conn := range n.Out {
		if conn.To != target {
			continue
		}
		n.Out = append(n.Out[:i], n.Out[i+1:]...)
		for j, mirror := range target.In {
			if mirror == conn {
				target.In = append(target.In[:j], target.In[j+1:]...)
				break
			}
		}
		if conn.Gater != nil {
			conn.Gater.Ungate(conn)
		}
		break
	}

	if twosided {
		target.Disconnect(n, false)
	}
}

// Gate makes this node the gater of the given connections: each is appended
// to the gated set and its gain follows this node's activation from the next
// forward pass on. Gating the same connection twice is a caller contract
// violation.
func (n *Node) Gate(connections ...*Connection) {
	for _, conn := range connections {
		n.Gated = append(n.Gated, conn)
		conn.Gater = n
	}
}

// Ungate releases the given connections, resetting gater and gain. A
// connection this node does not gate is still reset, best effort.
func (n *Node) Ungate(connections ...*Connection) {
	for i := len(connections) - 1; i >= 0; i-- {
		conn := connections[i]
		for j, gated := range n.Gated {
			if gated == conn {
				n.Gated = append(n.Gated[:j], n.Gated[j+1:]...)
				break
			}
		}
		conn.Gater = nil
		conn.Gain = 1
	}
}

// IsProjectingTo reports whether this node has a connection to the given
// node. The self-connection counts only while its weight is nonzero.
func (n *Node) IsProjectingTo(node *Node) bool {
	if node == n {
		return n.Self.Weight != 0
	}
	for _, conn := range n.Out {
		if conn.To == node {
			return true
		}
	}
	return false
}

// IsProjectedBy reports whether the given node has a connection to this node.
func (n *Node) IsProjectedBy(node *Node) bool {
	if node == n {
		return n.Self.Weight != 0
	}
	for _, conn := range n.In {
		if conn.From == node {
			return true
		}
	}
	return false
}

// Mutate perturbs the node with the given method. It fails when the method is
// missing or not in the catalog.
func (n *Node) Mutate(method *domainNeural.MutationMethod) error {
	if method == nil {
		return fmt.Errorf("no mutation method given")
	}
	if !domainNeural.KnownMutation(method.Kind) {
		return fmt.Errorf("unknown mutation method %q", method.Kind)
	}

	switch method.Kind {
	case domainNeural.MutationModActivation:
		allowed := method.Allowed
		if len(allowed) == 0 {
			return nil
		}
		if len(allowed) == 1 {
			n.Squash = allowed[0]
			return nil
		}
		current := -1
		for i, a := range allowed {
			if a == n.Squash {
				current = i
				break
			}
		}
		// Offset by at least one position so the current function is
		// never reselected.
		n.Squash = allowed[(current+1+rng.Intn(len(allowed)-1))%len(allowed)]
	case domainNeural.MutationModBias:
		n.Bias += rng.Float64()*(method.Max-method.Min) + method.Min
	}

	return nil
}

// Clear resets all transient per-pass state: traces of incoming connections,
// gains of gated connections, the error record and the scalar state. Weights,
// bias and topology survive. Used to sever recurrent memory between
// unrelated sequences.
func (n *Node) Clear() {
	for _, conn := range n.In {
		conn.Eligibility = 0
		conn.XTrace = XTrace{}
	}
	for _, conn := range n.Gated {
		conn.Gain = 0
	}
	n.Error = ErrorSignal{}
	n.Old = 0
	n.State = 0
	n.Activation = 0
}

// Record captures the node's learned identity: bias, type, activation
// function and mask. Topology and runtime state are deliberately omitted.
func (n *Node) Record() domainNeural.NodeRecord {
	return domainNeural.NodeRecord{
		ID:     n.ID,
		Bias:   n.Bias,
		Type:   n.Type,
		Squash: n.Squash.String(),
		Mask:   n.Mask,
	}
}

// NodeFromRecord reconstructs a node from its persistent form, resolving the
// activation function by name.
func NodeFromRecord(record domainNeural.NodeRecord) (*Node, error) {
	if !domainNeural.ValidNodeType(record.Type) {
		return nil, fmt.Errorf("invalid node type %q", record.Type)
	}
	squash, err := domainNeural.ActivationByName(record.Squash)
	if err != nil {
		return nil, err
	}

	n := NewNode(record.Type)
	if record.ID != "" {
		n.ID = record.ID
	}
	n.Bias = record.Bias
	n.Squash = squash
	n.Mask = record.Mask

	return n, nil
}

func indexOfNode(nodes []*Node, node *Node) int {
	for i, n := range nodes {
		if n == node {
			return i
		}
	}
	return -1
}
