package neural

import (
	"testing"

	domainNeural "github.com/jocieb/carrot/internal/domain/neural"
)

// Wires the smallest gated circuit: I drives the gater G, A drives B through
// the gated connection, B drives the output O.
func buildGatedCircuit(t *testing.T) (i, a, g, b, o *Node, ig, c, bo *Connection) {
	t.Helper()

	i = NewNode(domainNeural.NodeTypeInput)
	a = NewNode(domainNeural.NodeTypeInput)
	g = NewNode(domainNeural.NodeTypeHidden)
	b = NewNode(domainNeural.NodeTypeHidden)
	o = NewNode(domainNeural.NodeTypeOutput)

	g.Bias = 0.1
	b.Bias = -0.2
	o.Bias = 0.05

	var err error
	if ig, err = i.Connect(g, 0.9); err != nil {
		t.Fatalf("connect i->g: %v", err)
	}
	if c, err = a.Connect(b, 0.6); err != nil {
		t.Fatalf("connect a->b: %v", err)
	}
	if bo, err = b.Connect(o, 0.8); err != nil {
		t.Fatalf("connect b->o: %v", err)
	}

	g.Gate(c)
	return
}

func TestActivateMaintainsExtendedTrace(t *testing.T) {
	i, a, g, b, _, ig, c, _ := buildGatedCircuit(t)

	i.ActivateValue(0.8)
	a.ActivateValue(0.6)
	g.Activate()

	influence := c.Weight * a.Activation

	if !almostEqual(c.Gain, g.Activation) {
		t.Fatalf("gated gain = %v, expected gater activation %v", c.Gain, g.Activation)
	}
	wantEligibility := i.Activation // inactive self-connection, gain 1
	if !almostEqual(ig.Eligibility, wantEligibility) {
		t.Fatalf("eligibility = %v, expected %v", ig.Eligibility, wantEligibility)
	}

	if len(ig.XTrace.Nodes) != 1 || ig.XTrace.Nodes[0] != b {
		t.Fatalf("xtrace must track the gated downstream node, got %d entries", len(ig.XTrace.Nodes))
	}
	want := g.Derivative * ig.Eligibility * influence
	if !almostEqual(ig.XTrace.Values[0], want) {
		t.Fatalf("xtrace value = %v, expected %v", ig.XTrace.Values[0], want)
	}

	// A second pass decays the existing entry instead of appending.
	b.Activate()
	i.ActivateValue(0.5)
	a.ActivateValue(0.2)
	g.Activate()

	if len(ig.XTrace.Nodes) != 1 {
		t.Fatalf("xtrace grew to %d entries for the same downstream node", len(ig.XTrace.Nodes))
	}
}

func TestXTraceLengthsStayParallel(t *testing.T) {
	i, a, g, b, _, ig, _, _ := buildGatedCircuit(t)

	extra := NewNode(domainNeural.NodeTypeHidden)
	c2, err := a.Connect(extra, 0.3)
	if err != nil {
		t.Fatalf("connect a->extra: %v", err)
	}
	g.Gate(c2)

	for pass := 0; pass < 3; pass++ {
		i.ActivateValue(0.4)
		a.ActivateValue(0.7)
		g.Activate()
		b.Activate()
		extra.Activate()

		if len(ig.XTrace.Nodes) != len(ig.XTrace.Values) {
			t.Fatalf("pass %d: xtrace nodes/values diverged: %d vs %d",
				pass, len(ig.XTrace.Nodes), len(ig.XTrace.Values))
		}
	}
	if len(ig.XTrace.Nodes) != 2 {
		t.Fatalf("expected traces for both gated targets, got %d", len(ig.XTrace.Nodes))
	}
}

func TestGatedInfluenceAccumulatesPerTarget(t *testing.T) {
	i := NewNode(domainNeural.NodeTypeInput)
	a1 := NewNode(domainNeural.NodeTypeInput)
	a2 := NewNode(domainNeural.NodeTypeInput)
	g := NewNode(domainNeural.NodeTypeHidden)
	b := NewNode(domainNeural.NodeTypeHidden)

	ig, err := i.Connect(g, 1)
	if err != nil {
		t.Fatalf("connect i->g: %v", err)
	}
	c1, err := a1.Connect(b, 0.5)
	if err != nil {
		t.Fatalf("connect a1->b: %v", err)
	}
	c2, err := a2.Connect(b, 0.25)
	if err != nil {
		t.Fatalf("connect a2->b: %v", err)
	}

	// Two gated connections sharing the same downstream node accumulate a
	// single influence entry.
	g.Gate(c1, c2)

	i.ActivateValue(1)
	a1.ActivateValue(0.4)
	a2.ActivateValue(0.8)
	g.Activate()

	influence := c1.Weight*a1.Activation + c2.Weight*a2.Activation
	want := g.Derivative * ig.Eligibility * influence

	if len(ig.XTrace.Nodes) != 1 {
		t.Fatalf("expected one trace entry for the shared target, got %d", len(ig.XTrace.Nodes))
	}
	if !almostEqual(ig.XTrace.Values[0], want) {
		t.Fatalf("xtrace value = %v, expected accumulated %v", ig.XTrace.Values[0], want)
	}
}

func TestSelfGatedSelfConnectionCrossTerm(t *testing.T) {
	i := NewNode(domainNeural.NodeTypeInput)
	g := NewNode(domainNeural.NodeTypeHidden)
	s := NewNode(domainNeural.NodeTypeHidden)

	ig, err := i.Connect(g, 1)
	if err != nil {
		t.Fatalf("connect i->g: %v", err)
	}
	if _, err := s.Connect(s, 0.9); err != nil {
		t.Fatalf("self connect: %v", err)
	}
	g.Gate(s.Self)

	// Give the self-recurrent unit some previous state.
	s.Bias = 0.3
	s.Activate()
	s.Activate()

	i.ActivateValue(0.7)
	g.Activate()

	influence := s.Self.Weight*s.Activation + s.Old
	want := g.Derivative * ig.Eligibility * influence

	if len(ig.XTrace.Nodes) != 1 || ig.XTrace.Nodes[0] != s {
		t.Fatal("xtrace must track the self-gated unit")
	}
	if !almostEqual(ig.XTrace.Values[0], want) {
		t.Fatalf("xtrace value = %v, expected %v including the old-state cross term", ig.XTrace.Values[0], want)
	}
}

func TestPropagateGatedResponsibility(t *testing.T) {
	i, a, g, b, o, _, c, _ := buildGatedCircuit(t)

	i.ActivateValue(0.8)
	a.ActivateValue(0.6)
	g.Activate()
	b.Activate()
	o.Activate()

	target := 1.0
	o.Propagate(0.3, 0, false, &target)
	b.Propagate(0.3, 0, false, nil)

	influence := c.Weight * a.Activation
	wantGated := g.Derivative * b.Error.Responsibility * influence

	g.Propagate(0.3, 0, false, nil)

	if !almostEqual(g.Error.Gated, wantGated) {
		t.Fatalf("gated error = %v, expected %v", g.Error.Gated, wantGated)
	}
	if !almostEqual(g.Error.Responsibility, g.Error.Projected+g.Error.Gated) {
		t.Fatal("responsibility must be projected + gated")
	}
}

func TestUngateLeavesTraceToDecay(t *testing.T) {
	i, a, g, b, _, ig, c, _ := buildGatedCircuit(t)

	i.ActivateValue(0.8)
	a.ActivateValue(0.6)
	g.Activate()
	b.Activate()

	g.Ungate(c)

	// Stale influence is never pruned; it only decays through the
	// recurring self-gain multiply.
	if len(ig.XTrace.Nodes) != 1 {
		t.Fatal("ungate must not prune existing trace entries")
	}

	i.ActivateValue(0.5)
	g.Activate()
	if len(ig.XTrace.Nodes) != 1 {
		t.Fatal("trace entries persist across later passes")
	}
}

func TestSelfRecurrentEligibilityDecay(t *testing.T) {
	quietWarnings(t)

	a := NewNode(domainNeural.NodeTypeInput)
	n := NewNode(domainNeural.NodeTypeHidden)
	n.Bias = 0.1

	conn, err := a.Connect(n, 0.5)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	if _, err := n.Connect(n, 0.4); err != nil {
		t.Fatalf("self connect: %v", err)
	}

	a.ActivateValue(1)
	n.Activate()
	first := conn.Eligibility
	if !almostEqual(first, 1) {
		t.Fatalf("first eligibility = %v, expected from activation 1", first)
	}

	a.ActivateValue(1)
	n.Activate()
	want := 0.4*first + 1
	if !almostEqual(conn.Eligibility, want) {
		t.Fatalf("decayed eligibility = %v, expected %v", conn.Eligibility, want)
	}
}

func TestNoTraceActivate(t *testing.T) {
	a := NewNode(domainNeural.NodeTypeInput)
	b := NewNode(domainNeural.NodeTypeHidden)
	g := NewNode(domainNeural.NodeTypeHidden)
	b.Bias = 0.2
	g.Bias = 0.1

	conn, err := a.Connect(b, 0.5)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	gated, err := a.Connect(g, 0.3)
	if err != nil {
		t.Fatalf("connect a->g: %v", err)
	}
	b.Gate(gated)

	// Dropout must not affect the trace-free path.
	b.Mask = 0

	a.ActivateValue(0.6)
	activation := b.NoTraceActivate()

	wantState := 0.2 + 0.6*0.5
	if !almostEqual(b.State, wantState) {
		t.Fatalf("state = %v, expected %v", b.State, wantState)
	}
	if !almostEqual(activation, logistic(wantState)) {
		t.Fatalf("activation = %v, expected unmasked %v", activation, logistic(wantState))
	}
	if !almostEqual(gated.Gain, activation) {
		t.Fatalf("gated gain = %v, expected %v", gated.Gain, activation)
	}
	if conn.Eligibility != 0 {
		t.Fatalf("trace-free pass touched eligibility: %v", conn.Eligibility)
	}
	if b.Derivative != 0 {
		t.Fatalf("trace-free pass computed a derivative: %v", b.Derivative)
	}
}
