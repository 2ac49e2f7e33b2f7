package carrot

import (
	"math"
	"testing"
)

func TestPublicAPIRoundTrip(t *testing.T) {
	in := NewNode(NodeTypeInput)
	out := NewNode(NodeTypeOutput)
	out.Bias = 0.1

	if _, err := in.Connect(out); err != nil {
		t.Fatalf("connect: %v", err)
	}

	in.ActivateValue(0.5)
	before := out.Activate()

	target := 1.0
	for i := 0; i < 100; i++ {
		in.ActivateValue(0.5)
		out.Activate()
		out.Propagate(0.3, 0, true, &target)
	}

	in.ActivateValue(0.5)
	after := out.NoTraceActivate()

	if math.Abs(target-after) >= math.Abs(target-before) {
		t.Fatalf("learning did not reduce error: before %v, after %v", before, after)
	}
}

func TestPublicAPIPersistence(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	defer store.Close()

	node := NewNode(NodeTypeHidden)
	node.Squash = ActivationGaussian

	if err := store.Save(node.Record()); err != nil {
		t.Fatalf("save: %v", err)
	}
	record, err := store.Load(node.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	restored, err := NodeFromRecord(record)
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}
	if restored.Squash != ActivationGaussian || restored.Bias != node.Bias {
		t.Fatalf("restored node lost parameters: %+v", restored)
	}
}

func TestPublicAPIMutation(t *testing.T) {
	node := NewNode(NodeTypeHidden)

	method := ModActivation()
	before := node.Squash
	if err := node.Mutate(&method); err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if node.Squash == before {
		t.Fatal("activation mutation must change the function")
	}

	if err := node.Mutate(&MutationMethod{Kind: "unknown"}); err == nil {
		t.Fatal("unknown mutation must fail")
	}
}
