package dsl

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/funchain/pkg/domain"
	"github.com/aretw0/funchain/pkg/expr"
)

func TestBuilder_SeedChain(t *testing.T) {
	b := New().Initial(2).Name("seed")

	b.Add("F1").Equation("x^2").Entry().
		Then("F2").Equation("2*x+4").Go("F4")
	b.Add("F3").Equation("x^2+20")
	b.Add("F4").Equation("x-2").
		Then("F5").Equation("x/2").Go("F3")

	loader, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	def, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if def.Entry != "F1" {
		t.Errorf("Expected entry 'F1', got '%s'", def.Entry)
	}
	if def.InitialValue() != 2 {
		t.Errorf("Expected initial value 2, got %v", def.InitialValue())
	}
	if def.Name != "seed" {
		t.Errorf("Expected name 'seed', got '%s'", def.Name)
	}

	want := []string{"F1", "F2", "F3", "F4", "F5"}
	if len(def.Nodes) != len(want) {
		t.Fatalf("Expected %d nodes, got %d", len(want), len(def.Nodes))
	}
	for i, id := range want {
		if def.Nodes[i].ID != id {
			t.Errorf("node %d: expected '%s', got '%s'", i, id, def.Nodes[i].ID)
		}
	}
	if def.Nodes[1].Next != "F4" {
		t.Errorf("Expected F2 -> F4, got F2 -> '%s'", def.Nodes[1].Next)
	}
	if def.Nodes[2].Next != "" {
		t.Errorf("Expected F3 to be terminal, got next '%s'", def.Nodes[2].Next)
	}
}

func TestBuilder_Defaults(t *testing.T) {
	b := New()
	b.Add("a").Then("b").Terminal()
	b.Add("a").Equation("x+1")

	nodes := b.Nodes()
	if len(nodes) != 2 {
		t.Fatalf("Expected 2 nodes, got %d", len(nodes))
	}
	if nodes[0].Equation != "x+1" || nodes[0].Next != "b" {
		t.Errorf("Unexpected first node: %+v", nodes[0])
	}
	if nodes[1].Equation != "x" {
		t.Errorf("Expected identity equation, got '%s'", nodes[1].Equation)
	}

	loader, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	def, _ := loader.Load(context.Background())
	if def.Entry != "a" {
		t.Errorf("Expected entry to default to first node, got '%s'", def.Entry)
	}
	if def.InitialValue() != domain.DefaultInitialValue {
		t.Errorf("Expected default initial value, got %v", def.InitialValue())
	}
}

func TestBuilder_Errors(t *testing.T) {
	b := New()
	b.Add("a").Equation("sqrt(x)")
	if _, err := b.Build(); !errors.Is(err, expr.ErrInvalidCharacter) {
		t.Errorf("Expected ErrInvalidCharacter, got %v", err)
	}

	b = New()
	b.Add("a")
	b.Add("b").Go("a")
	b.Add("a").Go("b")
	b.order = append(b.order, b.nodes["a"])
	if _, err := b.Build(); !errors.Is(err, domain.ErrDuplicateNode) {
		t.Errorf("Expected ErrDuplicateNode, got %v", err)
	}

	b = New()
	b.Add("")
	if _, err := b.Build(); !errors.Is(err, domain.ErrEmptyNodeID) {
		t.Errorf("Expected ErrEmptyNodeID, got %v", err)
	}
}
