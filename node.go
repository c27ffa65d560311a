package accessir

import (
	"fmt"
	"strings"

	"github.com/gomlx/accessir/internal/optypes"
	"github.com/gomlx/accessir/types"
	"github.com/pkg/errors"
)

// ClassID identifies an equivalence class. IDs are handed out by whatever
// stores the nodes -- the Graph here, or a host e-graph.
type ClassID int32

// Node is one operator application. Operand slots hold e-class identifiers
// rather than nested terms, so shared sub-expressions compare equal by
// identity. Leaves carry their payload in the dedicated fields instead of
// operands.
type Node struct {
	Op       optypes.OpType
	Operands []ClassID

	// Leaf payloads. Only the field matching Op is meaningful.
	UsizeValue   int
	FloatValue   float64
	SymbolName   string
	ComputeValue types.ComputeType
	PadValue     types.PadType
}

// CheckArity returns an error unless the node has the operand count its
// operator requires. Variadic operators accept any count.
func (n *Node) CheckArity() error {
	arity := n.Op.Arity()
	if arity == optypes.Variadic {
		return nil
	}
	if len(n.Operands) != arity {
		return errors.Errorf("operator %s takes %d operands, got %d", n.Op, arity, len(n.Operands))
	}
	return nil
}

// key returns the interning key: two nodes with the same key denote the same
// e-node.
func (n *Node) key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", int(n.Op))
	for _, operand := range n.Operands {
		fmt.Fprintf(&b, " %d", operand)
	}
	switch n.Op {
	case optypes.UsizeLiteral:
		fmt.Fprintf(&b, "|%d", n.UsizeValue)
	case optypes.Float64Literal:
		fmt.Fprintf(&b, "|%x", n.FloatValue)
	case optypes.Symbol:
		fmt.Fprintf(&b, "|%s", n.SymbolName)
	case optypes.ComputeTypeLiteral:
		fmt.Fprintf(&b, "|%d", int(n.ComputeValue))
	case optypes.PadTypeLiteral:
		fmt.Fprintf(&b, "|%d", int(n.PadValue))
	}
	return b.String()
}

// String renders the node for diagnostics: the operator name followed by its
// operand class IDs, or the payload for leaves.
func (n *Node) String() string {
	switch n.Op {
	case optypes.UsizeLiteral:
		return fmt.Sprintf("%d", n.UsizeValue)
	case optypes.Float64Literal:
		return fmt.Sprintf("%g", n.FloatValue)
	case optypes.Symbol:
		return n.SymbolName
	case optypes.ComputeTypeLiteral:
		return n.ComputeValue.String()
	case optypes.PadTypeLiteral:
		return n.PadValue.String()
	}
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(n.Op.String())
	for _, operand := range n.Operands {
		fmt.Fprintf(&b, " %%%d", operand)
	}
	b.WriteByte(')')
	return b.String()
}
