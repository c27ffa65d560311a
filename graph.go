package accessir

import (
	"github.com/gomlx/accessir/types"
	"github.com/gomlx/accessir/types/shapes"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// DataSource resolves an operand e-class to its analysis summary. The Make
// dispatch only reads children through this interface, so a host e-graph can
// plug in directly; the Graph below is the built-in implementation.
type DataSource interface {
	DataAt(id ClassID) *Data
}

var _ DataSource = (*Graph)(nil)

// Graph is a minimal expression store over the analysis: it interns nodes,
// runs Make eagerly, and hands out class IDs. It performs no union-find and
// no rewriting -- hosts that saturate bring their own engine and use Merge
// when classes unify.
type Graph struct {
	analysis *Analysis

	nodes    []Node
	data     []*Data
	interned map[string]ClassID
}

// NewGraph returns an empty Graph using the given analysis.
func NewGraph(analysis *Analysis) *Graph {
	return &Graph{
		analysis: analysis,
		interned: make(map[string]ClassID),
	}
}

// Analysis returns the analysis the graph was built with.
func (g *Graph) Analysis() *Analysis {
	return g.analysis
}

// NumClasses returns the number of distinct classes added so far.
func (g *Graph) NumClasses() int {
	return len(g.nodes)
}

// Add interns the node, synthesizing its summary from the summaries of its
// operands. Adding a node equal to an existing one returns the existing
// class.
func (g *Graph) Add(node Node) (ClassID, error) {
	if err := node.CheckArity(); err != nil {
		return 0, err
	}
	for _, operand := range node.Operands {
		if operand < 0 || int(operand) >= len(g.nodes) {
			return 0, errors.Errorf("operand class %%%d of %s does not exist", operand, node.Op)
		}
	}
	key := node.key()
	if id, found := g.interned[key]; found {
		return id, nil
	}
	data, err := g.analysis.Make(g, &node)
	if err != nil {
		return 0, errors.WithMessagef(err, "while analyzing %s", &node)
	}
	id := ClassID(len(g.nodes))
	g.nodes = append(g.nodes, node)
	g.data = append(g.data, data)
	g.interned[key] = id
	return id, nil
}

// DataAt implements DataSource.
func (g *Graph) DataAt(id ClassID) *Data {
	return g.data[id]
}

// NodeAt returns the node that created the class.
func (g *Graph) NodeAt(id ClassID) *Node {
	return &g.nodes[id]
}

// UsizeAt returns the integer summary of the class.
func (g *Graph) UsizeAt(id ClassID) (int, error) {
	return g.data[id].Usize()
}

// ShapeValueAt returns the shape-value summary of the class, as produced by
// shape-of, slice-shape and the shape literal.
func (g *Graph) ShapeValueAt(id ClassID) (shapes.Shape, error) {
	return g.data[id].ShapeValue()
}

// LegacyShapeAt returns the bare tensor shape of a symbol or raw-tensor
// class.
func (g *Graph) LegacyShapeAt(id ClassID) (shapes.Shape, error) {
	return g.data[id].LegacyShape()
}

// AccessAt returns the access-pattern summary of the class.
func (g *Graph) AccessAt(id ClassID) (*AccessPattern, error) {
	return g.data[id].Access()
}

// ListAt returns the integer-list summary of the class.
func (g *Graph) ListAt(id ClassID) ([]int, error) {
	return g.data[id].List()
}

// LiteralAt returns the literal-array summary of the class.
func (g *Graph) LiteralAt(id ClassID) (*tensor.Dense, error) {
	return g.data[id].Literal()
}

// ComputeTypeAt returns the compute-type summary of the class.
func (g *Graph) ComputeTypeAt(id ClassID) (types.ComputeType, error) {
	return g.data[id].ComputeType()
}

// PadTypeAt returns the pad-type summary of the class.
func (g *Graph) PadTypeAt(id ClassID) (types.PadType, error) {
	return g.data[id].PadType()
}
