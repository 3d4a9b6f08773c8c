// Package skeleton reads SWC skeletons and reports their tips.
package skeleton

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/graph/simple"

	"github.com/janelia-flyem/marktips/internal/geom"
)

// Node is one SWC row.
type Node struct {
	ID     int64
	Type   int
	X      float64
	Y      float64
	Z      float64
	Radius float64
	Parent int64
}

// Skeleton is an SWC tree in file order.
type Skeleton struct {
	Nodes []Node
	graph *simple.UndirectedGraph
}

// ParseSWC reads SWC text: whitespace separated "id type x y z radius parent"
// rows, '#' comments, parent -1 for roots.
func ParseSWC(data []byte) (*Skeleton, error) {
	var nodes []Node
	seen := make(map[int64]bool)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		n, err := parseRow(line)
		if err != nil {
			return nil, fmt.Errorf("swc line %d: %w", lineNo, err)
		}
		if seen[n.ID] {
			return nil, fmt.Errorf("swc line %d: duplicate node id %d", lineNo, n.ID)
		}
		seen[n.ID] = true
		nodes = append(nodes, n)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read swc: %w", err)
	}

	g := simple.NewUndirectedGraph()
	for _, n := range nodes {
		g.AddNode(simple.Node(n.ID))
	}
	for _, n := range nodes {
		if n.Parent < 0 {
			continue
		}
		if n.Parent == n.ID {
			return nil, fmt.Errorf("swc node %d is its own parent", n.ID)
		}
		if !seen[n.Parent] {
			return nil, fmt.Errorf("swc node %d has undefined parent %d", n.ID, n.Parent)
		}
		g.SetEdge(g.NewEdge(simple.Node(n.Parent), simple.Node(n.ID)))
	}

	return &Skeleton{Nodes: nodes, graph: g}, nil
}

func parseRow(line string) (Node, error) {
	f := strings.Fields(line)
	if len(f) < 7 {
		return Node{}, fmt.Errorf("expected 7 fields, got %d", len(f))
	}
	var (
		n   Node
		err error
	)
	if n.ID, err = strconv.ParseInt(f[0], 10, 64); err != nil {
		return Node{}, fmt.Errorf("node id: %w", err)
	}
	if n.Type, err = strconv.Atoi(f[1]); err != nil {
		return Node{}, fmt.Errorf("node type: %w", err)
	}
	coords := []*float64{&n.X, &n.Y, &n.Z, &n.Radius}
	for i, dst := range coords {
		if *dst, err = strconv.ParseFloat(f[2+i], 64); err != nil {
			return Node{}, fmt.Errorf("field %d: %w", 3+i, err)
		}
	}
	if n.Parent, err = strconv.ParseInt(f[6], 10, 64); err != nil {
		return Node{}, fmt.Errorf("parent id: %w", err)
	}
	return n, nil
}

// Degree returns the number of neighbours of node id.
func (s *Skeleton) Degree(id int64) int {
	return s.graph.From(id).Len()
}

// Tips returns the positions of nodes with at most one neighbour, in file
// order, rounded to voxels. An isolated node counts as a tip. Tips that round
// to the same voxel are reported once, at the first occurrence.
func (s *Skeleton) Tips() []geom.Point {
	var out []geom.Point
	seen := make(map[geom.Point]bool)
	for _, n := range s.Nodes {
		if s.Degree(n.ID) > 1 {
			continue
		}
		p := geom.Round(n.X, n.Y, n.Z)
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
