package lookup

import (
	"fmt"
	"math"
	"strconv"

	"subject_recommender/internal/util"

	"github.com/goccy/go-json"
)

// Edge is a directed weighted link to a neighboring tag.
type Edge struct {
	To     int
	Weight float64
}

// TagGraph is the directed tag affinity graph, indexed by vocabulary tag position.
type TagGraph struct {
	edges  [][]Edge
	totals []float64
}

// NewTagGraph builds a graph over size nodes. adj must hold exactly the keys
// 0..size-1; every neighbor must be in range and carry a positive weight.
func NewTagGraph(adj map[int][]Edge, size int) (*TagGraph, error) {
	if len(adj) != size {
		return nil, fmt.Errorf("%w: tag graph has %d nodes, vocabulary has %d tags",
			util.ErrTableInconsistent, len(adj), size)
	}

	g := &TagGraph{
		edges:  make([][]Edge, size),
		totals: make([]float64, size),
	}
	for node, list := range adj {
		if node < 0 || node >= size {
			return nil, fmt.Errorf("%w: tag graph node %d out of range [0, %d)", util.ErrTableInconsistent, node, size)
		}
		for _, e := range list {
			if e.To < 0 || e.To >= size {
				return nil, fmt.Errorf("%w: tag graph edge %d -> %d out of range", util.ErrTableInconsistent, node, e.To)
			}
			if !(e.Weight > 0) || math.IsInf(e.Weight, 0) {
				return nil, fmt.Errorf("%w: tag graph edge %d -> %d has weight %v", util.ErrTableInconsistent, node, e.To, e.Weight)
			}
			g.totals[node] += e.Weight
		}
		g.edges[node] = append([]Edge(nil), list...)
	}
	return g, nil
}

func (g *TagGraph) Len() int {
	return len(g.edges)
}

// Neighbors returns the outgoing edges of a tag in their stored order.
func (g *TagGraph) Neighbors(i int) []Edge {
	return g.edges[i]
}

// TotalWeight is the sum of the outgoing edge weights of a tag.
func (g *TagGraph) TotalWeight(i int) float64 {
	return g.totals[i]
}

// parseTagGraph decodes {"0": [[5, 3.0], ...], ...}.
func parseTagGraph(data []byte) (map[int][]Edge, error) {
	var raw map[string][][]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: tag graph: %v", util.ErrTableInconsistent, err)
	}

	adj := make(map[int][]Edge, len(raw))
	for key, pairs := range raw {
		node, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("%w: tag graph key %q is not an index", util.ErrTableInconsistent, key)
		}
		edges := make([]Edge, 0, len(pairs))
		for _, pair := range pairs {
			if len(pair) != 2 || pair[0] != math.Trunc(pair[0]) {
				return nil, fmt.Errorf("%w: tag graph node %d: malformed edge %v", util.ErrTableInconsistent, node, pair)
			}
			edges = append(edges, Edge{To: int(pair[0]), Weight: pair[1]})
		}
		adj[node] = edges
	}
	return adj, nil
}

func (g *TagGraph) MarshalJSON() ([]byte, error) {
	out := make(map[string][][]float64, len(g.edges))
	for node, list := range g.edges {
		pairs := make([][]float64, len(list))
		for i, e := range list {
			pairs[i] = []float64{float64(e.To), e.Weight}
		}
		out[strconv.Itoa(node)] = pairs
	}
	return json.Marshal(out)
}
