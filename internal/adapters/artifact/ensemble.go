package artifact

import (
	"context"
	"fmt"
)

// Aggregations for tree ensembles.
const (
	AggregationMean = "mean" // random forest
	AggregationSum  = "sum"  // gradient boosting
)

// Ensemble is a forest of regression trees.
type Ensemble struct {
	Aggregation  string  `json:"aggregation"`
	BaseScore    float64 `json:"base_score"`
	LearningRate float64 `json:"learning_rate"`
	Trees        []Tree  `json:"trees"`
}

// Tree is a flat array of nodes; node 0 is the root.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Node is a split when Left >= 0 and a leaf otherwise. A row goes left when
// row[Feature] <= Threshold.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

type ensemblePredictor struct {
	trees        []Tree
	mean         bool
	baseScore    float64
	learningRate float64
	width        int
}

func newEnsemble(e *Ensemble, width int) (*ensemblePredictor, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: ensemble section missing", ErrMalformedModel)
	}
	if len(e.Trees) == 0 {
		return nil, fmt.Errorf("%w: ensemble has no trees", ErrMalformedModel)
	}
	p := &ensemblePredictor{
		baseScore:    e.BaseScore,
		learningRate: e.LearningRate,
		width:        width,
	}
	switch e.Aggregation {
	case AggregationMean, "":
		p.mean = true
	case AggregationSum:
		if p.learningRate == 0 {
			p.learningRate = 1
		}
	default:
		return nil, fmt.Errorf("%w: aggregation %q", ErrMalformedModel, e.Aggregation)
	}

	p.trees = make([]Tree, len(e.Trees))
	for t, tree := range e.Trees {
		if err := validateTree(tree, width); err != nil {
			return nil, fmt.Errorf("tree %d: %w", t, err)
		}
		nodes := make([]Node, len(tree.Nodes))
		copy(nodes, tree.Nodes)
		p.trees[t] = Tree{Nodes: nodes}
	}
	return p, nil
}

// validateTree requires children to have larger indexes than their parent,
// which bounds every walk by the node count.
func validateTree(t Tree, width int) error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("%w: empty tree", ErrMalformedModel)
	}
	for i, n := range t.Nodes {
		if n.Left < 0 {
			continue
		}
		if n.Feature < 0 || n.Feature >= width {
			return fmt.Errorf("%w: node %d splits on feature %d", ErrMalformedModel, i, n.Feature)
		}
		if n.Left <= i || n.Right <= i || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
			return fmt.Errorf("%w: node %d has children %d/%d", ErrMalformedModel, i, n.Left, n.Right)
		}
	}
	return nil
}

func (t Tree) eval(row []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Left < 0 {
			return n.Value
		}
		if row[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// Predict walks every tree for every row.
func (p *ensemblePredictor) Predict(_ context.Context, rows [][]float64) ([]float64, error) {
	out := make([]float64, len(rows))
	for r, row := range rows {
		if len(row) != p.width {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrRowWidth, r, len(row), p.width)
		}
		var sum float64
		for _, t := range p.trees {
			sum += t.eval(row)
		}
		if p.mean {
			out[r] = sum / float64(len(p.trees))
		} else {
			out[r] = p.baseScore + p.learningRate*sum
		}
	}
	return out, nil
}
