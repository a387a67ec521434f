package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

const leafNode = -1

// TreeNodes is a regression tree in the flat array layout that scikit-learn
// exposes on tree_: node i splits on Feature[i] <= Threshold[i], going to
// ChildrenLeft[i] when true and ChildrenRight[i] otherwise. Leaves have both
// children set to -1 and predict Value[i].
type TreeNodes struct {
	ChildrenLeft  []int     `json:"children_left"`
	ChildrenRight []int     `json:"children_right"`
	Feature       []int     `json:"feature"`
	Threshold     []float64 `json:"threshold"`
	Value         []float64 `json:"value"`
}

func (t TreeNodes) validate(numFeatures int) error {
	n := len(t.Value)
	if n == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	if len(t.ChildrenLeft) != n || len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n {
		return fmt.Errorf("tree arrays have inconsistent lengths")
	}
	for i := range n {
		l, r := t.ChildrenLeft[i], t.ChildrenRight[i]
		if l == leafNode && r == leafNode {
			continue
		}
		// children always come after their parent, which also rules out cycles
		if l <= i || r <= i || l >= n || r >= n {
			return fmt.Errorf("node %d has invalid children (%d, %d)", i, l, r)
		}
		if t.Feature[i] < 0 || t.Feature[i] >= numFeatures {
			return fmt.Errorf("node %d splits on feature %d, model has %d", i, t.Feature[i], numFeatures)
		}
	}
	return nil
}

func (t TreeNodes) eval(row []float64) float64 {
	node := 0
	for t.ChildrenLeft[node] != leafNode {
		if row[t.Feature[node]] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return t.Value[node]
}

// DecisionTree is a single regression tree.
type DecisionTree struct {
	name        string
	numFeatures int
	tree        TreeNodes
}

func NewDecisionTree(name string, numFeatures int, tree TreeNodes) (*DecisionTree, error) {
	if err := tree.validate(numFeatures); err != nil {
		return nil, fmt.Errorf("decision tree %q: %w", name, err)
	}
	return &DecisionTree{name: name, numFeatures: numFeatures, tree: tree}, nil
}

func (m *DecisionTree) NumFeatures() int {
	return m.numFeatures
}

func (m *DecisionTree) Predict(x mat.Matrix) ([]float64, error) {
	rows, err := checkShape(m.name, x, m.numFeatures)
	if err != nil {
		return nil, err
	}
	out := make([]float64, rows)
	row := make([]float64, m.numFeatures)
	for i := range rows {
		mat.Row(row, i, x)
		out[i] = m.tree.eval(row)
	}
	return out, nil
}

// RandomForest averages the predictions of its trees.
type RandomForest struct {
	name        string
	numFeatures int
	trees       []TreeNodes
}

func NewRandomForest(name string, numFeatures int, trees []TreeNodes) (*RandomForest, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("random forest %q: no trees", name)
	}
	for i, t := range trees {
		if err := t.validate(numFeatures); err != nil {
			return nil, fmt.Errorf("random forest %q tree %d: %w", name, i, err)
		}
	}
	return &RandomForest{name: name, numFeatures: numFeatures, trees: trees}, nil
}

func (m *RandomForest) NumFeatures() int {
	return m.numFeatures
}

func (m *RandomForest) Predict(x mat.Matrix) ([]float64, error) {
	rows, err := checkShape(m.name, x, m.numFeatures)
	if err != nil {
		return nil, err
	}
	out := make([]float64, rows)
	row := make([]float64, m.numFeatures)
	n := float64(len(m.trees))
	for i := range rows {
		mat.Row(row, i, x)
		sum := 0.0
		for _, t := range m.trees {
			sum += t.eval(row)
		}
		out[i] = sum / n
	}
	return out, nil
}
