package forest

import (
	"fmt"
	"strings"

	"github.com/pbanos/grove/feature"
)

/*
Tree is a binary decision tree. Its nodes are stored in an arena with the
root at position 0 and children referenced by their position.
*/
type Tree struct {
	Nodes []Node
}

/*
Evaluator is a function that returns the response to a feature of the
example being traversed through a tree.
*/
type Evaluator func(f feature.Feature) float64

// Root returns the root node of the tree or nil if it is empty.
func (t *Tree) Root() *Node {
	if t == nil || len(t.Nodes) == 0 {
		return nil
	}
	return &t.Nodes[0]
}

/*
Leaf takes an Evaluator for an example and returns the leaf the example
reaches: starting at the root it evaluates the feature of every internal
node and descends left when the response is less than or equal to the
threshold and right otherwise. An error is returned if the tree is empty
or malformed.
*/
func (t *Tree) Leaf(eval Evaluator) (*Node, error) {
	n := t.Root()
	if n == nil {
		return nil, fmt.Errorf("empty tree has no leaves")
	}
	for steps := 0; !n.IsLeaf(); steps++ {
		if steps >= len(t.Nodes) {
			return nil, fmt.Errorf("tree has a cycle")
		}
		next := n.Right
		if eval(n.Feature) <= n.Threshold {
			next = n.Left
		}
		if next <= 0 || next >= len(t.Nodes) {
			return nil, fmt.Errorf("node references child %d out of range (0, %d)", next, len(t.Nodes))
		}
		n = &t.Nodes[next]
	}
	return n, nil
}

/*
Traverse takes a function and calls it with the position and the node of
every node reachable from the root, parents before their children and left
children before right ones. If the call to the function returns an error,
the traversing is aborted and the error is returned.
*/
func (t *Tree) Traverse(f func(int, *Node) error) error {
	if t.Root() == nil {
		return nil
	}
	return t.traverse(0, 0, f)
}

func (t *Tree) traverse(i, depth int, f func(int, *Node) error) error {
	if i < 0 || i >= len(t.Nodes) || depth > len(t.Nodes) {
		return fmt.Errorf("node position %d out of range [0, %d)", i, len(t.Nodes))
	}
	n := &t.Nodes[i]
	if err := f(i, n); err != nil {
		return err
	}
	if n.IsLeaf() {
		return nil
	}
	if err := t.traverse(n.Left, depth+1, f); err != nil {
		return err
	}
	return t.traverse(n.Right, depth+1, f)
}

// Depth returns the depth of the deepest node of the tree.
func (t *Tree) Depth() int {
	var result int
	for _, n := range t.Nodes {
		if n.Depth > result {
			result = n.Depth
		}
	}
	return result
}

func (t *Tree) String() string {
	if t.Root() == nil {
		return "[]\n"
	}
	return t.subtreeString(0)
}

func (t *Tree) subtreeString(i int) string {
	if i < 0 || i >= len(t.Nodes) {
		return fmt.Sprintf("ERROR: node %d not found\n", i)
	}
	n := &t.Nodes[i]
	result := fmt.Sprintf("[%d]\n%v\n", i, n)
	if n.IsLeaf() {
		return result
	}
	result += "|\n"
	children := []int{n.Left, n.Right}
	for c, child := range children {
		for j, line := range strings.Split(t.subtreeString(child), "\n") {
			if len(line) == 0 {
				continue
			}
			switch {
			case j == 0:
				result = fmt.Sprintf("%s|__%s\n", result, line)
			case c == len(children)-1:
				result = fmt.Sprintf("%s   %s\n", result, line)
			default:
				result = fmt.Sprintf("%s|  %s\n", result, line)
			}
		}
	}
	return result
}
