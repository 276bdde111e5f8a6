package forest

import (
	"fmt"

	"github.com/pbanos/grove/feature"
	"github.com/pbanos/grove/stats"
)

/*
Node is a node of a tree. It is a leaf when it has no Feature, in which
case Stats holds the statistics of the training examples that reached it.
Otherwise it is an internal node that sends the examples whose response
to Feature is less than or equal to Threshold to its Left child and the
rest to its Right child.
*/
type Node struct {
	// The feature the node evaluates on examples (nil on leaves)
	Feature feature.Feature
	// The cut point on the feature response
	Threshold float64
	// Positions of the children in the tree's node arena
	Left, Right int
	// Distance to the root of the tree
	Depth int
	// Number of training examples that reached the node
	Count int
	// Statistics of the training examples on leaves
	Stats stats.Stats
}

// IsLeaf returns whether the node is a leaf.
func (n *Node) IsLeaf() bool {
	return n.Feature == nil
}

func (n *Node) String() string {
	if n.IsLeaf() {
		return fmt.Sprintf("{ n=%d %v }", n.Count, n.Stats)
	}
	return fmt.Sprintf("{ %s <= %g n=%d }", n.Feature.Name(), n.Threshold, n.Count)
}
