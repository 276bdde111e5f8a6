/*
Package json provides EncodeDecoders that marshal trees and forests into
JSON and unmarshal them back. Features and leaf statistics are delegated to
a feature EncodeDecoder and a StatsEncodeDecoder respectively.
*/
package json

import (
	"encoding/json"
	"fmt"

	"github.com/pbanos/grove/feature"
	"github.com/pbanos/grove/forest"
)

/*
FeatureEncodeDecoder is an interface for objects
that allow encoding features into slices of
bytes and decoding them back to features.
*/
type FeatureEncodeDecoder interface {
	Encode(feature.Feature) ([]byte, error)
	Decode([]byte) (feature.Feature, error)
}

/*
TreeEncodeDecoder is an interface for objects
that allow encoding trees into slices of
bytes and decoding them back to trees.
*/
type TreeEncodeDecoder interface {

	//Encode receives a *forest.Tree
	// and returns a slice of bytes with the tree
	//encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(*forest.Tree) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns a *forest.Tree decoded from the
	//slice of bytes or an error if the decoding
	//could not be performed for some reason.
	Decode([]byte) (*forest.Tree, error)
}

/*
EncodeDecoder is an interface for objects
that allow encoding forests into slices of
bytes and decoding them back to forests.
*/
type EncodeDecoder interface {
	Encode(*forest.Forest) ([]byte, error)
	Decode([]byte) (*forest.Forest, error)
}

type treeEncodeDecoder struct {
	features FeatureEncodeDecoder
	stats    StatsEncodeDecoder
}

type node struct {
	Feature   *json.RawMessage `json:"f,omitempty"`
	Threshold float64          `json:"t,omitempty"`
	Left      int              `json:"l,omitempty"`
	Right     int              `json:"r,omitempty"`
	Depth     int              `json:"d"`
	Count     int              `json:"n"`
	Stats     *json.RawMessage `json:"s,omitempty"`
}

type tree struct {
	Nodes []json.RawMessage `json:"nodes"`
}

type jsonForest struct {
	Trees []json.RawMessage `json:"trees"`
}

/*
NewTreeEncodeDecoder returns a TreeEncodeDecoder that uses the given
FeatureEncodeDecoder and StatsEncodeDecoder to encode/decode the features
of internal nodes and the statistics of leaves.
Trees are encoded as a JSON object with a "nodes" property holding the
node arena, each node being an object with the properties:
  * "f": the encoded feature (internal nodes only)
  * "t": the threshold (internal nodes only)
  * "l" and "r": the positions of the children (internal nodes only)
  * "d": the depth of the node
  * "n": the number of training examples that reached the node
  * "s": the encoded statistics (leaves only)
*/
func NewTreeEncodeDecoder(fed FeatureEncodeDecoder, sed StatsEncodeDecoder) TreeEncodeDecoder {
	return &treeEncodeDecoder{fed, sed}
}

func (ted *treeEncodeDecoder) Encode(t *forest.Tree) ([]byte, error) {
	jt := &tree{Nodes: make([]json.RawMessage, 0, len(t.Nodes))}
	for i := range t.Nodes {
		data, err := ted.encodeNode(&t.Nodes[i])
		if err != nil {
			return nil, fmt.Errorf("encoding node %d: %v", i, err)
		}
		jt.Nodes = append(jt.Nodes, data)
	}
	return json.Marshal(jt)
}

func (ted *treeEncodeDecoder) encodeNode(n *forest.Node) ([]byte, error) {
	jn := &node{Depth: n.Depth, Count: n.Count}
	if n.IsLeaf() {
		s, err := ted.stats.Encode(n.Stats)
		if err != nil {
			return nil, err
		}
		rs := json.RawMessage(s)
		jn.Stats = &rs
		return json.Marshal(jn)
	}
	f, err := ted.features.Encode(n.Feature)
	if err != nil {
		return nil, err
	}
	rf := json.RawMessage(f)
	jn.Feature = &rf
	jn.Threshold = n.Threshold
	jn.Left = n.Left
	jn.Right = n.Right
	return json.Marshal(jn)
}

func (ted *treeEncodeDecoder) Decode(data []byte) (*forest.Tree, error) {
	jt := &tree{}
	err := json.Unmarshal(data, jt)
	if err != nil {
		return nil, err
	}
	t := &forest.Tree{Nodes: make([]forest.Node, len(jt.Nodes))}
	for i, data := range jt.Nodes {
		err = ted.decodeNode(data, &t.Nodes[i])
		if err != nil {
			return nil, fmt.Errorf("decoding node %d: %v", i, err)
		}
		n := &t.Nodes[i]
		if !n.IsLeaf() && (n.Left <= i || n.Right <= i || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes)) {
			return nil, fmt.Errorf("decoding node %d: children %d and %d out of range (%d, %d)", i, n.Left, n.Right, i, len(t.Nodes))
		}
	}
	return t, nil
}

func (ted *treeEncodeDecoder) decodeNode(data []byte, n *forest.Node) error {
	jn := &node{}
	err := json.Unmarshal(data, jn)
	if err != nil {
		return err
	}
	n.Depth = jn.Depth
	n.Count = jn.Count
	if jn.Feature != nil {
		n.Feature, err = ted.features.Decode(*jn.Feature)
		if err != nil {
			return err
		}
		n.Threshold = jn.Threshold
		n.Left = jn.Left
		n.Right = jn.Right
		return nil
	}
	if jn.Stats == nil {
		return fmt.Errorf("node has neither feature nor statistics")
	}
	n.Stats, err = ted.stats.Decode(*jn.Stats)
	return err
}

type encodeDecoder struct {
	TreeEncodeDecoder
}

/*
NewEncodeDecoder returns an EncodeDecoder that uses the given
TreeEncodeDecoder to encode/decode the trees of forests. Forests are
encoded as a JSON object with a "trees" property holding the encoded trees
in order.
*/
func NewEncodeDecoder(ted TreeEncodeDecoder) EncodeDecoder {
	return &encodeDecoder{ted}
}

func (ed *encodeDecoder) Encode(f *forest.Forest) ([]byte, error) {
	jf := &jsonForest{Trees: make([]json.RawMessage, 0, f.Size())}
	for i, t := range f.Trees {
		data, err := ed.TreeEncodeDecoder.Encode(t)
		if err != nil {
			return nil, fmt.Errorf("encoding tree %d: %v", i, err)
		}
		jf.Trees = append(jf.Trees, data)
	}
	return json.Marshal(jf)
}

func (ed *encodeDecoder) Decode(data []byte) (*forest.Forest, error) {
	jf := &jsonForest{}
	err := json.Unmarshal(data, jf)
	if err != nil {
		return nil, err
	}
	trees := make([]*forest.Tree, 0, len(jf.Trees))
	for i, data := range jf.Trees {
		t, err := ed.TreeEncodeDecoder.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("decoding tree %d: %v", i, err)
		}
		trees = append(trees, t)
	}
	return forest.New(trees), nil
}
