/*
Package json provides an EncodeDecoder that marshals column features into
JSON and unmarshals them back.
*/
package json

import (
	"encoding/json"
	"fmt"

	"github.com/pbanos/grove/dataset/table"
	"github.com/pbanos/grove/feature"
	"github.com/pbanos/grove/feature/column"
)

/*
EncodeDecoder is an interface for objects
that allow encoding features into slices of
bytes and decoding them back to features.
*/
type EncodeDecoder interface {

	//Encode receives a feature.Feature
	// and returns a slice of bytes with the feature
	//encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(feature.Feature) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns a feature.Feature decoded from the
	//slice of bytes or an error if the decoding
	//could not be performed for some reason.
	Decode([]byte) (feature.Feature, error)
}

type jsonEncodeDecoder []table.Column

type jsonFeature struct {
	Type string `json:"t"`
	A    string `json:"a"`
	B    string `json:"b,omitempty"`
}

// NewEncodeDecoder takes a slice of table columns and returns an
// EncodeDecoder that marshals and unmarshals column features
// into/from slices of bytes as JSON.
// Specifically, features are encoded as a JSON object
// with a "t" property that can be one of "column" or
// "difference":
//  * If the feature is a column it will have an "a" property
//  with the name of the column
//  * If the feature is a difference it will have "a" and "b"
//  properties with the names of the minuend and subtrahend
//  columns
// Column names are resolved back to positions among the given
// columns when decoding.
func NewEncodeDecoder(columns []table.Column) EncodeDecoder {
	return jsonEncodeDecoder(columns)
}

func (jed jsonEncodeDecoder) Encode(f feature.Feature) ([]byte, error) {
	switch f := f.(type) {
	case *column.Column:
		return json.Marshal(&jsonFeature{Type: string(column.Single), A: f.Header})
	case *column.Difference:
		return json.Marshal(&jsonFeature{Type: string(column.Pairwise), A: f.HeaderA, B: f.HeaderB})
	default:
		return nil, fmt.Errorf("unknown type of feature.Feature %T", f)
	}
}

func (jed jsonEncodeDecoder) Decode(data []byte) (feature.Feature, error) {
	jf := &jsonFeature{}
	err := json.Unmarshal(data, jf)
	if err != nil {
		return nil, err
	}
	return jf.Feature(jed)
}

func (jf *jsonFeature) Feature(columns []table.Column) (feature.Feature, error) {
	a, err := position(columns, jf.A)
	if err != nil {
		return nil, err
	}
	switch column.Kind(jf.Type) {
	case column.Single:
		return &column.Column{Index: a, Header: jf.A}, nil
	case column.Pairwise:
		b, err := position(columns, jf.B)
		if err != nil {
			return nil, err
		}
		return &column.Difference{A: a, B: b, HeaderA: jf.A, HeaderB: jf.B}, nil
	}
	return nil, fmt.Errorf("unknown feature type '%s'", jf.Type)
}

func position(columns []table.Column, name string) (int, error) {
	for i, c := range columns {
		if c.Name == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown column '%s'", name)
}
