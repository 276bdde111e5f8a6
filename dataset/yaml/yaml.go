/*
Package yaml provides methods to parse table column specifications, also
known as metadata, from YAML documents.
*/
package yaml

import (
	"fmt"
	"os"

	"github.com/pbanos/grove/dataset/table"
	yaml "gopkg.in/yaml.v2"
)

/*
ReadColumns takes a slice of bytes with a column specification in YML and
returns a slice of columns parsed from it or an error.
The YML is expected to be an object containing a features property. The value for this
should be an object with a property for each column with its name and either a
string value of 'continuous' for continuous columns or a list of valid values
for discrete columns. Columns are returned in the order they are declared.
*/
func ReadColumns(md []byte) ([]table.Column, error) {
	metadata := struct {
		Features yaml.MapSlice
	}{}
	err := yaml.Unmarshal(md, &metadata)
	if err != nil {
		return nil, fmt.Errorf("parsing yml features: %v", err)
	}
	if metadata.Features == nil {
		return nil, fmt.Errorf("metadata file has no feature information")
	}
	columns := make([]table.Column, 0, len(metadata.Features))
	for _, item := range metadata.Features {
		name := fmt.Sprintf("%v", item.Key)
		switch values := item.Value.(type) {
		case string:
			if values != "continuous" {
				return nil, fmt.Errorf("invalid declaration %q for feature %s", values, name)
			}
			columns = append(columns, table.Column{Name: name})
		case []interface{}:
			if len(values) == 0 {
				return nil, fmt.Errorf("discrete feature %s declares no values", name)
			}
			stringVs := make([]string, 0, len(values))
			for _, v := range values {
				stringVs = append(stringVs, fmt.Sprintf("%v", v))
			}
			columns = append(columns, table.Column{Name: name, Values: stringVs})
		default:
			return nil, fmt.Errorf("invalid feature declaration of type %T for feature %s", item.Value, name)
		}
	}
	return columns, nil
}

/*
ReadColumnsFromFile takes a filepath string, reads its contents and uses
ReadColumns to parse it and return a slice of parsed columns or an error.
If the file indicated by the filepath cannot be opened for reading an error
will be returned.
*/
func ReadColumnsFromFile(filepath string) ([]table.Column, error) {
	md, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading features yml file %s: %v", filepath, err)
	}
	columns, err := ReadColumns(md)
	if err != nil {
		err = fmt.Errorf("parsing features yml file %s: %v", filepath, err)
	}
	return columns, err
}
