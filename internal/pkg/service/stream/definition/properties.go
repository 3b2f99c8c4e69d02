// Package definition contains the stream definition model: the properties
// stored in the stream's namespace node and the resolved module topology.
package definition

import (
	"encoding/json"

	"github.com/streamforge/streamforge/internal/pkg/utils/errors"
)

// DefinitionKey is the property holding the stream pipeline definition,
// for example "http | filter | log".
const DefinitionKey = "definition"

// Properties is a snapshot of a stream node's decoded payload.
type Properties map[string]string

// DecodeProperties decodes a stream node payload.
func DecodeProperties(payload []byte) (Properties, error) {
	out := Properties{}
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, errors.Wrapf(err, "cannot decode stream properties")
	}
	return out, nil
}

// EncodeProperties encodes properties to a stream node payload.
func EncodeProperties(props Properties) ([]byte, error) {
	payload, err := json.Marshal(props)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot encode stream properties")
	}
	return payload, nil
}

// Definition returns the pipeline definition property.
func (p Properties) Definition() (string, bool) {
	value, found := p[DefinitionKey]
	return value, found
}
