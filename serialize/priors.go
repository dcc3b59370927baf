package serialize

import (
	"encoding/json"
	"strconv"

	"github.com/katalvlaran/lvlath-diamond/graphindex"
	"github.com/katalvlaran/lvlath-diamond/probability"
)

type nodeDocument struct {
	DataType string                     `json:"data_type"`
	Nodes    map[string]json.RawMessage `json:"nodes"`
}

// EncodeNodePriors renders priors as spec.md §6's node-priors JSON document.
// All values must share the same Kind.
func EncodeNodePriors(priors map[graphindex.Node]probability.Value) ([]byte, error) {
	return encodeNodeMap(priors, "node_priors")
}

// DecodeNodePriors parses spec.md §6's node-priors JSON document.
func DecodeNodePriors(data []byte) (map[graphindex.Node]probability.Value, error) {
	return decodeNodeMap(data, "node_priors")
}

// MarshalBeliefMap renders belief as the same node-keyed JSON schema as
// NodePriors (spec.md §6: "the serialization format mirrors the input
// node-priors JSON").
func MarshalBeliefMap(belief map[graphindex.Node]probability.Value) ([]byte, error) {
	return encodeNodeMap(belief, "belief_map")
}

// UnmarshalBeliefMap parses a BeliefMap document.
func UnmarshalBeliefMap(data []byte) (map[graphindex.Node]probability.Value, error) {
	return decodeNodeMap(data, "belief_map")
}

func encodeNodeMap(values map[graphindex.Node]probability.Value, source string) ([]byte, error) {
	kind := probability.KindScalar
	for _, v := range values {
		kind = v.Kind
		break
	}

	nodes := make(map[string]json.RawMessage, len(values))
	for n, v := range values {
		if v.Kind != kind {
			return nil, &InputError{Source: source, Reason: "mixed probability Kinds in one document"}
		}
		payload, err := encodeValue(v)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, &InputError{Source: source, Reason: err.Error()}
		}
		nodes[strconv.FormatUint(uint64(n), 10)] = raw
	}

	doc := nodeDocument{DataType: dataTypeOf(kind), Nodes: nodes}
	return json.Marshal(doc)
}

func decodeNodeMap(data []byte, source string) (map[graphindex.Node]probability.Value, error) {
	var doc nodeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &InputError{Source: source, Reason: err.Error()}
	}
	kind, err := kindOf(doc.DataType)
	if err != nil {
		return nil, err
	}

	out := make(map[graphindex.Node]probability.Value, len(doc.Nodes))
	for key, raw := range doc.Nodes {
		id, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return nil, &InputError{Source: source, Reason: "bad node id: " + key}
		}
		v, err := decodeValue(kind, raw)
		if err != nil {
			return nil, err
		}
		out[graphindex.Node(id)] = v
	}
	return out, nil
}
