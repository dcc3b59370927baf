package serialize

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/katalvlaran/lvlath-diamond/graphindex"
	"github.com/katalvlaran/lvlath-diamond/probability"
)

type linkDocument struct {
	DataType string                     `json:"data_type"`
	Links    map[string]json.RawMessage `json:"links"`
}

// EncodeEdgeProbabilities renders probs as spec.md §6's edge-probabilities
// JSON document: keys of the literal form "(u,v)", no internal whitespace.
func EncodeEdgeProbabilities(probs map[graphindex.Edge]probability.Value) ([]byte, error) {
	kind := probability.KindScalar
	for _, v := range probs {
		kind = v.Kind
		break
	}

	links := make(map[string]json.RawMessage, len(probs))
	for e, v := range probs {
		if v.Kind != kind {
			return nil, &InputError{Source: "edge_probabilities", Reason: "mixed probability Kinds in one document"}
		}
		payload, err := encodeValue(v)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, &InputError{Source: "edge_probabilities", Reason: err.Error()}
		}
		links[edgeKey(e)] = raw
	}

	doc := linkDocument{DataType: dataTypeOf(kind), Links: links}
	return json.Marshal(doc)
}

// DecodeEdgeProbabilities parses spec.md §6's edge-probabilities JSON
// document.
func DecodeEdgeProbabilities(data []byte) (map[graphindex.Edge]probability.Value, error) {
	var doc linkDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &InputError{Source: "edge_probabilities", Reason: err.Error()}
	}
	kind, err := kindOf(doc.DataType)
	if err != nil {
		return nil, err
	}

	out := make(map[graphindex.Edge]probability.Value, len(doc.Links))
	for key, raw := range doc.Links {
		e, err := parseEdgeKey(key)
		if err != nil {
			return nil, err
		}
		v, err := decodeValue(kind, raw)
		if err != nil {
			return nil, err
		}
		out[e] = v
	}
	return out, nil
}

// edgeKey renders e as the literal "(u,v)" wire key.
func edgeKey(e graphindex.Edge) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(strconv.FormatUint(uint64(e.From), 10))
	b.WriteByte(',')
	b.WriteString(strconv.FormatUint(uint64(e.To), 10))
	b.WriteByte(')')
	return b.String()
}

func parseEdgeKey(key string) (graphindex.Edge, error) {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(key, "("), ")")
	if trimmed == key {
		return graphindex.Edge{}, &InputError{Source: "edge_probabilities", Reason: "malformed link key: " + key}
	}
	parts := strings.SplitN(trimmed, ",", 2)
	if len(parts) != 2 {
		return graphindex.Edge{}, &InputError{Source: "edge_probabilities", Reason: "malformed link key: " + key}
	}
	u, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return graphindex.Edge{}, &InputError{Source: "edge_probabilities", Reason: "bad source in link key: " + key}
	}
	v, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return graphindex.Edge{}, &InputError{Source: "edge_probabilities", Reason: "bad destination in link key: " + key}
	}
	return graphindex.Edge{From: graphindex.Node(u), To: graphindex.Node(v)}, nil
}
