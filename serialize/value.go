package serialize

import (
	"encoding/json"

	"github.com/katalvlaran/lvlath-diamond/probability"
)

// dataTypeOf returns the wire data_type string for kind.
func dataTypeOf(kind probability.Kind) string {
	switch kind {
	case probability.KindInterval:
		return "Interval"
	case probability.KindPBox:
		return "pbox"
	default:
		return "Float64"
	}
}

func kindOf(dataType string) (probability.Kind, error) {
	switch dataType {
	case "Float64":
		return probability.KindScalar, nil
	case "Interval":
		return probability.KindInterval, nil
	case "pbox":
		return probability.KindPBox, nil
	default:
		return 0, &InputError{Source: "node_priors", Reason: "unknown data_type: " + dataType}
	}
}

// intervalJSON is the wire shape for an Interval value.
type intervalJSON struct {
	Type  string  `json:"type"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// pboxJSON is the wire shape for a PBox value, covering both the
// "scalar" and "complex" construction types (spec.md §6).
type pboxJSON struct {
	Type             string  `json:"type"`
	ConstructionType string  `json:"construction_type"`
	Value            float64 `json:"value,omitempty"`
	ML               float64 `json:"ml,omitempty"`
	MH               float64 `json:"mh,omitempty"`
	VL               float64 `json:"vl,omitempty"`
	VH               float64 `json:"vh,omitempty"`
	Shape            string  `json:"shape,omitempty"`
	Name             string  `json:"name,omitempty"`
}

// encodeValue renders v as the JSON payload spec.md §6 describes for its
// Kind: a bare number for Float64, an object for Interval/pbox.
func encodeValue(v probability.Value) (interface{}, error) {
	switch v.Kind {
	case probability.KindInterval:
		lo, hi, _ := v.Bounds()
		return intervalJSON{Type: "interval", Lower: lo, Upper: hi}, nil
	case probability.KindPBox:
		box, _ := v.Box()
		return pboxJSON{
			Type:             "pbox",
			ConstructionType: box.ConstructionType,
			Value:            box.Value,
			ML:               box.ML,
			MH:               box.MH,
			VL:               box.VL,
			VH:               box.VH,
			Shape:            box.Shape,
			Name:             box.Name,
		}, nil
	default:
		s, _ := v.Scalar()
		return s, nil
	}
}

// decodeValue parses raw according to kind.
func decodeValue(kind probability.Kind, raw json.RawMessage) (probability.Value, error) {
	switch kind {
	case probability.KindInterval:
		var iv intervalJSON
		if err := json.Unmarshal(raw, &iv); err != nil {
			return probability.Value{}, &InputError{Source: "node_priors", Reason: "bad interval value: " + err.Error()}
		}
		v, err := probability.NewInterval(iv.Lower, iv.Upper)
		if err != nil {
			return probability.Value{}, err
		}
		return v, nil
	case probability.KindPBox:
		var pb pboxJSON
		if err := json.Unmarshal(raw, &pb); err != nil {
			return probability.Value{}, &InputError{Source: "node_priors", Reason: "bad pbox value: " + err.Error()}
		}
		switch pb.ConstructionType {
		case "scalar":
			return probability.NewPBoxScalar(pb.Value)
		case "complex":
			return probability.NewPBoxComplex(pb.ML, pb.MH, pb.VL, pb.VH, pb.Shape, pb.Name)
		default:
			return probability.Value{}, &InputError{Source: "node_priors", Reason: "unknown pbox construction_type: " + pb.ConstructionType}
		}
	default:
		var s float64
		if err := json.Unmarshal(raw, &s); err != nil {
			return probability.Value{}, &InputError{Source: "node_priors", Reason: "bad scalar value: " + err.Error()}
		}
		return probability.NewScalar(s)
	}
}
