package learning

import (
	"encoding/json"
	"fmt"
)

// envelope tags a serialized regressor with its kind.
type envelope struct {
	Kind  Kind            `json:"kind"`
	Model json.RawMessage `json:"model"`
}

// MarshalModel encodes a fitted regressor as {"kind": ..., "model": ...}.
func MarshalModel(r Regressor) ([]byte, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", r.Kind(), err)
	}
	return json.Marshal(envelope{Kind: r.Kind(), Model: body})
}

// UnmarshalModel decodes a regressor written by MarshalModel.
func UnmarshalModel(data []byte) (Regressor, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode model envelope: %w", err)
	}
	kind, err := ParseKind(string(env.Kind))
	if err != nil {
		return nil, err
	}
	var r Regressor
	switch kind {
	case KindDecisionTree:
		r = &DecisionTree{}
	case KindRandomForest:
		r = &RandomForest{}
	case KindKNN:
		r = &KNN{}
	}
	if err := json.Unmarshal(env.Model, r); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", kind, err)
	}
	return r, nil
}

// Artifacts are the three encoded documents of a bundle.
type Artifacts struct {
	Model  []byte
	Scaler []byte
	Info   []byte
}

// EncodeBundle validates and serializes a bundle.
func EncodeBundle(b *Bundle) (*Artifacts, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	model, err := MarshalModel(b.Model)
	if err != nil {
		return nil, err
	}
	scaler, err := json.Marshal(b.Scaler)
	if err != nil {
		return nil, fmt.Errorf("failed to encode scaler: %w", err)
	}
	info, err := json.MarshalIndent(b.Metadata, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode model info: %w", err)
	}
	return &Artifacts{Model: model, Scaler: scaler, Info: info}, nil
}

// DecodeBundle is the inverse of EncodeBundle.
func DecodeBundle(a *Artifacts) (*Bundle, error) {
	model, err := UnmarshalModel(a.Model)
	if err != nil {
		return nil, err
	}
	var scaler Scaler
	if err := json.Unmarshal(a.Scaler, &scaler); err != nil {
		return nil, fmt.Errorf("failed to decode scaler: %w", err)
	}
	var info Metadata
	if err := json.Unmarshal(a.Info, &info); err != nil {
		return nil, fmt.Errorf("failed to decode model info: %w", err)
	}
	b := &Bundle{Model: model, Scaler: &scaler, Metadata: info}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}
