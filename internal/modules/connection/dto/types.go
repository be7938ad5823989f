package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type Property string

const (
	PropertyRoot           Property = "root"
	PropertyProjectManager Property = "projectManager"
	PropertyMediaStorage   Property = "mediaStorage"
	PropertyProject        Property = "project"
	PropertyMediaPool      Property = "mediaPool"
	PropertyTimeline       Property = "timeline"
)

// Handle is a reference to a host object tagged with the session generation
// it was obtained under.
type Handle struct {
	Ref        string
	Kind       string
	Generation uint64
}

type wireRef struct {
	Ref  string `json:"$ref"`
	Kind string `json:"$kind,omitempty"`
}

func (h Handle) IsZero() bool {
	return h.Ref == ""
}

// MarshalJSON encodes the handle the way the bridge expects object arguments.
func (h Handle) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireRef{Ref: h.Ref, Kind: h.Kind})
}

// Value is a raw host result. Object references inside it inherit the
// generation of the handle the call was made on.
type Value struct {
	Raw        json.RawMessage
	Generation uint64
}

func (v Value) IsNull() bool {
	trimmed := bytes.TrimSpace(v.Raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Sentinel reports a result the host uses to signal rejection where a
// concrete value was required: null, false, an empty string or a negative
// number.
func (v Value) Sentinel() bool {
	if v.IsNull() {
		return true
	}
	var decoded any
	if err := json.Unmarshal(v.Raw, &decoded); err != nil {
		return false
	}
	switch typed := decoded.(type) {
	case bool:
		return !typed
	case string:
		return typed == ""
	case float64:
		return typed < 0
	}
	return false
}

func (v Value) Decode(out any) error {
	if v.IsNull() {
		return nil
	}
	if err := json.Unmarshal(v.Raw, out); err != nil {
		return fmt.Errorf("decode host value: %w", err)
	}
	return nil
}

func (v Value) Text() (string, error) {
	var out string
	err := v.Decode(&out)
	return out, err
}

func (v Value) Int() (int, error) {
	var out float64
	if err := v.Decode(&out); err != nil {
		return 0, err
	}
	return int(out), nil
}

func (v Value) Bool() (bool, error) {
	var out bool
	err := v.Decode(&out)
	return out, err
}

func (v Value) Strings() ([]string, error) {
	out := []string{}
	if err := v.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// Handle extracts an object reference from the value.
func (v Value) Handle() (Handle, bool) {
	if v.IsNull() {
		return Handle{}, false
	}
	var ref wireRef
	if err := json.Unmarshal(v.Raw, &ref); err != nil || ref.Ref == "" {
		return Handle{}, false
	}
	return Handle{Ref: ref.Ref, Kind: ref.Kind, Generation: v.Generation}, true
}

// Handles extracts a list of object references. A null value is an empty
// list.
func (v Value) Handles() ([]Handle, error) {
	refs := []wireRef{}
	if err := v.Decode(&refs); err != nil {
		return nil, err
	}
	out := make([]Handle, 0, len(refs))
	for _, ref := range refs {
		if ref.Ref == "" {
			continue
		}
		out = append(out, Handle{Ref: ref.Ref, Kind: ref.Kind, Generation: v.Generation})
	}
	return out, nil
}

// EncodeArgs renders call arguments as a JSON array. Handles are encoded as
// object references.
func EncodeArgs(args ...any) (string, error) {
	if len(args) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("encode call args: %w", err)
	}
	return string(raw), nil
}

type SessionInfo struct {
	State       string    `json:"state"`
	Generation  uint64    `json:"generation"`
	Version     string    `json:"version,omitempty"`
	ConnectedAt time.Time `json:"connected_at,omitempty"`
	Root        Handle    `json:"-"`
}
