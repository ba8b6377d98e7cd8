package model

import (
	"bytes"
	"encoding/json"
)

// OptString is a JSON string field that remembers whether the key was
// present in the document.  encoding/json only invokes UnmarshalJSON for
// keys that exist, so Set stays false for absent fields and Value stays
// nil for explicit nulls.
type OptString struct {
	Set   bool
	Value *string
}

func (o *OptString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(b, []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

func (o OptString) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}
