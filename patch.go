package main

import "encoding/json"

// Tri-state optional fields for partial updates: a field that is absent from
// the request body is left untouched, an explicit null clears it, and a
// value replaces it. Update handlers apply these field-by-field against a
// fixed struct, so callers cannot mass-assign anything outside the
// allow-list that the struct itself is.

// OptString distinguishes absent / null / value for string fields.
type OptString struct {
	Set   bool
	Value string // zero when null
}

func (o *OptString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = ""
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// Apply overwrites dst only when the field was present in the request.
func (o OptString) Apply(dst *string) {
	if o.Set {
		*dst = o.Value
	}
}

// OptBool distinguishes absent / null / value for bool fields. Null resets
// to false.
type OptBool struct {
	Set   bool
	Value bool
}

func (o *OptBool) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = false
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

func (o OptBool) Apply(dst *bool) {
	if o.Set {
		*dst = o.Value
	}
}

// OptStrings distinguishes absent / null / value for string-list fields.
// Null clears the list.
type OptStrings struct {
	Set   bool
	Value []string
}

func (o *OptStrings) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}
