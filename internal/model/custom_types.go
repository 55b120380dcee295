package model

import (
	"bytes"
	"encoding/json"
)

// AssigneeRef is an employee id that also unmarshals from the legacy populated
// shape {"id": "...", ...} some historical payloads carry. Normalization
// happens once here, never ad hoc at read sites.
type AssigneeRef string

func (a AssigneeRef) String() string { return string(a) }

func (a *AssigneeRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*a = AssigneeRef(obj.ID)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*a = AssigneeRef(s)
	return nil
}
