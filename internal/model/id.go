package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is the server-assigned record key. The API is free to send it as a JSON
// string or number; locally it is always handled as an opaque string.
type ID string

func (id ID) String() string {
	return string(id)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if trimmed[0] == '"' {
		var raw string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		*id = ID(raw)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(trimmed, &num); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(num.String())
	return nil
}

// Record is implemented by every entity kept in a view store.
type Record interface {
	RecordID() ID
}
