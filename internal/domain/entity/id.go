package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is an opaque server-assigned key. The backend emits integers; the
// client treats them as text.
type ID string

func (id ID) String() string { return string(id) }

// UnmarshalJSON accepts both JSON numbers and strings.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a number or string: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Ptr returns a pointer to v, for building partial field sets.
func Ptr[T any](v T) *T { return &v }
