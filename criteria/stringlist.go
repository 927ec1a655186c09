package criteria

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/propertylabs/rental-radar-alerts-sub000/domain"
)

// StringList is an array-typed criteria field. It is never null on the wire: anything that
// isn't a JSON array decodes to an empty list, and a nil list encodes as [].
// In the database it is stored as JSON text.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		*l = StringList{}
		return nil
	}

	var items []string
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return domain.NewInvalidArgumentError("list fields may only contain strings")
	}
	if items == nil {
		items = []string{}
	}
	*l = items
	return nil
}

func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

func (l StringList) Value() (driver.Value, error) {
	b, err := l.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan string list: unsupported type %T", src)
	}

	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("scan string list: %w", err)
	}
	if items == nil {
		items = []string{}
	}
	*l = items
	return nil
}

func (l StringList) Contains(s string) bool {
	for _, item := range l {
		if item == s {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no backing array with l. The copy is never nil.
func (l StringList) Clone() StringList {
	out := make(StringList, len(l))
	copy(out, l)
	return out
}
