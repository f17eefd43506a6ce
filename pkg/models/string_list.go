package models

import (
	"database/sql/driver"
	"strings"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

// StringList is an ordered list of strings stored as a JSON array in a TEXT
// column. A nil list is stored as "[]" and NULL scans into an empty list.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return string(b), nil
}

func (l *StringList) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return errors.Errorf("can't scan %T into StringList", src)
	}

	if strings.TrimSpace(string(raw)) == "" {
		*l = StringList{}
		return nil
	}

	list := []string{}
	if err := json.Unmarshal(raw, &list); err != nil {
		return errors.Wrap(err, "invalid string list")
	}
	*l = list
	return nil
}

// MarshalJSON never emits null.
func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// Contains reports whether s is in the list, ignoring case and surrounding
// whitespace.
func (l StringList) Contains(s string) bool {
	s = strings.TrimSpace(s)
	for _, v := range l {
		if strings.EqualFold(strings.TrimSpace(v), s) {
			return true
		}
	}
	return false
}
