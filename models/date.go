package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

type dateKind uint8

const (
	dateMissing dateKind = iota
	dateNative
	dateISO
)

// dateLayouts are tried in order when a date arrives as a string.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// DateValue is a date as it was stored: a native instant, an ISO-ish string
// written by older clients, or nothing. Instant is the only way to read it.
type DateValue struct {
	kind dateKind
	at   time.Time
	raw  string
}

func NativeDate(t time.Time) DateValue { return DateValue{kind: dateNative, at: t} }
func ISODate(s string) DateValue       { return DateValue{kind: dateISO, raw: s} }
func MissingDate() DateValue           { return DateValue{} }

// ParseDate parses s with the accepted layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, use RFC3339 or YYYY-MM-DD", s)
}

// Instant normalizes the value to a UTC instant. ok is false for a missing
// value or a string no layout accepts.
func (d DateValue) Instant() (t time.Time, ok bool) {
	switch d.kind {
	case dateNative:
		return d.at.UTC(), true
	case dateISO:
		t, err := ParseDate(d.raw)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}

// Time is Instant without the flag; the zero time stands for "absent".
func (d DateValue) Time() time.Time {
	t, _ := d.Instant()
	return t
}

func (d DateValue) IsMissing() bool { return d.kind == dateMissing }

// check reports an unparseable string value; missing values pass.
func (d DateValue) check() error {
	if d.kind == dateISO {
		_, err := ParseDate(d.raw)
		return err
	}
	return nil
}

func (d DateValue) MarshalJSON() ([]byte, error) {
	t, ok := d.Instant()
	if !ok {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

func (d *DateValue) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*d = MissingDate()
	case string:
		if strings.TrimSpace(x) == "" {
			*d = MissingDate()
			return nil
		}
		*d = ISODate(x)
	case float64:
		*d = NativeDate(time.UnixMilli(int64(x)).UTC())
	default:
		return fmt.Errorf("unsupported date value %s", string(data))
	}
	return nil
}

// MarshalBSONValue always writes the canonical instant so the stored field
// sorts as a date.
func (d DateValue) MarshalBSONValue() (bsontype.Type, []byte, error) {
	t, ok := d.Instant()
	if !ok {
		return bsontype.Null, nil, nil
	}
	return bson.MarshalValue(t)
}

func (d *DateValue) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.DateTime:
		*d = NativeDate(rv.Time().UTC())
	case bsontype.Timestamp:
		sec, _ := rv.Timestamp()
		*d = NativeDate(time.Unix(int64(sec), 0).UTC())
	case bsontype.String:
		*d = ISODate(rv.StringValue())
	case bsontype.Int64:
		*d = NativeDate(time.UnixMilli(rv.Int64()).UTC())
	case bsontype.Null, bsontype.Undefined:
		*d = MissingDate()
	default:
		return fmt.Errorf("cannot decode %s into a date", t)
	}
	return nil
}
