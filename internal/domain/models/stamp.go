// internal/domain/models/stamp.go
package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StampLayout is the ISO-8601 layout used for every timestamp the API exposes.
const StampLayout = "2006-01-02T15:04:05.000Z07:00"

// Stamp is a timestamp carried as ISO-8601 text.
//
// In Mongo it is written as a BSON date so range queries and sorts work.
// On read it accepts dates, BSON timestamps, strings and null, so documents
// written by other tools still decode to the same text form.
type Stamp string

// Now returns the current UTC time as a Stamp.
func Now() Stamp {
	return StampOf(time.Now())
}

// StampOf formats t as a Stamp.
func StampOf(t time.Time) Stamp {
	return Stamp(t.UTC().Format(StampLayout))
}

// Time parses the stamp. Unparseable text yields the zero time.
func (s Stamp) Time() time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{StampLayout, time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, string(s)); err == nil {
			return t
		}
	}
	return time.Time{}
}

// MarshalBSONValue stores parseable stamps as BSON dates and anything else verbatim.
func (s Stamp) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if s == "" {
		return bson.MarshalValue(nil)
	}
	t := s.Time()
	if t.IsZero() {
		return bson.MarshalValue(string(s))
	}
	return bson.MarshalValue(primitive.NewDateTimeFromTime(t))
}

// UnmarshalBSONValue converts dates and timestamps to ISO text.
func (s *Stamp) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*s = ""
	case bsontype.DateTime:
		*s = StampOf(raw.Time())
	case bsontype.Timestamp:
		sec, _ := raw.Timestamp()
		*s = StampOf(time.Unix(int64(sec), 0))
	case bsontype.String:
		*s = Stamp(raw.StringValue())
	default:
		return fmt.Errorf("stamp: cannot decode bson type %s", t)
	}
	return nil
}
