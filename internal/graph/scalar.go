package graph

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Date is the GraphQL Date scalar.
//
// Output is the RFC 3339 form of the stored time. Input accepts an RFC 3339
// string, a date-only "2006-01-02" string (start of that day in UTC), or a
// number of Unix milliseconds.
type Date struct {
	time.Time
}

func (Date) ImplementsGraphQLType(name string) bool { return name == "Date" }

func (d *Date) UnmarshalGraphQL(input interface{}) error {
	switch v := input.(type) {
	case string:
		t, err := parseDate(v)
		if err != nil {
			return err
		}
		d.Time = t
	case time.Time:
		d.Time = v
	case int32:
		d.Time = time.UnixMilli(int64(v)).UTC()
	case int64:
		d.Time = time.UnixMilli(v).UTC()
	case int:
		d.Time = time.UnixMilli(int64(v)).UTC()
	case float64:
		d.Time = time.UnixMilli(int64(v)).UTC()
	default:
		return fmt.Errorf("wrong type for Date: %T", v)
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time.UTC().Format(time.RFC3339Nano))
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("date: use YYYY-MM-DD or an RFC 3339 datetime, got %q", s)
}

func newDate(t time.Time) Date { return Date{Time: t} }

func newDatePtr(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	return &Date{Time: *t}
}
