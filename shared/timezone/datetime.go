package timezone

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"littlelemon/shared/constant"
	"time"
)

// DateTimeLayouts are tried in order when decoding a DateTime. Layouts without an
// offset are read in the application timezone.
var DateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// DateTime is a time.Time that decodes from any of DateTimeLayouts and encodes as
// RFC 3339 with microseconds in the application timezone. Values are kept at
// microsecond precision, the precision of TIMESTAMPTZ.
type DateTime time.Time

func (d DateTime) Time() time.Time {
	return time.Time(d)
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("date-time must be a string: %w", err)
	}

	parsed, err := ParseAny(DateTimeLayouts, value)
	if err != nil {
		return err
	}

	*d = DateTime(parsed.Truncate(time.Microsecond))

	return nil
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(ToAppTime(d.Time()).Format(constant.DateFormat))
}

// Value lets a DateTime be written directly by database/sql drivers.
func (d DateTime) Value() (driver.Value, error) {
	return d.Time(), nil
}
