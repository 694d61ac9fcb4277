package sqlite

import (
	"time"

	"github.com/awalczyk/qbank"
)

func parseRFC3339(value, field string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, qbank.Errorf(qbank.EINTERNAL, "malformed %s timestamp: %q", field, value)
	}
	return t, nil
}
