package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
)

// SnowflakeID is stored as BIGINT and serialized as a JSON string so that
// JavaScript clients do not lose precision.
type SnowflakeID int64

func (s SnowflakeID) String() string {
	return strconv.FormatInt(int64(s), 10)
}

func (s SnowflakeID) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *SnowflakeID) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = 0
	case int64:
		*s = SnowflakeID(v)
	case []byte:
		return s.parse(string(v))
	case string:
		return s.parse(v)
	default:
		return fmt.Errorf("cannot scan %T into SnowflakeID", value)
	}
	return nil
}

func (s *SnowflakeID) parse(str string) error {
	i, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid snowflake id %q: %w", str, err)
	}
	*s = SnowflakeID(i)
	return nil
}

func (s SnowflakeID) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON menerima string maupun number
func (s *SnowflakeID) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		return s.parse(str)
	}
	var num int64
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("invalid snowflake id: %s", data)
	}
	*s = SnowflakeID(num)
	return nil
}

// ParseSnowflakeID parses a path or query parameter.
func ParseSnowflakeID(str string) (SnowflakeID, error) {
	var id SnowflakeID
	err := id.parse(str)
	return id, err
}
