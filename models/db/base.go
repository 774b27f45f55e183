package dbmodels

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// scanJSON decodes a json column, drivers hand it over either as []byte or string.
func scanJSON(value interface{}, out interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, out)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), out)
	}
	return errors.Errorf("unsupported json column type %T", value)
}
