package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// CashMovementType classifies a manual register entry
type CashMovementType int

const (
	CashMovementCredit CashMovementType = 0
	CashMovementDebit  CashMovementType = 1
)

func (t CashMovementType) String() string {
	return [...]string{"Credit", "Debit"}[t]
}

func (t CashMovementType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *CashMovementType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = CashMovementType(i)
		return nil
	}
	switch str {
	case "Credit":
		*t = CashMovementCredit
	case "Debit":
		*t = CashMovementDebit
	}
	return nil
}

func (t CashMovementType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *CashMovementType) Scan(value interface{}) error {
	if value == nil {
		*t = CashMovementCredit
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = CashMovementType(v)
	case int:
		*t = CashMovementType(v)
	}
	return nil
}
