package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// CreditStatus represents the status of a credit application
type CreditStatus int

const (
	CreditStatusUnderReview CreditStatus = 0
	CreditStatusApproved    CreditStatus = 1
	CreditStatusRejected    CreditStatus = 2
	CreditStatusCanceled    CreditStatus = 3
)

func (s CreditStatus) String() string {
	return [...]string{"UnderReview", "Approved", "Rejected", "Canceled"}[s]
}

func (s CreditStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *CreditStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = CreditStatus(i)
		return nil
	}
	switch str {
	case "UnderReview":
		*s = CreditStatusUnderReview
	case "Approved":
		*s = CreditStatusApproved
	case "Rejected":
		*s = CreditStatusRejected
	case "Canceled":
		*s = CreditStatusCanceled
	}
	return nil
}

func (s CreditStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *CreditStatus) Scan(value interface{}) error {
	if value == nil {
		*s = CreditStatusUnderReview
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = CreditStatus(v)
	case int:
		*s = CreditStatus(v)
	}
	return nil
}
