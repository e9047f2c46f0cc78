package enum

import "encoding/json"

// InstallmentStatus is the derived state of an installment relative to a
// reference date. It is never stored; it is computed from the confirmed,
// self-reported and due-date fields.
type InstallmentStatus int

const (
	// InstallmentStatusUpcoming: not yet due, not reported, not confirmed.
	InstallmentStatusUpcoming InstallmentStatus = 0
	// InstallmentStatusOverdue: past due, not reported, not confirmed.
	InstallmentStatusOverdue InstallmentStatus = 1
	// InstallmentStatusAwaitingConfirmation: customer reported payment,
	// staff has not verified it yet.
	InstallmentStatusAwaitingConfirmation InstallmentStatus = 2
	// InstallmentStatusPaid: staff confirmed the payment.
	InstallmentStatusPaid InstallmentStatus = 3
)

func (s InstallmentStatus) String() string {
	names := [...]string{"Upcoming", "Overdue", "AwaitingConfirmation", "Paid"}
	if s < 0 || int(s) >= len(names) {
		return "Unknown"
	}
	return names[s]
}

func (s InstallmentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *InstallmentStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = InstallmentStatus(i)
		return nil
	}
	switch str {
	case "Upcoming":
		*s = InstallmentStatusUpcoming
	case "Overdue":
		*s = InstallmentStatusOverdue
	case "AwaitingConfirmation":
		*s = InstallmentStatusAwaitingConfirmation
	case "Paid":
		*s = InstallmentStatusPaid
	}
	return nil
}
