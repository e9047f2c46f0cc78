package enum

import (
	"encoding/json"
	"testing"
)

func TestInstallmentStatusJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(InstallmentStatusAwaitingConfirmation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `"AwaitingConfirmation"` {
		t.Fatalf("marshaled %s, want \"AwaitingConfirmation\"", data)
	}

	var status InstallmentStatus
	if err := json.Unmarshal(data, &status); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != InstallmentStatusAwaitingConfirmation {
		t.Errorf("status = %s, want AwaitingConfirmation", status)
	}
}

func TestInstallmentStatusUnmarshalAcceptsInt(t *testing.T) {
	var status InstallmentStatus
	if err := json.Unmarshal([]byte("1"), &status); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != InstallmentStatusOverdue {
		t.Errorf("status = %s, want Overdue", status)
	}
}

func TestInstallmentStatusStringOutOfRange(t *testing.T) {
	if got := InstallmentStatus(99).String(); got != "Unknown" {
		t.Errorf("String() = %q, want Unknown", got)
	}
}
