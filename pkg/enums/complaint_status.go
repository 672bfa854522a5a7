package enums

import "fmt"

// ComplaintStatus tracks triage progress. Any value may follow any other;
// admins set it directly.
type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "pending"
	ComplaintStatusInProgress ComplaintStatus = "in-progress"
	ComplaintStatusSolved     ComplaintStatus = "solved"
)

var validComplaintStatuses = []ComplaintStatus{
	ComplaintStatusPending,
	ComplaintStatusInProgress,
	ComplaintStatusSolved,
}

// String implements fmt.Stringer.
func (s ComplaintStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ComplaintStatus.
func (s ComplaintStatus) IsValid() bool {
	for _, candidate := range validComplaintStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsResolved reports whether the status marks the complaint as solved.
func (s ComplaintStatus) IsResolved() bool {
	return s == ComplaintStatusSolved
}

// ParseComplaintStatus converts raw input into a ComplaintStatus.
func ParseComplaintStatus(value string) (ComplaintStatus, error) {
	for _, candidate := range validComplaintStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid complaint status %q", value)
}
