package decision

// Status enumerates the final decision outcomes. The values are the stable
// wire strings surfaced to callers; they form a closed set so callers never
// have to substring-match.
type Status string

const (
	StatusApproved               Status = "Approved"
	StatusRejectedRestricted     Status = "Rejected: Restricted Content"
	StatusRejectedInvalidDomain  Status = "Rejected: Invalid Registered Domain"
	StatusRejectedDomainMismatch Status = "Rejected: Domain Mismatch"
	StatusFlagged                Status = "Flagged for Manual Review"
	StatusError                  Status = "Error"
)

// IsRejected reports whether the status is one of the rejection variants.
func IsRejected(s Status) bool {
	switch s {
	case StatusRejectedRestricted, StatusRejectedInvalidDomain, StatusRejectedDomainMismatch:
		return true
	}
	return false
}
