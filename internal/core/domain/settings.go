package domain

// GrayPeriodUnset is the sentinel stored when no gray period has been
// configured by an administrator.
const GrayPeriodUnset float64 = -1

// GrayPeriod is the process-wide window (in hours) after transaction creation
// during which cancellation or re-conversion is permitted. It is read at
// request time, so changing it applies retroactively to pending transactions.
type GrayPeriod struct {
	Hours float64 `json:"hours"`
}

// IsSet reports whether an administrator has configured the window.
func (g GrayPeriod) IsSet() bool {
	return g.Hours >= 0
}
