package domain

import "strings"

type ExpiryStatus string

const (
	ExpiryExpired  ExpiryStatus = "Expired"
	ExpiryCritical ExpiryStatus = "Critical"
	ExpiryWarning  ExpiryStatus = "Warning"
	ExpirySafe     ExpiryStatus = "Safe"
)

type ExpiryItem struct {
	Name     string       `json:"name"`
	Batch    string       `json:"batch"`
	DaysLeft int          `json:"days_left"`
	Status   ExpiryStatus `json:"status"`
}

// NeedsAttention reports whether the item counts as an expiry alert.
func (i ExpiryItem) NeedsAttention() bool {
	for _, s := range []ExpiryStatus{ExpiryCritical, ExpiryWarning, ExpiryExpired} {
		if strings.EqualFold(string(i.Status), string(s)) {
			return true
		}
	}
	return false
}
