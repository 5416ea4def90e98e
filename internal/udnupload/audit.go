package udnupload

import "github.com/revolutionmortgage/cp-efolder-upload/internal/loanstore"

// HaveAuditFieldsChanged reports whether any of the ten audit fields differs
// between the stored record and the incoming event. An incoming value that is
// empty or absent never registers as a change, and a stored absent value is
// equivalent to an empty string, so replayed events with no new data pass
// through without triggering work.
func HaveAuditFieldsChanged(stored, incoming map[string]string) bool {
	for _, field := range loanstore.AuditFields {
		v := incoming[field]
		if v != "" && stored[field] != v {
			return true
		}
	}
	return false
}
