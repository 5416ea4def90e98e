package loanstore

// AuditFields lists the ten origination-system marker fields that signal
// whether a loan's relevant data changed since the last processed cycle.
// Equality across all ten between the stored record and an incoming event
// means no new work is needed.
var AuditFields = []string{
	"CX.CTC.AUDIT1",
	"CX.CTC.AUDIT2",
	"CX.CTC.AUDIT3",
	"CX.CTC.AUDIT4",
	"CX.CTC.AUDIT5",
	"CX.CTC.AUDIT6",
	"CX.CTC.AUDIT7",
	"CX.CTC.AUDIT8",
	"CX.CTC.AUDIT9",
	"CX.CTC.AUDIT10",
}

func isAuditField(name string) bool {
	for _, f := range AuditFields {
		if f == name {
			return true
		}
	}
	return false
}
