package udnupload

import "fmt"

// Field codes on the inbound event that are part of the contract.
const (
	// VendorOrderFieldKey carries the vendor's order/file number.
	VendorOrderFieldKey = "CX.CP.UDN.FILENUMBER"

	// MilestoneFieldKey holds the last completed workflow milestone;
	// ResubmittalMilestone forces an upload regardless of audit-field state.
	MilestoneFieldKey    = "Log.MS.LastCompleted"
	ResubmittalMilestone = "Resubmittal"

	// ManualPullFieldKey set to ManualPullEnabled also forces an upload.
	ManualPullFieldKey = "CX.CP.UDN.MANUALPULL"
	ManualPullEnabled  = "1"
)

// Event is the inbound loan-change notification as delivered off the bus.
type Event struct {
	Detail Detail `json:"detail"`
}

// Detail carries the loan reference and the origination-system field values.
type Detail struct {
	Loan   LoanRef           `json:"loan"`
	Fields map[string]string `json:"fields"`
}

// LoanRef identifies the loan the event is about.
type LoanRef struct {
	ID string `json:"id"`
}

// InvalidEventParamsError reports a required event field that is absent.
// Callers pattern-match on this message, so the wording is part of the
// contract.
type InvalidEventParamsError struct {
	Param string
}

func (e *InvalidEventParamsError) Error() string {
	return fmt.Sprintf("Required parameter %s is missing on event payload", e.Param)
}

// validate checks the event's required fields in contract order and returns
// the exact dotted path of the first one missing.
func validate(event Event) error {
	if event.Detail.Loan.ID == "" {
		return &InvalidEventParamsError{Param: "detail.loan.id"}
	}
	if event.Detail.Fields == nil {
		return &InvalidEventParamsError{Param: "detail.fields"}
	}
	if event.Detail.Fields[VendorOrderFieldKey] == "" {
		return &InvalidEventParamsError{Param: fmt.Sprintf("detail.fields['%s']", VendorOrderFieldKey)}
	}
	return nil
}
