package encompass

// Fixed identity of the eFolder document that UDN reports are attached to.
// The title is the sole discriminator used to find previously-created
// documents, so it must match exactly.
const (
	UDNReportsDocumentTitle       = "Credit - LQCC"
	UDNReportsDocumentDescription = "Credit update - Softpull or UDN report"
)

// FindDocumentByTitle returns the first document whose title matches exactly,
// or nil when none does.
func FindDocumentByTitle(documents []LoanDocument, title string) *LoanDocument {
	for i := range documents {
		if documents[i].Title == title {
			return &documents[i]
		}
	}
	return nil
}

// FindDocumentByTitleAndBorrower is the stricter variant requiring both the
// title and the owning application's entity name to match exactly.
func FindDocumentByTitleAndBorrower(documents []LoanDocument, title, borrowerFullName string) *LoanDocument {
	for i := range documents {
		if documents[i].Title == title && documents[i].Application.EntityName == borrowerFullName {
			return &documents[i]
		}
	}
	return nil
}
