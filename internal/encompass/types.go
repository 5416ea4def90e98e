package encompass

// Loan is the live loan read from the origination system, reduced to the
// entities this service consumes.
type Loan struct {
	ID           string        `json:"id"`
	Applications []Application `json:"applications"`
}

// Application is one borrower pair on a loan.
type Application struct {
	ID         string     `json:"id"`
	Borrower   *Applicant `json:"borrower,omitempty"`
	Coborrower *Applicant `json:"coborrower,omitempty"`
}

// Applicant is a borrower or co-borrower as the origination system returns it.
type Applicant struct {
	FullName                    string `json:"fullName"`
	TaxIdentificationIdentifier string `json:"taxIdentificationIdentifier"`
}

// Borrower is the resolved identity used to drive a report upload. Derived,
// never persisted.
type Borrower struct {
	FullName                    string
	TaxIdentificationIdentifier string
	ApplicationID               string
}

// LoanDocument is an eFolder document on a loan. Read-only to this service
// apart from attachment uploads.
type LoanDocument struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Application DocumentApplication `json:"application"`
	Attachments []Attachment        `json:"attachments"`
}

// DocumentApplication references the application a document belongs to.
type DocumentApplication struct {
	EntityID   string `json:"entityId"`
	EntityName string `json:"entityName"`
}

// Attachment is a file attached to a document.
type Attachment struct {
	ID string `json:"id"`
}
