package encompass

import "errors"

// ErrNoApplications is returned when a loan has no applications to search.
var ErrNoApplications = errors.New("no applications exist on loan")

// ErrNoBorrowerMatch is returned when no borrower or co-borrower on the loan
// matches the given tax id.
var ErrNoBorrowerMatch = errors.New("no borrower on the loan matches the specified SSN")

// NormalizeSSN strips everything but digits and, for a nine-digit result,
// re-inserts the separators to the canonical XXX-XX-XXXX form. Anything else
// is returned as bare digits; comparison against well-formed records then
// simply fails to match rather than raising a format error.
func NormalizeSSN(s string) string {
	digits := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			digits = append(digits, s[i])
		}
	}
	if len(digits) != 9 {
		return string(digits)
	}
	return string(digits[0:3]) + "-" + string(digits[3:5]) + "-" + string(digits[5:9])
}

// ResolveBorrower finds the borrower on the loan matching the given tax id.
// All applications' primary borrowers are scanned first, then all
// co-borrowers; the first match in application order wins.
func ResolveBorrower(taxID string, loan *Loan) (Borrower, error) {
	if loan == nil || len(loan.Applications) == 0 {
		return Borrower{}, ErrNoApplications
	}

	want := NormalizeSSN(taxID)

	if b, ok := findApplicant(loan.Applications, want, func(a Application) *Applicant { return a.Borrower }); ok {
		return b, nil
	}
	if b, ok := findApplicant(loan.Applications, want, func(a Application) *Applicant { return a.Coborrower }); ok {
		return b, nil
	}
	return Borrower{}, ErrNoBorrowerMatch
}

func findApplicant(apps []Application, want string, pick func(Application) *Applicant) (Borrower, bool) {
	for _, app := range apps {
		applicant := pick(app)
		if applicant == nil {
			continue
		}
		if NormalizeSSN(applicant.TaxIdentificationIdentifier) != want {
			continue
		}
		return Borrower{
			FullName:                    applicant.FullName,
			TaxIdentificationIdentifier: applicant.TaxIdentificationIdentifier,
			ApplicationID:               app.ID,
		}, true
	}
	return Borrower{}, false
}
