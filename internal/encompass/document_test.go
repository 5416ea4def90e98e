package encompass_test

import (
	"testing"

	"github.com/revolutionmortgage/cp-efolder-upload/internal/encompass"
)

func doc(id, title, entityName string) encompass.LoanDocument {
	return encompass.LoanDocument{
		ID:          id,
		Title:       title,
		Application: encompass.DocumentApplication{EntityName: entityName},
	}
}

func TestFindDocumentByTitle(t *testing.T) {
	tests := []struct {
		name      string
		documents []encompass.LoanDocument
		title     string
		wantID    string
	}{
		{
			name:      "empty list",
			documents: nil,
			title:     encompass.UDNReportsDocumentTitle,
			wantID:    "",
		},
		{
			name: "no exact match",
			documents: []encompass.LoanDocument{
				doc("doc-1", "credit - lqcc", ""),
				doc("doc-2", "Credit - LQCC extras", ""),
			},
			title:  encompass.UDNReportsDocumentTitle,
			wantID: "",
		},
		{
			name: "first match in list order wins",
			documents: []encompass.LoanDocument{
				doc("doc-1", "Closing Package", ""),
				doc("doc-2", encompass.UDNReportsDocumentTitle, ""),
				doc("doc-3", encompass.UDNReportsDocumentTitle, ""),
			},
			title:  encompass.UDNReportsDocumentTitle,
			wantID: "doc-2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := encompass.FindDocumentByTitle(tt.documents, tt.title)
			if tt.wantID == "" {
				if got != nil {
					t.Errorf("FindDocumentByTitle() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("FindDocumentByTitle() = nil, want a document")
			}
			if got.ID != tt.wantID {
				t.Errorf("document id = %q, want %q", got.ID, tt.wantID)
			}
		})
	}
}

func TestFindDocumentByTitleAndBorrower(t *testing.T) {
	documents := []encompass.LoanDocument{
		doc("doc-1", encompass.UDNReportsDocumentTitle, "Ann Other"),
		doc("doc-2", encompass.UDNReportsDocumentTitle, "Joe Borrower"),
		doc("doc-3", "Closing Package", "Joe Borrower"),
	}

	got := encompass.FindDocumentByTitleAndBorrower(documents, encompass.UDNReportsDocumentTitle, "Joe Borrower")
	if got == nil || got.ID != "doc-2" {
		t.Errorf("FindDocumentByTitleAndBorrower() = %+v, want doc-2", got)
	}

	if got := encompass.FindDocumentByTitleAndBorrower(documents, "Closing Package", "Ann Other"); got != nil {
		t.Errorf("FindDocumentByTitleAndBorrower() = %+v, want nil when only one field matches", got)
	}
}
