// Package udnupload implements the UDN-report upload workflow: a conditional,
// idempotent orchestration that decides whether a loan's report needs
// (re)fetching, fetches it from the vendor, resolves the borrower context,
// finds or creates the destination eFolder document, uploads the report and
// persists the new audit baseline.
package udnupload

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/revolutionmortgage/cp-efolder-upload/internal/creditplus"
	"github.com/revolutionmortgage/cp-efolder-upload/internal/encompass"
	"github.com/revolutionmortgage/cp-efolder-upload/internal/loanstore"
)

// attachmentTitle is the title given to each uploaded report attachment.
const attachmentTitle = "Credit Report"

// DocumentNotFoundError indicates the UDN reports document could not be found
// even after creating it, meaning the create succeeded server-side but the
// subsequent read did not reflect it. Fatal for the whole invocation.
type DocumentNotFoundError struct {
	LoanID string
}

func (e *DocumentNotFoundError) Error() string {
	return fmt.Sprintf("no eFolder document for UDN reports found on loan %s", e.LoanID)
}

// Result is the invocation outcome. The boolean is an observability signal,
// not a correctness gate: soft skips (unknown loan, ineligible loan,
// unchanged audit fields) report false without an error.
type Result struct {
	UDNReportUploaded bool `json:"udnReportUploaded"`
}

// Store is the persisted loan record collaborator.
type Store interface {
	Get(ctx context.Context, loanID string) (*loanstore.Record, error)
	Put(ctx context.Context, rec *loanstore.Record) error
}

// LoanAPI is the loan-origination-system collaborator.
type LoanAPI interface {
	GetLoan(ctx context.Context, loanID string) (*encompass.Loan, error)
	GetLoanDocuments(ctx context.Context, loanID string) ([]encompass.LoanDocument, error)
	CreateLoanDocument(ctx context.Context, loanID, applicationID string) error
	CreateAttachmentUploadURL(ctx context.Context, loanID, documentID string, size int, title string) (string, error)
	UploadAttachment(ctx context.Context, uploadURL string, data []byte) error
}

// ReportAPI is the credit-report vendor collaborator.
type ReportAPI interface {
	FetchReport(ctx context.Context, params creditplus.OrderParams) (string, error)
}

// Processor runs the upload workflow. Stateless across invocations; all
// idempotence comes from the audit-field gate re-evaluated against the
// persisted record.
type Processor struct {
	store   Store
	loans   LoanAPI
	reports ReportAPI
	logger  zerolog.Logger
}

// NewProcessor wires the workflow's collaborators.
func NewProcessor(store Store, loans LoanAPI, reports ReportAPI, logger zerolog.Logger) *Processor {
	return &Processor{store: store, loans: loans, reports: reports, logger: logger}
}

// Process handles one loan-change notification.
//
// Persisting the new audit baseline happens only after both borrower uploads
// succeed, so a failed invocation is re-runnable. Two concurrent deliveries
// for the same loan can race past the gate and double-upload; no lock is
// taken on the record.
func (p *Processor) Process(ctx context.Context, event Event) (Result, error) {
	if err := validate(event); err != nil {
		return Result{}, err
	}

	loanID := event.Detail.Loan.ID
	fields := event.Detail.Fields

	rec, err := p.store.Get(ctx, loanID)
	if err != nil {
		return Result{}, err
	}
	if rec == nil {
		// Unknown loan means no prior save cycle: nothing to do yet.
		p.logger.Info().Str("loanId", loanID).Msg("loan record not found, skipping upload")
		return Result{UDNReportUploaded: false}, nil
	}
	if rec.UDNReportNotUploadable {
		p.logger.Info().Str("loanId", loanID).Msg("loan marked not uploadable, skipping upload")
		return Result{UDNReportUploaded: false}, nil
	}

	changed := HaveAuditFieldsChanged(rec.AuditFields, fields)
	isResubmittal := fields[MilestoneFieldKey] == ResubmittalMilestone
	isManualPull := fields[ManualPullFieldKey] == ManualPullEnabled
	if !changed && !isResubmittal && !isManualPull {
		return Result{UDNReportUploaded: false}, nil
	}

	// Borrower identity and the vendor order id come from the persisted
	// record, not the event; the record must hold valid data from a prior
	// save cycle.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.uploadForBorrower(gctx, loanID, creditplus.OrderParams{
			FirstName:             rec.BorrowerFirstName,
			LastName:              rec.BorrowerLastName,
			SocialSecurityNumber:  rec.BorrowerSSN,
			VendorOrderIdentifier: rec.VendorOrderIdentifier,
		})
	})
	if rec.CoborrowerFirstName != "" && rec.CoborrowerLastName != "" && rec.CoborrowerSSN != "" {
		g.Go(func() error {
			return p.uploadForBorrower(gctx, loanID, creditplus.OrderParams{
				FirstName:             rec.CoborrowerFirstName,
				LastName:              rec.CoborrowerLastName,
				SocialSecurityNumber:  rec.CoborrowerSSN,
				VendorOrderIdentifier: rec.VendorOrderIdentifier,
			})
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	// Persist the event's latest audit values so the gate holds on the next
	// delivery.
	rec.AuditFields = make(map[string]string, len(loanstore.AuditFields))
	for _, field := range loanstore.AuditFields {
		if v := fields[field]; v != "" {
			rec.AuditFields[field] = v
		}
	}
	if err := p.store.Put(ctx, rec); err != nil {
		return Result{}, err
	}

	p.logger.Info().Str("loanId", loanID).Msg("udn report uploaded")
	return Result{UDNReportUploaded: true}, nil
}

// uploadForBorrower runs the per-borrower pipeline: fetch the report, resolve
// the borrower on the live loan, find or create the destination document and
// attach the report to it.
func (p *Processor) uploadForBorrower(ctx context.Context, loanID string, params creditplus.OrderParams) error {
	report, err := p.reports.FetchReport(ctx, params)
	if err != nil {
		return err
	}

	loan, err := p.loans.GetLoan(ctx, loanID)
	if err != nil {
		return err
	}
	borrower, err := encompass.ResolveBorrower(params.SocialSecurityNumber, loan)
	if err != nil {
		return err
	}

	documents, err := p.loans.GetLoanDocuments(ctx, loanID)
	if err != nil {
		return err
	}
	if doc := encompass.FindDocumentByTitle(documents, encompass.UDNReportsDocumentTitle); doc != nil {
		return p.uploadReport(ctx, loanID, doc.ID, report)
	}

	if err := p.loans.CreateLoanDocument(ctx, loanID, borrower.ApplicationID); err != nil {
		return err
	}
	documents, err = p.loans.GetLoanDocuments(ctx, loanID)
	if err != nil {
		return err
	}
	doc := encompass.FindDocumentByTitle(documents, encompass.UDNReportsDocumentTitle)
	if doc == nil {
		return &DocumentNotFoundError{LoanID: loanID}
	}
	return p.uploadReport(ctx, loanID, doc.ID, report)
}

// uploadReport decodes the base64 report and PUTs the raw bytes to an upload
// URL scoped to the target document.
func (p *Processor) uploadReport(ctx context.Context, loanID, documentID, report string) error {
	data, err := base64.StdEncoding.DecodeString(report)
	if err != nil {
		return fmt.Errorf("decoding report for loan %s: %w", loanID, err)
	}

	uploadURL, err := p.loans.CreateAttachmentUploadURL(ctx, loanID, documentID, len(data), attachmentTitle)
	if err != nil {
		return err
	}
	return p.loans.UploadAttachment(ctx, uploadURL, data)
}
