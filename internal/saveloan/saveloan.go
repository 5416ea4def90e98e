// Package saveloan persists a loan snapshot from the origination system's
// event-destination payload. This is the producer of the record the UDN
// upload workflow later reads.
package saveloan

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/revolutionmortgage/cp-efolder-upload/internal/loanstore"
)

// ErrMissingLoanID is returned when the event carries no loan id.
var ErrMissingLoanID = errors.New("loanId missing on request payload")

// Event is the event-destination envelope: the original request event plus
// the responding service's payload.
type Event struct {
	Detail Detail `json:"detail"`
}

// Detail pairs the request that triggered the integration with its response.
type Detail struct {
	RequestPayload  RequestPayload  `json:"requestPayload"`
	ResponsePayload ResponsePayload `json:"responsePayload"`
}

// RequestPayload carries the originating loan event.
type RequestPayload struct {
	Detail struct {
		Loan struct {
			ID string `json:"id"`
		} `json:"loan"`
	} `json:"detail"`
}

// ResponsePayload carries the borrower fields extracted by the integration.
type ResponsePayload struct {
	BorrowerFirstName     string `json:"borrowerFirstName"`
	BorrowerLastName      string `json:"borrowerLastName"`
	BorrowerSSN           string `json:"borrowerSsn"`
	CoborrowerFirstName   string `json:"coBorrowerFirstName"`
	CoborrowerLastName    string `json:"coBorrowerLastName"`
	CoborrowerSSN         string `json:"coBorrowerSsn"`
	VendorOrderIdentifier string `json:"vendorOrderIdentifier"`
}

// MapToRecord maps the event onto a loan record keyed by the loan id.
func MapToRecord(event Event) (*loanstore.Record, error) {
	loanID := event.Detail.RequestPayload.Detail.Loan.ID
	if loanID == "" {
		return nil, ErrMissingLoanID
	}

	resp := event.Detail.ResponsePayload
	key := loanstore.MakeKey(loanID)
	return &loanstore.Record{
		PK:                    key,
		SK:                    key,
		BorrowerFirstName:     resp.BorrowerFirstName,
		BorrowerLastName:      resp.BorrowerLastName,
		BorrowerSSN:           resp.BorrowerSSN,
		CoborrowerFirstName:   resp.CoborrowerFirstName,
		CoborrowerLastName:    resp.CoborrowerLastName,
		CoborrowerSSN:         resp.CoborrowerSSN,
		VendorOrderIdentifier: resp.VendorOrderIdentifier,
	}, nil
}

// Store is the record writer collaborator.
type Store interface {
	Put(ctx context.Context, rec *loanstore.Record) error
}

// Saver maps and persists loan snapshots.
type Saver struct {
	store  Store
	logger zerolog.Logger
}

// NewSaver returns a Saver writing through the given store.
func NewSaver(store Store, logger zerolog.Logger) *Saver {
	return &Saver{store: store, logger: logger}
}

// Handle maps the event and overwrites the loan's record.
func (s *Saver) Handle(ctx context.Context, event Event) error {
	rec, err := MapToRecord(event)
	if err != nil {
		return err
	}
	if err := s.store.Put(ctx, rec); err != nil {
		return err
	}
	s.logger.Info().Str("loanId", event.Detail.RequestPayload.Detail.Loan.ID).Msg("loan snapshot saved")
	return nil
}
