// Package loanstore provides the DynamoDB repository for persisted loan records.
package loanstore

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Record is the persisted state for one loan. The audit fields are stored as
// top-level item attributes under their origination-system codes (they carry
// dots, which DynamoDB allows for plain puts) so they live alongside the named
// attributes below, matching what a full event-field spread would have written.
type Record struct {
	PK string `dynamodbav:"PK"` // LOAN#<loanID>
	SK string `dynamodbav:"SK"` // LOAN#<loanID>

	BorrowerFirstName     string `dynamodbav:"BorrowerFirstName,omitempty"`
	BorrowerLastName      string `dynamodbav:"BorrowerLastName,omitempty"`
	BorrowerSSN           string `dynamodbav:"BorrowerSSN,omitempty"`
	CoborrowerFirstName   string `dynamodbav:"CoborrowerFirstName,omitempty"`
	CoborrowerLastName    string `dynamodbav:"CoborrowerLastName,omitempty"`
	CoborrowerSSN         string `dynamodbav:"CoborrowerSSN,omitempty"`
	VendorOrderIdentifier string `dynamodbav:"VendorOrderIdentifier,omitempty"`

	// UDNReportNotUploadable marks the loan permanently ineligible for report
	// upload. Absent on most records.
	UDNReportNotUploadable bool `dynamodbav:"UDNReportNotUploadable,omitempty"`

	// AuditFields holds the CX.CTC.AUDITn values keyed by field code.
	AuditFields map[string]string `dynamodbav:"-"`
}

// MakeKey constructs the composite key value for a loan record. The loan id
// doubles as partition and sort key.
func MakeKey(loanID string) string {
	return fmt.Sprintf("LOAN#%s", loanID)
}

// Store wraps a DynamoDB client and table name for loan record operations.
type Store struct {
	DB    *dynamodb.Client
	Table string
}

// New returns a Store backed by the given client and table.
func New(db *dynamodb.Client, table string) *Store {
	return &Store{DB: db, Table: table}
}

// Get reads the record for a loan id. A missing item is not an error: the
// record and error are both nil.
func (s *Store) Get(ctx context.Context, loanID string) (*Record, error) {
	key := MakeKey(loanID)
	resp, err := s.DB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.Table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: key},
			"SK": &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting loan record %s: %w", key, err)
	}
	if resp.Item == nil {
		return nil, nil
	}
	return unmarshalRecord(resp.Item)
}

// Put replaces the whole record for a loan. There are no field-level updates;
// every successful upload cycle overwrites the item wholesale.
func (s *Store) Put(ctx context.Context, rec *Record) error {
	item, err := marshalRecord(rec)
	if err != nil {
		return err
	}
	_, err = s.DB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.Table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("putting loan record %s: %w", rec.PK, err)
	}
	return nil
}

func marshalRecord(rec *Record) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return nil, fmt.Errorf("marshalling loan record: %w", err)
	}
	for field, value := range rec.AuditFields {
		if value == "" {
			continue
		}
		item[field] = &types.AttributeValueMemberS{Value: value}
	}
	return item, nil
}

func unmarshalRecord(item map[string]types.AttributeValue) (*Record, error) {
	rec := &Record{}
	if err := attributevalue.UnmarshalMap(item, rec); err != nil {
		return nil, fmt.Errorf("unmarshalling loan record: %w", err)
	}
	rec.AuditFields = make(map[string]string)
	for name, av := range item {
		s, ok := av.(*types.AttributeValueMemberS)
		if !ok {
			continue
		}
		if isAuditField(name) {
			rec.AuditFields[name] = s.Value
		}
	}
	return rec, nil
}
