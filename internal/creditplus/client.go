// Package creditplus is the client for the credit-report vendor's MISMO API
// and the extraction of the embedded UDN report from its responses.
package creditplus

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/revolutionmortgage/cp-efolder-upload/internal/config"
)

const (
	rmClient    = "cp-efolder-upload"
	requestPath = "/inetapi/request_products.aspx"
	stageProd   = "prod"
)

// OrderParams identifies the vendor order to fetch: the borrower the order was
// placed for plus the vendor's order id.
type OrderParams struct {
	FirstName             string
	LastName              string
	SocialSecurityNumber  string
	VendorOrderIdentifier string
}

// Client calls the vendor API. One outbound call per operation, no retry;
// transport failures propagate unmodified.
type Client struct {
	cfg    config.CreditPlus
	stage  string
	httpc  *http.Client
	logger zerolog.Logger
}

// NewClient validates the vendor settings and returns a client.
func NewClient(cfg config.CreditPlus, stage string, logger zerolog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		cfg:    cfg,
		stage:  stage,
		httpc:  &http.Client{},
		logger: logger,
	}, nil
}

// GetUDNOrder requests the order's current state and returns the raw MISMO
// response document.
func (c *Client) GetUDNOrder(ctx context.Context, params OrderParams) ([]byte, error) {
	payload := buildOrderRequest(params)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+requestPath, strings.NewReader(payload))
	if err != nil {
		return nil, err
	}
	credentials := base64.StdEncoding.EncodeToString([]byte(c.cfg.Username + ":" + c.cfg.Password))
	req.Header.Set("Content-Type", "text/xml")
	req.Header.Set("Authorization", "Basic "+credentials)
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("x-rm-client", rmClient)
	req.Header.Set("x-request-id", uuid.NewString())
	if c.stage != stageProd {
		req.Header.Set("MCL-Interface", "SmartAPITestingIdentifier")
	}

	c.logger.Debug().
		Str("vendorOrderId", params.VendorOrderIdentifier).
		Msg("requesting udn order")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("credit plus order request: unexpected status %d", resp.StatusCode)
	}
	return body, nil
}
