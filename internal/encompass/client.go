// Package encompass is the client for the loan-origination system's API:
// token acquisition, loan reads, eFolder document management and attachment
// uploads, plus the pure borrower/document resolution helpers built on the
// entities it returns.
package encompass

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/revolutionmortgage/cp-efolder-upload/internal/config"
)

const rmClient = "cp-efolder-upload"

// tokenSkew is subtracted from the advertised expiry so a token is never used
// right at its deadline.
const tokenSkew = 30 * time.Second

// MissingAuthTokenError indicates the token endpoint answered without an
// access token.
type MissingAuthTokenError struct{}

func (e *MissingAuthTokenError) Error() string {
	return "invalid token response: missing access_token"
}

// Client calls the Encompass API. Requests are single-shot: transport and
// status errors are returned as-is with no retry, left to the hosting
// redelivery policy.
type Client struct {
	cfg    config.Encompass
	httpc  *http.Client
	logger zerolog.Logger

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

// NewClient validates the Encompass settings and returns a client.
func NewClient(cfg config.Encompass, logger zerolog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		cfg:    cfg,
		httpc:  &http.Client{},
		logger: logger,
	}, nil
}

// getToken returns a cached OAuth bearer token, fetching a fresh one through
// the password grant when the cache is empty or stale.
func (c *Client) getToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExp) {
		return c.token, nil
	}

	form := url.Values{
		"grant_type":    {"password"},
		"username":      {fmt.Sprintf("%s@encompass:%s", c.cfg.SmartClientUser, c.cfg.InstanceID)},
		"password":      {c.cfg.SmartClientPassword},
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/oauth2/v1/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("x-rm-client", rmClient)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("encompass token request: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", &MissingAuthTokenError{}
	}

	c.token = payload.AccessToken
	c.tokenExp = time.Now().Add(time.Duration(payload.ExpiresIn)*time.Second - tokenSkew)
	return c.token, nil
}

// GetLoan reads the live loan with its applications.
func (c *Client) GetLoan(ctx context.Context, loanID string) (*Loan, error) {
	var loan Loan
	path := fmt.Sprintf("/encompass/v3/loans/%s?entities=applications", url.PathEscape(loanID))
	if err := c.do(ctx, http.MethodGet, path, nil, &loan); err != nil {
		return nil, err
	}
	return &loan, nil
}

// GetLoanDocuments lists the loan's current eFolder documents.
func (c *Client) GetLoanDocuments(ctx context.Context, loanID string) ([]LoanDocument, error) {
	var docs []LoanDocument
	path := fmt.Sprintf("/encompass/v3/loans/%s/documents", url.PathEscape(loanID))
	if err := c.do(ctx, http.MethodGet, path, nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// CreateLoanDocument creates the UDN reports document under the given
// application, with the fixed title and description the locator searches for.
func (c *Client) CreateLoanDocument(ctx context.Context, loanID, applicationID string) error {
	body := []map[string]string{{
		"title":         UDNReportsDocumentTitle,
		"description":   UDNReportsDocumentDescription,
		"applicationId": applicationID,
	}}
	path := fmt.Sprintf("/encompass/v3/loans/%s/documents?action=add", url.PathEscape(loanID))
	return c.do(ctx, http.MethodPatch, path, body, nil)
}

// CreateAttachmentUploadURL requests an upload URL scoped to the target
// document for a file of the given byte size.
func (c *Client) CreateAttachmentUploadURL(ctx context.Context, loanID, documentID string, size int, title string) (string, error) {
	body := map[string]any{
		"title": title,
		"file": map[string]any{
			"name":        "udnreport.pdf",
			"size":        size,
			"contentType": "application/pdf",
		},
	}
	var out struct {
		UploadURL string `json:"uploadUrl"`
	}
	path := fmt.Sprintf("/encompass/v3/loans/%s/documents/%s/attachmentUploadUrl",
		url.PathEscape(loanID), url.PathEscape(documentID))
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return "", err
	}
	return out.UploadURL, nil
}

// UploadAttachment PUTs the raw file bytes to a previously issued upload URL.
func (c *Client) UploadAttachment(ctx context.Context, uploadURL string, data []byte) error {
	token, err := c.getToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/pdf")
	req.Header.Set("x-rm-client", rmClient)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("uploading attachment: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// do issues one authenticated JSON request against the API base URL and
// decodes the response into out when it is non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	token, err := c.getToken(ctx)
	if err != nil {
		return err
	}

	var reqBody io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("x-rm-client", rmClient)
	req.Header.Set("x-request-id", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug().Str("method", method).Str("path", path).Msg("encompass request")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("encompass %s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding encompass %s %s response: %w", method, path, err)
	}
	return nil
}
