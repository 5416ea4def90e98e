package creditplus

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// embeddedContentElement is the element in the vendor's response carrying the
// base64-encoded report. It can appear at any depth in the envelope.
const embeddedContentElement = "EmbeddedContentXML"

// ReportNotFoundError indicates the vendor's response for an order carried no
// embedded report. Response holds the raw reply for diagnostics.
type ReportNotFoundError struct {
	VendorOrderIdentifier string
	Response              []byte
}

func (e *ReportNotFoundError) Error() string {
	return fmt.Sprintf("no PDF report found for UDN order id: %s", e.VendorOrderIdentifier)
}

// FetchReport fetches the vendor order and returns the embedded report as a
// base64 string.
func (c *Client) FetchReport(ctx context.Context, params OrderParams) (string, error) {
	body, err := c.GetUDNOrder(ctx, params)
	if err != nil {
		return "", err
	}

	report, ok := extractEmbeddedContent(body)
	if !ok {
		return "", &ReportNotFoundError{
			VendorOrderIdentifier: params.VendorOrderIdentifier,
			Response:              body,
		}
	}
	return report, nil
}

// extractEmbeddedContent walks the XML document and returns the character
// data of the first EmbeddedContentXML element found at any depth.
func extractEmbeddedContent(doc []byte) (string, bool) {
	dec := xml.NewDecoder(bytes.NewReader(doc))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return "", false
		}
		if err != nil {
			return "", false
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != embeddedContentElement {
			continue
		}
		var content string
		if err := dec.DecodeElement(&content, &start); err != nil {
			return "", false
		}
		content = strings.TrimSpace(content)
		if content == "" {
			return "", false
		}
		return content, true
	}
}
