// =============================================================================
// TSV to PDF Ticket Generator - E-Signature Collaborator
// =============================================================================
//
// Thin client over the Dropbox Sign signature-request API. One operation:
// send a rendered ticket to a signer and return the request ID.
//
// =============================================================================

package esign

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const defaultBaseURL = "https://api.hellosign.com/v3"

// Client dispatches signature requests. The API key is injected at
// construction.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for the given API key.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// SendSignatureRequest emails the signer a request to sign the rendered
// ticket and returns the signature request ID.
func (c *Client) SendSignatureRequest(ctx context.Context, signerName, signerEmail, pdfPath string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("dropbox sign api key is not set")
	}

	pdf, err := os.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("failed to open ticket: %w", err)
	}
	defer pdf.Close()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	fields := map[string]string{
		"title":                     "Please sign your ticket",
		"subject":                   "Sign your delivery ticket",
		"message":                   "Please review and sign this document.",
		"signers[0][name]":          signerName,
		"signers[0][email_address]": signerEmail,
		"signers[0][order]":         "0",
		"test_mode":                 "1",
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return "", err
		}
	}

	part, err := w.CreateFormFile("files[0]", filepath.Base(pdfPath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, pdf); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/signature_request/send", &body)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.apiKey, "")
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("signature request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("signature request failed: status %d: %s", resp.StatusCode, respBody)
	}

	var payload struct {
		SignatureRequest struct {
			SignatureRequestID string `json:"signature_request_id"`
		} `json:"signature_request"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode signature response: %w", err)
	}
	return payload.SignatureRequest.SignatureRequestID, nil
}
