// =============================================================================
// TSV to PDF Ticket Generator - QuickBooks Collaborator
// =============================================================================
//
// Thin client over the QuickBooks Online API: exchanges an authorization code
// for bearer tokens and runs the invoice query. This is an alternative
// upstream data source; the core pipeline does not depend on it.
//
// Credentials are injected at construction. There is no package-level state.
//
// =============================================================================

package quickbooks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTokenURL   = "https://oauth.platform.intuit.com/oauth2/v1/tokens/bearer"
	defaultAPIBaseURL = "https://sandbox-quickbooks.api.intuit.com"
)

// Credentials identifies the OAuth application.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Tokens is the bearer credential pair returned by the code exchange.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`

	// RealmID identifies the company; it arrives on the OAuth callback, not
	// in the token response.
	RealmID string `json:"-"`
}

// Invoice is the subset of the QuickBooks invoice record this tool reads.
type Invoice struct {
	ID          string  `json:"Id"`
	DocNumber   string  `json:"DocNumber"`
	TxnDate     string  `json:"TxnDate"`
	TotalAmt    float64 `json:"TotalAmt"`
	CustomerRef struct {
		Value string `json:"value"`
		Name  string `json:"name"`
	} `json:"CustomerRef"`
}

// Client talks to the QuickBooks Online API.
type Client struct {
	creds      Credentials
	tokenURL   string
	apiBaseURL string
	httpClient *http.Client
}

// NewClient builds a client from explicit credentials.
func NewClient(creds Credentials) *Client {
	return &Client{
		creds:      creds,
		tokenURL:   defaultTokenURL,
		apiBaseURL: defaultAPIBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ExchangeCode trades an authorization code for bearer tokens.
func (c *Client) ExchangeCode(ctx context.Context, code, realmID string) (*Tokens, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.creds.RedirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.creds.ClientID, c.creds.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("token exchange failed: status %d: %s", resp.StatusCode, body)
	}

	var tokens Tokens
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	tokens.RealmID = realmID
	return &tokens, nil
}

// FetchInvoices runs the invoice query and returns up to max records.
func (c *Client) FetchInvoices(ctx context.Context, tokens *Tokens, max int) ([]Invoice, error) {
	if max <= 0 {
		max = 10
	}
	query := fmt.Sprintf("SELECT * FROM Invoice STARTPOSITION 1 MAXRESULTS %d", max)
	endpoint := fmt.Sprintf("%s/v3/company/%s/query?%s",
		c.apiBaseURL, url.PathEscape(tokens.RealmID), url.Values{"query": {query}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("invoice query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("invoice query failed: status %d: %s", resp.StatusCode, body)
	}

	var payload struct {
		QueryResponse struct {
			Invoice []Invoice `json:"Invoice"`
		} `json:"QueryResponse"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode invoice response: %w", err)
	}
	return payload.QueryResponse.Invoice, nil
}
