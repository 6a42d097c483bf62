package storting

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client wraps the data.stortinget.no export API.
// Every call is a fresh round trip: no retries, no caching.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Stortinget export API client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// get fetches one export resource and decodes the XML document into target
func (c *Client) get(ctx context.Context, resource string, params url.Values, target interface{}) error {
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, resource, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/xml")
	req.Header.Set("User-Agent", "stortingspuls")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("stortinget API error %d on %s: %s", resp.StatusCode, resource, string(body))
	}

	if err := xml.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", resource, err)
	}

	return nil
}

// Cases fetches the list of cases visible in a parliamentary session
func (c *Client) Cases(ctx context.Context, sessionID string) ([]Case, error) {
	var doc casesDocument
	if err := c.get(ctx, "saker", url.Values{"sesjonid": {sessionID}}, &doc); err != nil {
		return nil, err
	}
	return doc.Cases, nil
}

// VotingEvents fetches all voting events recorded for a case
func (c *Client) VotingEvents(ctx context.Context, caseID string) ([]VotingEvent, error) {
	var doc votingEventsDocument
	if err := c.get(ctx, "voteringer", url.Values{"sakid": {caseID}}, &doc); err != nil {
		return nil, err
	}
	return doc.Events, nil
}

// Ballots fetches the per-representative results of one voting event
func (c *Client) Ballots(ctx context.Context, votingID string) ([]Ballot, error) {
	var doc ballotsDocument
	if err := c.get(ctx, "voteringsresultat", url.Values{"voteringid": {votingID}}, &doc); err != nil {
		return nil, err
	}
	return doc.Ballots, nil
}
