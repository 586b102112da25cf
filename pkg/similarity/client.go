// Package similarity talks to the external scoring service that segments
// two documents and scores segment correspondences.
package similarity

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/forummlcb/topdup/internal/model"
	"github.com/forummlcb/topdup/internal/pairing"
)

type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Result is the scorer's raw output for one comparison.
type Result struct {
	SegmentsA []string
	SegmentsB []string
	Pairs     []pairing.Pair
}

type compareRequest struct {
	SourceContent string `json:"sourceContent"`
	TargetContent string `json:"targetContent"`
}

type compareResponse struct {
	Results compareResult `json:"results"`
}

type compareResult struct {
	SegmentListA []string      `json:"segmentListA"`
	SegmentListB []string      `json:"segmentListB"`
	Pairs        []segmentPair `json:"pairs"`
}

type segmentPair struct {
	SegmentIdxA     int     `json:"segmentIdxA"`
	SegmentIdxB     int     `json:"segmentIdxB"`
	SimilarityScore float64 `json:"similarityScore"`
}

// Compare sends both contents for scoring. Any failure is reported as
// upstream_unavailable; retrying is left to the caller.
func (c *Client) Compare(ctx context.Context, sourceContent, targetContent string) (*Result, error) {
	body, err := json.Marshal(compareRequest{
		SourceContent: sourceContent,
		TargetContent: targetContent,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/compare", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, model.NewError(model.KindUpstreamUnavailable, "similarity service: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, model.NewError(model.KindUpstreamUnavailable, "similarity service returned %s", resp.Status)
	}

	var raw compareResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, model.NewError(model.KindUpstreamUnavailable, "similarity service decode: %v", err)
	}

	result := Result{
		SegmentsA: raw.Results.SegmentListA,
		SegmentsB: raw.Results.SegmentListB,
		Pairs:     make([]pairing.Pair, 0, len(raw.Results.Pairs)),
	}
	for _, p := range raw.Results.Pairs {
		result.Pairs = append(result.Pairs, pairing.Pair{
			SourceIndex: p.SegmentIdxA,
			TargetIndex: p.SegmentIdxB,
			Score:       p.SimilarityScore,
		})
	}

	return &result, nil
}
