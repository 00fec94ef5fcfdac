package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"contentguard/internal/domain"
)

// Client calls an external classifier service over HTTP. The service contract
// is a simple JSON POST per modality returning a category and a confidence
// already on the 0-1 scale.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a classifier client. timeout bounds each prediction call;
// the engine itself never blocks, so this is the only place a decision waits
// on the network.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type predictResponse struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

func (c *Client) PredictText(ctx context.Context, text string) (domain.Prediction, error) {
	p, err := c.predict(ctx, "/classify/text", map[string]string{"text": text})
	if err != nil {
		return domain.Prediction{}, err
	}
	p.Source = domain.SourceText
	return p, nil
}

func (c *Client) PredictImage(ctx context.Context, imageRef string) (domain.Prediction, error) {
	p, err := c.predict(ctx, "/classify/image", map[string]string{"image_ref": imageRef})
	if err != nil {
		return domain.Prediction{}, err
	}
	p.Source = domain.SourceImage
	return p, nil
}

func (c *Client) predict(ctx context.Context, path string, payload any) (domain.Prediction, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("encode classifier request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("build classifier request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("classifier call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Prediction{}, fmt.Errorf("classifier call %s: unexpected status %d", path, resp.StatusCode)
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.Prediction{}, fmt.Errorf("decode classifier response: %w", err)
	}

	// Confidence normalization is the classifier's contract; a value outside
	// [0,1] means the collaborator is misconfigured, not that we should guess.
	if out.Confidence < 0 || out.Confidence > 1 {
		return domain.Prediction{}, fmt.Errorf("classifier call %s: confidence %v out of [0,1]", path, out.Confidence)
	}

	return domain.Prediction{
		Category:   out.Category,
		Confidence: out.Confidence,
	}, nil
}
