package survey

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okian/burnrisk/internal/domain/questionnaire"
	"github.com/okian/burnrisk/internal/domain/types"
)

// maxResponseBytes bounds the service replies read by the client.
const maxResponseBytes = 1 << 20

// ErrUnexpectedResponse is returned for replies that are not valid JSON.
var ErrUnexpectedResponse = errors.New("unexpected response from service")

// RemoteError is a non-2xx reply of the assessment service.
type RemoteError struct {
	Status   int
	Response types.ErrorResponse
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("service answered %d %s: %s", e.Status, e.Response.Code, e.Response.Message)
}

// HTTPClient submits answers to a running service.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient creates a client for the service at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Assess posts answers to /assessments.
func (c *HTTPClient) Assess(ctx context.Context, answers questionnaire.Answers) (types.Assessment, error) {
	body, err := json.Marshal(types.AssessmentRequest{Answers: answers})
	if err != nil {
		return types.Assessment{}, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/assessments", bytes.NewReader(body))
	if err != nil {
		return types.Assessment{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return types.Assessment{}, fmt.Errorf("submit answers: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return types.Assessment{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var e types.ErrorResponse
		if err := json.Unmarshal(data, &e); err != nil {
			return types.Assessment{}, fmt.Errorf("%w: status %d", ErrUnexpectedResponse, resp.StatusCode)
		}
		return types.Assessment{}, &RemoteError{Status: resp.StatusCode, Response: e}
	}

	var a types.Assessment
	if err := json.Unmarshal(data, &a); err != nil {
		return types.Assessment{}, fmt.Errorf("%w: %w", ErrUnexpectedResponse, err)
	}
	return a, nil
}
