// Package convert talks to a CloudConvert-style remote conversion service:
// upload a file, let the service produce a PDF, fetch it back. Billing and
// rate-limit responses surface as distinct error kinds.
package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"
)

var (
	// ErrQuotaExceeded maps the service's payment-required response.
	ErrQuotaExceeded = errors.New("conversion service billing/quota required")
	// ErrRateLimited maps the service's rate-limit response.
	ErrRateLimited = errors.New("conversion service rate limit exceeded")
)

const defaultBaseURL = "https://api.cloudconvert.com/v2"

// Client is a minimal CloudConvert v2 API client for file→PDF jobs.
type Client struct {
	apiKey       string
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
	pollTimeout  time.Duration
}

// NewClient creates a conversion client. The key is required by the API;
// an empty key still builds a client (calls will fail with the service's
// auth error).
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:       apiKey,
		baseURL:      defaultBaseURL,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		pollInterval: 2 * time.Second,
		pollTimeout:  2 * time.Minute,
	}
}

type job struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Tasks  []task `json:"tasks"`
}

type task struct {
	Name      string      `json:"name"`
	Operation string      `json:"operation"`
	Status    string      `json:"status"`
	Result    *taskResult `json:"result"`
}

type taskResult struct {
	Form  *uploadForm    `json:"form"`
	Files []exportedFile `json:"files"`
}

type uploadForm struct {
	URL        string            `json:"url"`
	Parameters map[string]string `json:"parameters"`
}

type exportedFile struct {
	URL string `json:"url"`
}

// ConvertToPDF uploads the file, waits for the conversion job and returns
// the produced PDF bytes.
func (c *Client) ConvertToPDF(ctx context.Context, filePath, originalName, mimeType string) ([]byte, error) {
	created, err := c.createJob(ctx)
	if err != nil {
		return nil, err
	}

	form := findForm(created.Tasks)
	if form == nil {
		return nil, fmt.Errorf("conversion upload form not available")
	}
	if err := c.uploadFile(ctx, form, filePath, originalName, mimeType); err != nil {
		return nil, err
	}

	finished, err := c.waitForJob(ctx, created.ID)
	if err != nil {
		return nil, err
	}

	fileURL := findExportURL(finished.Tasks)
	if fileURL == "" {
		return nil, fmt.Errorf("conversion did not return an exported file URL")
	}
	return c.download(ctx, fileURL)
}

func (c *Client) createJob(ctx context.Context) (*job, error) {
	payload := map[string]interface{}{
		"tasks": map[string]interface{}{
			"import-1": map[string]interface{}{"operation": "import/upload"},
			"convert-1": map[string]interface{}{
				"operation":     "convert",
				"input":         []string{"import-1"},
				"output_format": "pdf",
			},
			"export-1": map[string]interface{}{
				"operation": "export/url",
				"input":     []string{"convert-1"},
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode job payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/jobs", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build job request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	return c.doJob(req)
}

func (c *Client) waitForJob(ctx context.Context, id string) (*job, error) {
	deadline := time.Now().Add(c.pollTimeout)
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/jobs/"+id, nil)
		if err != nil {
			return nil, fmt.Errorf("build poll request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		j, err := c.doJob(req)
		if err != nil {
			return nil, err
		}
		switch j.Status {
		case "finished":
			return j, nil
		case "error":
			return nil, fmt.Errorf("conversion job %s failed", id)
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("conversion job %s timed out", id)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

func (c *Client) doJob(req *http.Request) (*job, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("conversion request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var wrapper struct {
		Data job `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&wrapper); err != nil {
		return nil, fmt.Errorf("decode job response: %w", err)
	}
	return &wrapper.Data, nil
}

func (c *Client) uploadFile(ctx context.Context, form *uploadForm, filePath, originalName, mimeType string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open upload file: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range form.Parameters {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("write form field: %w", err)
		}
	}
	part, err := w.CreateFormFile("file", originalName)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("copy upload body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finish upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, form.URL, &body)
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

func (c *Client) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download request: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read converted pdf: %w", err)
	}
	return data, nil
}

// checkStatus maps quota and rate-limit responses to their own error
// kinds; everything else non-2xx is generic.
func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusPaymentRequired:
		return ErrQuotaExceeded
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("conversion service returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

func findForm(tasks []task) *uploadForm {
	for _, t := range tasks {
		if t.Name == "import-1" && t.Result != nil && t.Result.Form != nil {
			return t.Result.Form
		}
	}
	return nil
}

func findExportURL(tasks []task) string {
	for _, t := range tasks {
		if t.Name == "export-1" && t.Status == "finished" && t.Result != nil && len(t.Result.Files) > 0 {
			return t.Result.Files[0].URL
		}
	}
	return ""
}
