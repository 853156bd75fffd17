package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"
)

const (
	// Environment variables carrying the service credentials.
	EnvToken      = "NOTION_TOKEN"
	EnvDatabaseID = "NOTION_DATABASE_ID"

	defaultBaseURL = "https://api.notion.com/v1"
	apiVersion     = "2022-06-28"

	// notesLimit is the service's rich-text length cap.
	notesLimit = 2000
)

// Record is one simulation result pushed to the research database.
type Record struct {
	GroundMotion      string  `json:"ground_motion"`
	MaxDrift          float64 `json:"max_drift"`
	PeakAcceleration  float64 `json:"peak_acceleration"`
	ConvergenceStatus string  `json:"convergence_status"`
	NumStories        int     `json:"num_stories"`
	Phase             string  `json:"phase"`
	Notes             string  `json:"notes"`
	SourceRef         string  `json:"source_ref"`
}

// BatchResult reports the outcome of one record in a batch push.
type BatchResult struct {
	Index int
	Err   error
}

// Logger is a client for the external research-logging service.
type Logger struct {
	client     *http.Client
	baseURL    string
	token      string
	databaseID string
	logger     *slog.Logger
}

// Option customizes a Logger.
type Option func(*Logger)

// WithBaseURL overrides the service endpoint; used by tests.
func WithBaseURL(url string) Option {
	return func(l *Logger) { l.baseURL = url }
}

// WithCredentials sets the token and database ID explicitly instead of
// reading them from the environment.
func WithCredentials(token, databaseID string) Option {
	return func(l *Logger) {
		l.token = token
		l.databaseID = databaseID
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Logger) { l.client = c }
}

// New creates a research logger. Credentials come from options or from the
// NOTION_TOKEN / NOTION_DATABASE_ID environment variables; construction
// fails fast when either is missing.
func New(logger *slog.Logger, opts ...Option) (*Logger, error) {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Logger{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: defaultBaseURL,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.token == "" {
		l.token = os.Getenv(EnvToken)
	}
	if l.databaseID == "" {
		l.databaseID = os.Getenv(EnvDatabaseID)
	}

	if l.token == "" {
		return nil, fmt.Errorf("%s not set; export it or pass WithCredentials", EnvToken)
	}
	if l.databaseID == "" {
		return nil, fmt.Errorf("%s not set; export it or pass WithCredentials", EnvDatabaseID)
	}
	return l, nil
}

// LogSimulation pushes one simulation result. The returned error reports
// the push outcome only; pipeline state is never affected.
func (l *Logger) LogSimulation(ctx context.Context, rec Record) error {
	if rec.ConvergenceStatus == "" {
		rec.ConvergenceStatus = "Converged"
	}
	if rec.Phase == "" {
		rec.Phase = "Methods"
	}
	notes := rec.Notes
	if len(notes) > notesLimit {
		notes = notes[:notesLimit]
	}

	properties := map[string]any{
		"Ground Motion": map[string]any{
			"title": []any{map[string]any{"text": map[string]any{"content": rec.GroundMotion}}},
		},
		"Max Drift": map[string]any{"number": rec.MaxDrift},
		"PGA":       map[string]any{"number": rec.PeakAcceleration},
		"Stories":   map[string]any{"number": rec.NumStories},
		"Status":    map[string]any{"select": map[string]any{"name": rec.ConvergenceStatus}},
		"Phase":     map[string]any{"select": map[string]any{"name": rec.Phase}},
		"Date":      map[string]any{"date": map[string]any{"start": time.Now().UTC().Format(time.RFC3339)}},
		"Notes": map[string]any{
			"rich_text": []any{map[string]any{"text": map[string]any{"content": notes}}},
		},
	}
	if rec.SourceRef != "" {
		properties["Source"] = map[string]any{
			"rich_text": []any{map[string]any{"text": map[string]any{"content": rec.SourceRef}}},
		}
	}

	body := map[string]any{
		"parent":     map[string]any{"database_id": l.databaseID},
		"properties": properties,
	}

	if err := l.do(ctx, http.MethodPost, "/pages", body, nil); err != nil {
		l.logger.Error("research sync failed",
			slog.String("ground_motion", rec.GroundMotion),
			slog.String("error", err.Error()))
		return err
	}

	l.logger.Info("logged simulation result",
		slog.String("ground_motion", rec.GroundMotion),
		slog.Float64("max_drift", rec.MaxDrift),
		slog.String("status", rec.ConvergenceStatus))
	return nil
}

// LogBatch pushes multiple results, recording per-item failures rather
// than aborting on the first error.
func (l *Logger) LogBatch(ctx context.Context, recs []Record) []BatchResult {
	results := make([]BatchResult, 0, len(recs))
	failed := 0
	for i, rec := range recs {
		err := l.LogSimulation(ctx, rec)
		if err != nil {
			failed++
			l.logger.Error("batch item failed",
				slog.Int("index", i),
				slog.String("error", err.Error()))
		}
		results = append(results, BatchResult{Index: i, Err: err})
	}
	l.logger.Info("batch complete",
		slog.Int("logged", len(recs)-failed),
		slog.Int("total", len(recs)))
	return results
}

// UpdateStatus updates the convergence status of an existing entry.
func (l *Logger) UpdateStatus(ctx context.Context, pageID, status string) error {
	body := map[string]any{
		"properties": map[string]any{
			"Status": map[string]any{"select": map[string]any{"name": status}},
		},
	}
	return l.do(ctx, http.MethodPatch, "/pages/"+pageID, body, nil)
}

// Query returns existing records, optionally filtered by status.
func (l *Logger) Query(ctx context.Context, statusFilter string) ([]map[string]any, error) {
	body := map[string]any{}
	if statusFilter != "" {
		body["filter"] = map[string]any{
			"property": "Status",
			"select":   map[string]any{"equals": statusFilter},
		}
	}

	var resp struct {
		Results []map[string]any `json:"results"`
	}
	if err := l.do(ctx, http.MethodPost, "/databases/"+l.databaseID+"/query", body, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// do performs one JSON request against the service.
func (l *Logger) do(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, l.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+l.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", apiVersion)

	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("service returned %d: %s", resp.StatusCode, string(msg))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
