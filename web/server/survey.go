package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/df07/go-frustum-survey/pkg/core"
	"github.com/df07/go-frustum-survey/pkg/pipeline"
	"github.com/df07/go-frustum-survey/pkg/survey"
)

// SurveyRequest represents a survey request from the client
type SurveyRequest struct {
	ScenePath string `json:"scene"`
	Camera    string `json:"camera"`
	Start     *int   `json:"start,omitempty"`
	End       *int   `json:"end,omitempty"`
	Stride    int    `json:"stride"`
	Workers   int    `json:"workers"`
	Cull      bool   `json:"cull"`
}

// FrameUpdate is sent after every surveyed frame
type FrameUpdate struct {
	Frame        int      `json:"frame"`
	FrameNumber  int      `json:"frameNumber"`
	TotalFrames  int      `json:"totalFrames"`
	Tested       int      `json:"tested"`
	NewlyVisible []string `json:"newlyVisible"`
	Visible      int      `json:"visible"`
	Errors       int      `json:"errors"`
	ElapsedMs    int64    `json:"elapsedMs"`
}

// SummaryUpdate is sent once the survey, and any cull, has finished
type SummaryUpdate struct {
	Camera        string   `json:"camera"`
	FramesVisited int      `json:"framesVisited"`
	Objects       int      `json:"objects"`
	Visible       int      `json:"visible"`
	VisibleIDs    []string `json:"visibleIds"`
	QueryErrors   int      `json:"queryErrors"`
	Culled        bool     `json:"culled"`
	Deleted       int      `json:"deleted"`
	Failed        int      `json:"failed"`
	OutputPath    string   `json:"outputPath,omitempty"`
	ElapsedMs     int64    `json:"elapsedMs"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "frame", "summary", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// handleSurvey runs a survey and streams per-frame progress via SSE
func (s *Server) handleSurvey(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET, POST")
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	// Read-only surveys may be watched from any origin
	s.setSSEHeaders(w, r.Method == http.MethodGet)

	ctx := r.Context()

	// Create unified SSE event channel for thread-safe writing
	sseEventChan := make(chan SSEEvent, 100)

	// Start single SSE writer goroutine
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(w, ctx, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	req, err := s.parseSurveyRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Setup console logging and streaming
	consoleChan, webLogger := s.setupConsoleLogging()
	var consoleWG sync.WaitGroup
	consoleWG.Add(1)
	go func() {
		defer consoleWG.Done()
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()

	startTime := time.Now()
	onFrame := func(fr survey.FrameResult) {
		s.sendJSON(ctx, sseEventChan, "frame", FrameUpdate{
			Frame:        fr.Frame,
			FrameNumber:  fr.FrameNumber,
			TotalFrames:  fr.TotalFrames,
			Tested:       fr.Tested,
			NewlyVisible: fr.NewlyVisible,
			Visible:      fr.Visible,
			Errors:       fr.Errors,
			ElapsedMs:    time.Since(startTime).Milliseconds(),
		})
	}

	outcome, err := pipeline.Run(ctx, s.pipelineOptions(req), webLogger, onFrame)

	// Flush console output before the final events
	close(consoleChan)
	consoleWG.Wait()

	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Survey failed: %v", err))
		return
	}

	s.sendJSON(ctx, sseEventChan, "summary", SummaryUpdate{
		Camera:        outcome.Summary.Camera,
		FramesVisited: outcome.Summary.FramesVisited,
		Objects:       outcome.Summary.Objects,
		Visible:       outcome.Summary.Visible,
		VisibleIDs:    outcome.Result.Visible.IDs(),
		QueryErrors:   outcome.Summary.QueryErrors,
		Culled:        outcome.Summary.Culled,
		Deleted:       outcome.Summary.Deleted,
		Failed:        outcome.Summary.Failed,
		OutputPath:    outcome.OutputPath,
		ElapsedMs:     time.Since(startTime).Milliseconds(),
	})

	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: "Survey completed"}:
	case <-ctx.Done():
	}
}

func (s *Server) pipelineOptions(req *SurveyRequest) pipeline.Options {
	return pipeline.Options{
		ScenePath:     req.ScenePath,
		Camera:        req.Camera,
		DefaultCamera: s.settings.Camera,
		Start:         req.Start,
		End:           req.End,
		Stride:        &req.Stride,
		Workers:       req.Workers,
		Cull:          req.Cull,
		OutputSuffix:  s.settings.OutputSuffix,
	}
}

// surveyBody is the JSON body of a POST survey request. Unset numbers fall
// back to the server settings.
type surveyBody struct {
	Scene   string `json:"scene"`
	Camera  string `json:"camera"`
	Start   *int   `json:"start"`
	End     *int   `json:"end"`
	Stride  *int   `json:"stride"`
	Workers *int   `json:"workers"`
	Cull    bool   `json:"cull"`
}

// parseSurveyRequest reads a GET query or a POST JSON body. Culling writes
// the pruned scene to disk and is only accepted on POST.
func (s *Server) parseSurveyRequest(r *http.Request) (*SurveyRequest, error) {
	if r.Method == http.MethodPost {
		return s.parseSurveyBody(r)
	}
	req, err := s.parseSurveyQuery(r.URL.Query())
	if err != nil {
		return nil, err
	}
	if req.Cull {
		return nil, fmt.Errorf("cull requires a POST request")
	}
	return req, nil
}

// parseSurveyBody decodes a POST request. Only JSON is accepted so that a
// cross-origin page cannot submit one without a preflight.
func (s *Server) parseSurveyBody(r *http.Request) (*SurveyRequest, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return nil, fmt.Errorf("content type must be application/json")
	}

	var body surveyBody
	decoder := json.NewDecoder(io.LimitReader(r.Body, 1<<16))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}

	req := &SurveyRequest{
		Camera:  body.Camera,
		Start:   body.Start,
		End:     body.End,
		Stride:  s.settings.Stride,
		Workers: s.settings.Workers,
		Cull:    body.Cull,
	}
	if req.ScenePath, err = resolveScenePath(body.Scene); err != nil {
		return nil, err
	}
	if body.Stride != nil {
		if req.Stride, err = checkRange("stride", *body.Stride, 1, 100000); err != nil {
			return nil, err
		}
	}
	if body.Workers != nil {
		if req.Workers, err = checkRange("workers", *body.Workers, 0, 256); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// parseSurveyQuery parses GET request parameters
func (s *Server) parseSurveyQuery(query url.Values) (*SurveyRequest, error) {
	req := &SurveyRequest{Camera: query.Get("camera")}

	var err error
	if req.ScenePath, err = resolveScenePath(query.Get("scene")); err != nil {
		return nil, err
	}
	if req.Start, err = parseOptionalIntParam(query, "start"); err != nil {
		return nil, err
	}
	if req.End, err = parseOptionalIntParam(query, "end"); err != nil {
		return nil, err
	}
	if req.Stride, err = parseIntParam(query, "stride", s.settings.Stride, 1, 100000); err != nil {
		return nil, err
	}
	if req.Workers, err = parseIntParam(query, "workers", s.settings.Workers, 0, 256); err != nil {
		return nil, err
	}
	if req.Cull, err = parseBoolParam(query, "cull", false); err != nil {
		return nil, err
	}
	return req, nil
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter, anyOrigin bool) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	if anyOrigin {
		w.Header().Set("Access-Control-Allow-Origin", "*")
	}
}

// setupConsoleLogging creates console channel and web logger for a survey
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	surveyID := fmt.Sprintf("survey-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(surveyID, consoleChan)
	return consoleChan, webLogger
}

// writeSSEEvents handles writing all SSE events in a single goroutine (thread-safe)
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				// Channel closed
				return
			}

			// Write SSE event
			_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data)
			if err != nil {
				// Client disconnected during write
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

// streamConsoleMessages forwards console messages until consoleChan closes
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan chan ConsoleMessage, sseEventChan chan SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			slog.Error("marshaling console message", "err", err)
			continue
		}

		select {
		case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
		default:
			// Channel full, skip message to avoid blocking
		}
	}
}

// sendJSON marshals v and queues it as an SSE event
func (s *Server) sendJSON(ctx context.Context, sseEventChan chan SSEEvent, eventType string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("marshaling SSE event", "type", eventType, "err", err)
		return
	}
	select {
	case sseEventChan <- SSEEvent{Type: eventType, Data: string(data)}:
	case <-ctx.Done():
	}
}

// handleError sends an error event
func (s *Server) handleError(ctx context.Context, sseEventChan chan SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
	}
}
