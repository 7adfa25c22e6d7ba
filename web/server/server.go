package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/df07/go-frustum-survey/pkg/config"
	"github.com/df07/go-frustum-survey/pkg/loaders"
	"github.com/df07/go-frustum-survey/pkg/scene"
)

// DefaultSceneDir is where scene descriptions are listed from
const DefaultSceneDir = "scenes"

// Server handles web requests for frustum surveys
type Server struct {
	port     int
	settings config.Config
}

// NewServer creates a new web server
func NewServer(port int, settings config.Config) *Server {
	return &Server{port: port, settings: settings}
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/survey", s.handleSurvey)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("starting web server", "addr", "http://localhost"+addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleScenes lists the scene descriptions available to survey
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	scenes, err := scene.ListSceneFiles(DefaultSceneDir)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Failed to list scenes: "+err.Error())
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(scene.GroupScenes(scenes))
}

// resolveScenePath accepts either a scene id ("flyby") or a path under the
// scene directory ("scenes/flyby.yaml")
func resolveScenePath(value string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("scene is required")
	}
	path := value
	if !strings.ContainsAny(value, `/\`) && !strings.HasSuffix(value, ".yaml") && !strings.HasSuffix(value, ".yml") {
		path = DefaultSceneDir + "/" + value + ".yaml"
	}
	if err := loaders.ValidateScenePath(path); err != nil {
		return "", err
	}
	return path, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		return checkRange(key, parsed, min, max)
	}
	return defaultValue, nil
}

// checkRange validates an integer parameter against inclusive bounds
func checkRange(key string, value, min, max int) (int, error) {
	if value < min || value > max {
		return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, value)
	}
	return value, nil
}

// parseOptionalIntParam parses an integer parameter that has no default
func parseOptionalIntParam(values url.Values, key string) (*int, error) {
	value := values.Get(key)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %s", key, value)
	}
	return &parsed, nil
}

// parseBoolParam parses a boolean parameter from URL query
func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
