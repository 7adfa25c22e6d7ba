package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SceneInfo represents a discovered scene description with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	FilePath    string `json:"filePath"`    // Path to the scene description
	Variant     string `json:"variant"`     // Variant name (optional)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

// sceneExtensions are the file extensions recognised as scene descriptions
var sceneExtensions = []string{".yaml", ".yml"}

// ListSceneFiles scans dir for scene descriptions and returns their metadata
// sorted by display name. A missing directory yields an empty list.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	var files []string
	for _, ext := range sceneExtensions {
		matches, err := filepath.Glob(filepath.Join(dir, "*"+ext))
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
		}
		files = append(files, matches...)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		sceneInfo, err := ParseSceneMetadata(filePath)
		if err != nil {
			// Log warning but continue processing other files
			fmt.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseSceneMetadata extracts metadata from the header comments of a scene file:
//
//	# Scene: Himalayas Environment
//	# Variant: Shot 0815
//	# Description: Background set for the goose sequence
//	# Group: Environments
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:          nameWithoutExt,
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       "Scenes",
		FilePath:    filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		// If we can't read the file, return with fallback values
		return sceneInfo, nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Stop parsing at first non-comment line
		if !strings.HasPrefix(line, "#") {
			break
		}

		content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		key, value, found := strings.Cut(content, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)

		switch strings.TrimSpace(key) {
		case "Scene":
			sceneInfo.Name = value
		case "Variant":
			sceneInfo.Variant = value
		case "Description":
			sceneInfo.Description = value
		case "Group":
			sceneInfo.Group = value
		}
	}

	if sceneInfo.Variant != "" {
		sceneInfo.DisplayName = fmt.Sprintf("%s - %s", sceneInfo.Name, sceneInfo.Variant)
	} else {
		sceneInfo.DisplayName = sceneInfo.Name
	}

	return sceneInfo, scanner.Err()
}

// GroupScenes groups scenes by their Group field, groups sorted by name
func GroupScenes(scenes []SceneInfo) ScenesResponse {
	groupMap := make(map[string][]SceneInfo)
	for _, s := range scenes {
		groupMap[s.Group] = append(groupMap[s.Group], s)
	}

	groupNames := make([]string, 0, len(groupMap))
	for name := range groupMap {
		groupNames = append(groupNames, name)
	}
	sort.Strings(groupNames)

	response := ScenesResponse{Groups: []SceneGroup{}}
	for _, name := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{Name: name, Scenes: groupMap[name]})
	}
	return response
}

// ShotStatus says whether a shot directory should be processed by a batch run
type ShotStatus int

const (
	ShotReady        ShotStatus = iota // Scene present, no output yet
	ShotIgnored                        // Ignore marker present
	ShotDone                           // Output already written
	ShotMissingScene                   // No scene description in the shot
)

func (s ShotStatus) String() string {
	switch s {
	case ShotReady:
		return "ready"
	case ShotIgnored:
		return "ignored"
	case ShotDone:
		return "already culled"
	case ShotMissingScene:
		return "missing scene"
	default:
		return "unknown"
	}
}

// ShotInfo describes one shot directory of a sequence
type ShotInfo struct {
	Name       string
	Dir        string
	ScenePath  string
	OutputPath string
	Status     ShotStatus
}

// ShotLayout names the files looked for inside each shot directory
type ShotLayout struct {
	SceneFile    string // Scene description file name, e.g. "env.yaml"
	IgnoreMarker string // Marker file that excludes a shot, e.g. "ignoreme.txt"
	OutputSuffix string // Suffix appended to the scene name for the culled output
}

// DiscoverShots lists the immediate sub-directories of seqDir as shots,
// sorted by name, each with its batch status.
func DiscoverShots(seqDir string, layout ShotLayout) ([]ShotInfo, error) {
	entries, err := os.ReadDir(seqDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sequence directory %s: %w", seqDir, err)
	}

	var shots []ShotInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(seqDir, entry.Name())
		scenePath := filepath.Join(dir, layout.SceneFile)
		shot := ShotInfo{
			Name:       entry.Name(),
			Dir:        dir,
			ScenePath:  scenePath,
			OutputPath: OutputPath(scenePath, layout.OutputSuffix),
		}

		switch {
		case layout.IgnoreMarker != "" && fileExists(filepath.Join(dir, layout.IgnoreMarker)):
			shot.Status = ShotIgnored
		case fileExists(shot.OutputPath):
			shot.Status = ShotDone
		case !fileExists(scenePath):
			shot.Status = ShotMissingScene
		default:
			shot.Status = ShotReady
		}
		shots = append(shots, shot)
	}

	sort.Slice(shots, func(i, j int) bool { return shots[i].Name < shots[j].Name })
	return shots, nil
}

// OutputPath returns the path of the culled copy of scenePath,
// e.g. "shot/env.yaml" -> "shot/env_culled.yaml"
func OutputPath(scenePath, suffix string) string {
	ext := filepath.Ext(scenePath)
	return strings.TrimSuffix(scenePath, ext) + suffix + ext
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// titleCase converts a filename-style string to title case
// e.g., "forest-clearing" -> "Forest Clearing"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
