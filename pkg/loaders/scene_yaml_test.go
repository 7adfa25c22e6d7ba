package loaders

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-frustum-survey/pkg/core"
)

const testScene = `# Scene: Goose Flyby
version: "1.0"
name: flyby
camera: camRender
frames:
  start: 1001
  end: 1100
cameras:
  - name: camRender
    near: 0.1
    far: 1000
    fov: 60
    aspect: 1.777
    keys:
      - frame: 1001
        translate: [0, 1.5, 10]
      - frame: 1100
        translate: [0, 1.5, -10]
        rotate: [0, 45, 0]
  - name: camWitness
    near: 1
    far: 50
    extents: {left: -2, right: 2, bottom: -1, top: 1}
objects:
  - name: rock_01
    bounds: {min: [-1, 0, -1], max: [1, 2, 1]}
    keys:
      - frame: 1001
        translate: [3, 0, -20]
  - name: mountain
    bounds: {min: [-500, 0, -500], max: [500, 800, 500]}
    locked: true
`

func parseSceneFromString(t *testing.T, content string) *SceneDescription {
	t.Helper()
	desc, err := ParseScene(strings.NewReader(content))
	require.NoError(t, err)
	return desc
}

func TestParseScene(t *testing.T) {
	desc := parseSceneFromString(t, testScene)

	assert.Equal(t, "flyby", desc.Name)
	assert.Equal(t, "camRender", desc.Camera)
	require.NotNil(t, desc.Frames)
	assert.Equal(t, FrameRange{Start: 1001, End: 1100}, *desc.Frames)
	require.Len(t, desc.Cameras, 2)
	require.Len(t, desc.Objects, 2)

	assert.Equal(t, 60.0, desc.Cameras[0].FovY)
	require.Len(t, desc.Cameras[0].Keys, 2)
	assert.Nil(t, desc.Cameras[0].Keys[0].Scale)
	require.NotNil(t, desc.Cameras[1].Extents)
	assert.Equal(t, 2.0, desc.Cameras[1].Extents.Right)
	assert.True(t, desc.Objects[1].Locked)
}

func TestParseScene_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{"empty", "", "empty scene description"},
		{"no version", "name: x\n", "no version"},
		{"bad version", "version: banana\n", "invalid scene version"},
		{"future version", "version: \"2.1\"\n", "unsupported scene version"},
		{"unknown field", "version: \"1.0\"\ncolour: red\n", "failed to decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScene(strings.NewReader(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestSceneDescription_Build(t *testing.T) {
	desc := parseSceneFromString(t, testScene)

	s, err := desc.Build()
	require.NoError(t, err)

	assert.Equal(t, 1001, s.StartFrame)
	assert.Equal(t, 1100, s.EndFrame)
	assert.Equal(t, 2, s.GetObjectCount())

	ids, err := s.ListSceneObjects()
	require.NoError(t, err)
	assert.Equal(t, []string{"rock_01", "mountain"}, ids)

	m, err := s.WorldMatrix("rock_01", 1050)
	require.NoError(t, err)
	origin := core.TransformPoint(m, core.Vec3{})
	assert.InDelta(t, 0, origin.Subtract(core.NewVec3(3, 0, -20)).Length(), 1e-12)

	// Missing scale defaults to unit scale, not zero
	box, err := s.LocalBoundingBox("rock_01")
	require.NoError(t, err)
	top := core.TransformPoint(m, box.Max)
	assert.InDelta(t, 2, top.Y, 1e-12)

	params, err := s.CameraParams("camWitness", 1001)
	require.NoError(t, err)
	assert.Equal(t, -2.0, params.Left)
	assert.Equal(t, 1.0, params.Near)

	params, err = s.CameraParams("camRender", 1001)
	require.NoError(t, err)
	assert.Greater(t, params.Top, 0.0)
	assert.InDelta(t, params.Right, params.Top*1.777, 1e-9)
}

func TestSceneDescription_BuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{
			name: "inverted bounds",
			content: `version: "1.0"
objects:
  - name: bad
    bounds: {min: [1, 0, 0], max: [0, 1, 1]}`,
			errText: "invalid bounds",
		},
		{
			name: "duplicate object",
			content: `version: "1.0"
objects:
  - name: a
    bounds: {min: [0, 0, 0], max: [1, 1, 1]}
  - name: a
    bounds: {min: [0, 0, 0], max: [1, 1, 1]}`,
			errText: "duplicate object",
		},
		{
			name: "far before near",
			content: `version: "1.0"
cameras:
  - name: cam
    near: 10
    far: 1
    fov: 45`,
			errText: "invalid frustum parameters",
		},
		{
			name: "missing fov",
			content: `version: "1.0"
cameras:
  - name: cam
    near: 1
    far: 10`,
			errText: "fov must be",
		},
		{
			name: "empty range",
			content: `version: "1.0"
frames: {start: 10, end: 5}`,
			errText: "is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := parseSceneFromString(t, tt.content)
			_, err := desc.Build()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestPruneAndSave(t *testing.T) {
	desc := parseSceneFromString(t, testScene)

	pruned := desc.Prune(func(id string) bool { return id == "mountain" })
	require.Len(t, pruned.Objects, 1)
	assert.Equal(t, "mountain", pruned.Objects[0].Name)
	assert.Len(t, desc.Objects, 2, "prune must not modify the source description")

	path := filepath.Join(t.TempDir(), "flyby_culled.yaml")
	require.NoError(t, SaveScene(path, pruned))

	reloaded, err := LoadScene(path)
	require.NoError(t, err)
	assert.Equal(t, pruned.Name, reloaded.Name)
	assert.Equal(t, pruned.Cameras, reloaded.Cameras)
	assert.Equal(t, pruned.Objects, reloaded.Objects)
}

func TestWriteScene_DefaultsVersion(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteScene(&buf, &SceneDescription{Name: "empty"}))
	assert.Contains(t, buf.String(), `version: "1.0"`)
}

func TestLoadScene_NameFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sh0815_env.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: \"1.0\"\n"), 0644))

	desc, err := LoadScene(path)
	require.NoError(t, err)
	assert.Equal(t, "sh0815_env", desc.Name)

	_, err = LoadScene(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateScenePath(t *testing.T) {
	tests := []struct {
		path  string
		valid bool
	}{
		{"scenes/flyby.yaml", true},
		{"scenes/sub/flyby.yml", true},
		{"", false},
		{"../etc/passwd", false},
		{"scenes/../../secret.yaml", false},
		{"/tmp/scenes/x.yaml", false},
		{"scenes/flyby.pbrt", false},
		{"other/flyby.yaml", false},
		{"scenes/a\x00.yaml", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := ValidateScenePath(tt.path)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
