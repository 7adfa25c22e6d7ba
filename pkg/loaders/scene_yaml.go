package loaders

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-frustum-survey/pkg/core"
	"github.com/df07/go-frustum-survey/pkg/geometry"
	"github.com/df07/go-frustum-survey/pkg/scene"
)

// FormatVersion is written into every saved scene description
const FormatVersion = "1.0"

// SupportedVersions is the range of description versions this loader reads
const SupportedVersions = ">= 1.0, < 2.0"

// SceneDescription is the on-disk form of an animated scene
type SceneDescription struct {
	Version string              `yaml:"version"`
	Name    string              `yaml:"name"`
	Camera  string              `yaml:"camera,omitempty"` // Default reference camera
	Frames  *FrameRange         `yaml:"frames,omitempty"` // Playback range
	Cameras []CameraDescription `yaml:"cameras"`
	Objects []ObjectDescription `yaml:"objects"`
}

// FrameRange is an inclusive playback range
type FrameRange struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// CameraDescription describes a camera. Either Fov or Extents must be set.
type CameraDescription struct {
	Name    string             `yaml:"name"`
	Near    float64            `yaml:"near"`
	Far     float64            `yaml:"far"`
	FovY    float64            `yaml:"fov,omitempty"`
	Aspect  float64            `yaml:"aspect,omitempty"`
	Extents *ExtentDescription `yaml:"extents,omitempty"`
	Keys    []KeyDescription   `yaml:"keys,omitempty"`
}

// ExtentDescription holds near-plane extents
type ExtentDescription struct {
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Top    float64 `yaml:"top"`
}

// ObjectDescription describes a cullable object
type ObjectDescription struct {
	Name   string            `yaml:"name"`
	Bounds BoundsDescription `yaml:"bounds"`
	Locked bool              `yaml:"locked,omitempty"`
	Keys   []KeyDescription  `yaml:"keys,omitempty"`
}

// BoundsDescription is a local-space bounding box
type BoundsDescription struct {
	Min [3]float64 `yaml:"min,flow"`
	Max [3]float64 `yaml:"max,flow"`
}

// KeyDescription is one transform keyframe. Missing components default to
// zero translation, zero rotation and unit scale.
type KeyDescription struct {
	Frame     int         `yaml:"frame"`
	Translate *[3]float64 `yaml:"translate,omitempty,flow"`
	Rotate    *[3]float64 `yaml:"rotate,omitempty,flow"`
	Scale     *[3]float64 `yaml:"scale,omitempty,flow"`
}

// ParseScene decodes a scene description from an io.Reader
func ParseScene(reader io.Reader) (*SceneDescription, error) {
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)

	var desc SceneDescription
	if err := decoder.Decode(&desc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty scene description")
		}
		return nil, fmt.Errorf("failed to decode scene description: %w", err)
	}

	if err := checkVersion(desc.Version); err != nil {
		return nil, err
	}
	return &desc, nil
}

// LoadScene loads and parses a scene description file
func LoadScene(filename string) (*SceneDescription, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	desc, err := ParseScene(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if desc.Name == "" {
		desc.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	return desc, nil
}

func checkVersion(version string) error {
	if version == "" {
		return fmt.Errorf("scene description has no version")
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid scene version %q: %w", version, err)
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return err
	}
	if !constraint.Check(v) {
		return fmt.Errorf("unsupported scene version %s (want %s)", v, SupportedVersions)
	}
	return nil
}

// Build creates an in-memory scene from the description
func (d *SceneDescription) Build() (*scene.Scene, error) {
	s := scene.NewScene(d.Name)
	if d.Frames != nil {
		if d.Frames.End < d.Frames.Start {
			return nil, fmt.Errorf("frame range [%d, %d] is empty", d.Frames.Start, d.Frames.End)
		}
		s.StartFrame = d.Frames.Start
		s.EndFrame = d.Frames.End
	}

	for _, cd := range d.Cameras {
		if cd.Name == "" {
			return nil, fmt.Errorf("camera without a name")
		}
		if _, exists := s.Camera(cd.Name); exists {
			return nil, fmt.Errorf("duplicate camera %q", cd.Name)
		}
		cam := &scene.Camera{
			Name:        cd.Name,
			Near:        cd.Near,
			Far:         cd.Far,
			FovY:        cd.FovY,
			AspectRatio: cd.Aspect,
			Track:       buildTrack(cd.Keys),
		}
		if cam.AspectRatio == 0 {
			cam.AspectRatio = 1
		}
		if cd.Extents != nil {
			cam.Extents = &geometry.FrustumParams{
				Left: cd.Extents.Left, Right: cd.Extents.Right,
				Bottom: cd.Extents.Bottom, Top: cd.Extents.Top,
			}
		} else if cd.FovY <= 0 || cd.FovY >= 180 {
			return nil, fmt.Errorf("camera %q: fov must be in (0, 180), got %g", cd.Name, cd.FovY)
		}
		if err := cam.Params().Validate(); err != nil {
			return nil, fmt.Errorf("camera %q: %w", cd.Name, err)
		}
		s.AddCamera(cam)
	}

	for _, od := range d.Objects {
		if od.Name == "" {
			return nil, fmt.Errorf("object without a name")
		}
		if s.HasObject(od.Name) {
			return nil, fmt.Errorf("duplicate object %q", od.Name)
		}
		bounds := core.NewAABB(vec3(od.Bounds.Min), vec3(od.Bounds.Max))
		if !bounds.IsValid() {
			return nil, fmt.Errorf("object %q: invalid bounds %v - %v", od.Name, bounds.Min, bounds.Max)
		}
		s.AddObject(&scene.Object{
			Name:   od.Name,
			Bounds: bounds,
			Locked: od.Locked,
			Track:  buildTrack(od.Keys),
		})
	}

	return s, nil
}

// Prune returns a copy of the description holding only the objects keep accepts
func (d *SceneDescription) Prune(keep func(objectID string) bool) *SceneDescription {
	pruned := *d
	pruned.Objects = make([]ObjectDescription, 0, len(d.Objects))
	for _, od := range d.Objects {
		if keep(od.Name) {
			pruned.Objects = append(pruned.Objects, od)
		}
	}
	return &pruned
}

// WriteScene encodes a scene description as YAML
func WriteScene(w io.Writer, desc *SceneDescription) error {
	out := *desc
	if out.Version == "" {
		out.Version = FormatVersion
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(&out); err != nil {
		return fmt.Errorf("failed to encode scene description: %w", err)
	}
	return encoder.Close()
}

// SaveScene writes a scene description file, replacing any existing file
func SaveScene(filename string, desc *SceneDescription) error {
	var buf bytes.Buffer
	if err := WriteScene(&buf, desc); err != nil {
		return err
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write scene file: %w", err)
	}
	return nil
}

// ValidateScenePath validates a scene path requested over the network
func ValidateScenePath(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	// Check for null bytes (could indicate path manipulation)
	if strings.Contains(filename, "\x00") {
		return fmt.Errorf("invalid file path: null bytes not allowed")
	}

	cleanPath := filepath.ToSlash(filepath.Clean(filename))
	if filepath.IsAbs(cleanPath) || strings.HasPrefix(cleanPath, "..") {
		return fmt.Errorf("invalid file path: directory traversal not allowed")
	}
	if !strings.HasPrefix(cleanPath, "scenes/") {
		return fmt.Errorf("file path must be in scenes/ directory")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("invalid file type: only .yaml files are allowed")
	}

	if len(cleanPath) > 512 {
		return fmt.Errorf("file path too long: maximum 512 characters allowed")
	}
	return nil
}

func buildTrack(keys []KeyDescription) scene.Track {
	track := scene.NewTrack()
	for _, k := range keys {
		tr := scene.IdentityTransform()
		if k.Translate != nil {
			tr.Translate = vec3(*k.Translate)
		}
		if k.Rotate != nil {
			tr.Rotate = vec3(*k.Rotate)
		}
		if k.Scale != nil {
			tr.Scale = vec3(*k.Scale)
		}
		track.SetKey(scene.Keyframe{Frame: k.Frame, Transform: tr})
	}
	return track
}

func vec3(v [3]float64) core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}
