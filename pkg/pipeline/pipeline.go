// Package pipeline runs a survey, and optionally a cull, on a scene file.
// It is shared by the command line tool and the web server.
package pipeline

import (
	"context"
	"fmt"

	"github.com/df07/go-frustum-survey/pkg/core"
	"github.com/df07/go-frustum-survey/pkg/loaders"
	"github.com/df07/go-frustum-survey/pkg/scene"
	"github.com/df07/go-frustum-survey/pkg/survey"
)

// Options configures one pipeline run
type Options struct {
	ScenePath     string
	Camera        string // Overrides the scene file's camera when set
	DefaultCamera string // Used when neither Camera nor the scene names one
	Start, End    *int   // Override the scene file's frame range when set
	Stride        *int   // Frames between samples; DefaultStride when nil
	Workers       int
	Cull          bool   // Delete unseen objects and write the pruned scene
	OutputPath    string // Pruned scene path; derived from OutputSuffix when empty
	OutputSuffix  string
}

// Outcome is everything a run produced
type Outcome struct {
	Scene      *scene.Scene
	Camera     string
	Schedule   survey.Schedule
	Result     *survey.Result
	Cull       *survey.CullResult
	Summary    survey.Summary
	OutputPath string // Empty unless a pruned scene was written
}

// Run loads the scene, surveys it and, if requested, culls it and saves the
// pruned description. onFrame may be nil.
func Run(ctx context.Context, opts Options, logger core.Logger, onFrame func(survey.FrameResult)) (*Outcome, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}

	desc, err := loaders.LoadScene(opts.ScenePath)
	if err != nil {
		return nil, err
	}
	sc, err := desc.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.ScenePath, err)
	}

	outcome := &Outcome{
		Scene:  sc,
		Camera: resolveCamera(opts, desc),
	}

	outcome.Schedule, err = resolveSchedule(opts, desc)
	if err != nil {
		return nil, err
	}

	logger.Printf("Loaded %s: %d objects, camera %q, frames %s\n",
		opts.ScenePath, sc.GetObjectCount(), outcome.Camera, outcome.Schedule)

	config := survey.DefaultConfig()
	config.NumWorkers = opts.Workers
	sv := survey.NewSurvey(sc, config, logger)
	sv.OnFrame = onFrame

	outcome.Result, err = sv.Run(ctx, outcome.Camera, nil, outcome.Schedule)
	if err != nil {
		return nil, err
	}

	if opts.Cull {
		outcome.OutputPath = opts.OutputPath
		if outcome.OutputPath == "" {
			outcome.OutputPath = scene.OutputPath(opts.ScenePath, opts.OutputSuffix)
		}
		if outcome.OutputPath == opts.ScenePath {
			return nil, fmt.Errorf("refusing to overwrite source scene %s", opts.ScenePath)
		}

		ids, err := sc.ListSceneObjects()
		if err != nil {
			return nil, err
		}
		cull := survey.NewCullExecutor(sc, logger).Cull(ids, outcome.Result.Visible)
		outcome.Cull = &cull

		if err := loaders.SaveScene(outcome.OutputPath, desc.Prune(sc.HasObject)); err != nil {
			return nil, err
		}
		logger.Printf("Wrote pruned scene to %s\n", outcome.OutputPath)
	}

	outcome.Summary = survey.NewSummary(outcome.Camera, outcome.Result, outcome.Cull)
	return outcome, nil
}

func resolveCamera(opts Options, desc *loaders.SceneDescription) string {
	switch {
	case opts.Camera != "":
		return opts.Camera
	case desc.Camera != "":
		return desc.Camera
	default:
		return opts.DefaultCamera
	}
}

// resolveSchedule fills any range bound not given on the command line from
// the scene's playback range
func resolveSchedule(opts Options, desc *loaders.SceneDescription) (survey.Schedule, error) {
	schedule := survey.Schedule{Stride: survey.DefaultStride}
	if opts.Stride != nil {
		schedule.Stride = *opts.Stride
	}

	if (opts.Start == nil || opts.End == nil) && desc.Frames == nil {
		return schedule, fmt.Errorf("%w: %s has no frame range, pass start and end explicitly",
			core.ErrInvalidSchedule, opts.ScenePath)
	}
	if opts.Start != nil {
		schedule.Start = *opts.Start
	} else {
		schedule.Start = desc.Frames.Start
	}
	if opts.End != nil {
		schedule.End = *opts.End
	} else {
		schedule.End = desc.Frames.End
	}
	return schedule, nil
}
