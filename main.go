package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/df07/go-frustum-survey/pkg/config"
	"github.com/df07/go-frustum-survey/pkg/core"
	"github.com/df07/go-frustum-survey/pkg/pipeline"
	"github.com/df07/go-frustum-survey/pkg/scene"
	"github.com/df07/go-frustum-survey/pkg/survey"
)

// cli holds state shared by every command
type cli struct {
	configPath string
	verbose    bool
	noColor    bool

	settings config.Config
	logger   core.Logger // Survey chatter, shown with --verbose
	info     core.Logger
}

// runFlags are the survey flags shared by survey, cull and batch
type runFlags struct {
	camera  string
	start   int
	end     int
	stride  int
	workers int
	output  string
	watch   bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "frustumcull",
		Short: "Find scene objects a camera never sees and remove them",
		Long: `frustumcull samples an animated camera over a frame range, marks every
object whose bounding box is ever potentially inside the view frustum, and
deletes the rest from the scene description.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", config.DefaultPath, "Settings file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Log every frame")
	root.PersistentFlags().BoolVar(&c.noColor, "no-color", false, "Disable coloured output")

	root.AddCommand(c.newSurveyCmd(), c.newCullCmd(), c.newBatchCmd(), c.newConfigCmd())
	return root
}

// setup loads settings and builds the logger
func (c *cli) setup(cmd *cobra.Command) error {
	settings, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.noColor {
		settings.Color = false
	}
	c.settings = settings

	level := slog.LevelInfo
	if c.verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)
	c.logger = core.NewSlogLogger(logger, slog.LevelDebug)
	c.info = core.NewSlogLogger(logger, slog.LevelInfo)
	return nil
}

func addRunFlags(cmd *cobra.Command, f *runFlags) {
	cmd.Flags().StringVarP(&f.camera, "camera", "c", "", "Reference camera (default: scene camera, then settings)")
	cmd.Flags().IntVar(&f.start, "start", 0, "First frame (default: scene playback start)")
	cmd.Flags().IntVar(&f.end, "end", 0, "Last frame, inclusive (default: scene playback end)")
	cmd.Flags().IntVarP(&f.stride, "stride", "s", 0, "Frames between samples (default: settings)")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", -1, "Workers per frame, 0 = one per CPU (default: settings)")
}

// options merges flags over settings. Flags left unset fall back to the
// scene file, then to settings.
func (c *cli) options(cmd *cobra.Command, f *runFlags, scenePath string) pipeline.Options {
	opts := pipeline.Options{
		ScenePath:     scenePath,
		Camera:        f.camera,
		DefaultCamera: c.settings.Camera,
		Workers:       c.settings.Workers,
		OutputPath:    f.output,
		OutputSuffix:  c.settings.OutputSuffix,
	}
	if cmd.Flags().Changed("start") {
		start := f.start
		opts.Start = &start
	}
	if cmd.Flags().Changed("end") {
		end := f.end
		opts.End = &end
	}
	stride := c.settings.Stride
	if cmd.Flags().Changed("stride") {
		stride = f.stride
	}
	opts.Stride = &stride
	if cmd.Flags().Changed("workers") {
		opts.Workers = f.workers
	}
	return opts
}

func (c *cli) newSurveyCmd() *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "survey <scene.yaml>",
		Short: "Report which objects are potentially visible, without deleting anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, f, args[0])
			run := func(ctx context.Context) error {
				outcome, err := pipeline.Run(ctx, opts, c.logger, c.frameLogger())
				if err != nil {
					return err
				}
				printSummary(cmd.OutOrStdout(), outcome.Summary, c.settings.Color)
				if c.verbose {
					printIDs(cmd.OutOrStdout(), "visible", outcome.Result.Visible.IDs())
				}
				return nil
			}
			if f.watch {
				return watchScene(cmd.Context(), opts.ScenePath, c.info, run)
			}
			return run(cmd.Context())
		},
	}
	addRunFlags(cmd, f)
	cmd.Flags().BoolVar(&f.watch, "watch", false, "Re-run whenever the scene file changes")
	return cmd
}

func (c *cli) newCullCmd() *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "cull <scene.yaml>",
		Short: "Survey, delete unseen objects and write the pruned scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, f, args[0])
			opts.Cull = true
			outcome, err := pipeline.Run(cmd.Context(), opts, c.logger, c.frameLogger())
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), outcome.Summary, c.settings.Color)
			fmt.Fprintf(cmd.OutOrStdout(), "pruned scene: %s\n", outcome.OutputPath)
			return nil
		},
	}
	addRunFlags(cmd, f)
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Pruned scene path (default: <scene><suffix>.yaml)")
	return cmd
}

func (c *cli) newBatchCmd() *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "batch <sequence-dir>",
		Short: "Cull every shot directory in a sequence",
		Long: `batch visits each shot directory under the sequence directory and culls its
scene file. Shots holding the ignore marker, shots whose pruned output already
exists and shots without a scene file are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shots, err := scene.DiscoverShots(args[0], scene.ShotLayout{
				SceneFile:    c.settings.SceneFile,
				IgnoreMarker: c.settings.IgnoreMarker,
				OutputSuffix: c.settings.OutputSuffix,
			})
			if err != nil {
				return err
			}
			return c.runBatch(cmd, f, shots)
		},
	}
	addRunFlags(cmd, f)
	return cmd
}

func (c *cli) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the settings file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default settings to the settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(c.configPath)
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Save(path, config.Default()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing settings file")

	cmd.AddCommand(initCmd)
	return cmd
}

// runBatch culls every ready shot. A failing shot is reported and the
// remaining shots still run.
func (c *cli) runBatch(cmd *cobra.Command, f *runFlags, shots []scene.ShotInfo) error {
	out := cmd.OutOrStdout()
	var ran, failed int
	for _, shot := range shots {
		if shot.Status != scene.ShotReady {
			c.info.Printf("%s: skipped (%s)", shot.Name, shot.Status)
			continue
		}
		if err := cmd.Context().Err(); err != nil {
			return err
		}

		opts := c.options(cmd, f, shot.ScenePath)
		opts.Cull = true
		opts.OutputPath = shot.OutputPath
		outcome, err := pipeline.Run(cmd.Context(), opts, c.logger, c.frameLogger())
		ran++
		if err != nil {
			failed++
			fmt.Fprintf(out, "%s: %v\n", shot.Name, err)
			continue
		}
		fmt.Fprintf(out, "%s: ", shot.Name)
		printSummary(out, outcome.Summary, c.settings.Color)
	}

	fmt.Fprintf(out, "%d shots found, %d processed, %d failed\n", len(shots), ran, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d shots failed", failed, ran)
	}
	return nil
}

// frameLogger reports per-frame progress at debug level
func (c *cli) frameLogger() func(survey.FrameResult) {
	return func(fr survey.FrameResult) {
		if len(fr.NewlyVisible) > 0 {
			c.logger.Printf("frame %d (%d/%d): now visible %v", fr.Frame, fr.FrameNumber, fr.TotalFrames, fr.NewlyVisible)
		}
	}
}
