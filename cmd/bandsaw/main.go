package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-hclog"

	"github.com/tapeworks/bandsaw/internal/audio"
	"github.com/tapeworks/bandsaw/internal/cli"
	"github.com/tapeworks/bandsaw/internal/export"
	"github.com/tapeworks/bandsaw/internal/logging"
	"github.com/tapeworks/bandsaw/internal/session"
	"github.com/tapeworks/bandsaw/internal/splitter"
	"github.com/tapeworks/bandsaw/internal/ui"
	"github.com/tapeworks/bandsaw/internal/upload"
)

var (
	version = "0.1.0"
)

// CLI defines the command-line interface
type CLI struct {
	Input string `arg:"" optional:"" type:"existingfile" help:"Session recording to split"`

	Batch  bool   `help:"Split, export, and report without the interactive editor"`
	Output string `short:"o" type:"path" help:"Archive path (default: <input>_tracks.zip)"`

	Preset      string `type:"existingfile" help:"YAML preset with detection settings"`
	WritePreset string `type:"path" help:"Write the effective settings to a YAML preset and exit"`

	FrameSize          *int     `help:"Analysis frame size in samples"`
	HopSize            *int     `help:"Analysis hop size in samples"`
	EnergyThreshold    *float64 `help:"Quiet threshold as a fraction of peak energy"`
	BandwidthThreshold *float64 `help:"Spectral bandwidth ceiling for true gaps in Hz"`
	MinGap             *float64 `help:"Minimum gap duration in seconds"`
	MinTrackGap        *float64 `help:"Minimum spacing between boundaries in seconds"`

	SampleRate int `default:"44100" help:"Decode sample rate in Hz"`
	Channels   int `default:"1" help:"Decode channel count"`

	S3Bucket string `name:"s3-bucket" help:"Upload MP3s to this S3 bucket"`
	S3Prefix string `name:"s3-prefix" help:"Key prefix for uploaded tracks"`
	Bitrate  string `default:"192k" help:"MP3 bitrate for uploads"`

	Verbose bool   `help:"Debug logging on stderr (batch mode)"`
	LogFile string `type:"path" help:"Write editor debug logs to this file"`

	Version bool `short:"v" help:"Show version information"`
}

func main() {
	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("bandsaw"),
		kong.Description("Session recording track splitter"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	// Handle version flag
	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	// Settings: preset file first, explicit flags on top.
	cfg := splitter.DefaultConfig()
	if cliArgs.Preset != "" {
		loaded, err := splitter.LoadPreset(cliArgs.Preset)
		if err != nil {
			cli.PrintError(err.Error())
			os.Exit(1)
		}
		cfg = loaded
	}
	applyFlags(&cfg, cliArgs)
	if err := cfg.Validate(); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}

	if cliArgs.WritePreset != "" {
		if err := splitter.SavePreset(cliArgs.WritePreset, cfg); err != nil {
			cli.PrintError(err.Error())
			os.Exit(1)
		}
		cli.PrintSuccess("preset written to " + cliArgs.WritePreset)
		os.Exit(0)
	}

	// Validate input
	if cliArgs.Input == "" {
		cli.PrintError("No input file specified")
		ctx.PrintUsage(false)
		os.Exit(1)
	}

	dec := audio.DecodeOptions{SampleRate: cliArgs.SampleRate, Channels: cliArgs.Channels}

	var uploader *upload.Uploader
	if cliArgs.S3Bucket != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
		if err != nil {
			cli.PrintError(fmt.Sprintf("AWS config: %v", err))
			os.Exit(1)
		}
		uploader = upload.New(s3.NewFromConfig(awsCfg), cliArgs.S3Bucket, cliArgs.S3Prefix, cliArgs.Bitrate)
	}

	if cliArgs.Batch {
		os.Exit(runBatch(cliArgs, cfg, dec, uploader))
	}
	os.Exit(runEditor(cliArgs, cfg, dec, uploader))
}

// applyFlags overlays explicitly set flags onto the preset-derived
// settings. Pointer fields distinguish "not given" from zero.
func applyFlags(cfg *splitter.Config, args *CLI) {
	if args.FrameSize != nil {
		cfg.FrameSize = *args.FrameSize
	}
	if args.HopSize != nil {
		cfg.HopSize = *args.HopSize
	}
	if args.EnergyThreshold != nil {
		cfg.EnergyThreshold = *args.EnergyThreshold
	}
	if args.BandwidthThreshold != nil {
		cfg.BandwidthThreshold = *args.BandwidthThreshold
	}
	if args.MinGap != nil {
		cfg.MinGapDuration = *args.MinGap
	}
	if args.MinTrackGap != nil {
		cfg.MinInterTrackDuration = *args.MinTrackGap
	}
}

// runBatch splits the recording, writes the archive, uploads when
// configured, and prints the report. No terminal UI.
func runBatch(args *CLI, cfg splitter.Config, dec audio.DecodeOptions, uploader *upload.Uploader) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	level := hclog.Warn
	if args.Verbose {
		level = hclog.Debug
	}
	logger := logging.NewLogger(level, os.Stderr)

	s, err := session.Analyze(ctx, args.Input, dec, cfg, logger)
	if err != nil {
		cli.PrintError(err.Error())
		return 1
	}

	archive := args.Output
	if archive == "" {
		archive = s.DefaultArchiveName()
	}
	if err := export.WriteArchiveFile(archive, s.Buffer, s.Store.View()); err != nil {
		cli.PrintError(err.Error())
		return 1
	}

	if uploader != nil {
		err := uploader.UploadTracks(ctx, s.Buffer, s.Store.View(), time.Now(),
			func(current, total int, key string) {
				fmt.Fprintf(os.Stderr, "uploading %d/%d %s\n", current, total, key)
			})
		if err != nil {
			cli.PrintError(err.Error())
			return 1
		}
	}

	logging.WriteReport(os.Stdout, s.Report(archive))
	return 0
}

// runEditor opens the interactive track editor. Analysis runs in the
// background and lands in the UI as a message; the report prints to
// stdout after the alt screen closes.
func runEditor(args *CLI, cfg splitter.Config, dec audio.DecodeOptions, uploader *upload.Uploader) int {
	logger := logging.Discard()
	if args.LogFile != "" {
		f, err := os.Create(args.LogFile)
		if err != nil {
			cli.PrintError(fmt.Sprintf("open log file: %v", err))
			return 1
		}
		defer f.Close()
		logger = logging.NewLogger(hclog.Debug, f)
	}

	model := ui.NewModel(args.Input, args.Output, uploader)
	p := tea.NewProgram(model, tea.WithAltScreen())

	// Start analysis in background
	go func() {
		s, err := session.Analyze(context.Background(), args.Input, dec, cfg, logger)
		if err != nil {
			p.Send(ui.AnalysisFailedMsg{Err: err})
			return
		}
		p.Send(ui.AnalysisDoneMsg{Session: s})
	}()

	final, err := p.Run()
	if err != nil {
		cli.PrintError(fmt.Sprintf("UI error: %v", err))
		return 1
	}

	m := final.(ui.Model)
	if m.Err != nil {
		cli.PrintError(m.Err.Error())
		return 1
	}
	if m.Session != nil {
		logging.WriteReport(os.Stdout, m.Session.Report(m.ExportedPath))
	}
	return 0
}
