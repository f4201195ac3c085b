package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gigsplit/gigsplit/internal/audio"
	"github.com/gigsplit/gigsplit/internal/cache"
	"github.com/gigsplit/gigsplit/internal/cli"
	"github.com/gigsplit/gigsplit/internal/config"
	"github.com/gigsplit/gigsplit/internal/detect"
	"github.com/gigsplit/gigsplit/internal/export"
	"github.com/gigsplit/gigsplit/internal/logging"
	"github.com/gigsplit/gigsplit/internal/split"
	"github.com/gigsplit/gigsplit/internal/ui"
)

var (
	version = "0.0.1"
)

// CLI defines the command-line interface. Flag defaults come from the
// environment-backed config so a durable setup needs no flags at all.
type CLI struct {
	Version     bool    `short:"v" help:"Show version information"`
	Logs        bool    `help:"Write a detection report next to the exported songs"`
	NoTUI       bool    `name:"no-tui" help:"Detect and export without the interactive editor"`
	Zip         bool    `help:"Bundle the exported songs into one zip archive"`
	Out         string  `short:"o" type:"path" default:"${output_dir}" help:"Directory for exported files"`
	Sensitivity float64 `default:"${sensitivity}" help:"Silence threshold in dBFS"`
	Smoothing   float64 `default:"${smoothing}" help:"Loudness smoothing window in seconds"`
	MinSilence  float64 `name:"min-silence" default:"${min_silence}" help:"Shortest inter-song silence in seconds"`
	MinSong     float64 `name:"min-song" default:"${min_song}" help:"Shortest song in seconds"`
	File        string  `arg:"" name:"file" help:"Live recording to split (WAV)" type:"existingfile" optional:""`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
	logger := cfg.NewLogger()

	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("gigsplit"),
		kong.Description("Split live recordings into songs"),
		kong.UsageOnError(),
		kong.Vars{
			"version":     version,
			"output_dir":  cfg.OutputDir,
			"sensitivity": formatFloat(cfg.SensitivityDb),
			"smoothing":   formatFloat(cfg.SmoothingSeconds),
			"min_silence": formatFloat(cfg.MinSilenceSeconds),
			"min_song":    formatFloat(cfg.MinSongSeconds),
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	if cliArgs.File == "" {
		cli.PrintError("No input file specified")
		ctx.PrintUsage(false)
		os.Exit(1)
	}

	settings := detect.Settings{
		SensitivityDb:          clampF(cliArgs.Sensitivity, -60, -10),
		SmoothingWindowSeconds: clampF(cliArgs.Smoothing, 1, 15),
		MinSilenceDuration:     clampF(cliArgs.MinSilence, 0.5, 10),
		MinSongDuration:        clampF(cliArgs.MinSong, 10, 120),
	}

	startTime := time.Now()

	decodeStart := time.Now()
	buf, fromCache, err := loadBuffer(cliArgs.File, cfg, logger)
	if err != nil {
		cli.PrintError(fmt.Sprintf("Cannot read %s: %v", cliArgs.File, err))
		os.Exit(1)
	}
	decodeTime := time.Since(decodeStart)

	logger.Info("decoded recording",
		"file", cliArgs.File,
		"duration_s", buf.Duration(),
		"sample_rate", buf.SampleRate,
		"channels", buf.Channels,
		"cache_hit", fromCache)

	store := split.NewStore(buf.Duration())

	var detectTime time.Duration
	exportWanted := true

	if cliArgs.NoTUI {
		detectStart := time.Now()
		songs, err := detect.Detect(buf.Mono(), buf.SampleRate, settings, nil)
		if err != nil {
			cli.PrintError(fmt.Sprintf("Detection failed: %v", err))
			os.Exit(1)
		}
		detectTime = time.Since(detectStart)
		store.ReplaceAll(seedsFromSongs(songs))
		logger.Info("detection complete", "songs", len(songs), "elapsed", detectTime)
		for _, sp := range store.All() {
			fmt.Printf("%s  %s\n",
				cli.KeyStyle.Render(fmt.Sprintf("%7.1fs - %7.1fs", sp.Start, sp.End)),
				cli.AccentStyle.Render(sp.Name))
		}
	} else {
		model := ui.NewModel(filepath.Base(cliArgs.File), buf.Duration(), store)
		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

		detectStart := time.Now()
		done := make(chan time.Duration, 1)
		go func() {
			songs, err := detect.Detect(buf.Mono(), buf.SampleRate, settings, func(progress float64) {
				p.Send(ui.DetectProgressMsg{Progress: progress})
			})
			done <- time.Since(detectStart)
			if err != nil {
				p.Send(ui.DetectDoneMsg{Err: err})
				return
			}
			store.ReplaceAll(seedsFromSongs(songs))
			p.Send(ui.DetectDoneMsg{Songs: len(songs)})
		}()

		final, err := p.Run()
		if err != nil {
			cli.PrintError(fmt.Sprintf("UI error: %v", err))
			os.Exit(1)
		}
		detectTime = <-done

		fm := final.(ui.Model)
		if fm.Err != nil {
			cli.PrintError(fmt.Sprintf("Detection failed: %v", fm.Err))
			os.Exit(1)
		}
		exportWanted = fm.ExportRequested
	}

	var exported []string
	var exportTime time.Duration
	if exportWanted && store.Len() > 0 {
		exportStart := time.Now()
		exported, err = runExport(buf, store.All(), cliArgs)
		if err != nil {
			cli.PrintError(fmt.Sprintf("Export failed: %v", err))
			os.Exit(1)
		}
		exportTime = time.Since(exportStart)
		for _, name := range exported {
			fmt.Println(filepath.Join(cliArgs.Out, name))
		}
	}

	if cliArgs.Logs {
		data := logging.ReportData{
			InputPath:    cliArgs.File,
			OutputDir:    cliArgs.Out,
			StartTime:    startTime,
			EndTime:      time.Now(),
			DecodeTime:   decodeTime,
			DetectTime:   detectTime,
			ExportTime:   exportTime,
			SampleRate:   buf.SampleRate,
			Channels:     buf.Channels,
			DurationSecs: buf.Duration(),
			Settings:     settings,
			Splits:       store.All(),
			Exported:     exported,
			FromCache:    fromCache,
		}
		if err := logging.GenerateReport(data); err != nil {
			logger.Warn("could not write report", "error", err)
		}
	}
}

// loadBuffer decodes the recording, going through the PCM cache unless it
// is disabled. Cache failures degrade to a plain decode.
func loadBuffer(path string, cfg *config.Config, logger *slog.Logger) (*audio.Buffer, bool, error) {
	if cfg.NoCache {
		buf, err := audio.ReadWAV(path)
		return buf, false, err
	}

	identity, err := cache.Identity(path)
	if err != nil {
		return nil, false, err
	}

	disk, err := cache.NewDisk(cfg.CacheDir, cfg.CacheMaxBytes())
	if err != nil {
		logger.Warn("cache unavailable", "dir", cfg.CacheDir, "error", err)
		buf, err := audio.ReadWAV(path)
		return buf, false, err
	}

	if buf, ok := disk.Lookup(identity); ok {
		return buf, true, nil
	}

	buf, err := audio.ReadWAV(path)
	if err != nil {
		return nil, false, err
	}
	if err := disk.Store(identity, buf); err != nil {
		logger.Warn("could not cache decoded audio", "error", err)
	}
	return buf, false, nil
}

// runExport writes one WAV per split into the output directory, or a
// single zip archive with --zip. Returns the written names in order.
func runExport(buf *audio.Buffer, splits []split.Split, cliArgs *CLI) ([]string, error) {
	exporter, err := export.New(buf)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cliArgs.Out, 0o755); err != nil {
		return nil, err
	}

	if cliArgs.Zip {
		stem := strings.TrimSuffix(filepath.Base(cliArgs.File), filepath.Ext(cliArgs.File))
		name := stem + "-songs.zip"
		f, err := os.Create(filepath.Join(cliArgs.Out, name))
		if err != nil {
			return nil, err
		}
		if err := exporter.WriteArchive(f, splits); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
		return []string{name}, nil
	}

	var names []string
	err = exporter.Stream(splits, func(seg export.Segment) error {
		if err := os.WriteFile(filepath.Join(cliArgs.Out, seg.Filename), seg.Data, 0o644); err != nil {
			return err
		}
		names = append(names, seg.Filename)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

func seedsFromSongs(songs []detect.Song) []split.Seed {
	seeds := make([]split.Seed, 0, len(songs))
	for _, s := range songs {
		seeds = append(seeds, split.Seed{Name: s.Name, Start: s.Start, End: s.End})
	}
	return seeds
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
