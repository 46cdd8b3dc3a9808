package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/polyscribe/polyscribe/internal/audiosrc"
	"github.com/polyscribe/polyscribe/internal/config"
	"github.com/polyscribe/polyscribe/internal/emit"
	"github.com/polyscribe/polyscribe/internal/midi"
	"github.com/polyscribe/polyscribe/internal/monitor"
	"github.com/polyscribe/polyscribe/internal/pipeline"
	"github.com/polyscribe/polyscribe/internal/pitch"
	"github.com/polyscribe/polyscribe/internal/spectral"
	"github.com/polyscribe/polyscribe/internal/window"
)

type transcribeFlags struct {
	out         string
	dir         bool
	monitorFlag bool
	workers     int

	windowLen  int
	zeroPad    int
	windowType string
	binWeight  string
	threshold  float64
	pcp        bool
	harmonics  bool
}

func newTranscribeCmd() *cobra.Command {
	f := &transcribeFlags{}

	cmd := &cobra.Command{
		Use:   "transcribe <path>",
		Short: "Transcribe a WAV file (or, with --dir, a directory of WAV files) into a MIDI file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranscribe(f, args[0])
		},
	}

	cmd.Flags().StringVarP(&f.out, "out", "o", "", "output .mid path (default: input path with .mid extension)")
	cmd.Flags().BoolVar(&f.dir, "dir", false, "treat <path> as a directory and transcribe every .wav file within it")
	cmd.Flags().BoolVar(&f.monitorFlag, "monitor", false, "play the audio back live while transcribing")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "parallel frame workers (0 = sequential)")

	cmd.Flags().IntVar(&f.windowLen, "window", 0, "analysis window length in samples, power of two (default: config)")
	cmd.Flags().IntVar(&f.zeroPad, "zero-pad", 0, "zero-pad factor, one of 1/2/4/8 (default: config)")
	cmd.Flags().StringVar(&f.windowType, "window-type", "", "rectangular|hann|hamming|blackman|blackman-harris (default: config)")
	cmd.Flags().StringVar(&f.binWeight, "bin-weight", "", "uniform|discrete|linear|quadratic|exponential (default: config)")
	cmd.Flags().Float64Var(&f.threshold, "threshold", -1, "peak amplitude threshold (default: config)")
	cmd.Flags().BoolVar(&f.pcp, "pcp", true, "enable pitch-class-profile reinforcement")
	cmd.Flags().BoolVar(&f.harmonics, "harmonics", true, "enable harmonic suppression")

	return cmd
}

func runTranscribe(f *transcribeFlags, path string) error {
	mgr, err := loadConfigManager()
	if err != nil {
		return err
	}
	cfg := *mgr.Get()
	applyFlagOverrides(&cfg, f)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid analysis configuration: %w", err)
	}

	if f.dir {
		return transcribeDir(path, &cfg, f)
	}
	out := f.out
	if out == "" {
		out = withExt(path, ".mid")
	}
	return transcribeFile(path, out, &cfg, f)
}

func applyFlagOverrides(cfg *config.AnalysisConfig, f *transcribeFlags) {
	if f.windowLen > 0 {
		cfg.WindowLen = f.windowLen
	}
	if f.zeroPad > 0 {
		cfg.ZeroPad = f.zeroPad
	}
	if f.windowType != "" {
		if t, ok := window.ParseType(f.windowType); ok {
			cfg.WindowType = t
		}
	}
	if f.binWeight != "" {
		if b, ok := config.ParseBinWeight(f.binWeight); ok {
			cfg.BinWeight = b
		}
	}
	if f.threshold >= 0 {
		cfg.PeakThreshold = f.threshold
	}
	cfg.PCPActive = f.pcp
	cfg.HarmonicsActive = f.harmonics
}

// transcribeDir walks dir for .wav files and transcribes each into a
// sibling .mid file, in the teacher's filepath.WalkDir batch idiom
// (internal/scanner), dropped of its NFO/library-metadata bookkeeping.
func transcribeDir(dir string, cfg *config.AnalysisConfig, f *transcribeFlags) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".wav") {
			return nil
		}
		out := withExt(path, ".mid")
		if verbose {
			log.Printf("transcribing %s -> %s", path, out)
		}
		return transcribeFile(path, out, cfg, f)
	})
}

func transcribeFile(path, out string, cfg *config.AnalysisConfig, f *transcribeFlags) error {
	src, err := audiosrc.Open(path)
	if err != nil {
		return err
	}

	var audioSrc pipeline.AudioSource = src
	var mon *monitor.Output
	if f.monitorFlag {
		mon, err = monitor.New(src.SampleRate())
		if err != nil {
			return fmt.Errorf("failed to start monitor playback: %w", err)
		}
		defer mon.Close()
		audioSrc = &monitoredSource{WAVSource: src, monitor: mon}
	}

	analyzer, err := spectral.New(cfg)
	if err != nil {
		return err
	}
	driver := pipeline.New(analyzer, cfg.WindowLen)

	resolution := framesPerSecond(cfg)
	seq := emit.NewSequencer(cfg, 1)

	var driverErr error
	if f.workers > 0 {
		driverErr = runParallelOrdered(driver, audioSrc, f.workers, seq)
	} else {
		driverErr = driver.Run(audioSrc, func(n int, state *spectral.FrameState) {
			seq.Accept(state.Notes)
		})
	}
	if driverErr != nil {
		return fmt.Errorf("transcription failed: %w", driverErr)
	}

	track := seq.Finish()
	sequence := midi.NewSequence(midi.PPQ, resolution, 0)
	sequence.Tracks = []*midi.Track{track}

	outFile, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	defer outFile.Close()

	if err := midi.WriteTo(outFile, sequence); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	return nil
}

// framesPerSecond chooses a PPQ resolution equal to the analysis frame
// rate, so that one MIDI tick corresponds to one analysis frame: a
// "quarter note" in the written sequence spans one second of source
// audio. There is no tempo information in the core (spec.md's Non-goals
// exclude tempo/beat estimation), so this is the simplest tick base that
// keeps frame spacing uniform and the file well-formed.
func framesPerSecond(cfg *config.AnalysisConfig) uint16 {
	fps := float64(cfg.SampleRate) / float64(cfg.WindowLen)
	r := int(math.Round(fps))
	if r < 1 {
		r = 1
	}
	if r > 0x7FFF {
		r = 0x7FFF
	}
	return uint16(r)
}

// runParallelOrdered drives driver.RunParallel, which may complete frames
// out of order, and replays them into seq in ascending index order: the
// Sequencer's NoteOn/NoteOff bookkeeping depends on seeing frames in
// sequence.
func runParallelOrdered(driver *pipeline.Driver, src pipeline.AudioSource, workers int, seq *emit.Sequencer) error {
	notesByFrame := make(map[int][]pitch.Note)
	next := 0

	return driver.RunParallel(src, workers, func(r pipeline.FrameResult) {
		notesByFrame[r.Index] = r.Notes
		for {
			notes, ok := notesByFrame[next]
			if !ok {
				break
			}
			seq.Accept(notes)
			delete(notesByFrame, next)
			next++
		}
	})
}

func withExt(path, ext string) string {
	trimmed := strings.TrimSuffix(path, filepath.Ext(path))
	return trimmed + ext
}

// monitoredSource tees decoded samples to live playback as the pipeline
// driver reads them.
type monitoredSource struct {
	*audiosrc.WAVSource
	monitor *monitor.Output
}

func (m *monitoredSource) Read(buf []float64) (int, error) {
	n, err := m.WAVSource.Read(buf)
	if n > 0 {
		if werr := m.monitor.WriteSamples(buf[:n]); werr != nil {
			log.Printf("monitor playback write failed: %v", werr)
		}
	}
	return n, err
}
