package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rollseq/rollseq"
	"github.com/rollseq/rollseq/tracker"
	"github.com/spf13/cobra"
)

func init() {
	addSynthFlags(renderCmd)
	renderCmd.Flags().StringP("output", "o", "", "output file (default: the song file name with .wav or .raw)")
	renderCmd.Flags().Bool("pcm16", false, "convert audio to 16-bit signed PCM; by default float32 samples are written")
	renderCmd.Flags().Bool("raw", false, "write raw samples without a .wav header")
	renderCmd.Flags().String("loop", "", "render only the region start:end, given in 1/32 notes")
	renderCmd.Flags().Duration("max-length", 10*time.Minute, "maximum length of the output")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render file",
	Short: "Render a song to a .wav or .raw file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	prefs, err := loadPreferences(cmd, configDir())
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
	flags := cmd.Flags()
	pcm16, _ := flags.GetBool("pcm16")
	raw, _ := flags.GetBool("raw")
	output, _ := flags.GetString("output")
	loopFlag, _ := flags.GetString("loop")
	maxLength, _ := flags.GetDuration("max-length")
	loop, err := parseLoop(loopFlag)
	if err != nil {
		return err
	}
	synth, err := prefs.MakeSynth()
	if err != nil {
		return err
	}
	score, err := readSongFile(args[0])
	if err != nil {
		return err
	}
	buffer := tracker.Render(score, loop, tracker.RenderOptions{
		SampleRate: prefs.SampleRate,
		Synth:      synth,
		MaxSamples: int(maxLength.Seconds() * float64(prefs.SampleRate)),
	})
	var data []byte
	if raw {
		data, err = rollseq.Raw(buffer, pcm16)
	} else {
		data, err = rollseq.Wav(buffer, prefs.SampleRate, pcm16)
	}
	if err != nil {
		return fmt.Errorf("could not encode audio: %w", err)
	}
	if output == "" {
		output = outputPath(args[0], raw)
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("could not write file %v: %w", output, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "rendered %s: %.1f s\n", output, float64(len(buffer))/float64(prefs.SampleRate))
	return nil
}

// outputPath replaces the extension of the song file.
func outputPath(songPath string, raw bool) string {
	ext := ".wav"
	if raw {
		ext = ".raw"
	}
	return strings.TrimSuffix(songPath, filepath.Ext(songPath)) + ext
}

// parseLoop parses a loop region "start:end"; an empty string is no loop.
func parseLoop(s string) (tracker.LoopState, error) {
	if s == "" {
		return tracker.LoopState{}, nil
	}
	a, b, ok := strings.Cut(s, ":")
	if !ok {
		return tracker.LoopState{}, fmt.Errorf("invalid loop %q: expected start:end", s)
	}
	start, err := strconv.Atoi(a)
	if err != nil {
		return tracker.LoopState{}, fmt.Errorf("invalid loop start %q: %w", a, err)
	}
	end, err := strconv.Atoi(b)
	if err != nil {
		return tracker.LoopState{}, fmt.Errorf("invalid loop end %q: %w", b, err)
	}
	if start < 0 || end <= start {
		return tracker.LoopState{}, fmt.Errorf("invalid loop %q: expected 0 <= start < end", s)
	}
	return tracker.LoopState{}.Mark(start).Mark(end).SetMode(tracker.LoopLooping), nil
}
