package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rollseq/rollseq"
	"github.com/rollseq/rollseq/oto"
	"github.com/rollseq/rollseq/tracker"
	"github.com/rollseq/rollseq/tracker/tui"
	"github.com/spf13/cobra"
)

func init() {
	addSynthFlags(trackCmd)
	trackCmd.Flags().String("log-level", "info", "log level: debug, info, warn or error")
	trackCmd.Flags().String("midi-input", "", "connect MIDI input to matching device name prefix")
	rootCmd.AddCommand(trackCmd)
}

var trackCmd = &cobra.Command{
	Use:   "track [file]",
	Short: "Edit a song in the piano roll",
	Long: `Opens the piano roll editor. Without a file, unsaved changes of the
previous session are recovered, if there are any.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTrack,
}

// closeTimeout is how long the goroutines are given to clean up on exit.
const closeTimeout = 3 * time.Second

func runTrack(cmd *cobra.Command, args []string) error {
	dir := configDir()
	prefs, prefsErr := loadPreferences(cmd, dir)
	logFile, err := openLogFile(dir)
	if err != nil {
		return err
	}
	defer logFile.Close()
	log, err := newLogger(logFile, prefs)
	if err != nil {
		return err
	}
	log.WithField("version", versionString()).Info("starting editor")
	synth, err := prefs.MakeSynth()
	if err != nil {
		return err
	}
	keymap, keymapErr := tui.LoadKeymap(dir)
	status, err := tui.ParseStatusTemplate(prefs.StatusTemplate)
	if err != nil {
		return err
	}
	audioContext, err := oto.NewContext(prefs.SampleRate)
	if err != nil {
		return err
	}
	defer audioContext.Close()

	broker := tracker.NewBroker()
	midiContext := newMIDIContext(broker)
	defer midiContext.Close()
	score := tracker.NewScoreHandle(rollseq.NewScore(prefs.BPM))
	player := tracker.NewPlayer(broker, score, synth, prefs.SampleRate)
	player.SetGain(prefs.Gain)
	var recovery *tracker.Recovery
	if prefs.Recovery && dir != "" {
		recovery = tracker.NewRecovery(filepath.Join(dir, tracker.RecoveryFileName), tracker.DefaultRecoveryDelay, log)
	}
	var clipboardPath string
	if dir != "" {
		clipboardPath = filepath.Join(dir, tracker.ClipboardFileName)
	}
	model := tracker.NewModel(score, player, midiContext, tracker.ModelOptions{
		Log:            log,
		Recovery:       recovery,
		Broker:         broker,
		ClipboardPath:  clipboardPath,
		Follow:         prefs.Follow,
		AuditionLength: prefs.AuditionLength(),
		Resolution:     prefs.GridResolution(),
	})
	for _, err := range []error{prefsErr, keymapErr} {
		if err != nil {
			log.WithError(err).Warn("using default configuration")
			model.Alerts().Add(err.Error(), tracker.Error)
		}
	}
	if len(args) > 0 {
		if _, err := os.Stat(args[0]); errors.Is(err, fs.ErrNotExist) {
			// a new song, created on the first save
			model.SetFilePath(args[0])
		} else {
			model.LoadFile(args[0])
		}
	} else {
		model.Recover()
	}
	if prefix, _ := cmd.Flags().GetString("midi-input"); prefix != "" {
		openMIDIInputByPrefix(model, prefix)
	}

	detector := tracker.NewDetector(broker, prefs.SampleRate)
	go detector.Run()
	stream, err := audioContext.Play(player.Process)
	if err != nil {
		return err
	}
	app := tui.NewApp(model, keymap, status, log)
	runErr := tui.Run(cmd.Context(), app, broker)

	if err := stream.Close(); err != nil {
		log.WithError(err).Warn("could not close audio stream")
	}
	stream.Wait()
	tracker.TrySend(broker.CloseDetector, struct{}{})
	select {
	case <-broker.FinishedDetector:
	case <-time.After(closeTimeout):
		log.Warn("detector did not finish in time")
	}
	if runErr != nil {
		return fmt.Errorf("editor: %w", runErr)
	}
	return nil
}

func openMIDIInputByPrefix(model *tracker.Model, prefix string) {
	for i, name := range model.MIDIInputs() {
		if strings.HasPrefix(name, prefix) {
			model.OpenMIDIInput(i)
			return
		}
	}
	model.Alerts().Add(fmt.Sprintf("No MIDI input device found with prefix '%s'", prefix), tracker.Warning)
}
