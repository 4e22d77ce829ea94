package main

import (
	"fmt"

	"github.com/rollseq/rollseq/oto"
	"github.com/rollseq/rollseq/tracker"
	"github.com/spf13/cobra"
)

func init() {
	addSynthFlags(playCmd)
	playCmd.Flags().String("loop", "", "loop the region start:end, given in 1/32 notes, until interrupted")
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play file",
	Short: "Play a song through the audio device",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	prefs, err := loadPreferences(cmd, configDir())
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
	loopFlag, _ := cmd.Flags().GetString("loop")
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
	audioContext, err := oto.NewContext(prefs.SampleRate)
	if err != nil {
		return err
	}
	defer audioContext.Close()
	broker := tracker.NewBroker()
	player := tracker.NewPlayer(broker, tracker.NewScoreHandle(score), synth, prefs.SampleRate)
	player.SetGain(prefs.Gain)
	player.SetLoop(loop)
	if start, _, ok := loop.Bounds(); ok {
		player.SetTimeB32(start)
	}
	player.Play()
	stream, err := audioContext.Play(player.Process)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "playing %s: %d notes at %d bpm\n", args[0], score.Len(), score.BPM)
	waitUntilStopped(cmd, broker)
	if err := stream.Close(); err != nil {
		return err
	}
	stream.Wait()
	return nil
}

// waitUntilStopped returns when the player reports that it stopped at the end
// of the song, or when the command is interrupted.
func waitUntilStopped(cmd *cobra.Command, broker *tracker.Broker) {
	for {
		select {
		case <-cmd.Context().Done():
			return
		case msg := <-broker.ToModel:
			if msg.HasBeat && msg.PlayState == tracker.Stopped {
				return
			}
		}
	}
}
