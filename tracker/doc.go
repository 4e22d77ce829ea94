/*
Package tracker contains the editing session of the rollseq piano roll: the
Model holding the cursor, loop markers, viewport and selection buffer, and the
Player turning the shared score into audio.

The front-end does not modify the Model directly. Every user command is an
Action, which can be checked with Enabled and executed with Do. For example,
model.ToggleNote() returns the Action toggling a note under the cursor, and
model.Do(ToggleNote) is the same by the command name used in key bindings.

The Model runs on the front-end goroutine and the Player on the audio
goroutine. They share the score through a ScoreHandle and talk through the
Broker: the Player reports beats and the Detector reports levels to the
Model, which reads them in ProcessMsg.
*/
package tracker
