package rollseq

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// ParseError is returned by ReadScore when a line of a song file cannot be
// parsed. Use errors.Cause to get at it through the wrapping.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

const bpmHeader = "BPM:"

// ReadScore parses a song file:
//
//	BPM: 120
//	0: C4-8 E4-8 G4-8
//	8: As3-16
//
// The header line comes first, followed by one line per onset listing the
// notes starting at that onset as <tone><octave>-<duration>. Blank lines and
// lines starting with '#' are skipped. Notes are added with InsertOrRemove, so
// a note listed twice toggles back off.
func ReadScore(r io.Reader) (*Score, error) {
	scanner := bufio.NewScanner(r)
	var score *Score
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if score == nil {
			bpm, err := parseHeader(line)
			if err != nil {
				return nil, errors.WithStack(&ParseError{Line: lineNo, Msg: err.Error()})
			}
			score = NewScore(bpm)
			continue
		}
		if err := parseOnsetLine(score, line); err != nil {
			return nil, errors.WithStack(&ParseError{Line: lineNo, Msg: err.Error()})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading song file")
	}
	if score == nil {
		return nil, errors.WithStack(&ParseError{Line: lineNo, Msg: "missing BPM header"})
	}
	return score, nil
}

func parseHeader(line string) (int, error) {
	rest, ok := strings.CutPrefix(line, bpmHeader)
	if !ok {
		return 0, errors.Errorf("expected %q header, got %q", bpmHeader, line)
	}
	bpm, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return 0, errors.Errorf("invalid BPM %q", strings.TrimSpace(rest))
	}
	if bpm <= 0 {
		return 0, errors.Errorf("BPM must be positive, got %d", bpm)
	}
	return bpm, nil
}

func parseOnsetLine(score *Score, line string) error {
	onsetStr, notesStr, ok := strings.Cut(line, ":")
	if !ok {
		return errors.Errorf("expected <onset>: <notes>, got %q", line)
	}
	onset, err := strconv.Atoi(strings.TrimSpace(onsetStr))
	if err != nil || onset < 0 {
		return errors.Errorf("invalid onset %q", strings.TrimSpace(onsetStr))
	}
	for _, field := range strings.Fields(notesStr) {
		pitch, duration, err := parseNoteToken(field)
		if err != nil {
			return err
		}
		score.InsertOrRemove(pitch, onset, duration)
	}
	return nil
}

func parseNoteToken(token string) (Pitch, int, error) {
	pitchStr, durStr, ok := strings.Cut(token, "-")
	if !ok {
		return Pitch{}, 0, errors.Errorf("note %q: missing duration", token)
	}
	pitch, ok := ParsePitch(pitchStr)
	if !ok {
		return Pitch{}, 0, errors.Errorf("note %q: invalid pitch %q", token, pitchStr)
	}
	duration, err := strconv.Atoi(durStr)
	if err != nil || duration < 1 {
		return Pitch{}, 0, errors.Errorf("note %q: invalid duration %q", token, durStr)
	}
	return pitch, duration, nil
}

// WriteScore writes the score in the format read by ReadScore, onsets in
// ascending order and the notes of an onset from low to high.
func WriteScore(w io.Writer, s *Score) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s %d\n", bpmHeader, s.BPM)
	for _, onset := range s.Onsets() {
		notes := s.NotesStartingAt(onset)
		slices.SortFunc(notes, compareNotes)
		tokens := make([]string, 0, len(notes))
		for _, n := range notes {
			tokens = append(tokens, fmt.Sprintf("%s-%d", n.Pitch.FileString(), n.Duration))
		}
		fmt.Fprintf(bw, "%d: %s\n", onset, strings.Join(tokens, " "))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing song file: %w", err)
	}
	return nil
}
