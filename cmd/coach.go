package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/misterclayt0n/repcoach/internal/coach"
	"github.com/misterclayt0n/repcoach/internal/models"
	"github.com/misterclayt0n/repcoach/internal/pose"
	"github.com/misterclayt0n/repcoach/internal/rules"
	"github.com/misterclayt0n/repcoach/internal/utils"
	"github.com/misterclayt0n/repcoach/internal/voice"
)

var (
	coachInput string
	coachMode  string
	coachUser  string
	coachSave  bool
	coachVoice bool
	coachQuiet bool
)

var coachCmd = &cobra.Command{
	Use:   "coach",
	Short: "Replay a recorded pose stream through the coach",
	Long: `Reads a JSON-lines pose recording (one frame of 33 landmarks per line) and coaches it
frame by frame: reps are counted, form feedback and safety alerts are shown and, when voice is
enabled, spoken. The finished run is kept as the pending session until save-session or
cancel-session, or saved right away with --save.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if utils.SessionExists() && !coachSave {
			return fmt.Errorf("a session is already pending; run save-session or cancel-session first")
		}

		table, err := loadTable()
		if err != nil {
			return err
		}

		user := coachUser
		if user == "" {
			user = cfg.Coach.DefaultUser
		}
		mode := coachMode
		if mode == "" {
			mode = cfg.Coach.DefaultMode
		}

		in, source, err := openInput(coachInput)
		if err != nil {
			return err
		}
		defer in.Close()

		log := logrus.WithFields(logrus.Fields{"user": user, "source": source})
		dispatcher := voice.NewDispatcher(voiceSink(cmd, log), cfg.VoiceTimeout(), log)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.VoiceTimeout()+time.Second)
			defer cancel()
			if err := dispatcher.Close(ctx); err != nil {
				log.WithError(err).Warn("voice announcements cut short")
			}
		}()

		sess := coach.NewSession(table, coach.Options{
			User:      user,
			Announcer: dispatcher,
			Cooldown:  cfg.VoiceCooldown(),
			Log:       log,
		})
		if err := sess.SelectMode(mode); err != nil {
			return err
		}

		if err := replay(pose.NewReader(in, time.Now()), sess); err != nil {
			return err
		}

		state := sessionState(sess.Summary(), source)
		printSessionState(state)

		if coachSave {
			st, err := openStorage()
			if err != nil {
				return err
			}
			defer st.Close()

			ctx, cancel := commandContext(cmd)
			defer cancel()
			if _, err := st.SaveSession(ctx, state); err != nil {
				return fmt.Errorf("failed to save session: %w", err)
			}
			fmt.Println("✅ Session saved successfully")
			return nil
		}

		if err := utils.SaveSessionState(state); err != nil {
			return fmt.Errorf("failed to store pending session: %w", err)
		}
		fmt.Println("Run 'repcoach save-session' to keep it or 'repcoach cancel-session' to drop it.")
		return nil
	},
}

func openInput(path string) (io.ReadCloser, string, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), "stdin", nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open pose recording: %w", err)
	}
	return f, path, nil
}

func voiceSink(cmd *cobra.Command, log *logrus.Entry) voice.Sink {
	enabled := cfg.Voice.Enabled
	if cmd.Flags().Changed("voice") {
		enabled = coachVoice
	}
	if !enabled {
		return voice.LogSink{Log: log}
	}
	return voice.CommandSink{Command: cfg.Voice.Command, Args: cfg.Voice.Args, Rate: cfg.Voice.Rate}
}

// replay feeds every record of the recording to the session and renders the overlay whenever
// it changes.
func replay(r *pose.Reader, sess *coach.Session) error {
	view := newOverlayView(os.Stdout, !coachQuiet)
	var last time.Time

	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		switch {
		case rec.Mode != "":
			if err := sess.SelectMode(rec.Mode); err != nil {
				return fmt.Errorf("line %d: %w", rec.Line, err)
			}
		case rec.Control == pose.ControlEmergencyStop:
			sess.EmergencyStop(last)
		case rec.Control == pose.ControlReset:
			sess.ResetCount()
		case rec.Control != "":
			return fmt.Errorf("line %d: unknown control %q", rec.Line, rec.Control)
		default:
			res := sess.Process(rec.Frame)
			last = res.Time
			view.show(res.Overlay)
		}
	}
	view.finish()
	return nil
}

// overlayView prints overlay lines. On a terminal the previous overlay is redrawn in place,
// otherwise each distinct overlay is appended.
type overlayView struct {
	out     *os.File
	enabled bool
	live    bool
	prev    []string
}

func newOverlayView(out *os.File, enabled bool) *overlayView {
	return &overlayView{out: out, enabled: enabled, live: isTerminal(out)}
}

func (v *overlayView) show(lines []string) {
	if !v.enabled || slicesEqual(lines, v.prev) {
		return
	}
	if v.live && len(v.prev) > 0 {
		// Cursor up over the previous overlay, then clear to the end of the screen.
		fmt.Fprintf(v.out, "\033[%dA\033[J", len(v.prev))
	}
	for _, l := range lines {
		if strings.HasPrefix(l, "! ") {
			l = color.New(color.FgRed, color.Bold).Sprint(l)
		}
		fmt.Fprintln(v.out, l)
	}
	if !v.live {
		fmt.Fprintln(v.out)
	}
	v.prev = append(v.prev[:0], lines...)
}

func (v *overlayView) finish() {
	if v.enabled && v.live && len(v.prev) > 0 {
		fmt.Fprintln(v.out)
	}
}

func slicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sessionState(sum coach.Summary, source string) *models.SessionState {
	return &models.SessionState{
		SessionID:      sum.ID,
		Username:       sum.User,
		Source:         source,
		StartTime:      sum.StartedAt,
		EndTime:        sum.EndedAt,
		Frames:         sum.Frames,
		DetectedFrames: sum.DetectedFrames,
		SafetyScore:    sum.SafetyScore,
		Tallies:        sum.Tallies,
		LastMode:       sum.LastMode,
	}
}

func printSessionState(state *models.SessionState) {
	loc, err := cfg.Location()
	if err != nil {
		loc = time.Local
	}

	printBoxedHeader("SESSION")
	printMetric("User", state.Username)
	printMetric("Source", state.Source)
	printMetric("Ended", utils.FormatIn(state.EndTime, loc))
	printMetric("Frames", fmt.Sprintf("%d (%d with a pose)", state.Frames, state.DetectedFrames))
	printMetric("Safety score", fmt.Sprintf("%d/100", state.SafetyScore))
	fmt.Println()

	var rows [][]string
	for _, id := range utils.SortedKeys(state.Tallies) {
		tally := state.Tallies[id]
		rows = append(rows, []string{id, rules.FormatReps(tally), fmt.Sprint(int(tally))})
	}
	if len(rows) == 0 {
		fmt.Println("No reps counted.")
		return
	}
	fmt.Println(renderTable([]string{"Exercise", "Counted", "Saved"}, rows, 2, 3))
}

func init() {
	coachCmd.Flags().StringVarP(&coachInput, "input", "i", "-", "Pose recording (JSON lines), - for stdin")
	coachCmd.Flags().StringVarP(&coachMode, "mode", "m", "", "Exercise mode to start with (see 'repcoach modes')")
	coachCmd.Flags().StringVarP(&coachUser, "user", "u", "", "User the reps are credited to")
	coachCmd.Flags().BoolVar(&coachSave, "save", false, "Save the session right away instead of keeping it pending")
	coachCmd.Flags().BoolVar(&coachVoice, "voice", false, "Speak prompts with the configured text-to-speech command")
	coachCmd.Flags().BoolVarP(&coachQuiet, "quiet", "q", false, "Do not print the overlay while replaying")
	rootCmd.AddCommand(coachCmd)
}
