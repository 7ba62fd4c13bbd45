package voice

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Sink speaks a single short announcement.
type Sink interface {
	Say(ctx context.Context, text string) error
}

// CommandSink pipes announcements through an external text-to-speech binary such as espeak.
// The text is passed as the last argument.
type CommandSink struct {
	Command string
	Args    []string
	// Words per minute, passed as "-s <rate>" when positive.
	Rate int
}

func (c CommandSink) Say(ctx context.Context, text string) error {
	args := append([]string{}, c.Args...)
	if c.Rate > 0 {
		args = append(args, "-s", strconv.Itoa(c.Rate))
	}
	args = append(args, text)

	out, err := exec.CommandContext(ctx, c.Command, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", c.Command, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// LogSink writes announcements to the log instead of speaking them.
type LogSink struct {
	Log *logrus.Entry
}

func (l LogSink) Say(_ context.Context, text string) error {
	l.Log.WithField("say", text).Info("voice")
	return nil
}

type NopSink struct{}

func (NopSink) Say(context.Context, string) error { return nil }
