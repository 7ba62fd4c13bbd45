package voice_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/misterclayt0n/repcoach/internal/voice"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingSink struct {
	mu    sync.Mutex
	said  []string
	err   error
	panic bool
}

func (r *recordingSink) Say(_ context.Context, text string) error {
	if r.panic {
		panic("speaker unplugged")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.said = append(r.said, text)
	return r.err
}

func (r *recordingSink) Said() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.said...)
}

type blockingSink struct{}

func (blockingSink) Say(ctx context.Context, _ string) error {
	<-ctx.Done()
	return ctx.Err()
}

func newLog() (*logrus.Entry, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	return logrus.NewEntry(logger), hook
}

func TestDispatcherDeliversAndDrains(t *testing.T) {
	sink := &recordingSink{}
	log, _ := newLog()
	d := voice.NewDispatcher(sink, time.Second, log)

	d.Announce("Stand tall")
	d.Announce("")
	d.Announce("Go deeper!")
	require.NoError(t, d.Close(context.Background()))

	assert.ElementsMatch(t, []string{"Stand tall", "Go deeper!"}, sink.Said())

	d.Announce("after close")
	assert.Len(t, sink.Said(), 2)
}

func TestDispatcherSwallowsSinkFailures(t *testing.T) {
	log, hook := newLog()
	d := voice.NewDispatcher(&recordingSink{err: errors.New("no audio device")}, time.Second, log)

	d.Announce("hello")
	require.NoError(t, d.Close(context.Background()))

	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Data[logrus.ErrorKey].(error).Error(), "no audio device")
}

func TestDispatcherRecoversPanics(t *testing.T) {
	log, hook := newLog()
	d := voice.NewDispatcher(&recordingSink{panic: true}, time.Second, log)

	d.Announce("hello")
	require.NoError(t, d.Close(context.Background()))

	require.Len(t, hook.AllEntries(), 1)
	assert.Contains(t, hook.LastEntry().Data[logrus.ErrorKey].(error).Error(), "speaker unplugged")
}

func TestDispatcherCloseCancelsStuckSink(t *testing.T) {
	log, _ := newLog()
	d := voice.NewDispatcher(blockingSink{}, time.Hour, log)
	d.Announce("this never finishes")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := d.Close(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDispatcherTimeout(t *testing.T) {
	log, hook := newLog()
	d := voice.NewDispatcher(blockingSink{}, 10*time.Millisecond, log)
	d.Announce("slow")
	require.NoError(t, d.Close(context.Background()))

	require.Len(t, hook.AllEntries(), 1)
	assert.ErrorIs(t, hook.LastEntry().Data[logrus.ErrorKey].(error), context.DeadlineExceeded)
}

func TestLogSink(t *testing.T) {
	log, hook := newLog()
	require.NoError(t, voice.LogSink{Log: log}.Say(context.Background(), "One squat done"))
	assert.Equal(t, "One squat done", hook.LastEntry().Data["say"])
	assert.NoError(t, voice.NopSink{}.Say(context.Background(), "x"))
}
