package voice

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const DefaultTimeout = 10 * time.Second

// Dispatcher hands announcements to a sink without blocking the caller. Each announcement runs
// on its own goroutine bounded by a timeout; failures are logged and dropped.
type Dispatcher struct {
	sink    Sink
	timeout time.Duration
	log     *logrus.Entry

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewDispatcher(sink Sink, timeout time.Duration, log *logrus.Entry) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		sink:    sink,
		timeout: timeout,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Announce returns immediately. Announcements after Close are ignored.
func (d *Dispatcher) Announce(text string) {
	if text == "" {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.say(text); err != nil {
			d.log.WithError(err).WithField("say", text).Warn("voice announcement failed")
		}
	}()
}

func (d *Dispatcher) say(text string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("voice sink panicked: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(d.ctx, d.timeout)
	defer cancel()
	return d.sink.Say(ctx, text)
}

// Close waits for in-flight announcements. When ctx ends first the remaining ones are
// cancelled and Close still waits for their goroutines to return.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}
