package standup

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/johnquangdev/standup-assistant/internal/domain/entities"
	"github.com/johnquangdev/standup-assistant/internal/domain/speech"
	usecaseErrors "github.com/johnquangdev/standup-assistant/internal/usecase/errors"
	"github.com/johnquangdev/standup-assistant/internal/usecase/insight"
)

// DefaultTickInterval is how often silence and time limits are checked
const DefaultTickInterval = time.Second

// ControllerOptions configures a Controller
type ControllerOptions struct {
	TeamID       string
	Settings     Settings
	TickInterval time.Duration
	Clock        clock.Clock
	Extractor    *insight.Extractor
	Logger       *zap.Logger
	// OnFinished receives a copy of every completed session. It runs off the event loop.
	OnFinished func(*entities.StandupSession)
}

// command runs on the event loop with exclusive access to the machine
type command func(now time.Time) ([]Effect, error)

type envelope struct {
	cmd   command
	reply chan error
}

// Controller owns one Machine and performs its effects. All machine access
// is serialized through a single event loop goroutine.
type Controller struct {
	teamID     string
	machine    *Machine
	channel    speech.Channel
	clock      clock.Clock
	tick       time.Duration
	logger     *zap.Logger
	onFinished func(*entities.StandupSession)

	events chan envelope
	speech *speechQueue
	active atomic.Bool

	// owned by the event loop
	listenStop speech.StopFunc
	grace      *clock.Timer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	hooks  sync.WaitGroup
}

// NewController creates a controller driving channel. Call Run before sending commands.
func NewController(channel speech.Channel, opts ControllerOptions) *Controller {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.Settings.SilenceWindow <= 0 {
		opts.Settings.SilenceWindow = DefaultSilenceWindow
	}
	manual := !channel.Capabilities().ASR

	return &Controller{
		teamID:     opts.TeamID,
		machine:    NewMachine(opts.Settings, opts.Extractor, manual),
		channel:    channel,
		clock:      opts.Clock,
		tick:       opts.TickInterval,
		logger:     opts.Logger,
		onFinished: opts.OnFinished,
		events:     make(chan envelope),
		speech:     newSpeechQueue(),
	}
}

// Run starts the event loop and the speech worker. They stop when ctx is
// cancelled or Stop is called.
func (c *Controller) Run(ctx context.Context) {
	c.ctx, c.cancel = context.WithCancel(ctx)
	ticker := c.clock.Ticker(c.tick)
	c.wg.Add(2)
	go c.loop(ticker)
	go c.speechWorker()
}

// Stop halts the controller and waits for its goroutines and hooks
func (c *Controller) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	c.hooks.Wait()
}

// Channel returns the speech channel in use
func (c *Controller) Channel() speech.Channel { return c.channel }

// Active reports whether a session is running
func (c *Controller) Active() bool { return c.active.Load() }

// Start begins a session over members
func (c *Controller) Start(members []entities.Member, question entities.Question) error {
	return c.send(Start{TeamID: c.teamID, Members: members, Question: question})
}

// Done finalizes the current answer. Non-empty text is first appended to the
// answer as a final fragment, which is how typed answers arrive.
func (c *Controller) Done(text string) error {
	return c.call(func(now time.Time) ([]Effect, error) {
		var effects []Effect
		if strings.TrimSpace(text) != "" {
			if _, ok := c.machine.State().(Listening); !ok {
				if !isActive(c.machine.State()) {
					return nil, usecaseErrors.ErrNoActiveSession
				}
				return nil, usecaseErrors.ErrInvalidTransition
			}
			fx, err := c.machine.Handle(now, FragmentReceived{Token: c.machine.Token(), Text: text, Final: true})
			if err != nil {
				return nil, err
			}
			effects = fx
		}
		more, err := c.machine.Handle(now, Done{})
		return append(effects, more...), err
	})
}

// End stops the session early
func (c *Controller) End() error {
	return c.send(End{})
}

// Snapshot returns the current state
func (c *Controller) Snapshot() (Snapshot, error) {
	var snap Snapshot
	err := c.call(func(now time.Time) ([]Effect, error) {
		snap = c.machine.Snapshot(now)
		return nil, nil
	})
	return snap, err
}

// Deliver pushes a fragment into the open listen handle. It returns false when
// the channel does not accept pushed fragments or no turn is listening.
func (c *Controller) Deliver(f speech.Fragment) bool {
	feeder, ok := c.channel.(speech.Feeder)
	if !ok {
		return false
	}
	return feeder.Deliver(f)
}

// AckSpeech confirms remote playback of a prompt
func (c *Controller) AckSpeech(speechID string) bool {
	ack, ok := c.channel.(speech.Acknowledger)
	if !ok {
		return false
	}
	return ack.Ack(speechID)
}

func (c *Controller) send(ev Event) error {
	return c.call(func(now time.Time) ([]Effect, error) {
		return c.machine.Handle(now, ev)
	})
}

// call runs cmd on the loop and waits for its result
func (c *Controller) call(cmd command) error {
	if c.ctx == nil {
		return usecaseErrors.ErrControllerStopped
	}
	reply := make(chan error, 1)
	select {
	case c.events <- envelope{cmd: cmd, reply: reply}:
	case <-c.ctx.Done():
		return usecaseErrors.ErrControllerStopped
	}
	select {
	case err := <-reply:
		return err
	case <-c.ctx.Done():
		return usecaseErrors.ErrControllerStopped
	}
}

// post queues an asynchronous event such as a callback from speech or timers
func (c *Controller) post(ev Event) {
	select {
	case c.events <- envelope{cmd: func(now time.Time) ([]Effect, error) { return c.machine.Handle(now, ev) }}:
	case <-c.ctx.Done():
	}
}

func (c *Controller) loop(ticker *clock.Ticker) {
	defer c.wg.Done()
	defer ticker.Stop()
	defer c.teardown()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.dispatch(func(now time.Time) ([]Effect, error) { return c.machine.Handle(now, Tick{}) }, nil)
		case env := <-c.events:
			c.dispatch(env.cmd, env.reply)
		}
	}
}

func (c *Controller) dispatch(cmd command, reply chan error) {
	effects, err := cmd(c.clock.Now())
	c.execute(effects)
	c.active.Store(isActive(c.machine.State()))

	if err != nil && reply == nil {
		if errors.Is(err, usecaseErrors.ErrStaleToken) {
			if c.logger != nil {
				c.logger.Debug("ignored stale callback", zap.String("team_id", c.teamID))
			}
		} else if c.logger != nil {
			c.logger.Warn("⚠️ Standup event rejected", zap.String("team_id", c.teamID), zap.Error(err))
		}
	}
	if reply != nil {
		reply <- err
	}
}

func (c *Controller) execute(effects []Effect) {
	for _, e := range effects {
		switch x := e.(type) {
		case Speak:
			c.speech.push(speakJob{token: x.Token, text: x.Text, purpose: x.Purpose})
		case OpenListen:
			c.openListen(x.Token)
		case CloseListen:
			c.closeListen()
		case CancelSpeech:
			if n := c.speech.cancelAll(); n > 0 && c.logger != nil {
				c.logger.Debug("dropped queued speech", zap.Int("count", n))
			}
		case ScheduleGrace:
			c.stopGrace()
			token := x.Token
			c.grace = c.clock.AfterFunc(x.After, func() { c.post(GraceElapsed{Token: token}) })
		case CancelGrace:
			c.stopGrace()
		case SessionFinished:
			c.finished(x.Session)
		}
	}
}

func (c *Controller) openListen(token uint64) {
	c.closeListen()
	stop, err := c.channel.Listen(c.ctx, func(f speech.Fragment) {
		c.post(FragmentReceived{Token: token, Text: f.Text, Final: f.Final})
	})
	if err != nil {
		if c.logger != nil {
			c.logger.Error("❌ Failed to open listening",
				zap.String("team_id", c.teamID),
				zap.Uint64("token", token),
				zap.Error(err),
			)
		}
		return
	}
	c.listenStop = stop
}

func (c *Controller) closeListen() {
	if c.listenStop != nil {
		c.listenStop()
		c.listenStop = nil
	}
}

func (c *Controller) stopGrace() {
	if c.grace != nil {
		c.grace.Stop()
		c.grace = nil
	}
}

func (c *Controller) finished(session *entities.StandupSession) {
	if c.logger != nil {
		c.logger.Info("✅ Standup completed",
			zap.String("team_id", c.teamID),
			zap.String("session_id", session.ID.String()),
			zap.Int("answered", len(session.Completed)),
			zap.Int("members", len(session.Members)),
		)
	}
	if c.onFinished == nil {
		return
	}
	c.hooks.Add(1)
	go func() {
		defer c.hooks.Done()
		c.onFinished(session)
	}()
}

func (c *Controller) teardown() {
	c.closeListen()
	c.stopGrace()
	c.speech.cancelAll()
}

func (c *Controller) speechWorker() {
	defer c.wg.Done()

	for {
		job, ctx, ok := c.speech.next(c.ctx)
		if !ok {
			select {
			case <-c.speech.notify:
				continue
			case <-c.ctx.Done():
				return
			}
		}

		err := c.channel.Speak(ctx, job.text)
		c.speech.finish()
		if c.ctx.Err() != nil {
			return
		}
		if err != nil && !errors.Is(err, context.Canceled) && c.logger != nil {
			c.logger.Warn("⚠️ Speech failed",
				zap.String("team_id", c.teamID),
				zap.String("purpose", string(job.purpose)),
				zap.Error(err),
			)
		}
		// a failed line still completes so the turn cannot stall
		c.post(SpeechCompleted{Token: job.token, Purpose: job.purpose})
	}
}

type speakJob struct {
	token   uint64
	text    string
	purpose Purpose
}

// speechQueue is the unbounded FIFO between the loop and the speech worker
type speechQueue struct {
	mu      sync.Mutex
	jobs    []speakJob
	current context.CancelFunc
	notify  chan struct{}
}

func newSpeechQueue() *speechQueue {
	return &speechQueue{notify: make(chan struct{}, 1)}
}

func (q *speechQueue) push(job speakJob) {
	q.mu.Lock()
	q.jobs = append(q.jobs, job)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// next pops a job and registers its cancel func in one step, so cancelAll
// sees every job either queued or playing.
func (q *speechQueue) next(parent context.Context) (speakJob, context.Context, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.jobs) == 0 {
		return speakJob{}, nil, false
	}
	job := q.jobs[0]
	q.jobs = q.jobs[1:]
	ctx, cancel := context.WithCancel(parent)
	q.current = cancel
	return job, ctx, true
}

func (q *speechQueue) finish() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.current != nil {
		q.current()
		q.current = nil
	}
}

// cancelAll drops queued jobs and aborts the one playing
func (q *speechQueue) cancelAll() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	dropped := len(q.jobs)
	q.jobs = nil
	if q.current != nil {
		q.current()
		q.current = nil
	}
	return dropped
}
