package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/vango-dev/folio/pkg/fieldstore"
	"github.com/vango-dev/folio/pkg/protocol"
)

var (
	// ErrSubmissionInProgress is returned by Submit while an earlier
	// submission has not returned to Idle.
	ErrSubmissionInProgress = errors.New("contact: submission in progress")

	// ErrControllerClosed is returned by operations after Close.
	ErrControllerClosed = errors.New("contact: controller is closed")
)

// Phase is the submission state of a Controller.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseSubmitting
	PhaseCooldown
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseSubmitting:
		return "submitting"
	case PhaseCooldown:
		return "cooldown"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// View receives the patch operations produced by the controller.
type View interface {
	Apply(ops ...protocol.Op)
}

// ViewFunc adapts a function to View.
type ViewFunc func(ops ...protocol.Op)

func (f ViewFunc) Apply(ops ...protocol.Op) { f(ops...) }

type discardView struct{}

func (discardView) Apply(...protocol.Op) {}

// Attempt is the outcome of one Submit call.
type Attempt struct {
	Snapshot Snapshot
	Valid    bool
	Errors   []FieldValidationError
}

// Options configures a Controller.
type Options struct {
	// Store persists in-progress field values. Nil disables persistence.
	Store *fieldstore.Bucket

	// Scheduler runs the deferred submission steps.
	// Default: SystemScheduler.
	Scheduler Scheduler

	// View receives patch operations. Default: discards them.
	View View

	// Logger defaults to slog.Default().With("component", "contact").
	Logger *slog.Logger

	// SubmitDelay is the simulated submission latency. Default: 1.5s.
	SubmitDelay time.Duration

	// BannerDuration is how long the success banner stays visible.
	// Default: 5s.
	BannerDuration time.Duration

	// StoreTimeout bounds store calls made from deferred steps.
	// Default: 2s.
	StoreTimeout time.Duration

	// SubmitLabel and BusyLabel are the submit button texts.
	SubmitLabel string
	BusyLabel   string

	// OnSubmitted is called after a submission completes.
	OnSubmitted func(Attempt)

	// OnSubscribe is called when the subscribe box changes.
	OnSubscribe func(checked bool)
}

func (o *Options) setDefaults() {
	if o.Scheduler == nil {
		o.Scheduler = SystemScheduler{}
	}
	if o.View == nil {
		o.View = discardView{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default().With("component", "contact")
	}
	if o.SubmitDelay == 0 {
		o.SubmitDelay = 1500 * time.Millisecond
	}
	if o.BannerDuration == 0 {
		o.BannerDuration = 5 * time.Second
	}
	if o.StoreTimeout == 0 {
		o.StoreTimeout = 2 * time.Second
	}
	if o.SubmitLabel == "" {
		o.SubmitLabel = DefaultSubmitLabel
	}
	if o.BusyLabel == "" {
		o.BusyLabel = DefaultBusyLabel
	}
}

type fieldState struct {
	value        string
	visual       VisualState
	errorText    string
	errorVisible bool
}

// FieldView is a read-only copy of one field's state.
type FieldView struct {
	Value        string
	Visual       VisualState
	ErrorText    string
	ErrorVisible bool
}

// State is a read-only copy of the controller state.
type State struct {
	Phase         Phase
	Fields        map[FieldID]FieldView
	Subscribed    bool
	SubmitLabel   string
	SubmitEnabled bool
	BannerVisible bool
}

// Controller owns the contact form of one open page.
//
// All methods are safe for concurrent use, but View.Apply calls are only
// ordered when the caller serializes events, as a session event loop does.
type Controller struct {
	mu sync.Mutex

	opts   Options
	logger *slog.Logger

	fields        map[FieldID]*fieldState
	subscribed    bool
	phase         Phase
	label         string
	bannerVisible bool
	pending       []Timer
	closed        bool
}

// New creates a controller and restores persisted field values from
// opts.Store. A failing store is logged and leaves the fields empty.
func New(ctx context.Context, opts Options) *Controller {
	opts.setDefaults()
	c := &Controller{
		opts:   opts,
		logger: opts.Logger,
		fields: make(map[FieldID]*fieldState, len(Fields)),
		label:  opts.SubmitLabel,
	}
	for _, f := range Fields {
		c.fields[f] = &fieldState{}
	}

	values, err := LoadValues(ctx, opts.Store)
	if err != nil {
		c.logger.Warn("restore form values failed", "error", err)
	}
	for f, v := range values {
		c.fields[f].value = v
	}
	return c
}

// LoadValues returns the persisted value of every field that has one.
// A nil bucket yields no values.
func LoadValues(ctx context.Context, bucket *fieldstore.Bucket) (map[FieldID]string, error) {
	out := make(map[FieldID]string, len(Fields))
	if bucket == nil {
		return out, nil
	}
	stored, err := bucket.List(ctx)
	if err != nil {
		return out, fmt.Errorf("contact: load values: %w", err)
	}
	for _, f := range Fields {
		if v, ok := stored[f.StorageKey()]; ok {
			out[f] = v
		}
	}
	return out, nil
}

// Input records a keystroke and persists the value regardless of validity.
func (c *Controller) Input(ctx context.Context, f FieldID, value string) error {
	if !f.Valid() {
		return fmt.Errorf("contact: unknown field %q", f)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrControllerClosed
	}
	c.fields[f].value = value
	c.mu.Unlock()

	if c.opts.Store == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, c.opts.StoreTimeout)
	defer cancel()
	if err := c.opts.Store.Set(ctx, f.StorageKey(), value); err != nil {
		c.logger.Warn("persist field failed", "field", f, "error", err)
	}
	return nil
}

// Blur marks a non-empty field as error or success. Empty fields and error
// text are left untouched.
func (c *Controller) Blur(f FieldID, value string) error {
	if !f.Valid() {
		return fmt.Errorf("contact: unknown field %q", f)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrControllerClosed
	}

	st := c.fields[f]
	st.value = value
	var ops []protocol.Op
	if strings.TrimSpace(value) != "" {
		next := VisualSuccess
		if !ValidateField(f, value) {
			next = VisualError
		}
		st.visual = next
		ops = append(ops,
			protocol.RemoveClass(string(f), ClassError, ClassSuccess),
			protocol.AddClass(string(f), next.Class()),
		)
	}
	c.mu.Unlock()

	c.apply(ops)
	return nil
}

// Submit runs the validation pass for snap and, if every field is valid,
// starts the simulated submission.
//
// It returns ErrSubmissionInProgress without touching the page if a previous
// submission has not finished its cooldown.
func (c *Controller) Submit(ctx context.Context, snap Snapshot) (*Attempt, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrControllerClosed
	}
	if c.phase != PhaseIdle {
		phase := c.phase
		c.mu.Unlock()
		c.logger.Debug("submit rejected", "phase", phase)
		return nil, ErrSubmissionInProgress
	}
	c.phase = PhaseValidating
	c.subscribed = snap.Subscribe

	ops := make([]protocol.Op, 0, 4*len(Fields)+3)
	for _, f := range Fields {
		st := c.fields[f]
		st.errorText = ""
		st.errorVisible = false
		st.visual = VisualNeutral
		ops = append(ops,
			protocol.Hide(f.ErrorElement()),
			protocol.RemoveClass(string(f), ClassError, ClassSuccess),
		)
	}

	attempt := &Attempt{Snapshot: snap, Valid: true}
	for _, f := range Fields {
		st := c.fields[f]
		st.value = snap.Value(f)
		if ferr := CheckField(f, st.value); ferr != nil {
			st.visual = VisualError
			st.errorText = ferr.Message
			st.errorVisible = true
			attempt.Valid = false
			attempt.Errors = append(attempt.Errors, *ferr)
			ops = append(ops,
				protocol.SetText(f.ErrorElement(), ferr.Message),
				protocol.Show(f.ErrorElement()),
				protocol.AddClass(string(f), ClassError),
			)
			continue
		}
		st.visual = VisualSuccess
		ops = append(ops, protocol.AddClass(string(f), ClassSuccess))
	}

	if !attempt.Valid {
		c.phase = PhaseIdle
		c.mu.Unlock()
		c.logger.Debug("submit invalid", "errors", len(attempt.Errors))
		c.apply(ops)
		return attempt, nil
	}

	c.phase = PhaseSubmitting
	c.label = c.opts.BusyLabel
	ops = append(ops,
		protocol.SetText(ElementSubmit, c.opts.BusyLabel),
		protocol.AddClass(ElementSubmit, ClassLoading),
		protocol.SetDisabled(ElementSubmit, true),
	)
	done := *attempt
	c.scheduleLocked(c.opts.SubmitDelay, func() { c.complete(done) })
	c.mu.Unlock()

	c.apply(ops)
	return attempt, nil
}

// complete finishes a submission: banner shown, form reset, store cleared.
func (c *Controller) complete(attempt Attempt) {
	c.mu.Lock()
	if c.closed || c.phase != PhaseSubmitting {
		c.mu.Unlock()
		return
	}

	ops := []protocol.Op{protocol.Show(ElementBanner)}
	for _, f := range Fields {
		*c.fields[f] = fieldState{}
		ops = append(ops,
			protocol.SetValue(string(f), ""),
			protocol.RemoveClass(string(f), ClassError, ClassSuccess),
		)
	}
	c.subscribed = false
	c.label = c.opts.SubmitLabel
	ops = append(ops,
		protocol.SetChecked(ElementSubscribe, false),
		protocol.SetText(ElementSubmit, c.opts.SubmitLabel),
		protocol.RemoveClass(ElementSubmit, ClassLoading),
		protocol.SetDisabled(ElementSubmit, false),
	)

	c.bannerVisible = true
	c.phase = PhaseCooldown
	c.scheduleLocked(c.opts.BannerDuration, c.dismiss)
	c.mu.Unlock()

	c.clearStore()
	c.logger.Info("contact form submitted", "subscribe", attempt.Snapshot.Subscribe)
	c.apply(ops)
	if c.opts.OnSubmitted != nil {
		c.opts.OnSubmitted(attempt)
	}
}

// clearStore deletes every persisted field value.
func (c *Controller) clearStore() {
	if c.opts.Store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.opts.StoreTimeout)
	defer cancel()
	if err := c.opts.Store.Delete(ctx, StorageKeys()...); err != nil {
		c.logger.Warn("clear form values failed", "error", err)
	}
}

// dismiss hides the banner and returns the controller to Idle.
func (c *Controller) dismiss() {
	c.mu.Lock()
	if c.closed || c.phase != PhaseCooldown {
		c.mu.Unlock()
		return
	}
	c.bannerVisible = false
	c.phase = PhaseIdle
	c.pending = nil
	c.mu.Unlock()

	c.apply([]protocol.Op{protocol.Hide(ElementBanner)})
}

// Subscribe records the newsletter checkbox.
func (c *Controller) Subscribe(checked bool) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrControllerClosed
	}
	c.subscribed = checked
	c.mu.Unlock()

	if checked {
		c.logger.Info("visitor subscribed to newsletter")
	}
	if c.opts.OnSubscribe != nil {
		c.opts.OnSubscribe(checked)
	}
	return nil
}

// Sync re-sends the submit button and banner state. A page reconnecting
// after a dropped socket may still show what an earlier controller drew.
func (c *Controller) Sync() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrControllerClosed
	}
	busy := c.phase == PhaseSubmitting
	ops := []protocol.Op{
		protocol.SetText(ElementSubmit, c.label),
		protocol.SetDisabled(ElementSubmit, busy),
	}
	if busy {
		ops = append(ops, protocol.AddClass(ElementSubmit, ClassLoading))
	} else {
		ops = append(ops, protocol.RemoveClass(ElementSubmit, ClassLoading))
	}
	if c.bannerVisible {
		ops = append(ops, protocol.Show(ElementBanner))
	} else {
		ops = append(ops, protocol.Hide(ElementBanner))
	}
	c.mu.Unlock()

	c.apply(ops)
	return nil
}

// State returns a copy of the current form state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{
		Phase:         c.phase,
		Fields:        make(map[FieldID]FieldView, len(c.fields)),
		Subscribed:    c.subscribed,
		SubmitLabel:   c.label,
		SubmitEnabled: c.phase != PhaseSubmitting,
		BannerVisible: c.bannerVisible,
	}
	for f, st := range c.fields {
		s.Fields[f] = FieldView{
			Value:        st.value,
			Visual:       st.visual,
			ErrorText:    st.errorText,
			ErrorVisible: st.errorVisible,
		}
	}
	return s
}

// Phase returns the current submission phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Close cancels pending deferred steps. Later calls return
// ErrControllerClosed. Close is idempotent.
//
// An accepted submission still waiting for its delay is completed in the
// store: the persisted values are cleared, though nothing is drawn.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	for _, t := range c.pending {
		t.Stop()
	}
	c.pending = nil
	inFlight := c.phase == PhaseSubmitting
	c.mu.Unlock()

	if inFlight {
		c.clearStore()
		c.logger.Info("contact form submitted", "detached", true)
	}
	return nil
}

func (c *Controller) scheduleLocked(d time.Duration, f func()) {
	c.pending = append(c.pending, c.opts.Scheduler.AfterFunc(d, f))
}

func (c *Controller) apply(ops []protocol.Op) {
	if len(ops) == 0 {
		return
	}
	c.opts.View.Apply(ops...)
}
