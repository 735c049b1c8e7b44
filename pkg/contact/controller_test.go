package contact

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/vango-dev/folio/pkg/fieldstore"
	"github.com/vango-dev/folio/pkg/protocol"
	"github.com/vango-dev/folio/pkg/vtest"
)

const visitor = "visitor-1"

type harness struct {
	ctrl  *Controller
	page  *vtest.Page
	clock *ManualClock
	store *fieldstore.MemoryStore
}

func hiddenAtLoad() []string {
	ids := []string{ElementBanner}
	for _, f := range Fields {
		ids = append(ids, f.ErrorElement())
	}
	return ids
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHarness(t *testing.T, store *fieldstore.MemoryStore) *harness {
	t.Helper()
	if store == nil {
		store = fieldstore.NewMemoryStore()
	}
	h := &harness{
		page:  vtest.NewPage(hiddenAtLoad()...),
		clock: NewManualClock(),
		store: store,
	}
	h.ctrl = New(context.Background(), Options{
		Store:     fieldstore.NewBucket(store, visitor),
		Scheduler: h.clock,
		View:      h.page,
		Logger:    quietLogger(),
	})
	t.Cleanup(func() { h.ctrl.Close() })
	return h
}

func validSnapshot() Snapshot {
	return Snapshot{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Subject: "Hello",
		Message: "I would like to work with you.",
	}
}

func (h *harness) stored(t *testing.T) map[string]string {
	t.Helper()
	values, err := h.store.List(context.Background(), visitor)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	return values
}

func TestSubmit_AllValid(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	snap := validSnapshot()
	for _, f := range Fields {
		if err := h.ctrl.Input(ctx, f, snap.Value(f)); err != nil {
			t.Fatalf("Input(%s): %v", f, err)
		}
	}
	if len(h.stored(t)) != 4 {
		t.Fatalf("expected 4 persisted values, got %v", h.stored(t))
	}

	attempt, err := h.ctrl.Submit(ctx, snap)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !attempt.Valid || len(attempt.Errors) != 0 {
		t.Fatalf("attempt = %+v, want valid", attempt)
	}

	for _, f := range Fields {
		if !h.page.HasClass(string(f), ClassSuccess) {
			t.Errorf("%s should be marked success", f)
		}
		if h.page.HasClass(string(f), ClassError) {
			t.Errorf("%s should not be marked error", f)
		}
		if !h.page.Hidden(f.ErrorElement()) {
			t.Errorf("%s should be hidden", f.ErrorElement())
		}
	}

	if h.ctrl.Phase() != PhaseSubmitting {
		t.Errorf("Phase = %v, want submitting", h.ctrl.Phase())
	}
	if h.page.Text(ElementSubmit) != DefaultBusyLabel {
		t.Errorf("submit label = %q, want busy", h.page.Text(ElementSubmit))
	}
	if !h.page.Element(ElementSubmit).Disabled {
		t.Error("submit should be disabled while sending")
	}
	if !h.page.Hidden(ElementBanner) {
		t.Error("banner should stay hidden until completion")
	}

	h.clock.Advance(1499 * time.Millisecond)
	if h.ctrl.Phase() != PhaseSubmitting {
		t.Fatal("completion ran early")
	}

	h.clock.Advance(time.Millisecond)
	if h.ctrl.Phase() != PhaseCooldown {
		t.Fatalf("Phase = %v, want cooldown", h.ctrl.Phase())
	}
	if h.page.Hidden(ElementBanner) {
		t.Error("banner should be visible after completion")
	}
	if h.page.Text(ElementSubmit) != DefaultSubmitLabel {
		t.Errorf("submit label = %q, want %q", h.page.Text(ElementSubmit), DefaultSubmitLabel)
	}
	if h.page.Element(ElementSubmit).Disabled {
		t.Error("submit should be enabled after completion")
	}
	for _, f := range Fields {
		if h.page.Value(string(f)) != "" {
			t.Errorf("%s value = %q, want empty", f, h.page.Value(string(f)))
		}
		if h.page.HasClass(string(f), ClassSuccess) || h.page.HasClass(string(f), ClassError) {
			t.Errorf("%s should be neutral", f)
		}
	}
	if got := h.stored(t); len(got) != 0 {
		t.Errorf("store should be empty, got %v", got)
	}

	h.clock.Advance(4999 * time.Millisecond)
	if h.page.Hidden(ElementBanner) {
		t.Error("banner hidden too early")
	}
	h.clock.Advance(time.Millisecond)
	if !h.page.Hidden(ElementBanner) {
		t.Error("banner should auto-dismiss")
	}
	if h.ctrl.Phase() != PhaseIdle {
		t.Errorf("Phase = %v, want idle", h.ctrl.Phase())
	}
	if h.clock.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", h.clock.Pending())
	}
}

func TestSubmit_OneInvalidField(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	snap := validSnapshot()
	snap.Email = "bad"
	for _, f := range Fields {
		h.ctrl.Input(ctx, f, snap.Value(f))
	}

	attempt, err := h.ctrl.Submit(ctx, snap)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if attempt.Valid {
		t.Fatal("attempt should be invalid")
	}
	if len(attempt.Errors) != 1 || attempt.Errors[0].Field != FieldEmail {
		t.Fatalf("Errors = %+v", attempt.Errors)
	}

	if h.page.Hidden("emailError") {
		t.Error("emailError should be visible")
	}
	if h.page.Text("emailError") != MessageEmail {
		t.Errorf("emailError text = %q", h.page.Text("emailError"))
	}
	if !h.page.HasClass("email", ClassError) {
		t.Error("email should be marked error")
	}
	for _, f := range []FieldID{FieldName, FieldSubject, FieldMessage} {
		if !h.page.HasClass(string(f), ClassSuccess) {
			t.Errorf("%s should be marked success", f)
		}
		if !h.page.Hidden(f.ErrorElement()) {
			t.Errorf("%s should stay hidden", f.ErrorElement())
		}
	}

	if !h.page.Hidden(ElementBanner) {
		t.Error("banner should not be shown")
	}
	if h.ctrl.Phase() != PhaseIdle {
		t.Errorf("Phase = %v, want idle", h.ctrl.Phase())
	}
	if h.clock.Pending() != 0 {
		t.Error("no deferred step should be scheduled")
	}
	if got := h.stored(t); len(got) != 4 || got["form_email"] != "bad" {
		t.Errorf("store should be unchanged, got %v", got)
	}
}

func TestSubmit_EvaluatesEveryField(t *testing.T) {
	h := newHarness(t, nil)

	attempt, err := h.ctrl.Submit(context.Background(), Snapshot{})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(attempt.Errors) != 4 {
		t.Fatalf("Errors = %d, want 4", len(attempt.Errors))
	}
	for i, f := range Fields {
		if attempt.Errors[i].Field != f {
			t.Errorf("Errors[%d].Field = %s, want %s", i, attempt.Errors[i].Field, f)
		}
		if h.page.Text(f.ErrorElement()) != ErrorMessage(f) {
			t.Errorf("%s text = %q", f.ErrorElement(), h.page.Text(f.ErrorElement()))
		}
	}
}

func TestSubmit_ClearsPreviousVerdicts(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	h.ctrl.Submit(ctx, Snapshot{})
	snap := validSnapshot()
	snap.Message = "short"
	h.ctrl.Submit(ctx, snap)

	if !h.page.Hidden("nameError") {
		t.Error("nameError should be hidden after a valid name")
	}
	if h.page.HasClass("name", ClassError) {
		t.Error("name should no longer be marked error")
	}
	if !h.page.HasClass("name", ClassSuccess) {
		t.Error("name should be marked success")
	}
	if h.page.Hidden("messageError") {
		t.Error("messageError should be visible")
	}

	state := h.ctrl.State()
	if state.Fields[FieldName].ErrorVisible {
		t.Error("name error should not be visible in state")
	}
	if got := state.Fields[FieldName].ErrorText; got != "" {
		t.Errorf("name error text = %q, want empty after a valid name", got)
	}
	if !state.Fields[FieldMessage].ErrorVisible || state.Fields[FieldMessage].Visual != VisualError {
		t.Errorf("message state = %+v", state.Fields[FieldMessage])
	}
}

func TestSubmit_RejectedWhileInFlight(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	if _, err := h.ctrl.Submit(ctx, validSnapshot()); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	batches := h.page.Batches()

	_, err := h.ctrl.Submit(ctx, Snapshot{})
	if !errors.Is(err, ErrSubmissionInProgress) {
		t.Fatalf("err = %v, want ErrSubmissionInProgress", err)
	}
	if h.page.Batches() != batches {
		t.Error("rejected submission should not touch the page")
	}

	h.clock.Advance(1500 * time.Millisecond)
	if _, err := h.ctrl.Submit(ctx, validSnapshot()); !errors.Is(err, ErrSubmissionInProgress) {
		t.Fatalf("submit during cooldown: err = %v", err)
	}

	h.clock.Advance(5 * time.Second)
	if _, err := h.ctrl.Submit(ctx, validSnapshot()); err != nil {
		t.Fatalf("submit after cooldown: %v", err)
	}
}

func TestInput_PersistsAndReloadRestores(t *testing.T) {
	store := fieldstore.NewMemoryStore()
	h := newHarness(t, store)
	ctx := context.Background()

	if err := h.ctrl.Input(ctx, FieldName, "A"); err != nil {
		t.Fatalf("Input: %v", err)
	}
	v, ok, err := store.Get(ctx, visitor, "form_name")
	if err != nil || !ok || v != "A" {
		t.Fatalf("form_name = %q, %v, %v", v, ok, err)
	}

	h.ctrl.Close()
	reloaded := newHarness(t, store)
	state := reloaded.ctrl.State()
	if state.Fields[FieldName].Value != "A" {
		t.Errorf("restored name = %q, want A", state.Fields[FieldName].Value)
	}
	if state.Fields[FieldEmail].Value != "" {
		t.Errorf("email should have no restored value, got %q", state.Fields[FieldEmail].Value)
	}

	values, err := LoadValues(ctx, fieldstore.NewBucket(store, visitor))
	if err != nil {
		t.Fatalf("LoadValues: %v", err)
	}
	if _, ok := values[FieldEmail]; ok {
		t.Error("untyped field should have no entry")
	}
}

func TestSubmitThenReload_LeavesStoreEmpty(t *testing.T) {
	store := fieldstore.NewMemoryStore()
	h := newHarness(t, store)
	ctx := context.Background()

	snap := validSnapshot()
	for _, f := range Fields {
		h.ctrl.Input(ctx, f, snap.Value(f))
	}
	h.ctrl.Submit(ctx, snap)
	h.clock.Advance(1500 * time.Millisecond)
	h.ctrl.Close()

	reloaded := newHarness(t, store)
	if got := reloaded.stored(t); len(got) != 0 {
		t.Errorf("store = %v, want empty", got)
	}
	for f, fv := range reloaded.ctrl.State().Fields {
		if fv.Value != "" {
			t.Errorf("%s = %q, want blank", f, fv.Value)
		}
	}
}

func TestBlur(t *testing.T) {
	h := newHarness(t, nil)

	tests := []struct {
		field FieldID
		value string
		want  VisualState
	}{
		{FieldName, "A", VisualError},
		{FieldName, "Ada", VisualSuccess},
		{FieldEmail, "nope", VisualError},
		{FieldEmail, "a@b.c", VisualSuccess},
		{FieldSubject, " x ", VisualSuccess},
		{FieldMessage, "too short", VisualError},
		{FieldMessage, "long enough message", VisualSuccess},
	}

	for _, tt := range tests {
		if err := h.ctrl.Blur(tt.field, tt.value); err != nil {
			t.Fatalf("Blur: %v", err)
		}
		got := h.ctrl.State().Fields[tt.field].Visual
		if got != tt.want {
			t.Errorf("Blur(%s, %q) visual = %v, want %v", tt.field, tt.value, got, tt.want)
		}
		id := string(tt.field)
		if h.page.HasClass(id, ClassError) == h.page.HasClass(id, ClassSuccess) {
			t.Errorf("Blur(%s, %q): classes %v not mutually exclusive", tt.field, tt.value, h.page.Classes(id))
		}
		if !h.page.Hidden(tt.field.ErrorElement()) {
			t.Errorf("Blur(%s) should not reveal error text", tt.field)
		}
	}
}

func TestBlur_EmptyLeavesFieldUnmarked(t *testing.T) {
	h := newHarness(t, nil)

	h.ctrl.Blur(FieldName, "A")
	batches := h.page.Batches()

	h.ctrl.Blur(FieldName, "   ")
	if h.page.Batches() != batches {
		t.Error("blank blur should not emit ops")
	}
	if !h.page.HasClass("name", ClassError) {
		t.Error("earlier verdict should be left in place")
	}
}

func TestInput_UnknownField(t *testing.T) {
	h := newHarness(t, nil)
	if err := h.ctrl.Input(context.Background(), "phone", "1"); err == nil {
		t.Error("expected error for unknown field")
	}
	if err := h.ctrl.Blur("phone", "1"); err == nil {
		t.Error("expected error for unknown field")
	}
}

type failingStore struct {
	*fieldstore.MemoryStore
}

var errBroken = errors.New("broken")

func (failingStore) Set(context.Context, string, string, string) error { return errBroken }

func (failingStore) Delete(context.Context, string, ...string) error { return errBroken }

func (failingStore) List(context.Context, string) (map[string]string, error) {
	return nil, errBroken
}

func TestStoreFailuresDoNotBlockForm(t *testing.T) {
	clock := NewManualClock()
	page := vtest.NewPage(hiddenAtLoad()...)
	ctrl := New(context.Background(), Options{
		Store:     fieldstore.NewBucket(failingStore{fieldstore.NewMemoryStore()}, visitor),
		Scheduler: clock,
		View:      page,
		Logger:    quietLogger(),
	})
	defer ctrl.Close()

	if err := ctrl.Input(context.Background(), FieldName, "Ada"); err != nil {
		t.Fatalf("Input should swallow store errors, got %v", err)
	}
	if ctrl.State().Fields[FieldName].Value != "Ada" {
		t.Error("value should still be recorded")
	}

	if _, err := ctrl.Submit(context.Background(), validSnapshot()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	clock.Advance(1500 * time.Millisecond)
	if page.Hidden(ElementBanner) {
		t.Error("banner should show even if clearing the store fails")
	}
}

func TestClose_CancelsDeferredSteps(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	h.ctrl.Submit(ctx, validSnapshot())
	if h.clock.Pending() != 1 {
		t.Fatalf("Pending = %d, want 1", h.clock.Pending())
	}

	if err := h.ctrl.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if h.clock.Pending() != 0 {
		t.Errorf("Pending after Close = %d, want 0", h.clock.Pending())
	}

	batches := h.page.Batches()
	h.clock.Advance(time.Minute)
	if h.page.Batches() != batches {
		t.Error("no ops should be applied after Close")
	}

	if _, err := h.ctrl.Submit(ctx, validSnapshot()); !errors.Is(err, ErrControllerClosed) {
		t.Errorf("Submit after Close: %v", err)
	}
	if err := h.ctrl.Input(ctx, FieldName, "x"); !errors.Is(err, ErrControllerClosed) {
		t.Errorf("Input after Close: %v", err)
	}
	if err := h.ctrl.Subscribe(true); !errors.Is(err, ErrControllerClosed) {
		t.Errorf("Subscribe after Close: %v", err)
	}
	if err := h.ctrl.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestSubscribe(t *testing.T) {
	var got []bool
	ctrl := New(context.Background(), Options{
		Scheduler:   NewManualClock(),
		Logger:      quietLogger(),
		OnSubscribe: func(checked bool) { got = append(got, checked) },
	})
	defer ctrl.Close()

	ctrl.Subscribe(true)
	ctrl.Subscribe(false)

	if len(got) != 2 || !got[0] || got[1] {
		t.Errorf("OnSubscribe calls = %v", got)
	}
	if ctrl.State().Subscribed {
		t.Error("Subscribed should be false")
	}
}

func TestOnSubmitted(t *testing.T) {
	clock := NewManualClock()
	var done []Attempt
	ctrl := New(context.Background(), Options{
		Scheduler:   clock,
		Logger:      quietLogger(),
		OnSubmitted: func(a Attempt) { done = append(done, a) },
	})
	defer ctrl.Close()

	snap := validSnapshot()
	snap.Subscribe = true
	ctrl.Submit(context.Background(), snap)
	if len(done) != 0 {
		t.Fatal("OnSubmitted ran before completion")
	}
	clock.Advance(1500 * time.Millisecond)
	if len(done) != 1 || !done[0].Snapshot.Subscribe {
		t.Fatalf("OnSubmitted calls = %+v", done)
	}
	if ctrl.State().Subscribed {
		t.Error("subscribe box should reset after completion")
	}
}

func TestPhaseString(t *testing.T) {
	tests := map[Phase]string{
		PhaseIdle:       "idle",
		PhaseValidating: "validating",
		PhaseSubmitting: "submitting",
		PhaseCooldown:   "cooldown",
	}
	for p, want := range tests {
		if p.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(p), p.String(), want)
		}
	}
}

func TestClose_FinishesAcceptedSubmissionInStore(t *testing.T) {
	store := fieldstore.NewMemoryStore()
	h := newHarness(t, store)
	ctx := context.Background()

	snap := validSnapshot()
	for _, f := range Fields {
		h.ctrl.Input(ctx, f, snap.Value(f))
	}
	if _, err := h.ctrl.Submit(ctx, snap); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got := h.stored(t); len(got) != 4 {
		t.Fatalf("stored before Close = %v", got)
	}

	batches := h.page.Batches()
	h.ctrl.Close()
	if got := h.stored(t); len(got) != 0 {
		t.Errorf("stored after Close = %v, want empty", got)
	}
	if h.page.Batches() != batches {
		t.Error("Close should not draw")
	}
}

func TestClose_InvalidSubmissionKeepsStore(t *testing.T) {
	store := fieldstore.NewMemoryStore()
	h := newHarness(t, store)
	ctx := context.Background()

	h.ctrl.Input(ctx, FieldName, "A")
	h.ctrl.Submit(ctx, Snapshot{Name: "A"})
	h.ctrl.Close()

	if got := h.stored(t); got["form_name"] != "A" {
		t.Errorf("stored = %v, want form_name kept", got)
	}
}

func TestSync(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	// A page left over from a dropped session: busy button, banner up.
	stale := vtest.NewPage()
	stale.Apply(
		protocol.SetText(ElementSubmit, DefaultBusyLabel),
		protocol.SetDisabled(ElementSubmit, true),
		protocol.AddClass(ElementSubmit, ClassLoading),
		protocol.Show(ElementBanner),
	)
	ctrl := New(ctx, Options{Scheduler: h.clock, View: stale, Logger: quietLogger()})
	defer ctrl.Close()

	if err := ctrl.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if got := stale.Text(ElementSubmit); got != DefaultSubmitLabel {
		t.Errorf("label = %q, want %q", got, DefaultSubmitLabel)
	}
	if stale.Element(ElementSubmit).Disabled || stale.HasClass(ElementSubmit, ClassLoading) {
		t.Error("submit button should be enabled and not loading")
	}
	if !stale.Hidden(ElementBanner) {
		t.Error("banner should be hidden")
	}

	// While sending, Sync draws the busy state.
	h.ctrl.Submit(ctx, validSnapshot())
	h.ctrl.Sync()
	if got := h.page.Text(ElementSubmit); got != DefaultBusyLabel || !h.page.Element(ElementSubmit).Disabled {
		t.Errorf("busy sync: label = %q disabled = %v", got, h.page.Element(ElementSubmit).Disabled)
	}

	ctrl.Close()
	if err := ctrl.Sync(); !errors.Is(err, ErrControllerClosed) {
		t.Errorf("Sync after Close: %v", err)
	}
}

// slowStore blocks writes until the caller's context ends and calls
// onDelete before deleting.
type slowStore struct {
	*fieldstore.MemoryStore
	hadDeadline bool
	onDelete    func()
}

func (s *slowStore) Set(ctx context.Context, scope, key, value string) error {
	_, s.hadDeadline = ctx.Deadline()
	<-ctx.Done()
	return ctx.Err()
}

func (s *slowStore) Delete(ctx context.Context, scope string, keys ...string) error {
	if s.onDelete != nil {
		s.onDelete()
	}
	return s.MemoryStore.Delete(ctx, scope, keys...)
}

func TestInput_StoreCallIsBounded(t *testing.T) {
	store := &slowStore{MemoryStore: fieldstore.NewMemoryStore()}
	ctrl := New(context.Background(), Options{
		Store:        fieldstore.NewBucket(store, visitor),
		Scheduler:    NewManualClock(),
		Logger:       quietLogger(),
		StoreTimeout: 20 * time.Millisecond,
	})
	defer ctrl.Close()

	done := make(chan error, 1)
	go func() { done <- ctrl.Input(context.Background(), FieldName, "Ada") }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Input: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Input blocked on a hung store")
	}
	if !store.hadDeadline {
		t.Error("store write should carry a deadline")
	}
	if ctrl.State().Fields[FieldName].Value != "Ada" {
		t.Error("value should be recorded even when the store hangs")
	}
}

func TestComplete_ClearsStoreOutsideLock(t *testing.T) {
	clock := NewManualClock()
	store := &slowStore{MemoryStore: fieldstore.NewMemoryStore()}
	var ctrl *Controller
	var phase Phase
	store.onDelete = func() { phase = ctrl.Phase() }

	ctrl = New(context.Background(), Options{
		Store:     fieldstore.NewBucket(store, visitor),
		Scheduler: clock,
		Logger:    quietLogger(),
	})
	defer ctrl.Close()

	ctrl.Submit(context.Background(), validSnapshot())

	done := make(chan struct{})
	go func() {
		clock.Advance(1500 * time.Millisecond)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("completion deadlocked while clearing the store")
	}
	if phase != PhaseCooldown {
		t.Errorf("phase seen by the store = %v, want cooldown", phase)
	}
}
