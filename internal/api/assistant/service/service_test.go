package assistantService

import (
	"EllaBooking/internal/api/assistant"
	assistantRepository "EllaBooking/internal/api/assistant/repository"
	"EllaBooking/internal/entity"
	"EllaBooking/pkg/bcrypt"
	"EllaBooking/pkg/queue"
	"EllaBooking/pkg/utils"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var fixedNow = time.Date(2024, time.January, 3, 10, 0, 0, 0, time.UTC)

var walkthrough = []string{
	"book", "guest", "deep", "house", "3", "2.5",
	"kitchen", "done rooms", "1",
	"windows", "done addons",
	"tomorrow", "morning", "weekly",
	"yes", "dog", "done pets", "no",
	"gate code 1234", "credit", "tip 15",
	"confirm",
}

type memoryDB struct {
	mu           sync.Mutex
	sessions     map[string]entity.ChatSession
	messages     map[string][]entity.Message
	bookings     []entity.Booking
	failBookings bool

	// onHistory runs before every transcript read, outside the lock.
	onHistory func()
}

func newMemoryDB() *memoryDB {
	return &memoryDB{
		sessions: make(map[string]entity.ChatSession),
		messages: make(map[string][]entity.Message),
	}
}

type fakeRepo struct{ db *memoryDB }

func (r *fakeRepo) NewClient(tx bool) (assistantRepository.Client, error) {
	noop := func() error { return nil }
	return assistantRepository.Client{
		Bookings: &fakeBookings{db: r.db},
		Messages: &fakeMessages{db: r.db},
		Sessions: &fakeSessions{db: r.db},
		Commit:   noop,
		Rollback: noop,
	}, nil
}

type fakeBookings struct{ db *memoryDB }

func (f *fakeBookings) CreateBooking(ctx context.Context, booking entity.Booking) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.failBookings {
		return errors.New("insert failed")
	}
	f.db.bookings = append(f.db.bookings, booking)
	return nil
}

func (f *fakeBookings) GetBookingByID(ctx context.Context, id string) (entity.Booking, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, b := range f.db.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return entity.Booking{}, assistant.ErrBookingNotFound
}

func (f *fakeBookings) GetBookingsByUserID(ctx context.Context, userID string, limit, offset int) ([]entity.Booking, int, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []entity.Booking
	for _, b := range f.db.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	total := len(out)
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

type fakeMessages struct{ db *memoryDB }

func (f *fakeMessages) CreateMessage(ctx context.Context, message entity.Message) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.messages[message.SessionID] = append(f.db.messages[message.SessionID], message)
	return nil
}

func (f *fakeMessages) GetMessagesBySessionID(ctx context.Context, sessionID string) ([]entity.Message, error) {
	if f.db.onHistory != nil {
		f.db.onHistory()
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return append([]entity.Message(nil), f.db.messages[sessionID]...), nil
}

type fakeSessions struct{ db *memoryDB }

func (f *fakeSessions) CreateSession(ctx context.Context, session entity.ChatSession) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.sessions[session.ID] = session
	return nil
}

func (f *fakeSessions) GetSessionByID(ctx context.Context, id string) (entity.ChatSession, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	s, ok := f.db.sessions[id]
	if !ok {
		return entity.ChatSession{}, assistant.ErrSessionNotFound
	}
	return s, nil
}

func (f *fakeSessions) TouchSession(ctx context.Context, id string, at time.Time) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	s, ok := f.db.sessions[id]
	if !ok {
		return assistant.ErrSessionNotFound
	}
	s.LastActivity = at
	f.db.sessions[id] = s
	return nil
}

func (f *fakeSessions) CloseSession(ctx context.Context, id string, at time.Time) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	s, ok := f.db.sessions[id]
	if !ok {
		return assistant.ErrSessionNotFound
	}
	s.ClosedAt = &at
	f.db.sessions[id] = s
	return nil
}

type fakeStore struct {
	mu     sync.Mutex
	states map[string]entity.ConversationState
}

func newFakeStore() *fakeStore {
	return &fakeStore{states: make(map[string]entity.ConversationState)}
}

func (f *fakeStore) SaveState(ctx context.Context, sessionID string, state entity.ConversationState, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[sessionID] = state
	return nil
}

func (f *fakeStore) GetState(ctx context.Context, sessionID string) (entity.ConversationState, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.states[sessionID]
	return s, ok, nil
}

func (f *fakeStore) DeleteState(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.states, sessionID)
	return nil
}

func (f *fakeStore) Close() error { return nil }

type fakePublisher struct {
	mu     sync.Mutex
	events []queue.BookingConfirmedEvent
	err    error
}

func (f *fakePublisher) PublishBookingConfirmed(ctx context.Context, event queue.BookingConfirmedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

type fakeMailer struct {
	mu   sync.Mutex
	sent []entity.Booking
	err  error
}

func (f *fakeMailer) SendBookingConfirmation(booking entity.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, booking)
	return nil
}

type fixture struct {
	svc       IAssistantService
	db        *memoryDB
	store     *fakeStore
	publisher *fakePublisher
	mailer    *fakeMailer
}

func newFixture(t *testing.T, delay time.Duration, opts ...Option) *fixture {
	t.Helper()
	return newFixtureWith(t, newMemoryDB(), newFakeStore(), delay, opts...)
}

func newFixtureWith(t *testing.T, db *memoryDB, store *fakeStore, delay time.Duration, opts ...Option) *fixture {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	f := &fixture{
		db:        db,
		store:     store,
		publisher: &fakePublisher{},
		mailer:    &fakeMailer{},
	}

	cfg := DefaultConfig()
	cfg.TypingDelay = delay
	cfg.HandoffTimeout = time.Second

	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	f.svc = NewAssistantService(log, &fakeRepo{db: db}, store, f.publisher, f.mailer,
		bcrypt.NewWithCost(4), utils.New(), cfg, opts...)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = f.svc.Shutdown(ctx)
	})
	return f
}

func (f *fixture) start(t *testing.T) string {
	t.Helper()
	resp, err := f.svc.StartSession(context.Background(), assistant.StartSessionRequest{UserID: "user-1"})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	return resp.SessionID
}

func (f *fixture) say(t *testing.T, sessionID string, inputs ...string) {
	t.Helper()
	for _, in := range inputs {
		if _, err := f.svc.SubmitUserInput(context.Background(), sessionID, in); err != nil {
			t.Fatalf("SubmitUserInput(%q): %v", in, err)
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := f.svc.WaitIdle(ctx, sessionID); err != nil {
		t.Fatalf("WaitIdle: %v", err)
	}
}

func (f *fixture) transcript(t *testing.T, sessionID string) []entity.Message {
	t.Helper()
	resp, err := f.svc.GetTranscript(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("GetTranscript: %v", err)
	}
	return resp.Messages
}

func TestStartSessionGreets(t *testing.T) {
	f := newFixture(t, 0)

	resp, err := f.svc.StartSession(context.Background(), assistant.StartSessionRequest{Channel: "cli"})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if _, err := uuid.Parse(resp.SessionID); err != nil {
		t.Fatalf("session id %q is not a uuid", resp.SessionID)
	}
	if len(resp.Transcript) != 1 || resp.Transcript[0].Role != entity.RoleAssistant {
		t.Fatalf("transcript = %+v, want one greeting", resp.Transcript)
	}
	if resp.State.CurrentStep != entity.StepIdle {
		t.Fatalf("step = %q", resp.State.CurrentStep)
	}
	if got := f.db.sessions[resp.SessionID].Channel; got != entity.ChannelCLI {
		t.Fatalf("channel = %v", got)
	}
	if _, ok := f.store.states[resp.SessionID]; !ok {
		t.Fatal("initial state was not saved")
	}
}

func TestTurnsAlternateWhileTyping(t *testing.T) {
	f := newFixture(t, 20*time.Millisecond)
	id := f.start(t)

	f.say(t, id, "book", "guest", "standard")

	msgs := f.transcript(t, id)
	if len(msgs) != 7 {
		t.Fatalf("got %d messages, want 7", len(msgs))
	}
	for i, m := range msgs {
		want := entity.RoleAssistant
		if i%2 == 1 {
			want = entity.RoleUser
		}
		if m.Role != want {
			t.Fatalf("message %d role = %q, want %q", i, m.Role, want)
		}
	}
	for i, in := range []string{"book", "guest", "standard"} {
		if msgs[2*i+1].Text != in {
			t.Fatalf("user message %d = %q, want %q", i, msgs[2*i+1].Text, in)
		}
	}

	state, err := f.svc.GetState(context.Background(), id)
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if state.CurrentStep != entity.StepPropertyType {
		t.Fatalf("step = %q, want property-type", state.CurrentStep)
	}
	if state.Quote.BasePrice == 0 {
		t.Fatal("quote should include the selected service price")
	}
}

func TestSubmitRejectsBadInput(t *testing.T) {
	f := newFixture(t, 0)
	id := f.start(t)

	if _, err := f.svc.SubmitUserInput(context.Background(), id, "   "); !errors.Is(err, assistant.ErrEmptyInput) {
		t.Fatalf("blank input err = %v", err)
	}
	if _, err := f.svc.SubmitUserInput(context.Background(), "not-a-session", "hi"); !errors.Is(err, assistant.ErrInvalidSession) {
		t.Fatalf("bad id err = %v", err)
	}
	if _, err := f.svc.SubmitUserInput(context.Background(), uuid.NewString(), "hi"); !errors.Is(err, assistant.ErrSessionNotFound) {
		t.Fatalf("unknown id err = %v", err)
	}
}

func TestConfirmedBookingIsHandedOffOnce(t *testing.T) {
	var mu sync.Mutex
	var completed []CompletedBooking
	f := newFixture(t, 0, WithCompletionHandler(func(c CompletedBooking) {
		mu.Lock()
		completed = append(completed, c)
		mu.Unlock()
	}))
	id := f.start(t)

	f.say(t, id, walkthrough...)

	mu.Lock()
	defer mu.Unlock()
	if len(completed) != 1 {
		t.Fatalf("completion handler called %d times, want 1", len(completed))
	}
	got := completed[0]
	if got.SessionID != id || got.Totals.Total != 198.45 || got.Draft.ServiceType != "Deep Cleaning" {
		t.Fatalf("unexpected completion %+v", got)
	}

	if len(f.db.bookings) != 1 {
		t.Fatalf("stored %d bookings, want 1", len(f.db.bookings))
	}
	booking := f.db.bookings[0]
	if booking.ID != got.BookingID || booking.Status != entity.BookingStatusConfirmed {
		t.Fatalf("unexpected booking %+v", booking)
	}
	if booking.Bedrooms != 3 || booking.Bathrooms != 2.5 || !booking.HasPet || booking.UserID != "user-1" {
		t.Fatalf("booking lost draft fields: %+v", booking)
	}

	if len(f.publisher.events) != 1 || f.publisher.events[0].TotalCents != 19845 {
		t.Fatalf("events = %+v", f.publisher.events)
	}
	if len(f.mailer.sent) != 1 {
		t.Fatalf("mailed %d confirmations, want 1", len(f.mailer.sent))
	}

	state, _ := f.svc.GetState(context.Background(), id)
	if state.CurrentStep != entity.StepIdle {
		t.Fatalf("step after confirm = %q", state.CurrentStep)
	}
}

func TestHandoffFailuresDoNotBreakSession(t *testing.T) {
	calls := 0
	var mu sync.Mutex
	f := newFixture(t, 0, WithCompletionHandler(func(CompletedBooking) {
		mu.Lock()
		calls++
		mu.Unlock()
	}))
	f.db.failBookings = true
	f.publisher.err = errors.New("broker down")
	f.mailer.err = errors.New("smtp down")
	id := f.start(t)

	f.say(t, id, walkthrough...)
	f.say(t, id, "pricing")

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Fatalf("completion handler called %d times, want 1", calls)
	}
	msgs := f.transcript(t, id)
	if last := msgs[len(msgs)-1]; last.Role != entity.RoleAssistant {
		t.Fatalf("last message role = %q", last.Role)
	}
}

func TestPasswordIsMaskedAndSealed(t *testing.T) {
	f := newFixture(t, 0)
	id := f.start(t)

	f.say(t, id, "book", "log in", "sam@example.com", "hunter22")

	for _, m := range f.transcript(t, id) {
		if strings.Contains(m.Text, "hunter22") {
			t.Fatalf("password leaked into transcript: %q", m.Text)
		}
	}
	msgs := f.transcript(t, id)
	if msgs[7].Role != entity.RoleUser || msgs[7].Text != maskedInput {
		t.Fatalf("password message = %+v", msgs[7])
	}

	stored := f.store.states[id]
	if stored.CurrentStep != entity.StepService {
		t.Fatalf("step = %q, want service", stored.CurrentStep)
	}
	if stored.Draft.Password != "" {
		t.Fatal("plaintext password persisted")
	}
	if err := bcrypt.NewWithCost(4).ComparePassword(stored.Draft.PasswordHash, "hunter22"); err != nil {
		t.Fatalf("stored hash does not match: %v", err)
	}

	state, _ := f.svc.GetState(context.Background(), id)
	if state.Draft.PasswordHash != "" || state.Draft.Password != "" {
		t.Fatal("state response exposes credentials")
	}
}

func TestSessionIsRestoredByAnotherInstance(t *testing.T) {
	db, store := newMemoryDB(), newFakeStore()

	first := newFixtureWith(t, db, store, 0)
	id := first.start(t)
	first.say(t, id, "book")
	if err := first.svc.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	second := newFixtureWith(t, db, store, 0)
	state, err := second.svc.GetState(context.Background(), id)
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if state.CurrentStep != entity.StepAccount {
		t.Fatalf("restored step = %q, want account", state.CurrentStep)
	}
	if got := len(second.transcript(t, id)); got != 3 {
		t.Fatalf("restored %d messages, want 3", got)
	}

	second.say(t, id, "guest")
	state, _ = second.svc.GetState(context.Background(), id)
	if state.CurrentStep != entity.StepService {
		t.Fatalf("step after restore = %q, want service", state.CurrentStep)
	}
}

func TestConcurrentRestorePersistsOnePrompt(t *testing.T) {
	db := newMemoryDB()
	id := uuid.NewString()
	db.sessions[id] = entity.ChatSession{ID: id, Channel: entity.ChannelWeb, CreatedAt: fixedNow, LastActivity: fixedNow}

	var arrived sync.WaitGroup
	arrived.Add(2)
	var reads atomic.Int32
	db.onHistory = func() {
		if reads.Add(1) <= 2 {
			arrived.Done()
			arrived.Wait()
		}
	}

	f := newFixtureWith(t, db, newFakeStore(), 0)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.GetTranscript(context.Background(), id)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("GetTranscript: %v", err)
		}
	}

	db.mu.Lock()
	stored := len(db.messages[id])
	db.mu.Unlock()
	if stored != 1 {
		t.Fatalf("stored %d prompts, want 1", stored)
	}
	if got := len(f.transcript(t, id)); got != 1 {
		t.Fatalf("live transcript has %d messages, want 1", got)
	}
}

func TestCloseSession(t *testing.T) {
	f := newFixture(t, 0)
	id := f.start(t)

	if err := f.svc.CloseSession(context.Background(), id); err != nil {
		t.Fatalf("CloseSession: %v", err)
	}
	if _, ok := f.store.states[id]; ok {
		t.Fatal("state should be deleted on close")
	}
	if _, err := f.svc.SubmitUserInput(context.Background(), id, "book"); !errors.Is(err, assistant.ErrSessionClosed) {
		t.Fatalf("submit after close err = %v", err)
	}
}

func TestSubscribeReplaysThenStreams(t *testing.T) {
	f := newFixture(t, 0)
	id := f.start(t)

	sub, err := f.svc.Subscribe(context.Background(), id)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer sub.Cancel()

	if len(sub.History) != 1 {
		t.Fatalf("history = %d messages, want 1", len(sub.History))
	}

	f.say(t, id, "pricing")

	for _, want := range []entity.Role{entity.RoleUser, entity.RoleAssistant} {
		select {
		case m := <-sub.Messages:
			if m.Role != want {
				t.Fatalf("streamed role = %q, want %q", m.Role, want)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for streamed message")
		}
	}
}

func TestQuote(t *testing.T) {
	f := newFixture(t, 0)

	resp, err := f.svc.Quote(context.Background(), assistant.QuoteRequest{
		ServicePrice: 159,
		AddOns:       []entity.AddOn{{Name: "Inside Windows", Price: 35}},
		Frequency:    "Weekly",
		TipRate:      0.15,
	})
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	want := entity.Totals{BasePrice: 159, AddOnsTotal: 35, Discount: 19.4, Tip: 23.85, Total: 198.45}
	if resp.Totals != want || resp.DiscountRate != 0.10 {
		t.Fatalf("quote = %+v", resp)
	}

	_, err = f.svc.Quote(context.Background(), assistant.QuoteRequest{
		ServicePrice: 100,
		AddOns:       []entity.AddOn{{Name: "Oven", Price: -5}},
	})
	if !errors.Is(err, assistant.ErrInvalidQuote) {
		t.Fatalf("negative add-on err = %v", err)
	}
}

func TestListBookingsPaginates(t *testing.T) {
	f := newFixture(t, 0)
	for i := 0; i < 3; i++ {
		f.db.bookings = append(f.db.bookings, entity.Booking{ID: uuid.NewString(), UserID: "u"})
	}

	resp, err := f.svc.ListBookings(context.Background(), "u", 2, 2)
	if err != nil {
		t.Fatalf("ListBookings: %v", err)
	}
	if resp.Total != 3 || len(resp.Bookings) != 1 {
		t.Fatalf("page 2 = %d of %d", len(resp.Bookings), resp.Total)
	}

	if _, err := f.svc.GetBooking(context.Background(), "missing"); !errors.Is(err, assistant.ErrBookingNotFound) {
		t.Fatalf("missing booking err = %v", err)
	}
}
