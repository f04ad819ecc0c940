package assistantService

import (
	"EllaBooking/internal/api/assistant"
	"EllaBooking/internal/api/assistant/dialogue"
	assistantRepository "EllaBooking/internal/api/assistant/repository"
	"EllaBooking/internal/entity"
	"EllaBooking/pkg/bcrypt"
	"EllaBooking/pkg/queue"
	"EllaBooking/pkg/redis"
	"EllaBooking/pkg/smtp"
	"EllaBooking/pkg/utils"
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type IAssistantService interface {
	StartSession(ctx context.Context, req assistant.StartSessionRequest) (*assistant.SessionResponse, error)
	SubmitUserInput(ctx context.Context, sessionID string, text string) (*assistant.SubmitMessageResponse, error)
	WaitIdle(ctx context.Context, sessionID string) error
	GetTranscript(ctx context.Context, sessionID string) (*assistant.TranscriptResponse, error)
	GetState(ctx context.Context, sessionID string) (*assistant.StateResponse, error)
	Subscribe(ctx context.Context, sessionID string) (*Subscription, error)
	CloseSession(ctx context.Context, sessionID string) error

	Quote(ctx context.Context, req assistant.QuoteRequest) (*assistant.QuoteResponse, error)
	GetBooking(ctx context.Context, bookingID string) (*entity.Booking, error)
	ListBookings(ctx context.Context, userID string, page, limit int) (*assistant.BookingListResponse, error)

	Shutdown(ctx context.Context) error
}

// CompletedBooking is handed to the completion handler once per confirmed
// booking, after persistence and notification have been attempted.
type CompletedBooking struct {
	SessionID string
	BookingID string
	Draft     entity.Draft
	Totals    entity.Totals
}

type AssistantConfig struct {
	TypingDelay      time.Duration `json:"typing_delay"`
	SessionTTL       time.Duration `json:"session_ttl"`
	SubscriberBuffer int           `json:"subscriber_buffer"`
	HandoffTimeout   time.Duration `json:"handoff_timeout"`
}

func DefaultConfig() *AssistantConfig {
	return &AssistantConfig{
		TypingDelay:      1500 * time.Millisecond,
		SessionTTL:       24 * time.Hour,
		SubscriberBuffer: 32,
		HandoffTimeout:   10 * time.Second,
	}
}

type Option func(*assistantService)

func WithMachine(m *dialogue.Machine) Option {
	return func(s *assistantService) {
		s.machine = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *assistantService) {
		s.now = now
	}
}

func WithCompletionHandler(fn func(CompletedBooking)) Option {
	return func(s *assistantService) {
		s.onComplete = fn
	}
}

type assistantService struct {
	log        *logrus.Logger
	repo       assistantRepository.Repository
	store      redis.IRedis
	publisher  queue.IPublisher
	mailer     smtp.ItfSmtp
	bcrypt     bcrypt.IBcrypt
	utils      utils.IUtils
	config     *AssistantConfig
	machine    *dialogue.Machine
	now        func() time.Time
	onComplete func(CompletedBooking)

	mu       sync.Mutex
	sessions map[string]*session
	closed   bool
}

func NewAssistantService(
	log *logrus.Logger,
	repo assistantRepository.Repository,
	store redis.IRedis,
	publisher queue.IPublisher,
	mailer smtp.ItfSmtp,
	bcrypt bcrypt.IBcrypt,
	utils utils.IUtils,
	config *AssistantConfig,
	opts ...Option,
) IAssistantService {
	if config == nil {
		config = DefaultConfig()
	}

	s := &assistantService{
		log:       log,
		repo:      repo,
		store:     store,
		publisher: publisher,
		mailer:    mailer,
		bcrypt:    bcrypt,
		utils:     utils,
		config:    config,
		now:       time.Now,
		sessions:  make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.machine == nil {
		s.machine = dialogue.New(dialogue.WithClock(s.now))
	}
	return s
}
