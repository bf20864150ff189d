package service

import (
	"context"
	"math/rand/v2"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"askq-be/internal/pkg/logger"
	"askq-be/internal/repository/implementation"
	"askq-be/internal/repository/unitofwork"
	"askq-be/pkg/database"
	"askq-be/pkg/events"
	"askq-be/pkg/llm"
	"askq-be/pkg/prompt"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "askq_test.db") + "?_busy_timeout=5000"
	db, err := database.NewGormDBWithLogLevel(dsn, gormlogger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type fakeMailer struct {
	mu    sync.Mutex
	codes map[string][]string
	err   error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{codes: make(map[string][]string)}
}

func (f *fakeMailer) SendVerificationCode(toEmail, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.codes[toEmail] = append(f.codes[toEmail], code)
	return nil
}

func (f *fakeMailer) lastCode(email string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	codes := f.codes[email]
	if len(codes) == 0 {
		return ""
	}
	return codes[len(codes)-1]
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, event := range p.events {
		types = append(types, event.EventType())
	}
	return types
}

// payloadsOf returns the data of every published event of eventType, oldest first.
func (p *recordingPublisher) payloadsOf(eventType string) []map[string]interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	var payloads []map[string]interface{}
	for _, event := range p.events {
		if event.EventType() == eventType {
			payloads = append(payloads, event.Payload())
		}
	}
	return payloads
}

type mockLLM struct {
	mock.Mock
	lastOptions *llm.Options
}

func (m *mockLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	m.lastOptions = llm.ApplyOptions(options...)
	args := m.Called(ctx, history)
	return args.String(0), args.Error(1)
}

type testServices struct {
	db            *gorm.DB
	factory       unitofwork.RepositoryFactory
	mailer        *fakeMailer
	publisher     *recordingPublisher
	llm           *mockLLM
	auth          *authService
	quota         IQuotaService
	conversations IConversationService
	chat          IChatService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	db := newTestDB(t)
	factory := unitofwork.NewRepositoryFactory(db)
	mailer := newFakeMailer()
	publisher := &recordingPublisher{}
	llmMock := &mockLLM{}
	log := logger.NewNopLogger()

	quota := NewQuotaService(implementation.NewAnonymousCountRepository(db), DefaultFreeLimit, publisher, log)
	auth := NewAuthService(factory, mailer, publisher, log, 10*time.Minute, bcrypt.MinCost).(*authService)

	return &testServices{
		db:            db,
		factory:       factory,
		mailer:        mailer,
		publisher:     publisher,
		llm:           llmMock,
		auth:          auth,
		quota:         quota,
		conversations: NewConversationService(factory, log),
		chat: NewChatService(factory, quota, llmMock,
			prompt.NewBuilder(rand.New(rand.NewPCG(1, 2))),
			publisher, log, log, DefaultMaxTokens, 0.4),
	}
}
