package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/deepguard/internal/crypto"
	"github.com/MKhiriev/deepguard/internal/logger"
	"github.com/MKhiriev/deepguard/internal/store"
	"github.com/MKhiriev/deepguard/models"
)

// sequentialIDs issues "id-1", "id-2", ...
type sequentialIDs struct {
	mu sync.Mutex
	n  int
}

func (g *sequentialIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

// fastHasher keeps argon2 cheap in tests.
func fastHasher() crypto.PasswordHasher {
	return crypto.NewPasswordHasherWithParams(1, 64, 1)
}

type testStack struct {
	storages *store.Storages
	auth     AuthService
	history  HistoryService
	session  SessionManager
}

func newTestStack(t *testing.T, policy models.LogoutHistoryPolicy) *testStack {
	t.Helper()

	storages := store.NewStoragesFromKV(store.NewMemoryStore(), logger.Nop())
	ids := &sequentialIDs{}
	auth := NewAuthService(storages.CredentialRepository, fastHasher(), ids, AuthOptions{
		DemoEnabled:   true,
		TokenSignKey:  "test-sign-key",
		TokenIssuer:   "deepguard-test",
		TokenDuration: time.Hour,
	}, logger.Nop())
	history := NewHistoryService(storages.HistoryRepository, ids, policy, logger.Nop())

	return &testStack{
		storages: storages,
		auth:     auth,
		history:  history,
		session:  NewSessionManager(auth, storages.SessionRepository, history, 0, logger.Nop()),
	}
}

func (s *testStack) record(t *testing.T, userID, filename string) *models.HistoryItem {
	t.Helper()
	item, err := s.history.Record(context.Background(), userID, filename,
		models.AnalysisResult{VideoConfidence: 0.9, AudioConfidence: 0.8, Verdict: models.VerdictReal})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	return item
}
