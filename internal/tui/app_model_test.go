package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/MKhiriev/deepguard/internal/app"
	"github.com/MKhiriev/deepguard/internal/logger"
	"github.com/MKhiriev/deepguard/internal/mock/servicemock"
	"github.com/MKhiriev/deepguard/internal/service"
	"github.com/MKhiriev/deepguard/internal/store"
	"github.com/MKhiriev/deepguard/internal/validators"
	"github.com/MKhiriev/deepguard/models"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type testDeps struct {
	session   *servicemock.MockSessionManager
	history   *servicemock.MockHistoryService
	detection *servicemock.MockDetectionService
	health    *servicemock.MockHealthService
}

var testUser = models.User{ID: "u-1", Name: "Jane", Email: "jane@example.com"}

func newTestModel(t *testing.T) (appModel, *testDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)

	deps := &testDeps{
		session:   servicemock.NewMockSessionManager(ctrl),
		history:   servicemock.NewMockHistoryService(ctrl),
		detection: servicemock.NewMockDetectionService(ctrl),
		health:    servicemock.NewMockHealthService(ctrl),
	}
	svcs := &service.ClientServices{
		SessionManager:   deps.session,
		HistoryService:   deps.history,
		DetectionService: deps.detection,
		HealthService:    deps.health,
	}

	ctx := logger.Nop().WithContext(context.Background())
	return newAppModel(ctx, svcs, validators.NewFormValidator(), nil, models.NewAppBuildInfo("1.0.0", "", "")), deps
}

func update(t *testing.T, m appModel, msg tea.Msg) (appModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(appModel)
	require.True(t, ok)
	return am, cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestAppModel_Restore(t *testing.T) {
	tests := []struct {
		name       string
		state      models.SessionState
		user       models.User
		wantScreen screen
	}{
		{name: "authenticated", state: models.Authenticated, user: testUser, wantScreen: screenDetect},
		{name: "unauthenticated", state: models.Unauthenticated, wantScreen: screenWelcome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, deps := newTestModel(t)
			deps.session.EXPECT().Restore(gomock.Any()).Return(tt.state)
			deps.session.EXPECT().CurrentUser().Return(tt.user, tt.state == models.Authenticated)

			msg := m.cmdRestore()()
			m, _ = update(t, m, msg)

			assert.Equal(t, tt.wantScreen, m.currentScreen)
			assert.Equal(t, tt.user, m.user)
		})
	}
}

func TestAppModel_LoginValidation(t *testing.T) {
	m, _ := newTestModel(t)
	m.currentScreen = screenLogin
	m.login.inputs[0].SetValue("not-an-email")
	m.login.inputs[1].SetValue("secret1")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.True(t, m.showError)
	assert.Equal(t, validators.ErrInvalidEmail.Error(), m.errorOverlay.message)
	assert.False(t, m.login.submitting)
}

func TestAppModel_LoginSuccess(t *testing.T) {
	m, deps := newTestModel(t)
	m.currentScreen = screenLogin
	m.login.inputs[0].SetValue(testUser.Email)
	m.login.inputs[1].SetValue("secret1")

	result := make(chan service.AuthResult, 1)
	result <- service.AuthResult{User: testUser}
	deps.session.EXPECT().LoginAsync(gomock.Any(), testUser.Email, "secret1").Return(result)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.login.submitting)

	m, _ = update(t, m, cmd())

	assert.Equal(t, screenDetect, m.currentScreen)
	assert.Equal(t, testUser, m.user)
	assert.False(t, m.showError)
}

func TestAppModel_LoginFailure(t *testing.T) {
	m, _ := newTestModel(t)
	m.currentScreen = screenLogin
	m.login.submitting = true

	m, _ = update(t, m, authDoneMsg{err: errors.New("boom")})

	assert.Equal(t, screenLogin, m.currentScreen)
	assert.False(t, m.login.submitting)
	assert.Equal(t, app.MsgInvalidEmailOrPassword, m.errorOverlay.message)
}

func TestAppModel_SignupMismatch(t *testing.T) {
	// An empty confirmation is rejected too.
	m, _ := newTestModel(t)
	m.currentScreen = screenSignup
	m.signup.inputs[0].SetValue("Jane")
	m.signup.inputs[1].SetValue(testUser.Email)
	m.signup.inputs[2].SetValue("secret1")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Equal(t, app.MsgPasswordsDoNotMatch, m.errorOverlay.message)
}

func TestAppModel_TypingDoesNotTriggerShortcuts(t *testing.T) {
	m, _ := newTestModel(t)
	m.currentScreen = screenLogin

	m, _ = update(t, m, keyRunes("q"))
	m, _ = update(t, m, keyRunes("h"))

	assert.Equal(t, screenLogin, m.currentScreen)
	assert.Equal(t, "qh", m.login.inputs[0].Value())
}

func TestAppModel_ErrorOverlayBlocksInput(t *testing.T) {
	m, _ := newTestModel(t)
	m.currentScreen = screenWelcome
	m.showErrorf("failure")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 0, m.welcome.idx)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showError)
}

func TestAppModel_Logout(t *testing.T) {
	m, deps := newTestModel(t)
	m.currentScreen = screenDetect
	m.user = testUser
	deps.session.EXPECT().Logout(gomock.Any())

	m, cmd := update(t, m, keyRunes("l"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Equal(t, screenWelcome, m.currentScreen)
	assert.Equal(t, models.User{}, m.user)
}

func TestAppModel_StaleAnalysisMessages(t *testing.T) {
	m, _ := newTestModel(t)
	m.currentScreen = screenDetect
	current, stale := new(service.AnalysisTask), new(service.AnalysisTask)
	m.detect.task = current

	m, cmd := update(t, m, analysisProgressMsg{task: stale, percent: 80})
	assert.Nil(t, cmd)
	assert.Equal(t, 0, m.detect.percent)

	m, _ = update(t, m, analysisDoneMsg{task: stale, err: errors.New("old")})
	assert.Same(t, current, m.detect.task)
	assert.False(t, m.showError)

	result := models.AnalysisResult{Verdict: models.VerdictFake, AudioConfidence: 0.9}
	m, _ = update(t, m, analysisDoneMsg{task: current, result: result})
	assert.Nil(t, m.detect.task)
	require.NotNil(t, m.detect.result)
	assert.Equal(t, models.VerdictFake, m.detect.result.Verdict)
	assert.Equal(t, 100, m.detect.percent)
}

func TestAppModel_CancelledAnalysisShowsNoError(t *testing.T) {
	m, _ := newTestModel(t)
	task := new(service.AnalysisTask)
	m.detect.task = task

	m, _ = update(t, m, analysisDoneMsg{task: task, err: context.Canceled})

	assert.False(t, m.showError)
	assert.Nil(t, m.detect.result)
}

func TestAppModel_StartRejectedByBackend(t *testing.T) {
	m, _ := newTestModel(t)
	m.currentScreen = screenDetect

	err := &service.ValidationError{Message: app.MsgBackendUnavailable, Err: service.ErrBackendUnavailable}
	m, _ = update(t, m, analysisStartedMsg{err: err})

	assert.True(t, m.showError)
	assert.Equal(t, app.MsgBackendUnavailable, m.errorOverlay.message)
}

func TestAppModel_HistoryDelete(t *testing.T) {
	m, deps := newTestModel(t)
	m.user = testUser
	m.currentScreen = screenHistory
	m.history.items = []models.HistoryItem{{ID: "h-1", Filename: "clip.mp4", UserID: testUser.ID}}

	m, _ = update(t, m, keyRunes("d"))
	require.True(t, m.showConfirm)
	assert.Equal(t, "h-1", m.pendingDelete)

	deps.history.EXPECT().Delete(gomock.Any(), testUser.ID, "h-1").Return(nil)
	deps.history.EXPECT().ListForUser(gomock.Any(), testUser.ID).Return([]models.HistoryItem{}, nil)

	m, cmd := update(t, m, keyRunes("y"))
	require.NotNil(t, cmd)
	assert.False(t, m.showConfirm)

	m, cmd = update(t, m, cmd())
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Empty(t, m.history.items)
	assert.Equal(t, "", m.pendingDelete)
}

func TestAppModel_HistoryDeleteNotFound(t *testing.T) {
	m, _ := newTestModel(t)
	m.currentScreen = screenHistory

	m, _ = update(t, m, itemDeletedMsg{err: store.ErrHistoryItemNotFound})

	assert.Equal(t, app.MsgHistoryItemNotFound, m.errorOverlay.message)
}

func TestAppModel_HistoryCopy(t *testing.T) {
	var copied string
	copyToClipboard = func(text string) error {
		copied = text
		return nil
	}
	t.Cleanup(func() { copyToClipboard = func(string) error { return nil } })

	m, _ := newTestModel(t)
	m.currentScreen = screenHistory
	item := models.HistoryItem{ID: "h-1", Filename: "voice.wav", Result: models.AnalysisResult{Verdict: models.VerdictReal}}
	m.history.items = []models.HistoryItem{item}

	m, cmd := update(t, m, keyRunes("c"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Equal(t, historySummary(item), copied)
	assert.Equal(t, "Copied!", m.history.status)
}

func TestAppModel_Rerun(t *testing.T) {
	m, deps := newTestModel(t)
	m.user = testUser
	m.currentScreen = screenHistory
	m.history.items = []models.HistoryItem{{ID: "h-1", Filename: "clip.mp4"}}

	deps.detection.EXPECT().Rerun(gomock.Any(), testUser.ID, "h-1", models.MediaFile{}).
		Return(nil, service.ErrBackendUnavailable)

	m, cmd := update(t, m, keyRunes("r"))
	require.NotNil(t, cmd)
	assert.Equal(t, screenDetect, m.currentScreen)
	assert.Equal(t, "clip.mp4", m.detect.filename)

	msg := cmd()
	started, ok := msg.(analysisStartedMsg)
	require.True(t, ok)
	assert.ErrorIs(t, started.err, service.ErrBackendUnavailable)
}

func TestAppModel_BackendStatus(t *testing.T) {
	m, _ := newTestModel(t)
	m.user = testUser

	m, _ = update(t, m, backendStatusMsg{status: models.BackendUnreachable})

	assert.Equal(t, models.BackendUnreachable, m.backend)
	assert.Contains(t, m.header(), models.BackendUnreachable.Message())
}

func TestTUI_NotifyBackendStatusKeepsLatest(t *testing.T) {
	tui := New(&service.ClientServices{}, models.AppBuildInfo{}, logger.Nop())

	tui.NotifyBackendStatus(models.BackendChecking)
	tui.NotifyBackendStatus(models.BackendHealthy)
	tui.NotifyBackendStatus(models.BackendUnreachable)

	msg := waitForStatus(tui.statuses)()
	assert.Equal(t, backendStatusMsg{status: models.BackendUnreachable}, msg)
}

func TestDisplayError(t *testing.T) {
	assert.Equal(t, "", displayError(nil, "fallback"))
	assert.Equal(t, validators.ErrNameRequired.Error(), displayError(validators.ErrNameRequired, "fallback"))
	assert.Equal(t, "fallback", displayError(errors.New("db is down"), "fallback"))
}

func TestDetectModel_ViewShowsSize(t *testing.T) {
	m := newDetectModel()
	m.task = new(service.AnalysisTask)
	m.filename = "clip.mp4"
	m.size = 1536

	assert.Contains(t, m.View("header"), "Analyzing clip.mp4 (1.5 KB)")
}

func TestAppModel_StartAnalysisFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(path, []byte("frames"), 0o600))

	m, deps := newTestModel(t)
	m.user = testUser
	m.currentScreen = screenDetect
	m.detect.editing = true
	m.detect.path.SetValue(path)

	deps.detection.EXPECT().Start(gomock.Any(), testUser.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, media models.MediaFile) (*service.AnalysisTask, error) {
			assert.Equal(t, "clip.mp4", media.Name)
			assert.Equal(t, models.MediaVideo, media.Kind())
			assert.Equal(t, int64(6), media.Size)
			return nil, service.ErrBackendUnavailable
		})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.False(t, m.detect.editing)
	assert.NotNil(t, m.detect.file)

	m, _ = update(t, m, cmd())
	assert.Nil(t, m.detect.file)
	assert.True(t, m.showError)
}

func TestAppModel_StartAnalysisRejectsUnsupportedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("text"), 0o600))

	m, _ := newTestModel(t)
	m.currentScreen = screenDetect
	m.detect.editing = true
	m.detect.path.SetValue(path)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Nil(t, m.detect.file)
	assert.Equal(t, app.MsgInvalidMediaFile, m.errorOverlay.message)
}
