package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/deepguard/internal/app"
	"github.com/MKhiriev/deepguard/internal/service"
	"github.com/MKhiriev/deepguard/internal/validators"
	"github.com/MKhiriev/deepguard/models"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type screen int

const (
	screenRestoring screen = iota
	screenWelcome
	screenLogin
	screenSignup
	screenDetect
	screenHistory
)

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

type appModel struct {
	ctx       context.Context
	services  *service.ClientServices
	validator validators.Validator
	statuses  <-chan models.BackendStatus
	buildInfo models.AppBuildInfo

	currentScreen screen
	user          models.User
	backend       models.BackendStatus
	spinner       spinner.Model

	welcome welcomeModel
	login   formModel
	signup  formModel
	detect  detectModel
	history historyModel

	showError     bool
	errorOverlay  errorOverlayModel
	showConfirm   bool
	confirm       confirmModel
	pendingDelete string
	showBuildInfo bool
}

func newAppModel(ctx context.Context, services *service.ClientServices, validator validators.Validator,
	statuses <-chan models.BackendStatus, buildInfo models.AppBuildInfo) appModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	return appModel{
		ctx:           ctx,
		services:      services,
		validator:     validator,
		statuses:      statuses,
		buildInfo:     buildInfo,
		currentScreen: screenRestoring,
		backend:       models.BackendChecking,
		spinner:       s,
		welcome:       newWelcomeModel(),
		login:         newLoginForm(),
		signup:        newSignupForm(),
		detect:        newDetectModel(),
	}
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.cmdRestore(), m.cmdBackendStatus(), waitForStatus(m.statuses), m.spinner.Tick)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.quit) {
			m.detect.cancel()
			return m, tea.Quit
		}
		if m.showError {
			if key.Matches(msg, keys.enter) || key.Matches(msg, keys.esc) {
				m.showError = false
				m.errorOverlay.message = ""
			}
			return m, nil
		}
		if m.showConfirm {
			return m.updateConfirm(msg)
		}
		if m.showBuildInfo {
			if key.Matches(msg, keys.esc) || key.Matches(msg, keys.info) {
				m.showBuildInfo = false
			}
			return m, nil
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case sessionRestoredMsg:
		if msg.state == models.Authenticated {
			m.user = msg.user
			m.currentScreen = screenDetect
		} else {
			m.currentScreen = screenWelcome
		}
		return m, nil
	case authDoneMsg:
		m.login.submitting = false
		m.signup.submitting = false
		if msg.err != nil {
			fallback := app.MsgInvalidEmailOrPassword
			if m.currentScreen == screenSignup {
				fallback = app.MsgInternalServerError
			}
			m.showErrorf(displayError(msg.err, fallback))
			return m, nil
		}
		m.user = msg.user
		m.login = newLoginForm()
		m.signup = newSignupForm()
		m.currentScreen = screenDetect
		return m, nil
	case loggedOutMsg:
		m.user = models.User{}
		m.history = historyModel{}
		m.detect = newDetectModel()
		m.currentScreen = screenWelcome
		return m, nil
	case backendStatusMsg:
		m.backend = msg.status
		return m, waitForStatus(m.statuses)
	case analysisStartedMsg:
		if msg.err != nil {
			m.detect.closeFile()
			m.showErrorf(displayError(msg.err, app.MsgAnalysisFailed))
			return m, nil
		}
		m.detect.task = msg.task
		m.detect.percent = 0
		m.detect.result = nil
		return m, waitForProgress(msg.task)
	case analysisProgressMsg:
		if msg.task != m.detect.task {
			return m, nil
		}
		m.detect.percent = msg.percent
		return m, waitForProgress(msg.task)
	case analysisDoneMsg:
		if msg.task != m.detect.task {
			return m, nil
		}
		m.detect.task = nil
		m.detect.closeFile()
		if msg.err != nil {
			if m.ctx.Err() == nil && !isCancelled(msg.err) {
				m.showErrorf(displayError(msg.err, app.MsgAnalysisFailed))
			}
			return m, nil
		}
		result := msg.result
		m.detect.result = &result
		m.detect.percent = 100
		return m, nil
	case historyLoadedMsg:
		m.history.loading = false
		if msg.err != nil {
			m.showErrorf(displayError(msg.err, app.MsgInternalServerError))
			return m, nil
		}
		m.history.items = msg.items
		m.history = m.history.clampCursor()
		return m, nil
	case itemDeletedMsg:
		m.pendingDelete = ""
		if msg.err != nil {
			m.showErrorf(displayError(msg.err, app.MsgHistoryItemNotFound))
			return m, nil
		}
		return m, m.cmdLoadHistory()
	case copiedMsg:
		m.history.status = "Copied!"
		return m, cmdClearStatus()
	case clearStatusMsg:
		m.history.status = ""
		return m, nil
	case errorMsg:
		m.showErrorf(msg.err.Error())
		return m, nil
	case tea.WindowSizeMsg:
		return m, nil
	}

	switch m.currentScreen {
	case screenWelcome:
		return m.updateWelcome(msg)
	case screenLogin:
		return m.updateLogin(msg)
	case screenSignup:
		return m.updateSignup(msg)
	case screenDetect:
		return m.updateDetect(msg)
	case screenHistory:
		return m.updateHistory(msg)
	}

	return m, nil
}

func (m appModel) View() string {
	if m.showBuildInfo {
		return appStyle.Render(renderBuildInfoWindow(m.buildInfo))
	}

	var body string
	switch m.currentScreen {
	case screenRestoring:
		body = renderPage("DEEPGUARD", m.spinner.View()+" Restoring session...", "")
	case screenWelcome:
		body = m.welcome.View()
	case screenLogin:
		body = m.login.View("SIGN IN", "Signing in...", m.spinner.View())
	case screenSignup:
		body = m.signup.View("CREATE ACCOUNT", "Creating account...", m.spinner.View())
	case screenDetect:
		body = m.detect.View(m.header())
	case screenHistory:
		body = m.history.View(m.header())
	}

	if m.showConfirm {
		body += "\n\n" + m.confirm.View()
	}
	if m.showError {
		body += "\n\n" + m.errorOverlay.View()
	}

	return appStyle.Render(body)
}

func (m appModel) header() string {
	return fmt.Sprintf("%s  %s", titleStyle.Render(m.user.Name), renderStatus(m.backend))
}

func (m *appModel) showErrorf(message string) {
	m.showError = true
	m.errorOverlay.message = message
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.yes):
		m.showConfirm = false
		if m.pendingDelete == "" {
			return m, nil
		}
		return m, m.cmdDeleteItem(m.pendingDelete)
	case key.Matches(msg, keys.no), key.Matches(msg, keys.esc):
		m.showConfirm = false
		m.pendingDelete = ""
	}
	return m, nil
}

func (m appModel) updateWelcome(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.up):
		if m.welcome.idx > 0 {
			m.welcome.idx--
		}
	case key.Matches(keyMsg, keys.down):
		if m.welcome.idx < len(m.welcome.items)-1 {
			m.welcome.idx++
		}
	case key.Matches(keyMsg, keys.enter):
		if m.welcome.idx == 0 {
			m.currentScreen = screenLogin
		} else {
			m.currentScreen = screenSignup
		}
	case key.Matches(keyMsg, keys.info):
		m.showBuildInfo = true
	case key.Matches(keyMsg, keys.menu):
		return m, tea.Quit
	}
	return m, nil
}

func (m appModel) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if m.login.submitting {
			return m, nil
		}
		switch {
		case key.Matches(keyMsg, keys.esc):
			m.currentScreen = screenWelcome
			return m, nil
		case key.Matches(keyMsg, keys.tab):
			m.login = m.login.moveFocus(1)
			return m, nil
		case key.Matches(keyMsg, keys.backtab):
			m.login = m.login.moveFocus(-1)
			return m, nil
		case key.Matches(keyMsg, keys.enter):
			req := m.login.loginRequest()
			if err := m.validator.Validate(m.ctx, req); err != nil {
				m.showErrorf(displayError(err, app.MsgInvalidEmailOrPassword))
				return m, nil
			}
			m.login.submitting = true
			return m, m.cmdLogin(req)
		}
	}

	var cmd tea.Cmd
	m.login.inputs[m.login.focus], cmd = m.login.inputs[m.login.focus].Update(msg)
	return m, cmd
}

func (m appModel) updateSignup(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if m.signup.submitting {
			return m, nil
		}
		switch {
		case key.Matches(keyMsg, keys.esc):
			m.currentScreen = screenWelcome
			return m, nil
		case key.Matches(keyMsg, keys.tab):
			m.signup = m.signup.moveFocus(1)
			return m, nil
		case key.Matches(keyMsg, keys.backtab):
			m.signup = m.signup.moveFocus(-1)
			return m, nil
		case key.Matches(keyMsg, keys.enter):
			req := m.signup.signupRequest()
			if err := m.validator.Validate(m.ctx, req); err != nil {
				m.showErrorf(displayError(err, app.MsgInvalidDataProvided))
				return m, nil
			}
			// The form always has a confirmation field, unlike API clients.
			if req.ConfirmPassword != req.Password {
				m.showErrorf(app.MsgPasswordsDoNotMatch)
				return m, nil
			}
			m.signup.submitting = true
			return m, m.cmdSignup(req)
		}
	}

	var cmd tea.Cmd
	m.signup.inputs[m.signup.focus], cmd = m.signup.inputs[m.signup.focus].Update(msg)
	return m, cmd
}

func (m appModel) updateDetect(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)

	if m.detect.analyzing() {
		if ok && key.Matches(keyMsg, keys.esc) {
			m.detect.cancel()
		}
		return m, nil
	}

	if m.detect.editing {
		if ok {
			switch {
			case key.Matches(keyMsg, keys.esc):
				m.detect.editing = false
				m.detect.path.Blur()
				return m, nil
			case key.Matches(keyMsg, keys.enter):
				m.detect.editing = false
				m.detect.path.Blur()
				return m.startAnalysis(m.detect.path.Value())
			}
		}
		var cmd tea.Cmd
		m.detect.path, cmd = m.detect.path.Update(msg)
		return m, cmd
	}

	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.open):
		m.detect.editing = true
		return m, m.detect.path.Focus()
	case key.Matches(keyMsg, keys.history):
		m.currentScreen = screenHistory
		m.history.loading = true
		return m, m.cmdLoadHistory()
	case key.Matches(keyMsg, keys.logout):
		return m, m.cmdLogout()
	case key.Matches(keyMsg, keys.menu):
		return m, tea.Quit
	}
	return m, nil
}

// startAnalysis validates the picked file before handing it to the
// detection service.
func (m appModel) startAnalysis(path string) (tea.Model, tea.Cmd) {
	media, file, err := openMedia(path)
	if err != nil {
		m.showErrorf(displayError(err, app.MsgInvalidMediaFile))
		return m, nil
	}
	if err = m.validator.Validate(m.ctx, media); err != nil {
		_ = file.Close()
		m.showErrorf(displayError(err, app.MsgInvalidMediaFile))
		return m, nil
	}

	m.detect.file = file
	m.detect.filename = media.Name
	m.detect.size = media.Size
	return m, m.cmdStartAnalysis(media)
}

func (m appModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.up):
		if m.history.idx > 0 {
			m.history.idx--
		}
	case key.Matches(keyMsg, keys.down):
		if m.history.idx < len(m.history.items)-1 {
			m.history.idx++
		}
	case key.Matches(keyMsg, keys.esc):
		m.currentScreen = screenDetect
	case key.Matches(keyMsg, keys.delete):
		item, ok := m.history.current()
		if !ok {
			return m, nil
		}
		m.showConfirm = true
		m.confirm.message = item.Filename
		m.pendingDelete = item.ID
	case key.Matches(keyMsg, keys.copy):
		item, ok := m.history.current()
		if !ok {
			return m, nil
		}
		return m, cmdCopyToClipboard(historySummary(item))
	case key.Matches(keyMsg, keys.rerun):
		item, ok := m.history.current()
		if !ok {
			return m, nil
		}
		m.currentScreen = screenDetect
		m.detect.filename = item.Filename
		m.detect.size = 0
		return m, m.cmdRerun(item.ID)
	}
	return m, nil
}

func (m appModel) cmdRestore() tea.Cmd {
	ctx := m.ctx
	session := m.services.SessionManager
	return func() tea.Msg {
		state := session.Restore(ctx)
		user, _ := session.CurrentUser()
		return sessionRestoredMsg{state: state, user: user}
	}
}

func (m appModel) cmdLogin(req models.LoginRequest) tea.Cmd {
	result := m.services.SessionManager.LoginAsync(m.ctx, req.Email, req.Password)
	return waitForAuth(result)
}

func (m appModel) cmdSignup(req models.SignupRequest) tea.Cmd {
	result := m.services.SessionManager.SignupAsync(m.ctx, req.Name, req.Email, req.Password)
	return waitForAuth(result)
}

func (m appModel) cmdLogout() tea.Cmd {
	ctx := m.ctx
	session := m.services.SessionManager
	return func() tea.Msg {
		session.Logout(ctx)
		return loggedOutMsg{}
	}
}

func (m appModel) cmdBackendStatus() tea.Cmd {
	ctx := m.ctx
	health := m.services.HealthService
	return func() tea.Msg {
		return backendStatusMsg{status: health.Status(ctx)}
	}
}

func (m appModel) cmdStartAnalysis(media models.MediaFile) tea.Cmd {
	ctx := m.ctx
	detection := m.services.DetectionService
	userID := m.user.ID
	return func() tea.Msg {
		task, err := detection.Start(ctx, userID, media)
		return analysisStartedMsg{task: task, err: err}
	}
}

func (m appModel) cmdRerun(historyID string) tea.Cmd {
	ctx := m.ctx
	detection := m.services.DetectionService
	userID := m.user.ID
	return func() tea.Msg {
		task, err := detection.Rerun(ctx, userID, historyID, models.MediaFile{})
		return analysisStartedMsg{task: task, err: err}
	}
}

func (m appModel) cmdLoadHistory() tea.Cmd {
	ctx := m.ctx
	history := m.services.HistoryService
	userID := m.user.ID
	return func() tea.Msg {
		items, err := history.ListForUser(ctx, userID)
		return historyLoadedMsg{items: items, err: err}
	}
}

func (m appModel) cmdDeleteItem(id string) tea.Cmd {
	ctx := m.ctx
	history := m.services.HistoryService
	userID := m.user.ID
	return func() tea.Msg {
		return itemDeletedMsg{err: history.Delete(ctx, userID, id)}
	}
}

func waitForAuth(result <-chan service.AuthResult) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-result
		if !ok {
			return authDoneMsg{err: service.ErrInvalidCredentials}
		}
		return authDoneMsg{user: r.User, err: r.Err}
	}
}

// waitForProgress delivers the next progress value, or the final outcome
// once the task has closed its progress channel.
func waitForProgress(task *service.AnalysisTask) tea.Cmd {
	return func() tea.Msg {
		percent, ok := <-task.Progress()
		if ok {
			return analysisProgressMsg{task: task, percent: percent}
		}
		result, item, err := task.Wait()
		return analysisDoneMsg{task: task, result: result, item: item, err: err}
	}
}

// waitForStatus re-arms after every delivered status.
func waitForStatus(statuses <-chan models.BackendStatus) tea.Cmd {
	if statuses == nil {
		return nil
	}
	return func() tea.Msg {
		status, ok := <-statuses
		if !ok {
			return nil
		}
		return backendStatusMsg{status: status}
	}
}

func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}

func cmdCopyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := copyToClipboard(text); err != nil {
			return errorMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return copiedMsg{}
	}
}

func cmdClearStatus() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
