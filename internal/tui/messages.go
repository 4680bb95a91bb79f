package tui

import (
	"github.com/MKhiriev/deepguard/internal/service"
	"github.com/MKhiriev/deepguard/models"
)

type sessionRestoredMsg struct {
	state models.SessionState
	user  models.User
}

type authDoneMsg struct {
	user models.User
	err  error
}

type loggedOutMsg struct{}

type backendStatusMsg struct {
	status models.BackendStatus
}

type analysisStartedMsg struct {
	task *service.AnalysisTask
	err  error
}

type analysisProgressMsg struct {
	task    *service.AnalysisTask
	percent int
}

type analysisDoneMsg struct {
	task   *service.AnalysisTask
	result models.AnalysisResult
	item   *models.HistoryItem
	err    error
}

type historyLoadedMsg struct {
	items []models.HistoryItem
	err   error
}

type itemDeletedMsg struct {
	err error
}

type copiedMsg struct{}

type clearStatusMsg struct{}

type errorMsg struct {
	err error
}
