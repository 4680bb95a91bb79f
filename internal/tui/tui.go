// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"fmt"

	"github.com/MKhiriev/deepguard/internal/logger"
	"github.com/MKhiriev/deepguard/internal/service"
	"github.com/MKhiriev/deepguard/internal/validators"
	"github.com/MKhiriev/deepguard/models"
	tea "github.com/charmbracelet/bubbletea"
)

// TUI is the terminal front end of the client.
type TUI struct {
	services  *service.ClientServices
	validator validators.Validator
	buildInfo models.AppBuildInfo
	statuses  chan models.BackendStatus
	logger    *logger.Logger
}

func New(services *service.ClientServices, buildInfo models.AppBuildInfo, logger *logger.Logger) *TUI {
	return &TUI{
		services:  services,
		validator: validators.NewFormValidator(),
		buildInfo: buildInfo,
		statuses:  make(chan models.BackendStatus, 1),
		logger:    logger,
	}
}

// NotifyBackendStatus hands a fresh backend status to the running program.
// It never blocks: an undelivered older status is replaced.
func (t *TUI) NotifyBackendStatus(status models.BackendStatus) {
	for {
		select {
		case t.statuses <- status:
			return
		default:
		}
		select {
		case <-t.statuses:
		default:
		}
	}
}

// Run blocks until the user quits or ctx is cancelled.
func (t *TUI) Run(ctx context.Context) error {
	ctx = t.logger.WithContext(ctx)

	model := newAppModel(ctx, t.services, t.validator, t.statuses, t.buildInfo)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	final, err := program.Run()
	if m, ok := final.(appModel); ok {
		m.detect.cancel()
		m.detect.closeFile()
	}
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("error running terminal UI: %w", err)
	}

	t.logger.Info().Str("func", "*TUI.Run").Msg("terminal UI stopped")
	return nil
}
