package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/deepguard/internal/config"
	"github.com/MKhiriev/deepguard/internal/logger"
	"github.com/MKhiriev/deepguard/internal/mock/servicemock"
	"github.com/MKhiriev/deepguard/internal/service"
	"github.com/MKhiriev/deepguard/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// fakeUI exits on the first status it receives.
type fakeUI struct {
	statuses chan models.BackendStatus
	err      error
}

func (u *fakeUI) Run(ctx context.Context) error {
	select {
	case <-u.statuses:
	case <-ctx.Done():
	}
	return u.err
}

func (u *fakeUI) NotifyBackendStatus(status models.BackendStatus) {
	select {
	case u.statuses <- status:
	default:
	}
}

func newTestApp(t *testing.T, ui UI) *App {
	t.Helper()
	ctrl := gomock.NewController(t)

	health := servicemock.NewMockHealthService(ctrl)
	health.EXPECT().Check(gomock.Any()).Return(models.BackendHealthy).AnyTimes()

	app, err := NewApp(&service.ClientServices{HealthService: health}, ui, config.Workers{HealthInterval: time.Hour}, logger.Nop())
	require.NoError(t, err)
	return app
}

func TestNewApp_RequiresUI(t *testing.T) {
	_, err := NewApp(&service.ClientServices{}, nil, config.Workers{}, logger.Nop())
	assert.ErrorIs(t, err, errNoUIIsCreated)
}

func TestApp_RunForwardsStatusAndStops(t *testing.T) {
	ui := &fakeUI{statuses: make(chan models.BackendStatus, 1)}
	app := newTestApp(t, ui)

	done := make(chan error, 1)
	go func() { done <- app.run(context.Background()) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("client did not stop")
	}
}

func TestApp_RunWrapsUIError(t *testing.T) {
	uiErr := errors.New("terminal gone")
	ui := &fakeUI{statuses: make(chan models.BackendStatus, 1), err: uiErr}
	app := newTestApp(t, ui)

	err := app.run(context.Background())

	assert.ErrorIs(t, err, uiErr)
}
