package http

import (
	"github.com/MKhiriev/deepguard/internal/config"
	"github.com/MKhiriev/deepguard/internal/logger"
	"github.com/MKhiriev/deepguard/internal/service"
	"github.com/MKhiriev/deepguard/internal/validators"
)

// defaultMaxUploadSize applies when the server config leaves the limit unset.
const defaultMaxUploadSize int64 = 512 << 20

type Handler struct {
	services  *service.Services
	validator validators.Validator

	maxUploadSize int64

	logger *logger.Logger
}

func NewHandler(services *service.Services, validator validators.Validator, cfg config.Server, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")

	maxUploadSize := cfg.MaxUploadSize
	if maxUploadSize <= 0 {
		maxUploadSize = defaultMaxUploadSize
	}

	return &Handler{
		services:      services,
		validator:     validator,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}
