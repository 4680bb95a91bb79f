// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the detection backends used by the deepguard
// service layer.
//
// The primary abstraction is [Detector], which decouples the service layer
// from the way a verdict is produced. The package ships a simulated detector
// reproducing the demo scoring and an HTTP implementation talking to the
// FastAPI detection backend ([NewRemoteDetector]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic error
// handling.
package adapter

import (
	"context"

	"github.com/MKhiriev/deepguard/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// Detector analyses one media file. Implementations must return promptly
// with ctx.Err() when ctx is cancelled. ProcessingTime is filled in by the
// caller.
type Detector interface {
	Detect(ctx context.Context, media models.MediaFile) (models.AnalysisResult, error)
}

// HealthChecker probes the detection backend.
type HealthChecker interface {
	Check(ctx context.Context) (models.BackendStatus, error)
}
