// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/MKhiriev/deepguard/internal/adapter"
	"github.com/MKhiriev/deepguard/internal/app"
	"github.com/MKhiriev/deepguard/internal/logger"
	"github.com/MKhiriev/deepguard/models"
)

const (
	progressTick    = 200 * time.Millisecond
	progressStepMax = 15.0
	progressCap     = 95.0
)

type detectionService struct {
	detector adapter.Detector
	health   HealthService
	history  HistoryService

	tick time.Duration
	step func() float64

	logger *logger.Logger
}

// NewDetectionService constructs a DetectionService. Analyses are refused
// while health reports anything but healthy.
func NewDetectionService(detector adapter.Detector, health HealthService, history HistoryService, logger *logger.Logger) DetectionService {
	return &detectionService{
		detector: detector,
		health:   health,
		history:  history,
		tick:     progressTick,
		step:     func() float64 { return rand.Float64() * progressStepMax },
		logger:   logger,
	}
}

func (s *detectionService) Start(ctx context.Context, userID string, media models.MediaFile) (*AnalysisTask, error) {
	log := logger.FromContext(ctx)

	if !media.IsValid() {
		log.Debug().Str("func", "*detectionService.Start").Str("file", media.Name).
			Str("content_type", media.ContentType).Msg("unsupported media file")
		return nil, newValidationError(app.MsgInvalidMediaFile, ErrInvalidMediaFile)
	}
	if status := s.health.Status(ctx); status != models.BackendHealthy {
		log.Warn().Str("func", "*detectionService.Start").Str("status", string(status)).Msg("refusing analysis")
		return nil, newValidationError(app.MsgBackendUnavailable, ErrBackendUnavailable)
	}

	taskCtx, cancel := context.WithCancel(ctx)
	task := newAnalysisTask(cancel)

	log.Info().Str("func", "*detectionService.Start").Str("file", media.Name).
		Str("kind", string(media.Kind())).Msg("analysis started")
	go s.run(taskCtx, task, userID, media)

	return task, nil
}

func (s *detectionService) Analyze(ctx context.Context, userID string, media models.MediaFile) (models.AnalysisResult, *models.HistoryItem, error) {
	task, err := s.Start(ctx, userID, media)
	if err != nil {
		return models.AnalysisResult{}, nil, err
	}

	go func() {
		for range task.Progress() {
		}
	}()

	return task.Wait()
}

func (s *detectionService) Rerun(ctx context.Context, userID, historyID string, media models.MediaFile) (*AnalysisTask, error) {
	item, err := s.history.Get(ctx, userID, historyID)
	if err != nil {
		return nil, err
	}

	media.Name = item.Filename
	return s.Start(ctx, userID, media)
}

type detectOutcome struct {
	result models.AnalysisResult
	err    error
}

func (s *detectionService) run(ctx context.Context, task *AnalysisTask, userID string, media models.MediaFile) {
	log := logger.FromContext(ctx)
	start := time.Now()

	outcome := make(chan detectOutcome, 1)
	go func() {
		result, err := s.detector.Detect(ctx, media)
		outcome <- detectOutcome{result: result, err: err}
	}()

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	progress := 0.0
	for {
		select {
		case <-ticker.C:
			progress = min(progress+s.step(), progressCap)
			task.report(int(progress))

		case out := <-outcome:
			if ctxErr := ctx.Err(); ctxErr != nil {
				log.Info().Str("func", "*detectionService.run").Str("file", media.Name).Msg("analysis cancelled")
				task.finish(models.AnalysisResult{}, nil, ctxErr)
				return
			}
			if out.err != nil {
				log.Err(out.err).Str("func", "*detectionService.run").Str("file", media.Name).Msg("analysis failed")
				task.finish(models.AnalysisResult{}, nil, newValidationError(app.MsgAnalysisFailed, fmt.Errorf("%w: %w", ErrAnalysisFailed, out.err)))
				return
			}
			if !out.result.Verdict.IsValid() {
				task.finish(models.AnalysisResult{}, nil, newValidationError(app.MsgAnalysisFailed,
					fmt.Errorf("%w: %w", ErrAnalysisFailed, errors.New("detector returned no verdict"))))
				return
			}

			result := out.result
			result.SetProcessingTime(time.Since(start))

			item, err := s.history.Record(ctx, userID, media.Name, result)
			if err != nil {
				// The verdict stands even if it could not be stored.
				log.Err(err).Str("func", "*detectionService.run").Msg("error recording analysis")
			}

			task.report(100)
			log.Info().Str("func", "*detectionService.run").Str("file", media.Name).
				Str("verdict", string(result.Verdict)).Float64("processing_time", result.ProcessingTime).Msg("analysis finished")
			task.finish(result, item, nil)
			return
		}
	}
}
