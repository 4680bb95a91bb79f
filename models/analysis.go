// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"math"
	"time"
)

// Verdict is the final classification of an analysed media file.
type Verdict string

const (
	// VerdictReal marks media judged authentic.
	VerdictReal Verdict = "Real"
	// VerdictFake marks media judged manipulated.
	VerdictFake Verdict = "Fake"
)

// IsValid reports whether v is one of the known verdicts.
func (v Verdict) IsValid() bool {
	return v == VerdictReal || v == VerdictFake
}

// AnalysisResult is the value produced by a detector for one media file.
// It is immutable once created and is embedded by value into [HistoryItem].
type AnalysisResult struct {
	// VideoConfidence is the video model score, 0 when not applicable.
	VideoConfidence float64 `json:"videoConfidence"`

	// AudioConfidence is the audio model score.
	AudioConfidence float64 `json:"audioConfidence"`

	// Verdict is the final classification.
	Verdict Verdict `json:"verdict"`

	// ProcessingTime is the wall-clock analysis duration in seconds.
	ProcessingTime float64 `json:"processingTime"`
}

// HasVideoAnalysis reports whether the video model produced a score.
func (r AnalysisResult) HasVideoAnalysis() bool {
	return r.VideoConfidence > 0
}

// VideoPercent returns the video confidence as a rounded percentage.
func (r AnalysisResult) VideoPercent() int {
	return int(math.Round(r.VideoConfidence * 100))
}

// AudioPercent returns the audio confidence as a rounded percentage.
func (r AnalysisResult) AudioPercent() int {
	return int(math.Round(r.AudioConfidence * 100))
}

// SetProcessingTime stores d as seconds.
func (r *AnalysisResult) SetProcessingTime(d time.Duration) {
	r.ProcessingTime = d.Seconds()
}
