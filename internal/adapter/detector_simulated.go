package adapter

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/MKhiriev/deepguard/internal/logger"
	"github.com/MKhiriev/deepguard/models"
)

// realThreshold is the mean confidence above which media is judged real.
const realThreshold = 0.6

// simulatedDetector reproduces the demo scoring: it waits a random duration
// between minDuration and maxDuration and draws random confidences.
type simulatedDetector struct {
	minDuration time.Duration
	maxDuration time.Duration

	mu  sync.Mutex
	rng *rand.Rand

	logger *logger.Logger
}

// NewSimulatedDetector constructs a simulated [Detector]. A nil rng uses a
// randomly seeded source.
func NewSimulatedDetector(minDuration, maxDuration time.Duration, rng *rand.Rand, log *logger.Logger) Detector {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if maxDuration < minDuration {
		maxDuration = minDuration
	}

	return &simulatedDetector{
		minDuration: minDuration,
		maxDuration: maxDuration,
		rng:         rng,
		logger:      log,
	}
}

func (d *simulatedDetector) Detect(ctx context.Context, media models.MediaFile) (models.AnalysisResult, error) {
	wait, result := d.draw(media.Kind())

	d.logger.Debug().Str("func", "*simulatedDetector.Detect").
		Str("file", media.Name).Dur("wait", wait).Msg("simulating analysis")

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return models.AnalysisResult{}, ctx.Err()
	case <-timer.C:
	}

	return result, nil
}

func (d *simulatedDetector) draw(kind models.MediaKind) (time.Duration, models.AnalysisResult) {
	d.mu.Lock()
	defer d.mu.Unlock()

	wait := d.minDuration
	if spread := d.maxDuration - d.minDuration; spread > 0 {
		wait += time.Duration(d.rng.Int64N(int64(spread)))
	}

	var result models.AnalysisResult
	mean := 0.0
	if kind == models.MediaAudio {
		result.AudioConfidence = 0.3 + d.rng.Float64()*0.7
		mean = result.AudioConfidence
	} else {
		result.VideoConfidence = 0.3 + d.rng.Float64()*0.7
		result.AudioConfidence = 0.2 + d.rng.Float64()*0.8
		mean = (result.VideoConfidence + result.AudioConfidence) / 2
	}

	result.Verdict = verdictFor(mean)
	return wait, result
}

func verdictFor(meanConfidence float64) models.Verdict {
	if meanConfidence > realThreshold {
		return models.VerdictReal
	}
	return models.VerdictFake
}
