package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/MKhiriev/deepguard/internal/logger"
	"github.com/MKhiriev/deepguard/internal/utils"
	"github.com/MKhiriev/deepguard/models"
)

// detectResponse is the body of POST /detect.
type detectResponse struct {
	VideoConfidence *float64 `json:"video_confidence"`
	AudioConfidence *float64 `json:"audio_confidence"`
	IsFake          bool     `json:"is_fake"`
}

type remoteDetector struct {
	client *utils.HTTPClient
	logger *logger.Logger
}

// NewRemoteDetector constructs an HTTP implementation of [Detector] that
// uploads the file as multipart field "file" to POST {baseURL}/detect.
//
// Returns an error if baseURL is empty or cannot be parsed as a valid URL.
func NewRemoteDetector(baseURL string, timeout time.Duration, log *logger.Logger) (Detector, error) {
	normalized, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid detection backend url: %w", err)
	}

	return &remoteDetector{
		client: utils.NewHTTPClient(normalized, timeout),
		logger: log,
	}, nil
}

func (d *remoteDetector) Detect(ctx context.Context, media models.MediaFile) (models.AnalysisResult, error) {
	log := logger.FromContext(ctx)

	reader := media.Reader
	if reader == nil {
		reader = strings.NewReader("")
	}

	var body detectResponse
	resp, err := d.client.R().
		SetContext(ctx).
		SetFileReader("file", media.Name, reader).
		SetResult(&body).
		Post("/detect")
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return models.AnalysisResult{}, ctxErr
		}
		log.Err(err).Str("func", "*remoteDetector.Detect").Msg("detect request failed")
		return models.AnalysisResult{}, fmt.Errorf("%w: %w", ErrBackendUnreachable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		log.Err(err).Str("func", "*remoteDetector.Detect").Int("status", resp.StatusCode()).Msg("detect request rejected")
		return models.AnalysisResult{}, err
	}
	if body.VideoConfidence == nil && body.AudioConfidence == nil {
		return models.AnalysisResult{}, fmt.Errorf("%w: no confidence in response", ErrInvalidResponse)
	}

	result := models.AnalysisResult{Verdict: models.VerdictReal}
	if body.VideoConfidence != nil {
		result.VideoConfidence = *body.VideoConfidence
	}
	if body.AudioConfidence != nil {
		result.AudioConfidence = *body.AudioConfidence
	}
	if body.IsFake {
		result.Verdict = models.VerdictFake
	}

	return result, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", errors.New("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}
