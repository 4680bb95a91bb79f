package models

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"slices"
	"strings"
)

// MediaKind classifies an uploaded file.
type MediaKind string

const (
	MediaVideo   MediaKind = "video"
	MediaAudio   MediaKind = "audio"
	MediaUnknown MediaKind = "unknown"
)

var (
	videoContentTypes = []string{"video/mp4", "video/avi", "video/mov", "video/quicktime", "video/x-msvideo", "video/webm", "video/ogg"}
	audioContentTypes = []string{"audio/wav", "audio/wave", "audio/x-wav", "audio/mpeg", "audio/mp3"}
	videoExtensions   = []string{".mp4", ".avi", ".mov", ".webm", ".ogg"}
	audioExtensions   = []string{".wav", ".mp3"}
)

// MediaFile is an uploaded file handed to a detector.
type MediaFile struct {
	// Name is the original file name, used for extension sniffing and history.
	Name string
	// ContentType is the declared MIME type, may be empty.
	ContentType string
	// Size is the file size in bytes.
	Size int64
	// Reader streams the file contents. Detectors that only need metadata
	// may ignore it.
	Reader io.Reader
}

// Kind returns the media kind by MIME type or extension. Audio is checked
// first.
func (f MediaFile) Kind() MediaKind {
	ext := strings.ToLower(filepath.Ext(f.Name))

	switch {
	case slices.Contains(audioContentTypes, f.ContentType), slices.Contains(audioExtensions, ext):
		return MediaAudio
	case slices.Contains(videoContentTypes, f.ContentType), slices.Contains(videoExtensions, ext):
		return MediaVideo
	default:
		return MediaUnknown
	}
}

// IsValid reports whether the file is a supported video or audio file.
func (f MediaFile) IsValid() bool {
	return f.Kind() != MediaUnknown
}

// FormatFileSize renders a byte count with binary units, e.g. "1.5 KB".
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}

	sizes := []string{"Bytes", "KB", "MB", "GB"}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(sizes) {
		i = len(sizes) - 1
	}

	value := math.Round(float64(bytes)/math.Pow(1024, float64(i))*100) / 100
	return fmt.Sprintf("%s %s", formatFloat(value), sizes[i])
}

func formatFloat(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
