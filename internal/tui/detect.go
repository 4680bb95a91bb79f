package tui

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/deepguard/internal/service"
	"github.com/MKhiriev/deepguard/models"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
)

type detectModel struct {
	path    textinput.Model
	editing bool

	bar      progress.Model
	task     *service.AnalysisTask
	file     *os.File
	filename string
	size     int64
	percent  int

	result *models.AnalysisResult
}

func newDetectModel() detectModel {
	path := textinput.New()
	path.Placeholder = "/path/to/video.mp4"
	path.CharLimit = 4096
	path.Width = 60

	return detectModel{
		path: path,
		bar:  progress.New(progress.WithDefaultGradient(), progress.WithWidth(50)),
	}
}

func (m detectModel) analyzing() bool {
	return m.task != nil
}

func (m detectModel) cancel() {
	if m.task != nil {
		m.task.Cancel()
	}
}

// closeFile releases the upload once its task has ended.
func (m *detectModel) closeFile() {
	if m.file != nil {
		_ = m.file.Close()
		m.file = nil
	}
}

// openMedia opens a local file as an upload. The caller owns the returned
// file.
func openMedia(path string) (models.MediaFile, *os.File, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return models.MediaFile{}, nil, service.ErrInvalidMediaFile
	}

	f, err := os.Open(path)
	if err != nil {
		return models.MediaFile{}, nil, fmt.Errorf("open media: %w", err)
	}

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		_ = f.Close()
		return models.MediaFile{}, nil, fmt.Errorf("%w: %s is not a file", service.ErrInvalidMediaFile, path)
	}

	media := models.MediaFile{
		Name:        filepath.Base(path),
		ContentType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
		Size:        info.Size(),
		Reader:      f,
	}
	return media, f, nil
}

func (m detectModel) View(header string) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")

	hotKeys := "o: open file  h: history  l: logout  q: quit"
	switch {
	case m.analyzing():
		b.WriteString(fmt.Sprintf("Analyzing %s%s\n\n", m.filename, sizeSuffix(m.size)))
		b.WriteString(m.bar.ViewAs(float64(m.percent) / 100))
		b.WriteString("\n")
		hotKeys = "esc: cancel"
	case m.editing:
		b.WriteString("Media file (MP4, AVI, MOV, WebM, OGG, WAV, MP3)\n")
		b.WriteString(m.path.View())
		b.WriteString("\n")
		hotKeys = "enter: analyze  esc: back"
	case m.result != nil:
		b.WriteString(renderResult(m.filename, *m.result))
	default:
		b.WriteString("Press o to pick a video or audio file.\n")
	}

	return renderPage("ANALYZE MEDIA", b.String(), hotKeys)
}

func renderResult(filename string, r models.AnalysisResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("File:       %s\n", filename))
	b.WriteString(fmt.Sprintf("Verdict:    %s\n", verdictStyle(r.Verdict).Render(string(r.Verdict))))
	if r.HasVideoAnalysis() {
		b.WriteString(fmt.Sprintf("Video:      %d%%\n", r.VideoPercent()))
	}
	b.WriteString(fmt.Sprintf("Audio:      %d%%\n", r.AudioPercent()))
	b.WriteString(fmt.Sprintf("Time:       %.1fs\n", r.ProcessingTime))
	return b.String()
}

// sizeSuffix is empty for reruns, which carry no upload.
func sizeSuffix(size int64) string {
	if size <= 0 {
		return ""
	}
	return " (" + models.FormatFileSize(size) + ")"
}
