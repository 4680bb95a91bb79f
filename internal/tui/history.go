package tui

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/deepguard/models"
)

const historyTimeLayout = "2006-01-02 15:04"

type historyModel struct {
	items   []models.HistoryItem
	idx     int
	loading bool
	status  string
}

func (m historyModel) current() (models.HistoryItem, bool) {
	if len(m.items) == 0 || m.idx < 0 || m.idx >= len(m.items) {
		return models.HistoryItem{}, false
	}
	return m.items[m.idx], true
}

// clampCursor keeps idx valid after the list changed.
func (m historyModel) clampCursor() historyModel {
	if m.idx >= len(m.items) {
		m.idx = len(m.items) - 1
	}
	if m.idx < 0 {
		m.idx = 0
	}
	return m
}

func (m historyModel) View(header string) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString("Loading...\n")
	case len(m.items) == 0:
		b.WriteString("No analyses yet\n")
	default:
		for i, item := range m.items {
			cursor := "  "
			if i == m.idx {
				cursor = "> "
			}
			b.WriteString(cursor + historyRow(item) + "\n")
		}
	}

	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}

	return renderPage("HISTORY", b.String(), "r: rerun  d: delete  c: copy  esc: back")
}

func historyRow(item models.HistoryItem) string {
	return fmt.Sprintf("%s  %-28s %s  %s",
		item.UploadTime.Local().Format(historyTimeLayout),
		fitText(item.Filename, 28),
		verdictStyle(item.Result.Verdict).Render(fmt.Sprintf("%-4s", item.Result.Verdict)),
		scores(item.Result),
	)
}

func scores(r models.AnalysisResult) string {
	if r.HasVideoAnalysis() {
		return fmt.Sprintf("video %d%%  audio %d%%", r.VideoPercent(), r.AudioPercent())
	}
	return fmt.Sprintf("audio %d%%", r.AudioPercent())
}

// historySummary is the plain text copied to the clipboard.
func historySummary(item models.HistoryItem) string {
	return fmt.Sprintf("%s: %s (%s, %.1fs) analysed %s",
		item.Filename,
		item.Result.Verdict,
		scores(item.Result),
		item.Result.ProcessingTime,
		item.UploadTime.UTC().Format(historyTimeLayout+" MST"),
	)
}
