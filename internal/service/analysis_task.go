package service

import (
	"context"

	"github.com/MKhiriev/deepguard/models"
)

// AnalysisTask is one running analysis. Progress values are delivered on
// Progress, which holds only the latest value and is closed when the task
// ends.
type AnalysisTask struct {
	progress chan int
	done     chan struct{}
	cancel   context.CancelFunc

	result models.AnalysisResult
	item   *models.HistoryItem
	err    error
}

func newAnalysisTask(cancel context.CancelFunc) *AnalysisTask {
	return &AnalysisTask{
		progress: make(chan int, 1),
		done:     make(chan struct{}),
		cancel:   cancel,
	}
}

// Progress reports completion percentages: at most 95 while the detector
// runs, then 100 on success.
func (t *AnalysisTask) Progress() <-chan int {
	return t.progress
}

// Done is closed once Wait would no longer block.
func (t *AnalysisTask) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task ends. item is nil when nothing was recorded.
func (t *AnalysisTask) Wait() (models.AnalysisResult, *models.HistoryItem, error) {
	<-t.done
	return t.result, t.item, t.err
}

// Cancel stops the analysis. A cancelled analysis is never recorded.
func (t *AnalysisTask) Cancel() {
	t.cancel()
}

// report replaces any unread value. Only the task goroutine sends.
func (t *AnalysisTask) report(percent int) {
	select {
	case <-t.progress:
	default:
	}
	t.progress <- percent
}

func (t *AnalysisTask) finish(result models.AnalysisResult, item *models.HistoryItem, err error) {
	t.result, t.item, t.err = result, item, err
	close(t.progress)
	close(t.done)
	t.cancel()
}
