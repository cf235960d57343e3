package builder

// Progress receives per-project compile progress. The CLI backs it with a
// terminal progress bar; tests and non-interactive runs use a no-op.
type Progress interface {
	Add(n int) error
	Finish() error
}

// ProgressFunc creates the Progress for one project about to compile total
// stale sources.
type ProgressFunc func(project string, total int) Progress

type noProgress struct{}

func (noProgress) Add(int) error { return nil }
func (noProgress) Finish() error { return nil }

func discardProgress(string, int) Progress { return noProgress{} }
