package catalog

// Reporter receives per-item problems that were recovered from.
type Reporter interface {
	Skip(path string, err error)
}

type nopReporter struct{}

func (nopReporter) Skip(string, error) {}

// NopReporter discards everything.
var NopReporter Reporter = nopReporter{}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(path string, err error)

func (f ReporterFunc) Skip(path string, err error) { f(path, err) }
