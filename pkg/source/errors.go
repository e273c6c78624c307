package source

import "errors"

// Predefined errors for the source package.
var (
	// ErrNilHandler indicates a source was constructed without a definition
	// handler.
	ErrNilHandler = errors.New("definition handler is nil")

	// ErrNilFetch indicates a poller was constructed without a fetch function.
	ErrNilFetch = errors.New("fetch function is nil")

	// ErrEmptyPath indicates a file source was constructed without a document
	// path.
	ErrEmptyPath = errors.New("document path is empty")

	// ErrUnsupportedFormat indicates the document format cannot be determined
	// or is not one of the supported ones.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrInvalidDocument indicates a toggle document could not be decoded or
	// violates the document schema.
	ErrInvalidDocument = errors.New("invalid toggle document")

	// ErrReadDocument indicates the toggle document could not be read.
	ErrReadDocument = errors.New("failed to read toggle document")

	// ErrInvalidSchedule indicates the poll schedule expression is malformed.
	ErrInvalidSchedule = errors.New("invalid poll schedule")

	// ErrFetchFailed indicates the fetch function reported an error.
	ErrFetchFailed = errors.New("toggle fetch failed")

	// ErrAlreadyRunning indicates Run was called on a poller that is already
	// running.
	ErrAlreadyRunning = errors.New("poller already running")
)
