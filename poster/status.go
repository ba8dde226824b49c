package poster

// Status is the terminal outcome of one id within a run
type Status int

const (
	// StatusDownloaded means the poster was fetched and stored
	StatusDownloaded Status = iota
	// StatusSkippedExisting means the destination file was already present
	StatusSkippedExisting
	// StatusNotFound means the catalog has no movie or no poster for the id
	StatusNotFound
	// StatusFiltered means the movie was rejected by the filter expression
	StatusFiltered
	// StatusTransportFailed means the catalog or image host could not be reached
	// or answered with an error
	StatusTransportFailed
	// StatusWriteFailed means the image could not be stored locally
	StatusWriteFailed
	// StatusFilterFailed means the filter expression could not be evaluated
	// for the movie, so nothing was downloaded
	StatusFilterFailed
)

// String returns the string representation of a Status
func (s Status) String() string {
	switch s {
	case StatusDownloaded:
		return "downloaded"
	case StatusSkippedExisting:
		return "skipped-existing"
	case StatusNotFound:
		return "not-found"
	case StatusFiltered:
		return "filtered"
	case StatusTransportFailed:
		return "transport-failed"
	case StatusWriteFailed:
		return "write-failed"
	case StatusFilterFailed:
		return "filter-failed"
	default:
		return "unknown"
	}
}

// IsFailure reports whether the id ended without a poster on disk for a reason
// other than the filter rejecting the movie.
func (s Status) IsFailure() bool {
	switch s {
	case StatusNotFound, StatusTransportFailed, StatusWriteFailed, StatusFilterFailed:
		return true
	default:
		return false
	}
}

// Stage names the pipeline step an id failed in
type Stage string

const (
	// StageNone marks ids that did not fail
	StageNone Stage = ""
	// StageResolve covers the catalog lookup and poster path
	StageResolve Stage = "resolve"
	// StageFilter covers filter evaluation
	StageFilter Stage = "filter"
	// StageFetch covers the image download
	StageFetch Stage = "fetch"
	// StageWrite covers storing the image locally
	StageWrite Stage = "write"
)
