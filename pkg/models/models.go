package models

// RepoRef identifies the GitHub repository an operation works on.
type RepoRef struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

// Complete reports whether both owner and repository name are set.
func (r RepoRef) Complete() bool {
	return r.Owner != "" && r.Repo != ""
}

// Package returns the "<owner>-<repo>" stem the backend uses for derived artifact names.
func (r RepoRef) Package() string {
	return r.Owner + "-" + r.Repo
}

// FullName returns "<owner>/<repo>".
func (r RepoRef) FullName() string {
	return r.Owner + "/" + r.Repo
}

// OperationKind names one of the console operations
type OperationKind string

const (
	OperationGather        OperationKind = "gather"
	OperationFitBass       OperationKind = "fit-bass"
	OperationFitInnovation OperationKind = "fit-innovation"
)

// AllOperations returns every operation in display order.
func AllOperations() []OperationKind {
	return []OperationKind{OperationGather, OperationFitBass, OperationFitInnovation}
}

// ParseOperationKind maps a user supplied name to an OperationKind.
func ParseOperationKind(name string) (OperationKind, bool) {
	for _, kind := range AllOperations() {
		if string(kind) == name {
			return kind, true
		}
	}
	return "", false
}

// OperationRequest is a single outbound backend call made by one trigger.
type OperationRequest struct {
	ID       string  `json:"id"`    // correlates log lines for one cycle
	Token    uint64  `json:"token"` // per-controller sequence number
	Endpoint string  `json:"endpoint"`
	Body     RepoRef `json:"body"`
}

// GatherResult is the backend reply to a commit gathering request.
// File names are derived client side, so only the success flag matters.
type GatherResult struct {
	Success bool   `json:"success"`
	Output  string `json:"output,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ModelFitResult is the backend reply shared by the Bass and Innovation model fits.
type ModelFitResult struct {
	Success bool     `json:"success"`
	Output  string   `json:"output,omitempty"`
	Images  []string `json:"images,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// State is the UI state of one operation controller.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateError   State = "error"
)
