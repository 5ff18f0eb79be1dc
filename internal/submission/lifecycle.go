package submission

// Phase is the submission lifecycle state reflected to the UI.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseSuccess    Phase = "success"
	PhaseError      Phase = "error"
)

// State is a snapshot of a controller's lifecycle for display. While
// submitting, resubmission controls are disabled; that loading guard is the
// only safeguard against duplicate submission, not a transactional guarantee.
type State struct {
	Phase   Phase  `json:"phase"`
	Message string `json:"message,omitempty"`
	ID      string `json:"id,omitempty"`
}

// genericFailure is shown for transport-level failures; the underlying error
// is logged, not displayed.
const genericFailure = "Operation failed, please try again"
