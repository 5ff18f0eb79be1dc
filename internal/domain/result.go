package domain

// ResultStatus discriminates the outcome of a mutating operation.
type ResultStatus string

const (
	ResultSuccess ResultStatus = "success"
	ResultError   ResultStatus = "error"
)

// Result is the envelope returned by every mutating operation. The remote-supplied
// identifier passes through untransformed on success; on error, Message carries
// the reason.
type Result struct {
	Status  ResultStatus `json:"status"`
	ID      string       `json:"id,omitempty"`
	Message string       `json:"message,omitempty"`
}

// Accepted builds a success Result carrying the remote-supplied id.
func Accepted(id string) Result {
	return Result{Status: ResultSuccess, ID: id}
}

// Rejected builds an error Result carrying the failure message.
func Rejected(message string) Result {
	return Result{Status: ResultError, Message: message}
}
