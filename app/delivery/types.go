package delivery

// Status is the closed set of delivery attempt outcomes.
type Status string

const (
	StatusSent        Status = "sent"
	StatusFailed      Status = "failed"
	StatusRejected    Status = "rejected"
	StatusFilteredOut Status = "filtered-out"
)

// ErrorCode qualifies failed and rejected outcomes. Failed codes describe
// internal or transient faults on our side; rejected codes describe the
// destination declining the request. The two code spaces stay distinct because
// retry and alerting policy differ between them.
type ErrorCode string

const (
	// Failed taxonomy.
	ErrorCodeNoDestination ErrorCode = "no-channel-or-webhook"
	ErrorCodeInternal      ErrorCode = "internal-error"

	// Rejected taxonomy.
	ErrorCodeBadRequest ErrorCode = "third-party-bad-request"
)

// State is the outcome a medium reports for one article delivery attempt.
// Outcomes are durable data, never thrown control flow: they are recorded in
// the ledger for audit and rate-window accounting.
type State struct {
	ID              string // article id the attempt reports on
	MediumID        string
	Status          Status
	ErrorCode       ErrorCode // set for failed and rejected only
	InternalMessage string    // set for failed and rejected only
}
