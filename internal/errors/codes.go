// Package errors provides structured error handling for the caucus client.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Sync errors
	CodeTransportFailure Code = "SYNC_TRANSPORT_FAILURE"
	CodeSnapshotDecode   Code = "SYNC_SNAPSHOT_DECODE"
	CodeServerRejected   Code = "SYNC_SERVER_REJECTED"

	// Commitment errors
	CodeCommitmentNotSelecting        Code = "COMMITMENT_NOT_SELECTING"
	CodeCommitmentNotDrafting         Code = "COMMITMENT_NOT_DRAFTING"
	CodeCommitmentUnknownLegislation  Code = "COMMITMENT_UNKNOWN_LEGISLATION"
	CodeCommitmentAmountNotPositive   Code = "COMMITMENT_AMOUNT_NOT_POSITIVE"
	CodeCommitmentInsufficientCapital Code = "COMMITMENT_INSUFFICIENT_CAPITAL"

	// Archive errors
	CodeArchiveNotConfigured Code = "ARCHIVE_NOT_CONFIGURED"
)
