package solana

import (
	"errors"
)

// Code identifies a wallet or payment failure in a way the UI can branch on.
type Code string

const (
	CodeWalletNotFound      Code = "WALLET_NOT_FOUND"
	CodeUserRejected        Code = "USER_REJECTED"
	CodeConnectionTimeout   Code = "CONNECTION_TIMEOUT"
	CodeConnectionFailed    Code = "CONNECTION_FAILED"
	CodeAlreadyConnected    Code = "ALREADY_CONNECTED"
	CodeConnectInProgress   Code = "CONNECT_IN_PROGRESS"
	CodeNoWalletConnected   Code = "NO_WALLET_CONNECTED"
	CodeInsufficientBalance Code = "INSUFFICIENT_BALANCE"
	CodeAnchorExpired       Code = "ANCHOR_EXPIRED"
	CodeSubmissionFailed    Code = "SUBMISSION_FAILED"
	CodeConfirmationTimeout Code = "CONFIRMATION_TIMEOUT"
	CodePaymentInProgress   Code = "PAYMENT_IN_PROGRESS"
	CodePersistenceError    Code = "PERSISTENCE_ERROR"
	CodeDuplicateSignature  Code = "DUPLICATE_SIGNATURE"
	CodeAirdropUnavailable  Code = "AIRDROP_UNAVAILABLE"
	CodeInvalidAmount       Code = "INVALID_AMOUNT"
	CodePendingNotFound     Code = "PENDING_NOT_FOUND"
	CodeNetworkError        Code = "NETWORK_ERROR"
)

// Error is a coded wallet or payment error.
// Signature is set when a transaction was already submitted, so the caller can check the explorer.
type Error struct {
	Code      Code
	Message   string
	Signature string
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrWalletNotFound      = &Error{Code: CodeWalletNotFound, Message: "no compatible wallet found"}
	ErrUserRejected        = &Error{Code: CodeUserRejected, Message: "request rejected in wallet"}
	ErrConnectionTimeout   = &Error{Code: CodeConnectionTimeout, Message: "wallet connection timed out"}
	ErrConnectionFailed    = &Error{Code: CodeConnectionFailed, Message: "failed to connect wallet"}
	ErrAlreadyConnected    = &Error{Code: CodeAlreadyConnected, Message: "a wallet is already connected"}
	ErrConnectInProgress   = &Error{Code: CodeConnectInProgress, Message: "wallet connection already in progress"}
	ErrNoWalletConnected   = &Error{Code: CodeNoWalletConnected, Message: "no wallet connected"}
	ErrInsufficientBalance = &Error{Code: CodeInsufficientBalance, Message: "insufficient SOL balance"}
	ErrAnchorExpired       = &Error{Code: CodeAnchorExpired, Message: "transaction blockhash expired"}
	ErrSubmissionFailed    = &Error{Code: CodeSubmissionFailed, Message: "transaction failed"}
	ErrConfirmationTimeout = &Error{Code: CodeConfirmationTimeout, Message: "transaction not confirmed in time, check the explorer before retrying"}
	ErrPaymentInProgress   = &Error{Code: CodePaymentInProgress, Message: "another payment is in progress"}
	ErrPersistence         = &Error{Code: CodePersistenceError, Message: "failed to persist wallet data"}
	ErrDuplicateSignature  = &Error{Code: CodeDuplicateSignature, Message: "transaction already recorded"}
	ErrAirdropUnavailable  = &Error{Code: CodeAirdropUnavailable, Message: "airdrop is only available on test networks"}
	ErrInvalidAmount       = &Error{Code: CodeInvalidAmount, Message: "invalid amount"}
	ErrPendingNotFound     = &Error{Code: CodePendingNotFound, Message: "no pending payment with this signature"}
	ErrNetwork             = &Error{Code: CodeNetworkError, Message: "solana network request failed"}
)

// wrap returns a copy of sentinel carrying cause.
func wrap(sentinel *Error, cause error) *Error {
	return &Error{Code: sentinel.Code, Message: sentinel.Message, Err: cause}
}

// withSignature returns a copy of sentinel carrying cause and the submitted signature.
func withSignature(sentinel *Error, signature string, cause error) *Error {
	e := wrap(sentinel, cause)
	e.Signature = signature
	return e
}

// CodeOf returns the code of the first *Error in err's chain, or "" if there is none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// SignatureOf returns the submitted signature carried by err, if any.
func SignatureOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Signature
	}
	return ""
}
