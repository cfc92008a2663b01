// Package errs defines the error taxonomy shared by the ledger, access control,
// registry and wrap/unwrap engine. Every error is a go-errors rich error carrying
// a stable text code so callers can branch on the kind without string matching.
package errs

import (
	"math/big"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes.
const (
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeInvalidArgument       = "INVALID_ARGUMENT"
	CodeInsufficientBalance   = "INSUFFICIENT_BALANCE"
	CodeInsufficientAllowance = "INSUFFICIENT_ALLOWANCE"
	CodeUnderlyingTransfer    = "UNDERLYING_TRANSFER_FAILED"
	CodeInvariantViolation    = "INVARIANT_VIOLATION"
)

// MsgNotOwner is the message of every owner-gate rejection.
const MsgNotOwner = "caller is not the owner"

// Unauthorized reports a non-owner invoking an owner-only operation.
func Unauthorized(caller string) error {
	return goerrors.New(MsgNotOwner, goerrors.CategoryAuthz).
		WithTextCode(CodeUnauthorized).
		WithMetadata(map[string]any{"caller": caller})
}

// InvalidArgument reports a rejected input such as the zero address or a zero amount.
func InvalidArgument(message string) error {
	return goerrors.New(message, goerrors.CategoryBadInput).
		WithTextCode(CodeInvalidArgument)
}

// InsufficientBalance reports a debit larger than the account balance.
func InsufficientBalance(account string, balance, needed *big.Int) error {
	return goerrors.New("insufficient balance", goerrors.CategoryValidation).
		WithTextCode(CodeInsufficientBalance).
		WithMetadata(map[string]any{
			"account": account,
			"balance": balance.String(),
			"needed":  needed.String(),
		})
}

// InsufficientAllowance reports a delegated spend larger than the allowance.
func InsufficientAllowance(owner, spender string, allowance, needed *big.Int) error {
	return goerrors.New("insufficient allowance", goerrors.CategoryValidation).
		WithTextCode(CodeInsufficientAllowance).
		WithMetadata(map[string]any{
			"owner":     owner,
			"spender":   spender,
			"allowance": allowance.String(),
			"needed":    needed.String(),
		})
}

// UnderlyingTransfer reports that the underlying asset rejected a pull or push.
// cause may be nil when the asset returned false without an error.
func UnderlyingTransfer(op string, cause error) error {
	meta := map[string]any{"operation": op}
	if cause == nil {
		return goerrors.New("underlying transfer failed", goerrors.CategoryOperation).
			WithTextCode(CodeUnderlyingTransfer).
			WithMetadata(meta)
	}
	return goerrors.Wrap(cause, goerrors.CategoryOperation, "underlying transfer failed").
		WithTextCode(CodeUnderlyingTransfer).
		WithMetadata(meta)
}

// InvariantViolation reports a broken ledger or collateral invariant.
func InvariantViolation(message string, meta map[string]any) error {
	err := goerrors.New(message, goerrors.CategoryInternal).
		WithTextCode(CodeInvariantViolation)
	if len(meta) > 0 {
		err.WithMetadata(meta)
	}
	return err
}

// Code returns the text code of err, or "" when err is not a rich error.
func Code(err error) string {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return ""
	}
	return rich.TextCode
}

func IsUnauthorized(err error) bool          { return Code(err) == CodeUnauthorized }
func IsInvalidArgument(err error) bool       { return Code(err) == CodeInvalidArgument }
func IsInsufficientBalance(err error) bool   { return Code(err) == CodeInsufficientBalance }
func IsInsufficientAllowance(err error) bool { return Code(err) == CodeInsufficientAllowance }
func IsUnderlyingTransfer(err error) bool    { return Code(err) == CodeUnderlyingTransfer }
func IsInvariantViolation(err error) bool    { return Code(err) == CodeInvariantViolation }
