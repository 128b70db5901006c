// Package apperr defines the domain failures raised by the banking service.
//
// Every failure is an *Error carrying a Kind plus the fields relevant to that
// kind. The HTTP layer dispatches on Kind to pick a status code.
package apperr

import (
	"errors"
	"fmt"
	"strconv"
)

// Kind identifies which domain rule a failure came from.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindAccountNotFound
	KindDuplicateAccount
	KindNegativeBalance
	KindNonPositiveAmount
	KindOverdraw
	KindBalanceOverflow
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAccountNotFound:
		return "account_not_found"
	case KindDuplicateAccount:
		return "duplicate_account"
	case KindNegativeBalance:
		return "negative_balance"
	case KindNonPositiveAmount:
		return "non_positive_amount"
	case KindOverdraw:
		return "overdraw"
	case KindBalanceOverflow:
		return "balance_overflow"
	default:
		return "unknown"
	}
}

// Error is a domain failure. Balance and Amount are only set for KindOverdraw
// and KindBalanceOverflow.
type Error struct {
	Kind        Kind
	ClientID    string
	AccountName string
	Balance     float64
	Amount      float64
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("client %s not found", e.ClientID)
	case KindAccountNotFound:
		return fmt.Sprintf("client %s does not have an account named %s", e.ClientID, e.AccountName)
	case KindDuplicateAccount:
		return fmt.Sprintf("account %s for client %s already exists", e.AccountName, e.ClientID)
	case KindNegativeBalance:
		return fmt.Sprintf("account %s for client %s cannot be created with a negative balance", e.AccountName, e.ClientID)
	case KindNonPositiveAmount:
		return fmt.Sprintf("amount for account %s of client %s must be positive", e.AccountName, e.ClientID)
	case KindOverdraw:
		return fmt.Sprintf("cannot withdraw %s from account %s of client %s: balance is %s",
			formatAmount(e.Amount), e.AccountName, e.ClientID, formatAmount(e.Balance))
	case KindBalanceOverflow:
		return fmt.Sprintf("cannot deposit %s into account %s of client %s: balance %s would overflow",
			formatAmount(e.Amount), e.AccountName, e.ClientID, formatAmount(e.Balance))
	default:
		return "unknown banking error"
	}
}

// Is matches any *Error of the same Kind, so the Err* values below work with
// errors.Is regardless of the ids carried.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrAccountNotFound   = &Error{Kind: KindAccountNotFound}
	ErrDuplicateAccount  = &Error{Kind: KindDuplicateAccount}
	ErrNegativeBalance   = &Error{Kind: KindNegativeBalance}
	ErrNonPositiveAmount = &Error{Kind: KindNonPositiveAmount}
	ErrOverdraw          = &Error{Kind: KindOverdraw}
	ErrBalanceOverflow   = &Error{Kind: KindBalanceOverflow}
)

func NotFound(clientID string) *Error {
	return &Error{Kind: KindNotFound, ClientID: clientID}
}

func AccountNotFound(clientID, accountName string) *Error {
	return &Error{Kind: KindAccountNotFound, ClientID: clientID, AccountName: accountName}
}

func DuplicateAccount(clientID, accountName string) *Error {
	return &Error{Kind: KindDuplicateAccount, ClientID: clientID, AccountName: accountName}
}

func NegativeBalance(clientID, accountName string) *Error {
	return &Error{Kind: KindNegativeBalance, ClientID: clientID, AccountName: accountName}
}

func NonPositiveAmount(clientID, accountName string) *Error {
	return &Error{Kind: KindNonPositiveAmount, ClientID: clientID, AccountName: accountName}
}

func Overdraw(clientID, accountName string, balance, amount float64) *Error {
	return &Error{Kind: KindOverdraw, ClientID: clientID, AccountName: accountName, Balance: balance, Amount: amount}
}

// BalanceOverflow reports a balance that would no longer be a finite number.
func BalanceOverflow(clientID, accountName string, balance, amount float64) *Error {
	return &Error{Kind: KindBalanceOverflow, ClientID: clientID, AccountName: accountName, Balance: balance, Amount: amount}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
