package market

import "errors"

// Error kinds returned by market operations. Callers branch on them with
// errors.Is; the wrapped message only adds context.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrAlreadyExists     = errors.New("market already exists")
	ErrNoSuchMarket      = errors.New("no such market")
	ErrInvalidOutcome    = errors.New("invalid outcome")
	ErrAlreadyResolved   = errors.New("market already resolved")
	ErrMarketNotResolved = errors.New("market not resolved")
)
