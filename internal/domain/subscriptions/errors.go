package subscriptions

import "errors"

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotFound        = errors.New("not found")
	ErrBadRequest      = errors.New("bad request")
	ErrNonePurchasable = errors.New("no purchasable subscription")
)

func IsErrUnauthorized(err error) bool    { return errors.Is(err, ErrUnauthorized) }
func IsErrNotFound(err error) bool        { return errors.Is(err, ErrNotFound) }
func IsErrBadRequest(err error) bool      { return errors.Is(err, ErrBadRequest) }
func IsErrNonePurchasable(err error) bool { return errors.Is(err, ErrNonePurchasable) }
