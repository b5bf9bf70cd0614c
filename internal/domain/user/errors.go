package user

import "errors"

var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotFound         = errors.New("not found")
	ErrBadRequest       = errors.New("bad request")
	ErrCannotDeleteSelf = errors.New("cannot delete yourself")
)

func IsErrUnauthorized(err error) bool     { return errors.Is(err, ErrUnauthorized) }
func IsErrNotFound(err error) bool         { return errors.Is(err, ErrNotFound) }
func IsErrBadRequest(err error) bool       { return errors.Is(err, ErrBadRequest) }
func IsErrCannotDeleteSelf(err error) bool { return errors.Is(err, ErrCannotDeleteSelf) }
