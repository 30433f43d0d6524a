package service

import "errors"

var (
	ErrNameInUse               = errors.New("username already in use")
	ErrEmailInUse              = errors.New("email already in use")
	ErrReservedUsername        = errors.New("this username is reserved")
	ErrInvalidConfirmationCode = errors.New("invalid confirmation code")
	ErrInvalidToken            = errors.New("invalid token")
	ErrReviewExists            = errors.New("you can not leave more than one review")
	ErrForbidden               = errors.New("forbidden")

	ErrUserNotFound     = errors.New("user not found")
	ErrTitleNotFound    = errors.New("title not found")
	ErrReviewNotFound   = errors.New("review not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrGenreNotFound    = errors.New("genre not found")
)

// ValidationError is a client error tied to a single request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
