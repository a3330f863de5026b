package errors

import "fmt"

func wrap(sentinel, err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", sentinel, context, err)
}

// WrapStorage wraps an error with storage context
func WrapStorage(err error, context string) error {
	return wrap(ErrStorage, err, context)
}

// WrapInvalid wraps an error with invalid input context
func WrapInvalid(err error, context string) error {
	return wrap(ErrInvalid, err, context)
}

// WrapNotFound wraps an error with not found context
func WrapNotFound(err error, context string) error {
	return wrap(ErrNotFound, err, context)
}

// WrapNetwork wraps a transport failure with the request it belongs to
func WrapNetwork(err error, context string) error {
	return wrap(ErrNetwork, err, context)
}

// WrapClipboard wraps a clipboard write failure
func WrapClipboard(err error, context string) error {
	return wrap(ErrClipboard, err, context)
}
