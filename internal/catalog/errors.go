package catalog

import "errors"

const (
	// GenericMessage is shown for every transport-level failure.
	GenericMessage = "Error fetching movies. Please try again later."
	// DefaultApplicationMessage is used when the API reports a failure
	// without saying why.
	DefaultApplicationMessage = "Failed to fetch movies"
)

type Kind int

const (
	// KindTransport covers network errors, non-2xx statuses and bodies that
	// do not decode.
	KindTransport Kind = iota + 1
	// KindApplication is a well-formed response that reports failure.
	KindApplication
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindApplication:
		return "application"
	default:
		return "unknown"
	}
}

// FetchError is returned by SearchOrDiscover. Message is safe to display;
// Err carries the underlying cause for logs.
type FetchError struct {
	Kind    Kind
	Message string
	Status  int
	Err     error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return e.Kind.String() + " error: " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.String() + " error: " + e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func transportError(status int, err error) *FetchError {
	return &FetchError{Kind: KindTransport, Message: GenericMessage, Status: status, Err: err}
}

func applicationError(message string) *FetchError {
	if message == "" {
		message = DefaultApplicationMessage
	}
	return &FetchError{Kind: KindApplication, Message: message}
}

// UserMessage returns the text the results region shows for err.
func UserMessage(err error) string {
	var fe *FetchError
	if errors.As(err, &fe) && fe.Message != "" {
		return fe.Message
	}
	return GenericMessage
}
