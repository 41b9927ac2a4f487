package billing

type Status uint8

const (
	StatusLoading Status = iota
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Response reports the progress of one asynchronous query. A query produces
// a Loading response followed by exactly one Success or Error response.
type Response[T any] struct {
	Status  Status
	Data    T
	Message string

	// Result is the store service result behind an Error, when there was one.
	Result *Result
}

func Loading[T any]() Response[T] {
	return Response[T]{Status: StatusLoading}
}

func Success[T any](data T) Response[T] {
	return Response[T]{Status: StatusSuccess, Data: data}
}

func Error[T any](message string) Response[T] {
	return Response[T]{Status: StatusError, Message: message}
}

func ErrorWithResult[T any](message string, result Result) Response[T] {
	return Response[T]{Status: StatusError, Message: message, Result: &result}
}

func (r Response[T]) IsTerminal() bool {
	return r.Status != StatusLoading
}
