package errcodes

type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

const (
	InternalServerError ErrorCode = "InternalServerError"
	TimeoutExceeded     ErrorCode = "TimeoutExceeded"
	Forbidden           ErrorCode = "Forbidden"
	ValidationError     ErrorCode = "ValidationError"
	NotFound            ErrorCode = "NotFound"
	Unauthorized        ErrorCode = "Unauthorized"

	// Offer pipeline.
	OfferNotFound      ErrorCode = "OfferNotFound"
	InvalidOfferID     ErrorCode = "InvalidOfferID"
	OrderInfoMissing   ErrorCode = "OrderInfoMissing"
	JournalUnavailable ErrorCode = "JournalUnavailable"
)
