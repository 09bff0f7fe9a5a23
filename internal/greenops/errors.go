package greenops

// constError is an immutable error type for sentinel errors.
// It implements the error interface and provides compile-time safety.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors shared by the converters, the scorer and the aggregation engine.
// Callers compare with errors.Is; returned errors wrap these with context.
var (
	// ErrInvalidArgument indicates a negative or non-finite magnitude, or a
	// daily usage above MaxDailyUsageHours.
	ErrInvalidArgument = constError("invalid argument")

	// ErrDivisionDomain indicates an average requested over zero days.
	ErrDivisionDomain = constError("division domain error")
)
