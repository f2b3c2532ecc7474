package engine

// Status is the host-visible outcome of one execution attempt.
type Status int

const (
	// Success means the engine ran the script to completion.
	Success Status = iota
	// Failure means the engine could not run the script to completion.
	Failure
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// Result is the outcome of executing a script against a Context.
type Result struct {
	Status Status
	// Err holds the engine diagnostic on Failure. Hosts log it; they do not
	// print it alongside script output.
	Err error
}

// Failed reports whether the result is a Failure.
func (r Result) Failed() bool {
	return r.Status != Success
}

func failure(err error) Result {
	return Result{Status: Failure, Err: err}
}
