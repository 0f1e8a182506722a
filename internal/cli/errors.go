package cli

// PreflightError describes an environment problem the user can fix, with a
// hint and the command to try next.
type PreflightError struct {
	Message  string
	Hint     string
	NextStep string
}

func (e *PreflightError) Error() string {
	return e.Message
}
