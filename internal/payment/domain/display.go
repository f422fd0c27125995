package payment

// Phase identifies which display state is active.
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseError   Phase = "error"
	PhaseLoaded  Phase = "loaded"
)

// DisplayState is the tri-state projection of a single invoice read.
// The zero value is Loading.
type DisplayState struct {
	phase   Phase
	message string
	details PaymentDetails
}

// NewLoadingState returns the initial state of a fetch cycle.
func NewLoadingState() DisplayState {
	return DisplayState{phase: PhaseLoading}
}

// Phase returns the active phase.
func (s DisplayState) Phase() Phase {
	if s.phase == "" {
		return PhaseLoading
	}
	return s.phase
}

// Message returns the error message; empty unless the phase is PhaseError.
func (s DisplayState) Message() string { return s.message }

// Details returns the loaded payment details; zero unless the phase is PhaseLoaded.
func (s DisplayState) Details() PaymentDetails { return s.details }

// Settled reports whether the state left Loading.
func (s DisplayState) Settled() bool { return s.Phase() != PhaseLoading }

// Resolve transitions Loading to Loaded.
func (s DisplayState) Resolve(details PaymentDetails) (DisplayState, error) {
	if s.Settled() {
		return s, ErrStateSettled
	}
	return DisplayState{phase: PhaseLoaded, details: details}, nil
}

// Fail transitions Loading to Error. An empty message falls back to NotFoundMessage.
func (s DisplayState) Fail(message string) (DisplayState, error) {
	if s.Settled() {
		return s, ErrStateSettled
	}
	if message == "" {
		message = NotFoundMessage
	}
	return DisplayState{phase: PhaseError, message: message}, nil
}
