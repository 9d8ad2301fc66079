package teach

import "github.com/abhisek/rubberduck/internal/session"

// askDoneMsg carries the duck's reply to an answer.
type askDoneMsg struct {
	Result *session.AskResult
	Err    error
}

// evaluateDoneMsg carries an evaluation of the latest answer.
type evaluateDoneMsg struct {
	Result *session.EvaluateResult
	Err    error
}

// endDoneMsg is sent once the session has been ended.
type endDoneMsg struct {
	Result *session.EndResult
	Err    error
}
