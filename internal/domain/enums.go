package domain

// QuizMode controls how a non-adaptive session orders its cards.
type QuizMode string

const (
	QuizModeRandom     QuizMode = "random"
	QuizModeSequential QuizMode = "sequential"
	QuizModeTimed      QuizMode = "timed"
)

func (m QuizMode) String() string { return string(m) }

func (m QuizMode) IsValid() bool {
	switch m {
	case QuizModeRandom, QuizModeSequential, QuizModeTimed:
		return true
	}
	return false
}

// Difficulty is both the author-assigned card difficulty and the
// per-user difficulty derived from answer accuracy.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) String() string { return string(d) }

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// SessionState is the lifecycle state of a quiz session. It is derived from
// FinishedAt and IsPaused, never stored on its own.
type SessionState string

const (
	SessionStateActive   SessionState = "active"
	SessionStatePaused   SessionState = "paused"
	SessionStateFinished SessionState = "finished"
)

func (s SessionState) String() string { return string(s) }

func (s SessionState) IsValid() bool {
	switch s {
	case SessionStateActive, SessionStatePaused, SessionStateFinished:
		return true
	}
	return false
}
