// Package sm2 implements the SM-2 variant used to schedule flashcard reviews.
// It is a pure package: no storage, no clock, no randomness.
package sm2

import (
	"math"
	"time"

	"github.com/heartmarshall/brainq-backend/internal/domain"
)

// Grades produced by a binary answer outcome.
const (
	GradeCorrect   = 5
	GradeIncorrect = 2

	// passingGrade is the lowest grade that counts as a successful recall.
	passingGrade = 3
)

// Easiness bounds.
const (
	InitialEasiness = domain.DefaultEasiness
	MinEasiness     = 1.3
)

// Accuracy thresholds for the derived difficulty.
const (
	EasyAccuracy = 0.85
	HardAccuracy = 0.60

	// minAttemptsForDifficulty is the number of graded attempts below which
	// the difficulty stays medium.
	minAttemptsForDifficulty = 3
)

// Difficulty derived from lifetime accuracy.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// State is the memory state of one (user, card) pair.
type State struct {
	CorrectCount    int
	IncorrectCount  int
	AvgResponseTime float64
	Difficulty      Difficulty
	Easiness        float64
	Interval        int // days
	Repetitions     int
	LastReviewed    *time.Time
	NextReviewDue   *time.Time
}

// NewState returns the state of a card that was never graded.
func NewState() State {
	return State{
		Difficulty: Medium,
		Easiness:   InitialEasiness,
	}
}

// Review applies one graded answer to the state and returns the new state.
// responseTime is optional; when nil the running average is left unchanged.
func Review(s State, correct bool, responseTime *float64, now time.Time) State {
	if correct {
		s.CorrectCount++
	} else {
		s.IncorrectCount++
	}

	if responseTime != nil {
		s.AvgResponseTime = runningAverage(s.AvgResponseTime, *responseTime, s.CorrectCount+s.IncorrectCount)
	}

	s.Difficulty = DifficultyFor(s.CorrectCount, s.IncorrectCount)

	grade := GradeIncorrect
	if correct {
		grade = GradeCorrect
	}
	s.Easiness = NextEasiness(s.Easiness, grade)

	if grade < passingGrade {
		s.Repetitions = 0
		s.Interval = 1
	} else {
		s.Repetitions++
		switch s.Repetitions {
		case 1:
			s.Interval = 1
		case 2:
			s.Interval = 6
		default:
			s.Interval = int(math.Floor(float64(s.Interval) * s.Easiness))
		}
	}

	reviewed := now
	due := now.AddDate(0, 0, s.Interval)
	s.LastReviewed = &reviewed
	s.NextReviewDue = &due

	return s
}

// NextEasiness returns the easiness factor after a review with the given grade,
// never lower than MinEasiness.
func NextEasiness(easiness float64, grade int) float64 {
	q := float64(5 - grade)
	next := easiness + (0.1 - q*(0.08+q*0.02))
	return math.Max(MinEasiness, next)
}

// DifficultyFor derives the per-user difficulty from lifetime counters.
func DifficultyFor(correct, incorrect int) Difficulty {
	total := correct + incorrect
	if total < minAttemptsForDifficulty {
		return Medium
	}
	accuracy := float64(correct) / float64(total)
	switch {
	case accuracy >= EasyAccuracy:
		return Easy
	case accuracy <= HardAccuracy:
		return Hard
	default:
		return Medium
	}
}

// runningAverage folds sample into avg, where n counts all samples including
// this one. The first sample sets the average directly.
func runningAverage(avg, sample float64, n int) float64 {
	if n <= 1 {
		return sample
	}
	return (avg*float64(n-1) + sample) / float64(n)
}

// Accuracy returns the lifetime share of correct answers, 0 without attempts.
func Accuracy(s State) float64 {
	total := s.CorrectCount + s.IncorrectCount
	if total == 0 {
		return 0
	}
	return float64(s.CorrectCount) / float64(total)
}
