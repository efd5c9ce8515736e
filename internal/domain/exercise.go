package domain

import "fmt"

// ExerciseKind identifies one of the supported exercises.
type ExerciseKind string

const (
	ExercisePullUps  ExerciseKind = "pull_ups"
	ExercisePushUps  ExerciseKind = "push_ups"
	ExerciseDeadlift ExerciseKind = "deadlift"
	ExerciseSquat    ExerciseKind = "squat"
)

// Exercises lists every supported exercise.
var Exercises = []ExerciseKind{
	ExercisePullUps,
	ExercisePushUps,
	ExerciseDeadlift,
	ExerciseSquat,
}

// Valid reports whether e is a supported exercise.
func (e ExerciseKind) Valid() bool {
	switch e {
	case ExercisePullUps, ExercisePushUps, ExerciseDeadlift, ExerciseSquat:
		return true
	}
	return false
}

func (e ExerciseKind) String() string {
	return string(e)
}

// ParseExerciseKind converts a raw identifier into an ExerciseKind.
func ParseExerciseKind(s string) (ExerciseKind, error) {
	e := ExerciseKind(s)
	if !e.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidExercise, s)
	}
	return e, nil
}
