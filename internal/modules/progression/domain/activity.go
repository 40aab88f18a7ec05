package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "shadowgate/internal/platform/errors"
)

type Activity string

const (
	ActivityCode   Activity = "code"
	ActivitySleep  Activity = "sleep"
	ActivitySport  Activity = "sport"
	ActivityEat    Activity = "eat"
	ActivityListen Activity = "listen"
	ActivityBreath Activity = "breath"
)

var Activities = []Activity{ActivityCode, ActivitySleep, ActivitySport, ActivityEat, ActivityListen, ActivityBreath}

func ParseActivity(raw string) (Activity, error) {
	a := Activity(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Activities {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: unknown activity %q", apperrors.ErrInvalidInput, raw)
}

type Grade string

const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeF Grade = "F"
)

// gradePercent is the XP multiplier per grade, in hundredths.
var gradePercent = map[Grade]int{
	GradeS: 150,
	GradeA: 120,
	GradeB: 100,
	GradeF: 20,
}

func ParseGrade(raw string) (Grade, error) {
	g := Grade(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := gradePercent[g]; !ok {
		return "", fmt.Errorf("%w: unknown grade %q", apperrors.ErrInvalidInput, raw)
	}
	return g, nil
}

// CalculateXP converts whole minutes of activity into experience.
func CalculateXP(minutes int, grade Grade) int {
	if minutes <= 0 {
		return 0
	}
	return minutes * gradePercent[grade] / 100
}

// StatRewards grants max(1, minutes/30) points to every attribute the
// activity trains.
func StatRewards(activity Activity, minutes int) Stats {
	points := max(1, minutes/30)
	switch activity {
	case ActivityCode:
		return Stats{INT: points}
	case ActivitySleep, ActivityEat:
		return Stats{VIT: points}
	case ActivitySport:
		return Stats{STR: points, VIT: points}
	case ActivityListen:
		return Stats{WIS: points}
	case ActivityBreath:
		return Stats{WIS: points, VIT: points}
	default:
		return Stats{}
	}
}

// MaxActivityMinutes bounds a single log entry to one day.
const MaxActivityMinutes = 24 * 60

type ActivityLog struct {
	ID         string
	Activity   Activity
	Minutes    int
	Grade      Grade
	XPGained   int
	StatPoints Stats
	CreatedAt  time.Time
}

// NewActivityLog validates the input and fixes the experience for good.
func NewActivityLog(id string, activity Activity, minutes int, grade Grade, now time.Time) (ActivityLog, error) {
	if minutes <= 0 || minutes > MaxActivityMinutes {
		return ActivityLog{}, fmt.Errorf("%w: minutes must be between 1 and %d", apperrors.ErrInvalidInput, MaxActivityMinutes)
	}
	if _, ok := gradePercent[grade]; !ok {
		return ActivityLog{}, fmt.Errorf("%w: unknown grade %q", apperrors.ErrInvalidInput, grade)
	}
	return ActivityLog{
		ID:         id,
		Activity:   activity,
		Minutes:    minutes,
		Grade:      grade,
		XPGained:   CalculateXP(minutes, grade),
		StatPoints: StatRewards(activity, minutes),
		CreatedAt:  now,
	}, nil
}
