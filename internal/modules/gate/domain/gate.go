package domain

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	GradingScriptName = "tester.sh"
	SubjectName       = "subject.en.txt"
	AttachmentDir     = "attachment"

	// DefaultExamLevel is recorded when no path segment names an exam.
	DefaultExamLevel = "exam_00"
	examPrefix       = "exam_"
)

type Rank string

const (
	RankE       Rank = "E"
	RankD       Rank = "D"
	RankC       Rank = "C"
	RankB       Rank = "B"
	RankA       Rank = "A"
	RankS       Rank = "S"
	RankUnknown Rank = "?"
)

// Ranks lists every known rank from lowest to highest.
var Ranks = []Rank{RankE, RankD, RankC, RankB, RankA, RankS}

// Ordinal is the position of r in Ranks; unknown ranks sort after S.
func (r Rank) Ordinal() int {
	for i, known := range Ranks {
		if r == known {
			return i
		}
	}
	return len(Ranks)
}

// RankFromExam maps "exam_<N>" through the fixed threshold table. Anything
// that does not parse maps to the lowest rank.
func RankFromExam(examLevel string) Rank {
	n, ok := examNumber(examLevel)
	if !ok {
		return RankE
	}
	switch {
	case n <= 1:
		return RankE
	case n <= 2:
		return RankD
	case n <= 3:
		return RankC
	case n <= 4:
		return RankB
	case n <= 5:
		return RankA
	default:
		return RankS
	}
}

// examNumber parses the N of "exam_<N>".
func examNumber(examLevel string) (int, bool) {
	if !strings.HasPrefix(examLevel, examPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(examLevel, examPrefix))
	return n, err == nil
}

// compareExam orders exam levels by their number, so exam_6 precedes
// exam_10. Unnumbered levels follow numbered ones and compare as text.
func compareExam(a, b string) int {
	na, okA := examNumber(a)
	nb, okB := examNumber(b)
	switch {
	case okA && okB && na != nb:
		if na < nb {
			return -1
		}
		return 1
	case okA && !okB:
		return -1
	case !okA && okB:
		return 1
	}
	return strings.Compare(a, b)
}

// ExamLevelOf returns the first segment of rel starting with "exam_".
func ExamLevelOf(rel string) string {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, examPrefix) {
			return part
		}
	}
	return DefaultExamLevel
}

// IsMarker reports whether a file name identifies an exercise directory.
func IsMarker(name string) bool {
	return name == GradingScriptName || name == SubjectName
}

// OwnerDir resolves the exercise directory that owns a marker file. Subjects
// stored in an attachment subdirectory belong to the grandparent.
func OwnerDir(markerPath string) string {
	parent := filepath.Dir(markerPath)
	if filepath.Base(markerPath) == SubjectName && filepath.Base(parent) == AttachmentDir {
		return filepath.Dir(parent)
	}
	return parent
}

type Descriptor struct {
	ID               string
	Name             string
	Rank             Rank
	ExamLevel        string
	SourcePath       string
	HasGradingScript bool
	HasSubject       bool
	// Command is only set for gates declared in a configuration file.
	Command  string
	XPReward int
}

// Runnable reports whether the gate can be graded at all.
func (d Descriptor) Runnable() bool {
	if d.SourcePath == "" {
		return d.Command != ""
	}
	return d.HasGradingScript
}

// SortCatalog orders descriptors by rank, exam level and name, breaking
// remaining ties by source path so the order is total.
func SortCatalog(items []Descriptor) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Rank.Ordinal() != b.Rank.Ordinal() {
			return a.Rank.Ordinal() < b.Rank.Ordinal()
		}
		if c := compareExam(a.ExamLevel, b.ExamLevel); c != 0 {
			return c < 0
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.SourcePath < b.SourcePath
	})
}
