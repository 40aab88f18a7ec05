package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shadowgate/internal/modules/gate/domain"
)

func TestRankFromExamThresholds(t *testing.T) {
	t.Parallel()
	cases := map[string]domain.Rank{
		"exam_0":     domain.RankE,
		"exam_00":    domain.RankE,
		"exam_1":     domain.RankE,
		"exam_02":    domain.RankD,
		"exam_3":     domain.RankC,
		"exam_4":     domain.RankB,
		"exam_5":     domain.RankA,
		"exam_6":     domain.RankS,
		"exam_42":    domain.RankS,
		"exam_final": domain.RankE,
		"unknown":    domain.RankE,
		"":           domain.RankE,
	}
	for exam, want := range cases {
		assert.Equal(t, want, domain.RankFromExam(exam), exam)
	}
}

func TestExamLevelOfPicksFirstExamSegment(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "exam_3", domain.ExamLevelOf("exam_3/ex01"))
	assert.Equal(t, "exam_2", domain.ExamLevelOf("rank02/exam_2/exam_5/ex"))
	assert.Equal(t, domain.DefaultExamLevel, domain.ExamLevelOf("piscine/ex00"))
}

func TestOwnerDirHandlesAttachmentSubdirectory(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "/s/exam_2/ft_strlen", domain.OwnerDir("/s/exam_2/ft_strlen/tester.sh"))
	assert.Equal(t, "/s/exam_2/ft_strlen", domain.OwnerDir("/s/exam_2/ft_strlen/subject.en.txt"))
	assert.Equal(t, "/s/exam_2/ft_strlen", domain.OwnerDir("/s/exam_2/ft_strlen/attachment/subject.en.txt"))
	assert.Equal(t, "/s/exam_2/ft_strlen/attachment", domain.OwnerDir("/s/exam_2/ft_strlen/attachment/tester.sh"),
		"only subjects climb out of attachment directories")
}

func TestSortCatalogOrdersByRankExamThenName(t *testing.T) {
	t.Parallel()
	items := []domain.Descriptor{
		{Name: "zeta", Rank: domain.RankC, ExamLevel: "exam_3"},
		{Name: "beta", Rank: domain.RankE, ExamLevel: "exam_1"},
		{Name: "alpha", Rank: domain.RankE, ExamLevel: "exam_1"},
		{Name: "gamma", Rank: domain.RankE, ExamLevel: "exam_0"},
		{Name: "odd", Rank: domain.RankUnknown},
		{Name: "apex", Rank: domain.RankS, ExamLevel: "exam_9"},
	}
	domain.SortCatalog(items)

	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	assert.Equal(t, []string{"gamma", "alpha", "beta", "zeta", "apex", "odd"}, names)
}

func TestSortCatalogComparesExamNumbers(t *testing.T) {
	t.Parallel()
	items := []domain.Descriptor{
		{Name: "ten", Rank: domain.RankS, ExamLevel: "exam_10"},
		{Name: "custom", Rank: domain.RankS, ExamLevel: "final"},
		{Name: "six", Rank: domain.RankS, ExamLevel: "exam_6"},
		{Name: "seven", Rank: domain.RankS, ExamLevel: "exam_7"},
	}
	domain.SortCatalog(items)

	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	assert.Equal(t, []string{"six", "seven", "ten", "custom"}, names)
}

func TestRecordValidationRejectsNegativeReward(t *testing.T) {
	t.Parallel()
	assert.Error(t, domain.Record{ID: "x", Name: "X", Rank: "E", XPReward: -5}.Validate())
	assert.NoError(t, domain.Record{ID: "x", Name: "X", Rank: "E"}.Validate())
}

func TestRunnable(t *testing.T) {
	t.Parallel()
	assert.True(t, domain.Descriptor{SourcePath: "/x", HasGradingScript: true}.Runnable())
	assert.False(t, domain.Descriptor{SourcePath: "/x", HasSubject: true}.Runnable())
	assert.True(t, domain.Descriptor{Command: "make test"}.Runnable())
	assert.False(t, domain.Descriptor{}.Runnable())
}
