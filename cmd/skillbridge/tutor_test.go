package main

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ribara/skillbridge/internal/types"
)

func sampleReport() *types.AnalysisReport {
	return &types.AnalysisReport{
		UserName: "Dana",
		JobRole:  "Platform Engineer",
		RequiredSkills: []types.SkillRecord{
			{Name: "go", Level: types.LevelAdvanced},
			{Name: "kubernetes", Level: types.LevelExpert},
		},
		SkillGaps: []types.SkillGap{
			{Name: "kubernetes", CurrentLevel: types.LevelNone, RequiredLevel: types.LevelExpert, Severity: types.SeverityCritical},
			{Name: "docker", CurrentLevel: types.LevelIntermediate, RequiredLevel: types.LevelExpert, Severity: types.SeverityMedium},
		},
	}
}

func TestPickGapByFlag(t *testing.T) {
	gap, err := pickGap(sampleReport(), "Docker", bufio.NewScanner(strings.NewReader("")))
	require.NoError(t, err)
	assert.Equal(t, "docker", gap.Name)
}

func TestPickGapByFlagUnknownSkill(t *testing.T) {
	_, err := pickGap(sampleReport(), "cobol", bufio.NewScanner(strings.NewReader("")))
	assert.Error(t, err)
}

func TestPickGapFromMenu(t *testing.T) {
	gap, err := pickGap(sampleReport(), "", bufio.NewScanner(strings.NewReader("2\n")))
	require.NoError(t, err)
	assert.Equal(t, "docker", gap.Name)
}

func TestPickGapInvalidInputDefaultsToFirst(t *testing.T) {
	gap, err := pickGap(sampleReport(), "", bufio.NewScanner(strings.NewReader("nine\n")))
	require.NoError(t, err)
	assert.Equal(t, "kubernetes", gap.Name)

	gap, err = pickGap(sampleReport(), "", bufio.NewScanner(strings.NewReader("7\n")))
	require.NoError(t, err)
	assert.Equal(t, "kubernetes", gap.Name)
}

func TestHighestRequiredLevel(t *testing.T) {
	assert.Equal(t, types.LevelExpert, highestRequiredLevel(sampleReport().RequiredSkills))
	assert.Equal(t, types.LevelNone, highestRequiredLevel(nil))
}
