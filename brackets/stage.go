package brackets

import (
	"fmt"
	"sort"

	"github.com/Dosada05/billiards-bracket/models"
)

// Stage is one display section of the bracket.
type Stage string

const (
	StageWinners   Stage = "winners"
	StageBranchA   Stage = "branch_a"
	StageBranchB   Stage = "branch_b"
	StageSemifinal Stage = "semifinal"
	StageFinal     Stage = "final"
)

// StageOrder is the fixed rendering order of the bracket sections.
var StageOrder = []Stage{StageWinners, StageBranchA, StageBranchB, StageSemifinal, StageFinal}

// Round numbers of the 16-entrant double elimination layout.
const (
	RoundWinners1     = 1
	RoundWinners2     = 2
	RoundWinners3     = 3
	RoundBranchA1     = 101
	RoundBranchA2     = 102
	RoundBranchA3     = 103
	RoundBranchB1     = 201
	RoundBranchB2     = 202
	RoundSemifinal    = 250
	RoundChampionship = 300
)

// RoundSpec describes a single round of the bracket.
type RoundSpec struct {
	Round int
	Stage Stage
	Label string
	// BracketType is empty for the semifinal, which mixes both sides.
	BracketType models.BracketType
	// FeedsFrom lists the rounds whose winners (or losers, see LosersOnly) fill this round.
	FeedsFrom  []int
	LosersOnly bool
	Matches    int
}

var roundTable = map[int]RoundSpec{
	RoundWinners1:     {Round: RoundWinners1, Stage: StageWinners, Label: "Winners R1", BracketType: models.BracketWinners, Matches: 8},
	RoundWinners2:     {Round: RoundWinners2, Stage: StageWinners, Label: "Winners R2", BracketType: models.BracketWinners, FeedsFrom: []int{RoundWinners1}, Matches: 4},
	RoundWinners3:     {Round: RoundWinners3, Stage: StageWinners, Label: "Winners R3", BracketType: models.BracketWinners, FeedsFrom: []int{RoundWinners2}, Matches: 2},
	RoundBranchA1:     {Round: RoundBranchA1, Stage: StageBranchA, Label: "Branch A R1", BracketType: models.BracketLosers, FeedsFrom: []int{RoundWinners1}, LosersOnly: true, Matches: 4},
	RoundBranchA2:     {Round: RoundBranchA2, Stage: StageBranchA, Label: "Branch A R2", BracketType: models.BracketLosers, FeedsFrom: []int{RoundBranchA1}, Matches: 2},
	RoundBranchA3:     {Round: RoundBranchA3, Stage: StageBranchA, Label: "Branch A Final", BracketType: models.BracketLosers, FeedsFrom: []int{RoundBranchA2}, Matches: 1},
	RoundBranchB1:     {Round: RoundBranchB1, Stage: StageBranchB, Label: "Branch B R1", BracketType: models.BracketLosers, FeedsFrom: []int{RoundWinners2}, LosersOnly: true, Matches: 2},
	RoundBranchB2:     {Round: RoundBranchB2, Stage: StageBranchB, Label: "Branch B Final", BracketType: models.BracketLosers, FeedsFrom: []int{RoundBranchB1}, Matches: 1},
	RoundSemifinal:    {Round: RoundSemifinal, Stage: StageSemifinal, Label: "Semifinal", FeedsFrom: []int{RoundWinners3, RoundBranchA3, RoundBranchB2}, Matches: 2},
	RoundChampionship: {Round: RoundChampionship, Stage: StageFinal, Label: "Final", BracketType: models.BracketFinal, FeedsFrom: []int{RoundSemifinal}, Matches: 1},
}

var stageRounds = buildStageRounds()

func buildStageRounds() map[Stage][]int {
	out := make(map[Stage][]int, len(StageOrder))
	for round, spec := range roundTable {
		out[spec.Stage] = append(out[spec.Stage], round)
	}
	for _, rounds := range out {
		sort.Ints(rounds)
	}
	return out
}

// UnknownRoundError is returned for round numbers outside the layout.
type UnknownRoundError struct {
	Round int
}

func (e *UnknownRoundError) Error() string {
	return fmt.Sprintf("unknown round number %d", e.Round)
}

// Classify maps a round number to its place in the bracket.
func Classify(round int) (RoundSpec, error) {
	spec, ok := roundTable[round]
	if !ok {
		return RoundSpec{}, &UnknownRoundError{Round: round}
	}
	return spec, nil
}

// Rounds returns the round numbers belonging to a stage in ascending order.
func (s Stage) Rounds() []int {
	rounds := stageRounds[s]
	out := make([]int, len(rounds))
	copy(out, rounds)
	return out
}

// BracketType returns the bracket type every match of the stage must carry,
// or "" when the stage accepts mixed types.
func (s Stage) BracketType() models.BracketType {
	switch s {
	case StageWinners:
		return models.BracketWinners
	case StageBranchA, StageBranchB:
		return models.BracketLosers
	case StageFinal:
		return models.BracketFinal
	}
	return ""
}

func (s Stage) Valid() bool {
	_, ok := stageRounds[s]
	return ok
}

func (s Stage) containsRound(round int) bool {
	spec, ok := roundTable[round]
	return ok && spec.Stage == s
}
