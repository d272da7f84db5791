package brackets

import "github.com/Dosada05/billiards-bracket/models"

type StageView struct {
	Stage   Stage           `json:"stage"`
	Rounds  []int           `json:"rounds"`
	Matches []*models.Match `json:"matches"`
}

// BracketView holds every stage in rendering order.
type BracketView struct {
	Stages []StageView `json:"stages"`
}

// Assemble groups matches into stage views. It keeps no state, so the same
// input always yields the same grouping.
func Assemble(matches []*models.Match) BracketView {
	view := BracketView{Stages: make([]StageView, 0, len(StageOrder))}
	for _, stage := range StageOrder {
		view.Stages = append(view.Stages, StageView{
			Stage:   stage,
			Rounds:  stage.Rounds(),
			Matches: SelectStage(matches, stage),
		})
	}
	return view
}

// Stage returns the view for s, or an empty view when s is not part of the bracket.
func (v BracketView) Stage(s Stage) StageView {
	for _, sv := range v.Stages {
		if sv.Stage == s {
			return sv
		}
	}
	return StageView{Stage: s, Matches: []*models.Match{}}
}

// DecidedFinal returns the final once a winner has been recorded.
func (v BracketView) DecidedFinal() *models.Match {
	final := v.Stage(StageFinal)
	for _, m := range final.Matches {
		if m.WinnerID != nil && m.Status == models.MatchStatusCompleted {
			return m
		}
	}
	return nil
}
