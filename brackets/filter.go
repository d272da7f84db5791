package brackets

import (
	"sort"

	"github.com/Dosada05/billiards-bracket/models"
)

// SelectStage returns the matches of one stage ordered by match number.
//
// A match is admitted when its round belongs to the stage, its bracket type
// agrees with the stage (any known type for the semifinal), and it is either
// populated with at least one player or explicitly waiting for advancement.
// Empty placeholders are hidden, not removed.
func SelectStage(matches []*models.Match, stage Stage) []*models.Match {
	want := stage.BracketType()
	selected := make([]*models.Match, 0)
	for _, m := range matches {
		if m == nil || !stage.containsRound(m.RoundNumber) {
			continue
		}
		if want != "" && m.BracketType != want {
			continue
		}
		if want == "" && !m.BracketType.Valid() {
			continue
		}
		if m.PlayerCount() == 0 && m.Status != models.MatchStatusWaiting {
			continue
		}
		selected = append(selected, m)
	}

	sort.SliceStable(selected, func(i, j int) bool {
		if selected[i].MatchNumber != selected[j].MatchNumber {
			return selected[i].MatchNumber < selected[j].MatchNumber
		}
		return selected[i].RoundNumber < selected[j].RoundNumber
	})
	return selected
}
