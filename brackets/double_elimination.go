package brackets

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Dosada05/billiards-bracket/models"
	"github.com/google/uuid"
)

// DoubleEliminationEntrants is the field size the fixed layout is built for.
const DoubleEliminationEntrants = 16

var (
	ErrWrongEntrantCount = fmt.Errorf("double elimination requires exactly %d participants", DoubleEliminationEntrants)
	ErrDuplicateEntrant  = errors.New("participant listed more than once")
)

// GenerateBracketParams carries the confirmed field of a tournament.
// Participants are seeded in the order given.
type GenerateBracketParams struct {
	Tournament   *models.Tournament
	Participants []uuid.UUID
}

// BracketGenerator builds the match skeleton of a tournament. Links between
// matches are expressed through UIDs so the caller can assign database ids.
type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error)
	GetName() string
}

// BracketMatch is a match skeleton before it is persisted.
type BracketMatch struct {
	UID          string
	Round        int
	OrderInRound int
	BracketType  models.BracketType
	BranchType   *models.BranchType

	Participant1ID *uuid.UUID
	Participant2ID *uuid.UUID

	// Where the winner and the loser go next. Nil means the match ends the
	// player's run (loser) or the tournament (winner of the final).
	WinnerToUID  *string
	WinnerToSlot int
	LoserToUID   *string
	LoserToSlot  int
}

// Status returns the initial status: first-round matches are playable, the rest wait.
func (bm *BracketMatch) Status() models.MatchStatus {
	if bm.Participant1ID != nil && bm.Participant2ID != nil {
		return models.MatchStatusScheduled
	}
	return models.MatchStatusWaiting
}

type DoubleEliminationGenerator struct{}

func NewDoubleEliminationGenerator() BracketGenerator {
	return &DoubleEliminationGenerator{}
}

func (g *DoubleEliminationGenerator) GetName() string {
	return "DoubleElimination"
}

func matchUID(round, order int) string {
	return fmt.Sprintf("R%dM%d", round, order)
}

func (g *DoubleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error) {
	participants := params.Participants
	if len(participants) != DoubleEliminationEntrants {
		return nil, fmt.Errorf("%w: got %d", ErrWrongEntrantCount, len(participants))
	}
	seen := make(map[uuid.UUID]struct{}, len(participants))
	for _, p := range participants {
		if _, dup := seen[p]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEntrant, p)
		}
		seen[p] = struct{}{}
	}

	byUID := make(map[string]*BracketMatch)
	all := make([]*BracketMatch, 0, 27)
	for _, stage := range StageOrder {
		for _, round := range stage.Rounds() {
			spec := roundTable[round]
			for order := 1; order <= spec.Matches; order++ {
				bm := &BracketMatch{
					UID:          matchUID(round, order),
					Round:        round,
					OrderInRound: order,
					BracketType:  spec.BracketType,
					BranchType:   branchFor(stage),
				}
				if bm.BracketType == "" {
					// полуфинал смешанный, в БД хранится как финальная часть сетки
					bm.BracketType = models.BracketFinal
				}
				byUID[bm.UID] = bm
				all = append(all, bm)
			}
		}
	}

	for i := 0; i < roundTable[RoundWinners1].Matches; i++ {
		p1, p2 := participants[2*i], participants[2*i+1]
		bm := byUID[matchUID(RoundWinners1, i+1)]
		bm.Participant1ID = &p1
		bm.Participant2ID = &p2
	}

	// Single-elimination progression inside each side: match i feeds match ceil(i/2).
	halve := func(from, to int) {
		for order := 1; order <= roundTable[from].Matches; order++ {
			link(byUID[matchUID(from, order)], byUID[matchUID(to, (order+1)/2)], 2-order%2, false)
		}
	}
	halve(RoundWinners1, RoundWinners2)
	halve(RoundWinners2, RoundWinners3)
	halve(RoundBranchA1, RoundBranchA2)
	halve(RoundBranchA2, RoundBranchA3)
	halve(RoundBranchB1, RoundBranchB2)
	halve(RoundSemifinal, RoundChampionship)

	// Drops: winners R1 losers fill branch A, winners R2 losers fill branch B.
	for order := 1; order <= roundTable[RoundWinners1].Matches; order++ {
		link(byUID[matchUID(RoundWinners1, order)], byUID[matchUID(RoundBranchA1, (order+1)/2)], 2-order%2, true)
	}
	for order := 1; order <= roundTable[RoundWinners2].Matches; order++ {
		link(byUID[matchUID(RoundWinners2, order)], byUID[matchUID(RoundBranchB1, (order+1)/2)], 2-order%2, true)
	}

	// Semifinals: each winners finalist meets one branch champion.
	link(byUID[matchUID(RoundWinners3, 1)], byUID[matchUID(RoundSemifinal, 1)], 1, false)
	link(byUID[matchUID(RoundBranchA3, 1)], byUID[matchUID(RoundSemifinal, 1)], 2, false)
	link(byUID[matchUID(RoundWinners3, 2)], byUID[matchUID(RoundSemifinal, 2)], 1, false)
	link(byUID[matchUID(RoundBranchB2, 1)], byUID[matchUID(RoundSemifinal, 2)], 2, false)

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Round != all[j].Round {
			return all[i].Round < all[j].Round
		}
		return all[i].OrderInRound < all[j].OrderInRound
	})
	return all, nil
}

func link(from, to *BracketMatch, slot int, loser bool) {
	uid := to.UID
	if loser {
		from.LoserToUID = &uid
		from.LoserToSlot = slot
		return
	}
	from.WinnerToUID = &uid
	from.WinnerToSlot = slot
}

func branchFor(stage Stage) *models.BranchType {
	var b models.BranchType
	switch stage {
	case StageBranchA:
		b = models.BranchA
	case StageBranchB:
		b = models.BranchB
	default:
		return nil
	}
	return &b
}
