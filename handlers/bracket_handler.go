package handlers

import (
	"fmt"
	"net/http"

	"github.com/Dosada05/billiards-bracket/brackets"
	"github.com/Dosada05/billiards-bracket/services"
)

type BracketHandler struct {
	bracketService services.BracketService
}

func NewBracketHandler(bs services.BracketService) *BracketHandler {
	return &BracketHandler{bracketService: bs}
}

// GetBracket godoc
// @Summary Сетка турнира
// @Tags brackets
// @Description Возвращает все стадии сетки либо одну стадию при указании параметра stage.
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param stage query string false "winners, branch_a, branch_b, semifinal или final"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Неверный ID или стадия"
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Router /tournaments/{tournamentID}/bracket [get]
func (h *BracketHandler) GetBracket(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var stage brackets.Stage
	if raw := r.URL.Query().Get("stage"); raw != "" {
		stage = brackets.Stage(raw)
		if !stage.Valid() {
			badRequestResponse(w, r, fmt.Errorf("unknown stage %q", raw))
			return
		}
	}

	bracket, err := h.bracketService.GetBracket(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"bracket": bracket}
	if stage != "" {
		response = jsonResponse{
			"stage":           bracket.Bracket.Stage(stage),
			"ready_match_ids": bracket.ReadyMatchIDs,
		}
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GenerateBracket godoc
// @Summary Сгенерировать сетку double elimination
// @Tags brackets
// @Description Создаёт все матчи сетки для 16 подтверждённых участников и переводит турнир в статус ongoing.
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Неверный ID"
// @Failure 403 {object} map[string]string "Нет прав"
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Failure 409 {object} map[string]string "Сетка уже создана или турнир уже идёт"
// @Failure 422 {object} map[string]string "Неверное число участников"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/bracket [post]
func (h *BracketHandler) GenerateBracket(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bracket, err := h.bracketService.GenerateAndSaveBracket(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"bracket": bracket}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
