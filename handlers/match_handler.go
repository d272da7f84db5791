package handlers

import (
	"net/http"

	"github.com/Dosada05/billiards-bracket/middleware"
	"github.com/Dosada05/billiards-bracket/services"
)

type MatchHandler struct {
	bracketService    services.BracketService
	submissionService services.SubmissionService
	correctionService services.CorrectionService
}

func NewMatchHandler(bs services.BracketService, ss services.SubmissionService, cs services.CorrectionService) *MatchHandler {
	return &MatchHandler{
		bracketService:    bs,
		submissionService: ss,
		correctionService: cs,
	}
}

type scoreInput struct {
	Player1Score *int `json:"player1_score"`
	Player2Score *int `json:"player2_score"`
}

func (in scoreInput) validate() map[string]string {
	problems := make(map[string]string)
	if in.Player1Score == nil {
		problems["player1_score"] = "must be provided"
	}
	if in.Player2Score == nil {
		problems["player2_score"] = "must be provided"
	}
	return problems
}

// GetMatch godoc
// @Summary Матч с признаком готовности к вводу счёта
// @Tags matches
// @Produce json
// @Param matchID path string true "Match ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Неверный ID"
// @Failure 404 {object} map[string]string "Матч не найден"
// @Router /matches/{matchID} [get]
func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getUUIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.bracketService.GetMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SubmitScore godoc
// @Summary Отправить счёт матча
// @Tags matches
// @Description Счёт проверяется (без отрицательных значений, 0:0 и ничьих) и передаётся процедуре продвижения.
// @Accept json
// @Produce json
// @Param matchID path string true "Match ID"
// @Success 200 {object} map[string]interface{} "Победитель продвинут или турнир завершён"
// @Failure 400 {object} map[string]string "Неверный запрос"
// @Failure 401 {object} map[string]string "Неавторизован"
// @Failure 403 {object} map[string]string "Нет прав"
// @Failure 404 {object} map[string]string "Матч не найден"
// @Failure 409 {object} map[string]string "Матч не готов или счёт уже отправляется"
// @Failure 422 {object} map[string]string "Недопустимый счёт или отказ бэкенда"
// @Failure 502 {object} map[string]string "Бэкенд недоступен"
// @Security BearerAuth
// @Router /matches/{matchID}/score [post]
func (h *MatchHandler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	matchID, err := getUUIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input scoreInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if problems := input.validate(); len(problems) > 0 {
		failedValidationResponse(w, r, problems)
		return
	}

	result, err := h.submissionService.Submit(r.Context(), matchID, *input.Player1Score, *input.Player2Score, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CorrectScore godoc
// @Summary Исправить счёт завершённого матча
// @Tags matches
// @Description Победитель при исправлении измениться не может.
// @Accept json
// @Produce json
// @Param matchID path string true "Match ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Неверный запрос"
// @Failure 403 {object} map[string]string "Нет прав"
// @Failure 404 {object} map[string]string "Матч не найден"
// @Failure 409 {object} map[string]string "Матч не завершён или меняется победитель"
// @Failure 422 {object} map[string]string "Недопустимый счёт"
// @Security BearerAuth
// @Router /matches/{matchID}/score [patch]
func (h *MatchHandler) CorrectScore(w http.ResponseWriter, r *http.Request) {
	matchID, err := getUUIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	role, err := middleware.GetUserRoleFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input scoreInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if problems := input.validate(); len(problems) > 0 {
		failedValidationResponse(w, r, problems)
		return
	}

	match, err := h.correctionService.CorrectScore(r.Context(), matchID, *input.Player1Score, *input.Player2Score, role)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
