package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Cayson-Choi/tarot-card-reading/internal/app"
	"github.com/Cayson-Choi/tarot-card-reading/internal/domain"
)

const maxQuestionLen = 500

type Handler struct {
	svc *app.ReadingService
}

func NewHandler(svc *app.ReadingService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)
	e.GET("/v1/spreads", h.ListSpreads)
	e.POST("/v1/sessions", h.CreateSession)
	e.GET("/v1/sessions/:id", h.GetSession)
	e.POST("/v1/sessions/:id/question", h.SetQuestion)
	e.POST("/v1/sessions/:id/spread", h.ChooseSpread)
	e.POST("/v1/sessions/:id/cards/:index/reveal", h.RevealCard)
	e.POST("/v1/sessions/:id/interpretation", h.RequestInterpretation)
	e.POST("/v1/sessions/:id/reset", h.ResetSession)
	e.DELETE("/v1/sessions/:id", h.DeleteSession)
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) ListSpreads(c echo.Context) error {
	spreads, err := h.svc.ListSpreads(c.Request().Context())
	if err != nil {
		return mapError(c, err)
	}

	resp := SpreadListResponse{Spreads: make([]SpreadInfoResponse, len(spreads))}
	for i, sp := range spreads {
		resp.Spreads[i] = SpreadInfoResponse{
			ID:          sp.ID,
			NameKo:      sp.NameKo,
			NameEn:      sp.NameEn,
			Count:       sp.Count,
			PositionsKo: sp.PositionsKo,
			PositionsEn: sp.PositionsEn,
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) CreateSession(c echo.Context) error {
	snap, err := h.svc.CreateSession(c.Request().Context())
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusCreated, toSessionResponse(snap))
}

func (h *Handler) GetSession(c echo.Context) error {
	snap, err := h.svc.Snapshot(c.Param("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResponse(snap))
}

func (h *Handler) SetQuestion(c echo.Context) error {
	var req QuestionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if len(req.Question) > maxQuestionLen {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "question must be at most 500 characters"})
	}

	snap, err := h.svc.SetQuestion(c.Param("id"), req.Question)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResponse(snap))
}

func (h *Handler) ChooseSpread(c echo.Context) error {
	var req SpreadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if req.SpreadID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "spread_id is required"})
	}

	snap, err := h.svc.ChooseSpread(c.Request().Context(), c.Param("id"), req.SpreadID, req.Count)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResponse(snap))
}

func (h *Handler) RevealCard(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "index must be an integer"})
	}

	snap, err := h.svc.RevealCard(c.Param("id"), index)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResponse(snap))
}

func (h *Handler) RequestInterpretation(c echo.Context) error {
	var req InterpretationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if req.Lang != "ko" && req.Lang != "en" && req.Lang != "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "lang must be ko or en"})
	}
	if req.Lang == "" {
		req.Lang = "en"
	}

	snap, err := h.svc.RequestInterpretation(c.Param("id"), req.Lang)
	if err != nil {
		return mapError(c, err)
	}
	// The relay call settles asynchronously; poll the session.
	return c.JSON(http.StatusAccepted, toSessionResponse(snap))
}

func (h *Handler) ResetSession(c echo.Context) error {
	snap, err := h.svc.ResetSession(c.Param("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResponse(snap))
}

func (h *Handler) DeleteSession(c echo.Context) error {
	h.svc.DeleteSession(c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

func mapError(c echo.Context, err error) error {
	requestID, _ := c.Get("request_id").(string)

	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrSpreadNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidSpreadCount):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrIndexOutOfRange), errors.Is(err, domain.ErrInsufficientCards):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrWrongPhase), errors.Is(err, domain.ErrInterpretInFlight):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		slog.Error("internal error", "request_id", requestID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
