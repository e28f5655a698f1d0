package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"trame-planner/internal/csvio"
	"trame-planner/internal/logger"
	"trame-planner/internal/service"
)

type Handler struct {
	duplicationService service.DuplicationService
	calendarService    service.CalendarService
	budgetService      service.BudgetService
	log                *logger.Logger
}

func NewHandler(
	duplicationService service.DuplicationService,
	calendarService service.CalendarService,
	budgetService service.BudgetService,
	log *logger.Logger,
) *Handler {
	return &Handler{
		duplicationService: duplicationService,
		calendarService:    calendarService,
		budgetService:      budgetService,
		log:                log,
	}
}

// Routes builds the gin engine serving the API.
func (h *Handler) Routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.requestLog())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/trammes/:id/duplication", h.StartDuplication)
	api.GET("/trammes/:id/duplication", h.GetProgress)
	api.DELETE("/trammes/:id/duplication", h.CancelDuplication)
	api.POST("/trammes/:id/blocked-dates", h.ImportBlockedDates)
	api.POST("/trammes/:id/events", h.ImportEvents)
	api.GET("/units/:id/budgets", h.GetUnitBudgets)
	return r
}

// POST /api/trammes/:id/duplication
func (h *Handler) StartDuplication(c *gin.Context) {
	trammeID, ok := trammeIDParam(c)
	if !ok {
		return
	}
	if err := h.duplicationService.Start(c.Request.Context(), trammeID); err != nil {
		h.log.Warn("duplication not started", "tramme_id", trammeID, "error", err)
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "started"})
}

// GET /api/trammes/:id/duplication
func (h *Handler) GetProgress(c *gin.Context) {
	trammeID, ok := trammeIDParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.duplicationService.Progress(trammeID))
}

// DELETE /api/trammes/:id/duplication
func (h *Handler) CancelDuplication(c *gin.Context) {
	trammeID, ok := trammeIDParam(c)
	if !ok {
		return
	}
	if !h.duplicationService.Cancel(trammeID) {
		respondError(c, http.StatusNotFound, "no_running_job", errors.New("no duplication running for this tramme"))
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "cancelling"})
}

// POST /api/trammes/:id/blocked-dates, CSV body "date,reason"
func (h *Handler) ImportBlockedDates(c *gin.Context) {
	trammeID, ok := trammeIDParam(c)
	if !ok {
		return
	}
	blocked, err := csvio.LoadBlockedDates(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_csv", err)
		return
	}
	n, err := h.calendarService.ImportBlockedDates(c.Request.Context(), trammeID, blocked)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"imported": n})
}

// POST /api/trammes/:id/events, CSV body "name,date,start,end"
func (h *Handler) ImportEvents(c *gin.Context) {
	trammeID, ok := trammeIDParam(c)
	if !ok {
		return
	}
	events, err := csvio.LoadEvents(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_csv", err)
		return
	}
	n, err := h.calendarService.ImportEvents(c.Request.Context(), trammeID, events)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"imported": n})
}

// GET /api/units/:id/budgets
func (h *Handler) GetUnitBudgets(c *gin.Context) {
	unitID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || unitID <= 0 {
		respondError(c, http.StatusBadRequest, "invalid_unit_id", errors.New("unit id must be a positive integer"))
		return
	}
	budgets, err := h.budgetService.GetUnitBudgets(c.Request.Context(), unitID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"budgets": budgets})
}

func trammeIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid_tramme_id", errors.New("tramme id must be a positive integer"))
		return 0, false
	}
	return id, true
}

func (h *Handler) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.log.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
