package api

import (
	models "LaborPulse/internal/domain/models"
	domrepo "LaborPulse/internal/domain/repository"
	"LaborPulse/internal/usecase"
	xhttp "LaborPulse/pkg/http"
	xlogger "LaborPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// LaborEchoHandler exposes the analysis and forecast surface over Echo.
type LaborEchoHandler struct {
	logger    *xlogger.Logger
	analysis  *usecase.AnalysisUseCase
	forecast  *usecase.ForecastUseCase
	collector *usecase.ObservationCollector
	hub       *LiveHub
}

func NewLaborEchoHandler(
	logger *xlogger.Logger,
	analysis *usecase.AnalysisUseCase,
	forecast *usecase.ForecastUseCase,
	collector *usecase.ObservationCollector,
	hub *LiveHub,
) *LaborEchoHandler {
	return &LaborEchoHandler{logger: logger, analysis: analysis, forecast: forecast, collector: collector, hub: hub}
}

func (h *LaborEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/metrics", h.Metrics)
	g.GET("/forecast", h.Forecast)
	g.GET("/advisories", h.Advisories)
	g.GET("/entities", h.Entities)
	g.GET("/series", h.Series)
	e.GET("/health", h.Health)
	if h.hub != nil {
		h.hub.RegisterRoutes(e)
	}
}

func (h *LaborEchoHandler) Metrics(c echo.Context) error {
	req := &models.MetricsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analysis.ComputeMetrics(c.Request().Context(), usecase.MetricsParams{
		Freq: domrepo.NormalizeFrequency(req.Freq),
		N:    req.N,
	})
	if err != nil {
		h.logger.Error("metrics usecase error", xlogger.Error(err))
		return xhttp.DomainErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *LaborEchoHandler) Forecast(c echo.Context) error {
	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.forecast.Forecast(c.Request().Context(), usecase.ForecastParams{
		Entity:   req.Entity,
		Measure:  req.Measure,
		Freq:     domrepo.NormalizeFrequency(req.Freq),
		Horizon:  req.Horizon,
		N:        req.N,
		Fallback: req.Fallback,
	})
	if err != nil {
		h.logger.Error("forecast usecase error", xlogger.Error(err))
		return xhttp.DomainErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *LaborEchoHandler) Advisories(c echo.Context) error {
	req := &models.AdvisoriesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analysis.Advisories(c.Request().Context(), usecase.MetricsParams{
		Freq: domrepo.NormalizeFrequency(req.Freq),
		N:    req.N,
	})
	if err != nil {
		h.logger.Error("advisories usecase error", xlogger.Error(err))
		return xhttp.DomainErrorResponse(c, err)
	}
	// An empty evaluation is a valid result, not an error.
	if res == nil {
		res = []models.Advisory{}
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *LaborEchoHandler) Entities(c echo.Context) error {
	freq := domrepo.NormalizeFrequency(c.QueryParam("freq"))
	res, err := h.analysis.Entities(c.Request().Context(), freq)
	if err != nil {
		h.logger.Error("entities usecase error", xlogger.Error(err))
		return xhttp.DomainErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, res, int64(len(res)))
}

func (h *LaborEchoHandler) Series(c echo.Context) error {
	req := &models.SeriesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analysis.Series(c.Request().Context(), req.Entity, domrepo.NormalizeFrequency(req.Freq), req.N)
	if err != nil {
		h.logger.Error("series usecase error", xlogger.Error(err))
		return xhttp.DomainErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, res, int64(len(res)))
}

func (h *LaborEchoHandler) Health(c echo.Context) error {
	status := map[string]any{"status": "ok"}
	if h.collector != nil {
		status["feed_connected"] = h.collector.IsConnected()
	}
	return xhttp.SuccessResponse(c, status)
}
