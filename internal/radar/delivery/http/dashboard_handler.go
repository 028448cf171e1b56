package http

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"investor-radar/internal/radar/dto"
	"investor-radar/internal/radar/presenter"
	"investor-radar/internal/radar/service"
	"investor-radar/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DashboardHandler serves the radar page and its JSON view.
type DashboardHandler struct {
	sessions   service.SessionService
	logger     *logger.Logger
	cookieName string
	cookieTTL  time.Duration
	location   *time.Location
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(sessions service.SessionService, logger *logger.Logger, cookieName string, cookieTTL time.Duration, location *time.Location) *DashboardHandler {
	return &DashboardHandler{
		sessions:   sessions,
		logger:     logger,
		cookieName: cookieName,
		cookieTTL:  cookieTTL,
		location:   location,
	}
}

// RegisterRoutes registers the page routes.
func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Index)
	e.POST("/search", h.Search)
	e.POST("/companies/:id/select", h.Select)
	e.GET("/healthz", h.Health)
}

// RegisterAPIRoutes registers the JSON routes to the Echo group.
func (h *DashboardHandler) RegisterAPIRoutes(g *echo.Group) {
	g.GET("/view", h.GetView)
	g.POST("/search", h.SearchAPI)
	g.POST("/companies/:id/select", h.SelectAPI)
}

// Index renders the page for the caller's session.
func (h *DashboardHandler) Index(c echo.Context) error {
	dashboard := h.dashboard(c)
	notice := dashboard.TakeNotice()
	page := presenter.BuildPage(dashboard.Snapshot(), notice, h.location)
	return c.Render(http.StatusOK, "index.html", page)
}

// Search runs the submitted query and redirects back to the page. Failures
// surface as a notice on the next render.
func (h *DashboardHandler) Search(c echo.Context) error {
	dashboard := h.dashboard(c)
	if err := dashboard.Search(c.Request().Context(), c.FormValue("q")); err != nil && !isSearchOutcome(err) {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// Select changes the selected company and redirects back to the page.
func (h *DashboardHandler) Select(c echo.Context) error {
	dashboard := h.dashboard(c)
	if err := dashboard.Select(companyKeyParam(c)); err != nil {
		if errors.Is(err, service.ErrCompanyNotInResults) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// Health godoc
// @Summary Liveness probe
// @Tags system
// @Produce  json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (h *DashboardHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// GetView godoc
// @Summary Get the current view
// @Description Returns the formatted view state of the caller's session and clears any pending notice
// @Tags view
// @Produce  json
// @Success 200 {object} presenter.PageView
// @Router /view [get]
func (h *DashboardHandler) GetView(c echo.Context) error {
	dashboard := h.dashboard(c)
	notice := dashboard.TakeNotice()
	return c.JSON(http.StatusOK, presenter.BuildPage(dashboard.Snapshot(), notice, h.location))
}

// SearchAPI godoc
// @Summary Search companies
// @Description Runs a search for the caller's session and returns the updated view
// @Tags view
// @Produce  json
// @Param   q  query    string true    "Company name or ticker"
// @Success 200 {object} presenter.PageView
// @Failure 409 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /search [post]
func (h *DashboardHandler) SearchAPI(c echo.Context) error {
	dashboard := h.dashboard(c)
	err := dashboard.Search(c.Request().Context(), c.FormValue("q"))

	var searchErr *service.SearchError
	switch {
	case err == nil:
	case errors.As(err, &searchErr):
		dashboard.TakeNotice()
		return c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: searchErr.Message})
	case errors.Is(err, service.ErrSearchSuperseded):
		return c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	default:
		h.logger.ErrorContext(c.Request().Context(), "Unexpected search error", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to search"})
	}

	return c.JSON(http.StatusOK, presenter.BuildPage(dashboard.Snapshot(), "", h.location))
}

// SelectAPI godoc
// @Summary Select a company
// @Description Selects a company of the current result set
// @Tags view
// @Produce  json
// @Param   id  path    string true    "Company key"
// @Success 200 {object} presenter.PageView
// @Failure 404 {object} dto.ErrorResponse
// @Router /companies/{id}/select [post]
func (h *DashboardHandler) SelectAPI(c echo.Context) error {
	dashboard := h.dashboard(c)
	if err := dashboard.Select(companyKeyParam(c)); err != nil {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, presenter.BuildPage(dashboard.Snapshot(), "", h.location))
}

// dashboard resolves the caller's session, opening one (and setting the
// cookie) when needed.
func (h *DashboardHandler) dashboard(c echo.Context) *service.Dashboard {
	var current string
	if cookie, err := c.Cookie(h.cookieName); err == nil {
		current = cookie.Value
	}

	id, dashboard := h.sessions.GetOrOpen(c.Request().Context(), current)
	if id != current {
		c.SetCookie(&http.Cookie{
			Name:     h.cookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(h.cookieTTL.Seconds()),
		})
	}
	return dashboard
}

// companyKeyParam returns the decoded :id. Echo routes on RawPath (leaving
// params escaped) only when the request path carries one.
func companyKeyParam(c echo.Context) string {
	key := c.Param("id")
	if c.Request().URL.RawPath == "" {
		return key
	}
	if unescaped, err := url.PathUnescape(key); err == nil {
		return unescaped
	}
	return key
}

// isSearchOutcome reports whether err is an expected search result that the
// page already reflects.
func isSearchOutcome(err error) bool {
	var searchErr *service.SearchError
	return errors.As(err, &searchErr) || errors.Is(err, service.ErrSearchSuperseded)
}
