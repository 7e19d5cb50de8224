package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/training-registration-api/internal/dto"
	"github.com/noah-isme/training-registration-api/internal/middleware"
	"github.com/noah-isme/training-registration-api/internal/service"
	appErrors "github.com/noah-isme/training-registration-api/pkg/errors"
	"github.com/noah-isme/training-registration-api/pkg/response"
)

// CookieConfig shapes the HR session cookie.
type CookieConfig struct {
	Path   string
	Secure bool
}

// SessionHandler opens and closes the HR dashboard session.
type SessionHandler struct {
	gate   *service.AccessGate
	cookie CookieConfig
}

// NewSessionHandler constructs a session handler.
func NewSessionHandler(gate *service.AccessGate, cookie CookieConfig) *SessionHandler {
	if cookie.Path == "" {
		cookie.Path = "/"
	}
	return &SessionHandler{gate: gate, cookie: cookie}
}

// Login godoc
// @Summary Open the HR dashboard
// @Description Checks the shared password and sets a browser-session cookie
// @Tags HR Session
// @Accept json
// @Produce json
// @Param payload body dto.SessionRequest true "Password"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /hr/session [post]
func (h *SessionHandler) Login(c *gin.Context) {
	var req dto.SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session payload"))
		return
	}

	token, err := h.gate.Login(c.Request.Context(), req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setCookie(c, token, 0)
	response.JSON(c, http.StatusOK, dto.SessionResponse{Authenticated: true})
}

// Status godoc
// @Summary HR session status
// @Tags HR Session
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /hr/session [get]
func (h *SessionHandler) Status(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	response.JSON(c, http.StatusOK, dto.SessionResponse{Authenticated: session.Authenticated()})
}

// Logout godoc
// @Summary Close the HR dashboard
// @Tags HR Session
// @Success 204
// @Router /hr/session [delete]
func (h *SessionHandler) Logout(c *gin.Context) {
	h.setCookie(c, "", -1)
	response.NoContent(c)
}

// setCookie with maxAge 0 emits no Max-Age, so the browser drops the cookie when the session ends.
func (h *SessionHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, value, maxAge, h.cookie.Path, "", h.cookie.Secure, true)
}
