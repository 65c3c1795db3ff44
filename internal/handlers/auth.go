package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"tasktracker/internal/auth"
	dom "tasktracker/internal/domain"
	"tasktracker/internal/dto"
	"tasktracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const stateCookieName = "oauth_state"

// AuthHandler handles sign-in, registration and sign-out. Form submissions
// from the UI get redirects; JSON clients get JSON.
type AuthHandler struct {
	sessions *auth.Store
	users    *service.UserService
	provider auth.Provider
	secure   bool
	log      zerolog.Logger
}

// NewAuthHandler returns a new AuthHandler. provider may be nil when no
// OAuth provider is configured.
func NewAuthHandler(sessions *auth.Store, users *service.UserService, provider auth.Provider, secureCookies bool, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, users: users, provider: provider, secure: secureCookies, log: log}
}

// Routes registers the handler under g. g must run auth.LoadSession.
func (h *AuthHandler) Routes(g gin.IRouter) {
	g.POST("/login", h.Login)
	g.POST("/register", h.Register)
	g.POST("/logout", h.Logout)
	g.GET("/session", h.Session)
	if h.provider != nil {
		g.GET("/"+h.provider.Name()+"/login", h.ProviderLogin)
		g.GET("/"+h.provider.Name()+"/callback", h.ProviderCallback)
	}
}

func isForm(c *gin.Context) bool {
	ct := c.ContentType()
	return ct == binding.MIMEPOSTForm || ct == binding.MIMEMultipartPOSTForm
}

// fail answers with status for JSON clients and redirects forms back to the
// sign-in page with msg.
func (h *AuthHandler) fail(c *gin.Context, status int, msg string) {
	if isForm(c) || c.Request.Method == http.MethodGet {
		c.Redirect(http.StatusSeeOther, "/?error="+url.QueryEscape(msg))
		return
	}
	c.JSON(status, dto.ErrorResponse{Error: msg})
}

func (h *AuthHandler) startSession(c *gin.Context, u dom.User, status int) {
	sessionID, err := h.sessions.Create(c.Request.Context(), u.Email)
	if err != nil {
		h.log.Error().Err(err).Msg("create session")
		h.fail(c, http.StatusInternalServerError, "failed to create session")
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookieName, sessionID, int(h.sessions.TTL().Seconds()), "/", "", h.secure, true)
	if isForm(c) || c.Request.Method == http.MethodGet {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.JSON(status, dto.SessionResponse{User: userResponse(u)})
}

func userResponse(u dom.User) *dto.UserResponse {
	return &dto.UserResponse{ID: u.ID.String(), Email: u.Email, Name: u.Name}
}

// Login godoc
// @Summary      Sign in with email and password
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      dto.LoginRequest  true  "Credentials"
// @Success      200   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "email and password required")
		return
	}
	u, err := h.users.ValidateCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.fail(c, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.log.Error().Err(err).Msg("login")
		h.fail(c, http.StatusInternalServerError, "login failed")
		return
	}
	h.startSession(c, u, http.StatusOK)
}

// Register godoc
// @Summary      Create an account and sign in
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      dto.RegisterRequest  true  "Credentials"
// @Success      201   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "a valid email and a password of at least 8 characters are required")
		return
	}
	u, err := h.users.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			h.fail(c, http.StatusBadRequest, "email and password required")
		case errors.Is(err, service.ErrEmailTaken):
			h.fail(c, http.StatusConflict, "email already registered")
		default:
			h.log.Error().Err(err).Msg("register")
			h.fail(c, http.StatusInternalServerError, "registration failed")
		}
		return
	}
	h.startSession(c, u, http.StatusCreated)
}

// Logout godoc
// @Summary      Sign out
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if sessionID := auth.SessionID(c); sessionID != "" {
		if err := h.sessions.Delete(c.Request.Context(), sessionID); err != nil {
			h.log.Warn().Err(err).Msg("delete session")
		}
	}
	c.SetCookie(auth.SessionCookieName, "", -1, "/", "", h.secure, true)
	if isForm(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.Status(http.StatusNoContent)
}

// Session godoc
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.SessionResponse
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	var resp dto.SessionResponse
	if u := auth.CallerFromContext(c); u != nil {
		resp.User = userResponse(*u)
	}
	c.JSON(http.StatusOK, resp)
}

// ProviderLogin redirects to the OAuth provider with a fresh state cookie.
func (h *AuthHandler) ProviderLogin(c *gin.Context) {
	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookieName, state, 600, "/", "", h.secure, true)
	c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state))
}

// ProviderCallback finishes the OAuth flow, creating the user on first sign-in.
func (h *AuthHandler) ProviderCallback(c *gin.Context) {
	want, err := c.Cookie(stateCookieName)
	c.SetCookie(stateCookieName, "", -1, "/", "", h.secure, true)
	if err != nil || want == "" || c.Query("state") != want {
		h.fail(c, http.StatusBadRequest, "sign-in expired, please try again")
		return
	}
	if c.Query("error") != "" {
		h.fail(c, http.StatusUnauthorized, "sign-in was cancelled")
		return
	}
	ident, err := h.provider.Identify(c.Request.Context(), c.Query("code"))
	if err != nil {
		h.log.Warn().Err(err).Str("provider", h.provider.Name()).Msg("oauth identify")
		if errors.Is(err, auth.ErrNoVerifiedEmail) {
			h.fail(c, http.StatusUnauthorized, "your account has no verified email")
			return
		}
		h.fail(c, http.StatusBadGateway, "sign-in failed")
		return
	}
	u, err := h.users.SignInWithProvider(c.Request.Context(), ident.Email, ident.Name)
	if err != nil {
		h.log.Error().Err(err).Msg("provider sign-in")
		h.fail(c, http.StatusInternalServerError, "sign-in failed")
		return
	}
	h.startSession(c, u, http.StatusOK)
}
