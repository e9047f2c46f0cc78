package handler

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/credfacil/backoffice-api/internal/application/service"
	"github.com/credfacil/backoffice-api/internal/presentation/http/dto/response"
	"github.com/credfacil/backoffice-api/pkg/oauth"
)

const oauthStateCookie = "oauth_state"

// OAuthHandler handles Google OAuth login
type OAuthHandler struct {
	authService  *service.AuthService
	oauthService *oauth.GoogleOAuthService
}

// NewOAuthHandler creates a new OAuth handler
func NewOAuthHandler(authService *service.AuthService, oauthService *oauth.GoogleOAuthService) *OAuthHandler {
	return &OAuthHandler{
		authService:  authService,
		oauthService: oauthService,
	}
}

// GoogleAuth redirects the user to the Google consent screen. The state
// parameter round-trips through a short-lived cookie.
func (h *OAuthHandler) GoogleAuth(c *gin.Context) {
	if !h.oauthService.IsConfigured() {
		response.Error(c, oauth.ErrOAuthNotConfigured)
		return
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		response.Error(c, err)
		return
	}
	state := base64.RawURLEncoding.EncodeToString(buf)

	c.SetCookie(oauthStateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.oauthService.GetAuthURL(state))
}

// GoogleCallback completes the OAuth flow and redirects to the frontend
// with tokens on success
func (h *OAuthHandler) GoogleCallback(c *gin.Context) {
	errorURL := h.oauthService.GetFrontendErrorURL()

	state, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		c.Redirect(http.StatusTemporaryRedirect, errorURL)
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusTemporaryRedirect, errorURL)
		return
	}

	token, err := h.oauthService.ExchangeCode(c.Request.Context(), code)
	if err != nil {
		c.Redirect(http.StatusTemporaryRedirect, errorURL)
		return
	}

	userInfo, err := h.oauthService.GetUserInfo(c.Request.Context(), token)
	if err != nil {
		c.Redirect(http.StatusTemporaryRedirect, errorURL)
		return
	}

	var photo *string
	if userInfo.Picture != "" {
		photo = &userInfo.Picture
	}

	output, err := h.authService.LoginWithProvider(
		c.Request.Context(),
		"google",
		userInfo.ID,
		userInfo.Email,
		userInfo.GivenName,
		userInfo.FamilyName,
		photo,
	)
	if err != nil {
		c.Redirect(http.StatusTemporaryRedirect, errorURL)
		return
	}

	redirectURL := fmt.Sprintf("%s?access_token=%s&refresh_token=%s",
		h.oauthService.GetFrontendSuccessURL(), output.AccessToken, output.RefreshToken)
	c.Redirect(http.StatusTemporaryRedirect, redirectURL)
}
