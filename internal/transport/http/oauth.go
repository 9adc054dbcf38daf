package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/gomokuarena/backend/internal/config"
	"github.com/gomokuarena/backend/internal/obslog"
	"github.com/gomokuarena/backend/internal/service/session"
)

type OAuthHandler struct {
	authService *session.AuthService
	oauth       *oauth2.Config
	frontendURL string
}

func NewOAuthHandler(authService *session.AuthService, cfg config.GoogleOAuth, frontendURL string) *OAuthHandler {
	return &OAuthHandler{
		authService: authService,
		frontendURL: frontendURL,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

type googleUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// GoogleLogin redirects the user to Google's consent screen.
func (h *OAuthHandler) GoogleLogin(c *gin.Context) {
	c.Redirect(http.StatusTemporaryRedirect, h.oauth.AuthCodeURL("state"))
}

// GoogleCallback exchanges the code, resolves the Google identity and opens
// a session for the (possibly freshly created) account.
func (h *OAuthHandler) GoogleCallback(c *gin.Context) {
	token, err := h.oauth.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		obslog.L().Warn("oauth code exchange failed", zap.Error(err))
		c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/login?error=auth_failed")
		return
	}

	info, err := h.fetchGoogleUser(token.AccessToken)
	if err != nil {
		obslog.L().Warn("oauth userinfo fetch failed", zap.Error(err))
		c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/login?error=user_info_failed")
		return
	}

	username := usernameFromEmail(info.Email)
	_, accessToken, err := h.authService.LoginGoogle(c.Request.Context(), info.ID, username, info.Name, info.Email)
	if err != nil {
		obslog.L().Error("google sign-in failed", zap.Error(err))
		c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/login?error=server_error")
		return
	}

	c.SetCookie("access_token", accessToken, 3600, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/dashboard")
}

func (h *OAuthHandler) fetchGoogleUser(accessToken string) (*googleUser, error) {
	resp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + accessToken)
	if err != nil {
		return nil, fmt.Errorf("get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint returned %s", resp.Status)
	}

	var user googleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	return &user, nil
}

func usernameFromEmail(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}
