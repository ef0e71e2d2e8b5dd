package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"contact-importer/common"
	"contact-importer/config"
)

// Cookie names the browser holds between requests; they match what the
// original front end reads
const (
	AccessTokenCookie  = "cc_access_token"
	RefreshTokenCookie = "cc_refresh_token"
)

type handler struct {
	oauth    *oauth2.Config
	stateKey []byte
}

// RegisterRoutes wires the OAuth2 authorization-code flow endpoints
func RegisterRoutes(rg *gin.RouterGroup, cfg *config.Config) {
	h := &handler{
		oauth: &oauth2.Config{
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL,
			Scopes:       strings.Fields(cfg.OAuthScopes),
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.OAuthAuthURL,
				TokenURL: cfg.OAuthTokenURL,
			},
		},
		stateKey: []byte(cfg.StateSigningKey),
	}

	rg.GET("/login", h.login)
	rg.GET("/callback", h.callback)
}

// login godoc
// @Summary Start the OAuth2 login flow
// @Description Redirects the browser to the provider's authorization URL with a signed state parameter
// @Tags auth
// @Success 302 "Redirect to provider"
// @Router /auth/login [get]
func (h *handler) login(c *gin.Context) {
	state, err := NewStateToken(h.stateKey)
	if err != nil {
		common.Logger().Errorw("failed to sign state token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start login"})
		return
	}

	c.Redirect(http.StatusFound, h.oauth.AuthCodeURL(state))
}

// callback godoc
// @Summary OAuth2 redirect callback
// @Description Verifies the state parameter, exchanges the authorization code, and stores the tokens in cookies
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "Signed state parameter"
// @Success 302 "Redirect to /contacts"
// @Failure 400 {object} map[string]string "Missing code or bad state"
// @Router /auth/callback [get]
func (h *handler) callback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errParam})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code parameter is required"})
		return
	}

	if err := VerifyStateToken(h.stateKey, c.Query("state")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid state parameter"})
		return
	}

	token, err := h.oauth.Exchange(c.Request.Context(), code)
	if err != nil {
		common.Logger().Errorw("code exchange failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to exchange authorization code"})
		return
	}

	c.SetCookie(AccessTokenCookie, token.AccessToken, cookieMaxAge(token.Expiry), "/", "", false, true)
	if token.RefreshToken != "" {
		c.SetCookie(RefreshTokenCookie, token.RefreshToken, 0, "/", "", false, true)
	}

	c.Redirect(http.StatusFound, "/contacts")
}

// defaultAccessTokenTTL covers providers that omit the token expiry
const defaultAccessTokenTTL = 24 * time.Hour

// cookieMaxAge sizes the access-token cookie lifetime from the token expiry.
// A missing or non-positive expiry must not turn into a negative max-age,
// which would delete the cookie on arrival.
func cookieMaxAge(expiry time.Time) int {
	if expiry.IsZero() {
		return int(defaultAccessTokenTTL.Seconds())
	}
	maxAge := int(time.Until(expiry).Seconds())
	if maxAge <= 0 {
		return int(defaultAccessTokenTTL.Seconds())
	}
	return maxAge
}
