package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bloomday/gala/internal/auth"
	apierrors "github.com/bloomday/gala/internal/errors"
	"github.com/bloomday/gala/internal/logger"
	"github.com/bloomday/gala/internal/metrics"
	"github.com/bloomday/gala/internal/models"
	"github.com/bloomday/gala/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const guestContextKey = "guest"

// RequestSignInLink emails a single-use sign-in link to an invited guest.
// The response is 202 whether or not the address is on the guest list, so
// the endpoint cannot be used to probe who is invited.
func (h *Handlers) RequestSignInLink(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "email is required")
		return
	}
	if err := util.ValidateEmail(strings.TrimSpace(req.Email)); err != nil {
		util.RespondValidationError(c, "email", err.Error())
		return
	}

	err := h.auth.RequestSignInLink(c.Request.Context(), strings.TrimSpace(req.Email))
	switch {
	case errors.Is(err, auth.ErrGuestNotFound):
		// Same response as success; only the logs know
		logger.Log.Info("sign-in link requested for uninvited address",
			logger.WithIP(c.ClientIP()),
		)
		metrics.Get().SignInLinksTotal.WithLabelValues("unknown_email").Inc()
	case err != nil:
		logger.ErrorWithFields("Failed to send sign-in link", err,
			logger.WithIP(c.ClientIP()),
		)
		metrics.Get().SignInLinksTotal.WithLabelValues("error").Inc()
		util.RespondWithAPIError(c, apierrors.AuthRequestFailed(err.Error()))
		return
	default:
		metrics.Get().SignInLinksTotal.WithLabelValues("sent").Inc()
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "If that address is on the guest list, a sign-in link is on its way",
	})
}

// ExchangeSignInLink trades an emailed link plus the guest's address for a
// session token. The address is the confirmation factor: a link opened on
// a different device cannot recover it.
func (h *Handlers) ExchangeSignInLink(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
		Token string `json:"token"`
		Link  string `json:"link"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "email and token are required")
		return
	}

	token := req.Token
	if token == "" && req.Link != "" {
		token, _ = auth.TokenFromLink(req.Link)
	}
	if token == "" {
		util.RespondBadRequest(c, "token or link is required")
		return
	}

	resp, err := h.auth.ExchangeLink(c.Request.Context(), strings.TrimSpace(req.Email), token)
	switch {
	case errors.Is(err, auth.ErrEmailMismatch):
		// The token survives a wrong address; the guest may retry
		metrics.Get().SignInExchangesTotal.WithLabelValues("email_mismatch").Inc()
		util.RespondWithAPIError(c, apierrors.AuthExchangeFailed("that address does not match this sign-in link"))
		return
	case errors.Is(err, auth.ErrInvalidLink):
		metrics.Get().SignInExchangesTotal.WithLabelValues("invalid_link").Inc()
		util.RespondWithAPIError(c, apierrors.AuthExchangeFailed("this sign-in link is invalid or has expired; request a new one"))
		return
	case err != nil:
		logger.ErrorWithFields("Sign-in exchange failed", err)
		metrics.Get().SignInExchangesTotal.WithLabelValues("error").Inc()
		util.RespondInternalError(c, "could not complete sign-in")
		return
	}

	metrics.Get().SignInExchangesTotal.WithLabelValues("success").Inc()
	logger.Log.Info("guest signed in",
		logger.WithGuestID(resp.Guest.ID),
		zap.String("email", resp.Guest.Email),
	)
	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated guest's profile
func (h *Handlers) Me(c *gin.Context) {
	guest := CurrentGuest(c)
	if guest == nil {
		util.RespondUnauthorized(c)
		return
	}
	c.JSON(http.StatusOK, guest)
}

// AuthMiddleware validates the Bearer session token and stores the guest
// in the request context
func (h *Handlers) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			util.RespondUnauthorized(c, "no token provided")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header || tokenString == "" {
			util.RespondUnauthorized(c, "authorization header must be a Bearer token")
			c.Abort()
			return
		}

		guest, err := h.auth.ValidateToken(tokenString)
		if err != nil {
			util.RespondUnauthorized(c, "invalid or expired session")
			c.Abort()
			return
		}

		c.Set(guestContextKey, guest)
		c.Next()
	}
}

// CurrentGuest returns the guest set by AuthMiddleware, or nil
func CurrentGuest(c *gin.Context) *models.Guest {
	value, exists := c.Get(guestContextKey)
	if !exists {
		return nil
	}
	guest, ok := value.(*models.Guest)
	if !ok {
		return nil
	}
	return guest
}
