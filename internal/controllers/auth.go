package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldbook/internal/service"
)

type AuthController struct {
	auth *service.AuthSvc
	resp responder
}

func NewAuthController(auth *service.AuthSvc, logger *slog.Logger) *AuthController {
	return &AuthController{auth: auth, resp: newResponder(logger)}
}

func (a *AuthController) Register(c *gin.Context) {
	var in service.RegisterInput
	if err := bind(c, &in); err != nil {
		a.resp.fail(c, err)
		return
	}
	id, err := a.auth.Register(c.Request.Context(), in)
	if err != nil {
		a.resp.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":   "success register, please verify your otp first",
		"newUserId": id,
	})
}

func (a *AuthController) VerifyOTP(c *gin.Context) {
	var in service.VerifyInput
	if err := bind(c, &in); err != nil {
		a.resp.fail(c, err)
		return
	}
	if err := a.auth.Verify(c.Request.Context(), in); err != nil {
		a.resp.fail(c, err)
		return
	}
	a.resp.ok(c, http.StatusOK, "otp verify success", nil)
}

func (a *AuthController) ResendOTP(c *gin.Context) {
	var in service.ResendInput
	if err := bind(c, &in); err != nil {
		a.resp.fail(c, err)
		return
	}
	if err := a.auth.Resend(c.Request.Context(), in); err != nil {
		a.resp.fail(c, err)
		return
	}
	a.resp.ok(c, http.StatusOK, "otp has been resent", nil)
}

func (a *AuthController) Login(c *gin.Context) {
	var in service.LoginInput
	if err := bind(c, &in); err != nil {
		a.resp.fail(c, err)
		return
	}
	tok, err := a.auth.Login(c.Request.Context(), in)
	if err != nil {
		a.resp.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login success", "token": tok})
}

// Me returns the caller's own profile. It only needs a valid token so an
// unverified user can still see their status.
func (a *AuthController) Me(c *gin.Context) {
	p, err := principal(c)
	if err != nil {
		a.resp.fail(c, err)
		return
	}
	u, err := a.auth.Me(c.Request.Context(), p.ID)
	if err != nil {
		a.resp.fail(c, err)
		return
	}
	a.resp.ok(c, http.StatusOK, "success", u)
}
