package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
	"github.com/dmitrijs2005/healthkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (s *Server) index(c *gin.Context) {
	if s.authenticate(c) {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to HealthKeeper",
		"signup":  "/signup",
		"login":   "/login",
	})
}

func (s *Server) signup(c *gin.Context) {
	var f signupForm
	if err := c.ShouldBind(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	profile, err := services.ParseProfile(string(f.Age), f.Sex, f.Race)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ValidationMessage(err)})
		return
	}

	user, err := s.directory.Create(c.Request.Context(), models.NewUser{
		Name:     f.Name,
		Email:    f.Email,
		Password: f.Password,
		Profile:  profile,
	})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": services.ValidationMessage(err)})
		case errors.Is(err, common.ErrorAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
		default:
			s.internalError(c, "signup", err)
		}
		return
	}

	token, ok := s.startSession(c, user)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":   "Account created successfully! Welcome!",
		"token":     token,
		"user_name": user.Name,
	})
}

func (s *Server) login(c *gin.Context) {
	var f loginForm
	if err := c.ShouldBind(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
		return
	}

	user, err := s.directory.ValidateCredentials(c.Request.Context(), f.Email, f.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			s.logger.Warn(c.Request.Context(), "login failed", "request_id", c.GetString(ctxRequestID))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		s.internalError(c, "login", err)
		return
	}

	token, ok := s.startSession(c, user)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Login successful",
		"token":     token,
		"user_name": user.Name,
	})
}

func (s *Server) logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.SessionCookieName, "", -1, "/", "", s.opts.SecureCookie, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (s *Server) startSession(c *gin.Context, user *models.User) (string, bool) {
	token, err := s.issuer.Issue(user.Email, user.Name)
	if err != nil {
		s.internalError(c, "issue session", err)
		return "", false
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.SessionCookieName, token, int(s.issuer.Validity().Seconds()), "/", "", s.opts.SecureCookie, true)
	return token, true
}

func (s *Server) dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	email := c.GetString(ctxEmail)

	files, err := s.ledger.List(ctx, email)
	if err != nil {
		s.internalError(c, "list files", err)
		return
	}

	// The profile prompt only appears once the user has uploaded something.
	showPrompt := false
	if len(files) > 0 {
		user, err := s.directory.FindByEmail(ctx, email)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			s.internalError(c, "find user", err)
			return
		}
		showPrompt = user == nil || !user.Complete()
	}

	c.JSON(http.StatusOK, gin.H{
		"user_name":           c.GetString(ctxName),
		"files":               files,
		"show_profile_prompt": showPrompt,
	})
}

func (s *Server) getProfile(c *gin.Context) {
	user, err := s.directory.FindByEmail(c.Request.Context(), c.GetString(ctxEmail))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		s.internalError(c, "find user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": newUserView(user)})
}

func (s *Server) updateProfile(c *gin.Context) {
	var f profileForm
	if err := c.ShouldBind(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error updating profile"})
		return
	}

	profile, err := services.ParseProfile(string(f.Age), f.Sex, f.Race)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ValidationMessage(err)})
		return
	}

	user, err := s.directory.UpdateProfile(c.Request.Context(), c.GetString(ctxEmail), profile)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Error updating profile"})
			return
		}
		s.internalError(c, "update profile", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully!", "user": newUserView(user)})
}

func (s *Server) internalError(c *gin.Context, op string, err error) {
	s.logger.Error(c.Request.Context(), op+" failed",
		"request_id", c.GetString(ctxRequestID), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
