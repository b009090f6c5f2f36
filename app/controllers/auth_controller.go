package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/app/models"
	"github.com/inkpress/inkpress/app/repository"
	"github.com/inkpress/inkpress/internal/pkg/session"
	"github.com/inkpress/inkpress/internal/pkg/usercontext"
)

type credentialsRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// HandleAuthRegister creates a new account. The password is stored as a
// bcrypt hash only.
func HandleAuthRegister(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "invalid request body"})
	}

	user, err := models.CreateUser(req.Username, req.Email, req.Password)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	if err := repo.Create(user); err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": "email already registered"})
		}
		fiberlog.Errorf("failed to create user: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "failed to create account"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":       user.ID,
		"username": user.Name,
		"email":    user.Email,
	})
}

// HandleAuthLogin verifies credentials and opens a session. The session id is
// returned so API clients can replay it as a bearer token.
func HandleAuthLogin(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "invalid request body"})
	}

	// notice: failed logins get one uniform answer, no matter which
	// part of the credentials was wrong
	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByEmail(req.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			fiberlog.Errorf("failed to load user for login: %v", err)
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "invalid credentials"})
	}
	if !models.CheckPasswordHash(req.Password, user.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "invalid credentials"})
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		fiberlog.Errorf("failed to open session: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "failed to open session"})
	}

	sess.Set(usercontext.AuthKey, true)
	sess.Set(usercontext.KeyUserID, user.ID)
	sess.Set(usercontext.KeyUsername, user.Name)
	sess.Set(usercontext.KeyEmail, user.Email)
	if err := sess.Save(); err != nil {
		fiberlog.Errorf("failed to save session: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "failed to save session"})
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := repo.Update(user); err != nil {
		fiberlog.Warnf("failed to update last login of user %d: %v", user.ID, err)
	}

	return c.JSON(fiber.Map{
		"token":    sess.ID(),
		"redirect": SafeRedirectTarget(c.Query("redirect")),
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Name,
			"email":    user.Email,
		},
	})
}

// HandleAuthLogout destroys the caller's session.
func HandleAuthLogout(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return c.JSON(fiber.Map{"message": "logged out"})
	}

	if err := sess.Destroy(); err != nil {
		fiberlog.Errorf("failed to destroy session: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "failed to log out"})
	}

	c.Locals(usercontext.KeyFromProtected, false)

	return c.JSON(fiber.Map{"message": "logged out"})
}

// HandleLoginInfo is the target of the login redirect issued to anonymous
// callers of protected routes. It echoes the return path back to the client.
func HandleLoginInfo(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error":    "unauthorized",
		"message":  "login required",
		"redirect": SafeRedirectTarget(c.Query("redirect")),
	})
}

// HandleGetUserAccount returns account information for the authenticated user.
func HandleGetUserAccount(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	repo := repository.GetGlobalFactory().GetUserRepository()
	account, err := repo.GetByID(userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "user not found"})
		}
		fiberlog.Errorf("failed to load user account: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "failed to load user"})
	}

	return c.JSON(fiber.Map{
		"id":            account.ID,
		"username":      account.Name,
		"email":         account.Email,
		"created_at":    account.CreatedAt.UTC().Format(time.RFC3339),
		"last_login_at": formatTimePtr(account.LastLoginAt),
	})
}

// SafeRedirectTarget keeps post-login redirects on this site. Anything that is
// not a plain absolute path falls back to the front page.
func SafeRedirectTarget(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return "/"
	}
	return target
}
