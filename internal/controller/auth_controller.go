// FILE: internal/controller/auth_controller.go
package controller

import (
	"kelly-ai-client/internal/dto"
	"kelly-ai-client/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Signup(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	Session(ctx *fiber.Ctx) error
	Profile(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
}

func NewAuthController(service service.IAuthService) IAuthController {
	return &authController{service: service}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/signup", c.Signup)
	h.Post("/login", c.Login)
	h.Post("/logout", c.Logout)
	h.Get("/session", c.Session)
	h.Get("/profile", c.Profile)
}

func (c *authController) Signup(ctx *fiber.Ctx) error {
	var req dto.AuthRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badBody(ctx)
	}

	res, err := c.service.Signup(ctx.UserContext(), &req)
	if err != nil {
		return fail(ctx, err)
	}
	message := res.Message
	if message == "" {
		message = "Signup successful"
	}
	return ok(ctx, message, res)
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.AuthRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badBody(ctx)
	}

	res, err := c.service.Login(ctx.UserContext(), &req)
	if err != nil {
		return fail(ctx, err)
	}
	return ok(ctx, "Login successful", res)
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	if err := c.service.Logout(ctx.UserContext()); err != nil {
		return fail(ctx, err)
	}
	return ok(ctx, "Logged out", nil)
}

func (c *authController) Session(ctx *fiber.Ctx) error {
	res, err := c.service.CheckExistingAuth(ctx.UserContext())
	if err != nil {
		return fail(ctx, err)
	}
	return ok(ctx, "Session status", res)
}

func (c *authController) Profile(ctx *fiber.Ctx) error {
	return ok(ctx, "Profile", c.service.Profile(ctx.UserContext()))
}
