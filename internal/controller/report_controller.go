// FILE: internal/controller/report_controller.go
package controller

import (
	"kelly-ai-client/internal/dto"
	"kelly-ai-client/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IReportController interface {
	RegisterRoutes(r fiber.Router)
	Submit(ctx *fiber.Ctx) error
}

type reportController struct {
	service service.IReportService
}

func NewReportController(service service.IReportService) IReportController {
	return &reportController{service: service}
}

func (c *reportController) RegisterRoutes(r fiber.Router) {
	r.Post("/reports", c.Submit)
}

func (c *reportController) Submit(ctx *fiber.Ctx) error {
	var req dto.SubmitReportRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badBody(ctx)
	}

	res, err := c.service.Submit(ctx.UserContext(), &req)
	if err != nil {
		return fail(ctx, err)
	}
	return ok(ctx, "Thank you for reporting the issue. Our team will review it shortly.", res)
}
