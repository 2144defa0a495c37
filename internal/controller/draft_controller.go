package controller

import (
	"ai-specdraft-be/internal/dto"
	"ai-specdraft-be/internal/pkg/serverutils"
	"ai-specdraft-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDraftController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	GetState(ctx *fiber.Ctx) error
	SubmitInput(ctx *fiber.Ctx) error
	SubmitAnswers(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
	Export(ctx *fiber.Ctx) error
}

type draftController struct {
	draftService service.IDraftService
}

func NewDraftController(draftService service.IDraftService) IDraftController {
	return &draftController{
		draftService: draftService,
	}
}

func (c *draftController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/draft/v1")
	h.Post("session", c.CreateSession)
	h.Get("session/:id", c.GetState)
	h.Get("session/:id/export", c.Export)
	h.Post("input", c.SubmitInput)
	h.Post("answers", c.SubmitAnswers)
	h.Post("reset", c.Reset)
}

func (c *draftController) CreateSession(ctx *fiber.Ctx) error {
	res, err := c.draftService.CreateSession(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *draftController) GetState(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewHTTPError(fiber.StatusBadRequest, "Invalid session id")
	}

	res, err := c.draftService.GetState(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *draftController) SubmitInput(ctx *fiber.Ctx) error {
	var req dto.SubmitInputRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.draftService.SubmitInput(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success process input", res))
}

func (c *draftController) SubmitAnswers(ctx *fiber.Ctx) error {
	var req dto.SubmitAnswersRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.draftService.SubmitAnswers(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success refine sections", res))
}

func (c *draftController) Reset(ctx *fiber.Ctx) error {
	var req dto.ResetSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.draftService.Reset(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success reset session", res))
}

func (c *draftController) Export(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewHTTPError(fiber.StatusBadRequest, "Invalid session id")
	}

	res, err := c.draftService.ExportMarkdown(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success export session", res))
}
