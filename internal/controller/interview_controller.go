package controller

import (
	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/pkg/serverutils"
	"ai-interview-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IInterviewController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	NextQuestion(ctx *fiber.Ctx) error
	Respond(ctx *fiber.Ctx) error
	Finalize(ctx *fiber.Ctx) error
	Report(ctx *fiber.Ctx) error
}

type interviewController struct {
	interviewService service.IInterviewService
}

func NewInterviewController(interviewService service.IInterviewService) IInterviewController {
	return &interviewController{
		interviewService: interviewService,
	}
}

func (c *interviewController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/interviews/v1")
	h.Post("start", c.Start)
	h.Get(":id", c.Show)
	h.Get(":id/next-question", c.NextQuestion)
	h.Post(":id/respond", c.Respond)
	h.Post(":id/finalize", c.Finalize)
	h.Get(":id/report", c.Report)
}

func (c *interviewController) Start(ctx *fiber.Ctx) error {
	var req dto.StartInterviewRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.interviewService.Start(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.Response[*dto.StartInterviewResponse]{
		Success: true,
		Code:    fiber.StatusCreated,
		Message: "Interview started",
		Data:    res,
	})
}

func (c *interviewController) Show(ctx *fiber.Ctx) error {
	res, err := c.interviewService.GetSession(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show interview", res))
}

func (c *interviewController) NextQuestion(ctx *fiber.Ctx) error {
	res, err := c.interviewService.NextQuestion(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate question", res))
}

func (c *interviewController) Respond(ctx *fiber.Ctx) error {
	var req dto.SubmitAnswerRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.interviewService.SubmitAnswer(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success evaluate answer", res))
}

func (c *interviewController) Finalize(ctx *fiber.Ctx) error {
	res, err := c.interviewService.Finalize(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success finalize interview", res))
}

func (c *interviewController) Report(ctx *fiber.Ctx) error {
	res, err := c.interviewService.GetReport(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show report", res))
}
