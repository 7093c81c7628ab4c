package serverutils

import (
	"errors"

	"ai-interview-be/pkg/ingest"
	"ai-interview-be/pkg/interview/engine"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var kindStatus = map[engine.Kind]int{
	engine.KindNotFound:            fiber.StatusNotFound,
	engine.KindInvalidState:        fiber.StatusConflict,
	engine.KindNoActiveQuestion:    fiber.StatusConflict,
	engine.KindAlreadyCompleted:    fiber.StatusConflict,
	engine.KindNotReady:            fiber.StatusConflict,
	engine.KindCollaboratorFailure: fiber.StatusBadGateway,
}

// ErrorHandlerMiddleware turns handler errors into the JSON error envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return ErrorHandler(ctx, err)
	}
}

// ErrorHandler doubles as fiber.Config.ErrorHandler for errors raised
// outside the middleware chain, such as unmatched routes.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	status, body := classify(err)
	return ctx.Status(status).JSON(body)
}

func classify(err error) (int, ErrorResponse) {
	var (
		validationErrs validator.ValidationErrors
		ingestErr      *ingest.ValidationError
		engineErr      *engine.Error
		fiberErr       *fiber.Error
	)

	switch {
	case errors.As(err, &validationErrs):
		return respond(fiber.StatusUnprocessableEntity, "Validation failed", "validation_error", FieldErrors(validationErrs))

	case errors.As(err, &ingestErr):
		return respond(fiber.StatusUnprocessableEntity, ingestErr.Error(), "validation_error", []FieldError{{
			Field:   ingestErr.Field,
			Rule:    "ingest",
			Message: ingestErr.Reason,
		}})

	case errors.As(err, &engineErr):
		status, ok := kindStatus[engineErr.Kind]
		if !ok {
			status = fiber.StatusInternalServerError
		}
		message := engineErr.Error()
		if engineErr.Kind == engine.KindCollaboratorFailure {
			// Upstream detail stays in the logs
			message = string(engineErr.Kind) + ": " + engineErr.Reason
		}
		return respond(status, message, string(engineErr.Kind), nil)

	case errors.As(err, &fiberErr):
		return respond(fiberErr.Code, fiberErr.Message, "http_error", nil)
	}

	return respond(fiber.StatusInternalServerError, "Internal server error", "internal_error", nil)
}

func respond(status int, message, errorType string, details interface{}) (int, ErrorResponse) {
	return status, ErrorResponse{
		Success:   false,
		Code:      status,
		Message:   message,
		ErrorType: errorType,
		Details:   details,
	}
}
