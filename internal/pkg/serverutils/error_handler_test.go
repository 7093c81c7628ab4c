package serverutils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"ai-interview-be/pkg/ingest"
	"ai-interview-be/pkg/interview/engine"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		errorType string
	}{
		{"NotFound", &engine.Error{Kind: engine.KindNotFound}, http.StatusNotFound, "not_found"},
		{"Wrapped", fmt.Errorf("handler: %w", &engine.Error{Kind: engine.KindAlreadyCompleted}), http.StatusConflict, "already_completed"},
		{"NotReady", &engine.Error{Kind: engine.KindNotReady}, http.StatusConflict, "not_ready"},
		{"Collaborator", &engine.Error{Kind: engine.KindCollaboratorFailure}, http.StatusBadGateway, "collaborator_failure"},
		{"Ingest", &ingest.ValidationError{Field: "email", Reason: "must be a valid email address"}, http.StatusUnprocessableEntity, "validation_error"},
		{"Fiber", fiber.NewError(http.StatusTooManyRequests, "slow down"), http.StatusTooManyRequests, "http_error"},
		{"Other", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := classify(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.status, body.Code)
			assert.Equal(t, tt.errorType, body.ErrorType)
			assert.False(t, body.Success)
		})
	}
}

func TestValidateRequest(t *testing.T) {
	type answer struct {
		QuestionId string `json:"question_id" validate:"required"`
		TimeTaken  int    `json:"time_taken" validate:"gte=0"`
	}

	require.NoError(t, ValidateRequest(answer{QuestionId: "q_1"}))

	err := ValidateRequest(answer{TimeTaken: -1})
	require.Error(t, err)

	status, body := classify(err)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, []FieldError{
		{Field: "question_id", Rule: "required", Message: "is required"},
		{Field: "time_taken", Rule: "gte", Message: "must be greater than or equal to 0"},
	}, body.Details)
}

func TestSuccessResponse(t *testing.T) {
	res := SuccessResponse("ok", []string{"a"})
	assert.Equal(t, Response[[]string]{Success: true, Code: 200, Message: "ok", Data: []string{"a"}}, res)
}
