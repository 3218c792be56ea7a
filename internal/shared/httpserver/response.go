package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/cristianortiz/bidmarket/internal/shared/apperror"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Envelope is the uniform body of every successful response.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
}

func Respond(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Envelope{StatusCode: status, Message: message, Data: data})
}

// Empty is the {} payload of responses that carry no data.
func Empty() fiber.Map { return fiber.Map{} }

// ErrorHandler renders errors as {statusCode, message, errorCode}. Unknown
// errors are logged and hidden behind INTERNAL_SERVER_ERROR.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return c.Status(appErr.StatusCode).JSON(appErr)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(apperror.New(fiberErr.Code, codeForStatus(fiberErr.Code), fiberErr.Message))
	}

	log.Error("Unhandled error",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.Status(http.StatusInternalServerError).JSON(apperror.ErrInternal)
}

func codeForStatus(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return apperror.ErrInternal.ErrorCode
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})
	return v
}

// BindAndValidate parses the request body into dst and validates its tags.
func BindAndValidate(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperror.ErrValidation.WithMessage("Request body is malformed")
	}
	return Validate(dst)
}

// Validate checks the `validate` struct tags of v, reporting the first failure.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apperror.ErrValidation.WithMessage(fmt.Sprintf("%s failed on the '%s' rule", fe.Namespace(), fe.Tag()))
	}
	return apperror.ErrValidation
}

// ParamUUID reads a path parameter that must be a UUID.
func ParamUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperror.ErrValidation.WithMessage(name + " must be a valid UUID")
	}
	return id, nil
}
