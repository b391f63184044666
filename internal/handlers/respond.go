package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// respondError maps a service error onto the HTTP taxonomy. Client errors get
// a fixed message; anything else is a 500 carrying the raw error text.
func respondError(c *fiber.Ctx, err error) error {
	status, message := fiber.StatusInternalServerError, err.Error()
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		status, message = fiber.StatusBadRequest, "Email already registered"
	case errors.Is(err, services.ErrValidation):
		status, message = fiber.StatusBadRequest, validationMessage(err)
	case errors.Is(err, services.ErrInvalidCredentials):
		status, message = fiber.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, services.ErrUnauthenticated):
		status, message = fiber.StatusUnauthorized, "Invalid token"
	case errors.Is(err, services.ErrForbidden):
		status, message = fiber.StatusForbidden, "Access denied"
	case errors.Is(err, services.ErrNotFound):
		status, message = fiber.StatusNotFound, "Screenshot not found"
	}
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

// validationMessage turns "search query required: validation failed" into
// "Search query required".
func validationMessage(err error) string {
	msg := strings.TrimSuffix(err.Error(), ": "+services.ErrValidation.Error())
	if msg == "" || msg == services.ErrValidation.Error() {
		return "Validation failed"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// validationErrors flattens validator output the way the API reports it.
func validationErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%v: %w", err, services.ErrValidation)
	}
	fields := make([]string, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed on the '%s' rule", strings.ToLower(e.Field()), e.Tag()))
	}
	return fmt.Errorf("%s: %w", strings.Join(fields, "; "), services.ErrValidation)
}
