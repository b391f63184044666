package middleware

import (
	"errors"
	"time"

	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics records request count and latency per matched route.
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		started := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		m.ObserveRequest(c.Method(), c.Route().Path, status, time.Since(started))
		return err
	}
}
