package httpapi

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/wavewatch/surfcast/internal/surf"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *surf.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/surf/:beach/:date", func(c *fiber.Ctx) error {
		req, err := parseReportParams(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		day, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
		}

		report, err := service.Report(c.Context(), req.Beach, day)
		if err != nil {
			switch {
			case errors.Is(err, surf.ErrUnknownLocation):
				return fiber.NewError(fiber.StatusNotFound,
					fmt.Sprintf("unknown beach %q; see /api/v1/beaches for supported spots", req.Beach))
			case errors.Is(err, surf.ErrForecastUnavailable):
				return fiber.NewError(fiber.StatusServiceUnavailable,
					fmt.Sprintf("surf forecast for %q is temporarily unavailable, try again shortly", req.Beach))
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "failed to build surf report")
			}
		}

		return c.JSON(report)
	})

	v1.Get("/beaches", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"beaches": service.KnownBeaches(),
		})
	})
}

// reportParams holds path parameters for the surf report endpoint.
type reportParams struct {
	Beach string `validate:"required"`
	Date  string `validate:"required,datetime=2006-01-02"`
}

func parseReportParams(c *fiber.Ctx) (reportParams, error) {
	var p reportParams

	// Fiber leaves path params percent-encoded; beach names carry spaces.
	beach, err := url.PathUnescape(c.Params("beach"))
	if err != nil {
		return p, errors.New("invalid beach name encoding")
	}
	p.Beach = beach
	p.Date = c.Params("date")

	if err := validate.Struct(p); err != nil {
		return p, err
	}
	return p, nil
}
