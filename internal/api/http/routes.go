package httpapi

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/senalert/alerte-chaleur/internal/store"
	"github.com/senalert/alerte-chaleur/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	v1 := app.Group("/api/v1/weather")

	v1.Get("/cities", func(c *fiber.Ctx) error {
		return ok(c, service.Cities())
	})

	v1.Get("/current/:city", func(c *fiber.Ctx) error {
		data, err := service.CurrentWeather(c.Context(), cityParam(c))
		if err != nil {
			return mapServiceError(err)
		}
		return ok(c, data)
	})

	v1.Get("/forecast/:city", func(c *fiber.Ctx) error {
		var q forecastQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		data, err := service.Forecast(c.Context(), cityParam(c), q.Days)
		if err != nil {
			return mapServiceError(err)
		}
		return ok(c, data)
	})

	v1.Get("/all-cities", func(c *fiber.Ctx) error {
		results, summary := service.AllCitiesWeather(c.Context())
		return c.JSON(fiber.Map{
			"success": true,
			"data":    results,
			"summary": summary,
		})
	})

	v1.Get("/alerts/active", func(c *fiber.Ctx) error {
		alerts, err := service.ActiveAlerts(c.Context(), c.Query("city"))
		if err != nil {
			return mapServiceError(err)
		}
		if alerts == nil {
			alerts = []store.AlertRecord{}
		}
		return ok(c, alerts)
	})

	v1.Get("/alerts/heatwave/:city", func(c *fiber.Ctx) error {
		city := cityParam(c)
		alerts, err := service.HeatWaveAlerts(c.Context(), city)
		if err != nil {
			return mapServiceError(err)
		}
		if alerts == nil {
			alerts = []weather.AlertCandidate{}
		}
		return ok(c, fiber.Map{
			"city":   city,
			"alerts": alerts,
			"count":  len(alerts),
		})
	})

	historyHandler := func(c *fiber.Ctx) error {
		var q historyQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		records, total, err := service.History(c.Context(), cityParam(c), q.Limit, q.Offset)
		if err != nil {
			return mapServiceError(err)
		}
		if records == nil {
			records = []store.WeatherRecord{}
		}

		pages := 0
		if q.Limit > 0 {
			pages = (total + q.Limit - 1) / q.Limit
		}
		return ok(c, fiber.Map{
			"records": records,
			"pagination": fiber.Map{
				"total":  total,
				"limit":  q.Limit,
				"offset": q.Offset,
				"pages":  pages,
			},
		})
	}
	v1.Get("/history", historyHandler)
	v1.Get("/history/:city", historyHandler)

	v1.Post("/update-all", func(c *fiber.Ctx) error {
		summary := service.UpdateAll(c.Context())
		return c.JSON(fiber.Map{
			"success": true,
			"message": "weather update completed",
			"summary": fiber.Map{
				"successful":       len(summary.Successful),
				"failed":           len(summary.Failed),
				"successfulCities": summary.Successful,
				"failedCities":     summary.Failed,
			},
		})
	})
}

func ok(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// cityParam returns the :city path segment, percent-decoded so accented
// names like Thiès resolve.
func cityParam(c *fiber.Ctx) string {
	raw := c.Params("city")
	if city, err := url.PathUnescape(raw); err == nil {
		return city
	}
	return raw
}

func mapServiceError(err error) *fiber.Error {
	var notSupported *weather.LocationNotSupportedError
	if errors.As(err, &notSupported) {
		return fiber.NewError(fiber.StatusNotFound, notSupported.Error())
	}
	var provider *weather.ProviderError
	if errors.As(err, &provider) {
		return fiber.NewError(fiber.StatusBadGateway, "failed to fetch weather data")
	}
	return fiber.NewError(fiber.StatusInternalServerError, "internal error")
}

// forecastQuery holds query parameters for the forecast endpoint.
type forecastQuery struct {
	Days int `validate:"min=1,max=16"`
}

func (q *forecastQuery) bind(c *fiber.Ctx) error {
	q.Days = 7
	if raw := c.Query("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			return errors.New("days must be an integer")
		}
		q.Days = days
	}
	return validate.Struct(q)
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	Limit  int `validate:"min=1,max=500"`
	Offset int `validate:"min=0"`
}

func (q *historyQuery) bind(c *fiber.Ctx) error {
	q.Limit = 100
	q.Offset = 0
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return errors.New("limit must be an integer")
		}
		q.Limit = limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return errors.New("offset must be an integer")
		}
		q.Offset = offset
	}
	return validate.Struct(q)
}
