package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-widget/internal/geolocate"
	"github.com/i474232898/weather-widget/internal/weather"
	"github.com/i474232898/weather-widget/internal/widget"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, ctrl *widget.Controller, page *Page) {
	app.Get("/", page.Handler(ctrl))

	v1 := app.Group("/api/v1")

	v1.Get("/weather", func(c *fiber.Ctx) error {
		q, err := parseWeatherQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		report, err := service.Report(c.UserContext(), q)
		if err != nil {
			if errors.Is(err, weather.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, widget.MsgCityNotFound)
			}
			return fiber.NewError(fiber.StatusBadGateway, widget.MsgFetchFailed)
		}
		return c.JSON(report)
	})

	v1.Get("/locations", func(c *fiber.Ctx) error {
		req := searchQuery{Q: c.Query("q")}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		items, err := service.Search(c.UserContext(), req.Q)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "location search failed")
		}

		out := make([]weather.LabeledSuggestion, 0, len(items))
		for _, s := range items {
			out = append(out, s.Labeled())
		}
		return c.JSON(fiber.Map{"suggestions": out})
	})

	w := v1.Group("/widget")

	w.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(ctrl.View())
	})

	w.Post("/input", func(c *fiber.Ctx) error {
		var req textRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(ctrl.Input(req.Text))
	})

	w.Post("/submit", func(c *fiber.Ctx) error {
		var req textRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(ctrl.Submit(c.UserContext(), req.Text))
	})

	w.Post("/select", func(c *fiber.Ctx) error {
		var req selectRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		view, err := ctrl.Select(c.UserContext(), *req.Index)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return c.JSON(view)
	})

	w.Post("/dismiss", func(c *fiber.Ctx) error {
		return c.JSON(ctrl.Dismiss())
	})

	w.Post("/locate", func(c *fiber.Ctx) error {
		var req locateRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
		}

		coords, err := req.coordinates()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(ctrl.Locate(c.UserContext(), coords, geolocate.Hint{IP: c.IP()}))
	})
}

// searchQuery holds the autocomplete query parameter.
type searchQuery struct {
	Q string `validate:"required,min=2"`
}

type textRequest struct {
	Text string `json:"text"`
}

type selectRequest struct {
	Index *int `json:"index" validate:"required,gte=0"`
}

// locateRequest carries the browser geolocation result. Denied or missing
// coordinates fall back to server-side lookup.
type locateRequest struct {
	Lat    *float64 `json:"lat"`
	Lon    *float64 `json:"lon"`
	Denied bool     `json:"denied"`
}

func (r locateRequest) coordinates() (*weather.Coordinates, error) {
	if r.Denied || r.Lat == nil || r.Lon == nil {
		return nil, nil
	}
	c := weather.Coordinates{Lat: *r.Lat, Lon: *r.Lon}
	if err := validate.Struct(c); err != nil {
		return nil, err
	}
	return &c, nil
}

// parseWeatherQuery accepts either ?city= or ?lat=&lon=.
func parseWeatherQuery(c *fiber.Ctx) (weather.Query, error) {
	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr != "" || lonStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return weather.Query{}, errors.New("invalid lat")
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return weather.Query{}, errors.New("invalid lon")
		}
		coords := weather.Coordinates{Lat: lat, Lon: lon}
		if err := validate.Struct(coords); err != nil {
			return weather.Query{}, err
		}
		return weather.ByCoords(coords), nil
	}

	q := weather.ByCity(c.Query("city"))
	if q.City == "" {
		return weather.Query{}, errors.New("city or lat/lon query parameters are required")
	}
	return q, nil
}
