// Delivery estimate HTTP handler.
//
// This file exposes the REST endpoint for route-based delivery quotes:
//   - GET /delivery/estimate  (distance, duration, and fee between two points)
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mvbarros/go-order-backend/internal/delivery"
)

// EstimateResponse is the JSON shape of one delivery quote.
type EstimateResponse struct {
	DistanceKM      float64 `json:"distance_km"`
	DurationSeconds int64   `json:"duration_seconds"`
	// Fee is the delivery charge, formatted with two decimal places.
	Fee string `json:"fee"`
}

// parseCoord reads one required float query parameter.
func parseCoord(c *gin.Context, name string) (float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// EstimateDelivery godoc
// @ID          estimateDelivery
// @Summary     Quote a delivery between two points
// @Description Resolves the route via the directions API and derives distance,
// @Description travel time, and the per-kilometer delivery fee.
// @Tags        Delivery
// @Produce     json
//
// @Param       origin_lat  query  number  true  "Origin latitude"
// @Param       origin_lng  query  number  true  "Origin longitude"
// @Param       dest_lat    query  number  true  "Destination latitude"
// @Param       dest_lng    query  number  true  "Destination longitude"
//
// @Success     200  {object} handlers.DataResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "No route found"
// @Failure     502  {object} handlers.ErrorResponse "Routing API failure"
// @Router      /delivery/estimate [get]
func (h *Handlers) EstimateDelivery(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		origin, dest delivery.Point
		ok1, ok2     bool
		ok3, ok4     bool
	)
	origin.Latitude, ok1 = parseCoord(c, "origin_lat")
	origin.Longitude, ok2 = parseCoord(c, "origin_lng")
	dest.Latitude, ok3 = parseCoord(c, "dest_lat")
	dest.Longitude, ok4 = parseCoord(c, "dest_lng")
	if !ok1 || !ok2 || !ok3 || !ok4 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "origin_lat, origin_lng, dest_lat and dest_lng are required numbers")
		return
	}

	est, err := h.deliverySvc.Estimate(ctx, origin, dest)
	if err != nil {
		var re *delivery.RoutingError
		switch {
		case errors.Is(err, delivery.ErrNoRoute):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "no route between the points")
		case errors.As(err, &re):
			fail(c, http.StatusBadGateway, ErrCodeUpstreamFailure, "routing api request failed")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	ok(c, http.StatusOK, EstimateResponse{
		DistanceKM:      est.DistanceKM,
		DurationSeconds: int64(est.Duration.Seconds()),
		Fee:             est.Fee.StringFixed(2),
	})
}
