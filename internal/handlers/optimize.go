package handlers

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cartwise/grocery-service/internal/optimizer"
)

// OptimizeRequest represents the trip optimization request
type OptimizeRequest struct {
	Items []string `json:"items" binding:"required,min=1"`
	Zip   string   `json:"zip" binding:"required"`
}

// TripPlanResponse represents one strategy's recommended trip.
// TotalDistance is null when the plan touches a store whose location is
// unknown (JSON has no representation for an infinite number).
type TripPlanResponse struct {
	Stores        []int64                             `json:"stores"`
	TotalCost     float64                             `json:"total_cost"`
	TotalDistance *float64                            `json:"total_distance"`
	ItemBreakdown map[string]optimizer.ItemAssignment `json:"item_breakdown"`
}

// OptimizeResponse bundles the three alternative plans
type OptimizeResponse struct {
	PriceOptimized       TripPlanResponse `json:"price_optimized"`
	DistanceOptimized    TripPlanResponse `json:"distance_optimized"`
	ConvenienceOptimized TripPlanResponse `json:"convenience_optimized"`
}

// Optimize handles multi-store shopping trip optimization
// POST /optimize
func (h *Handlers) Optimize(c *gin.Context) {
	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plans, err := h.optimizer.Optimize(c.Request.Context(), req.Items, req.Zip)
	if err != nil {
		status, kind := optimizeErrorStatus(err)
		c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
		return
	}

	c.JSON(http.StatusOK, OptimizeResponse{
		PriceOptimized:       NewTripPlanResponse(plans.PriceOptimized),
		DistanceOptimized:    NewTripPlanResponse(plans.DistanceOptimized),
		ConvenienceOptimized: NewTripPlanResponse(plans.ConvenienceOptimized),
	})
}

// NewTripPlanResponse converts a computed plan into its wire form. Exposed
// for the CLI, which prints the same shape.
func NewTripPlanResponse(plan optimizer.TripPlan) TripPlanResponse {
	resp := TripPlanResponse{
		Stores:        plan.Stores,
		TotalCost:     plan.TotalCost,
		ItemBreakdown: plan.Items,
	}
	if !math.IsInf(plan.TotalDistance, 1) {
		d := plan.TotalDistance
		resp.TotalDistance = &d
	}
	return resp
}

func optimizeErrorStatus(err error) (int, string) {
	kind, ok := optimizer.KindOf(err)
	if !ok {
		return http.StatusInternalServerError, "internal"
	}
	switch kind {
	case optimizer.KindNoItemsProvided:
		return http.StatusBadRequest, string(kind)
	case optimizer.KindInvalidLocation:
		return http.StatusUnprocessableEntity, string(kind)
	case optimizer.KindNoMatchesFound:
		return http.StatusNotFound, string(kind)
	case optimizer.KindUpstreamUnavailable:
		return http.StatusBadGateway, string(kind)
	default:
		return http.StatusInternalServerError, string(kind)
	}
}
