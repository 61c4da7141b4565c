package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sovereignrcm/rcm-site/app/roi"
)

func (h *Handler) ListSpecialties(c *gin.Context) {
	bounds := make(map[roi.Field]roi.Range)
	for _, field := range roi.Fields() {
		bounds[field], _ = roi.Bounds(field)
	}

	c.JSON(http.StatusOK, gin.H{
		"specialties":       roi.Specialties(),
		"default_specialty": roi.DefaultSpecialty,
		"bounds":            bounds,
		"defaults": gin.H{
			"providers":      roi.DefaultProviders,
			"billingCostPct": roi.DefaultBillingCostPct,
		},
	})
}

func (h *Handler) EstimateROI(c *gin.Context) {
	var profile roi.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if profile.Specialty == "" {
		profile.Specialty = roi.DefaultSpecialty
	}

	result, err := roi.Calculate(profile)
	if err != nil {
		status, message := roiErrorResponse(err)
		slog.Debug("ROI estimate rejected", "specialty", profile.Specialty, "error", err)
		c.JSON(status, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":    result,
		"formatted": roi.Format(result),
	})
}

// TransitionROIState applies one estimator action. A missing state starts
// from the default specialty.
func (h *Handler) TransitionROIState(c *gin.Context) {
	var req roiStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var state roi.State
	if req.State != nil {
		state = *req.State
	} else {
		var err error
		if state, err = roi.NewState(roi.DefaultSpecialty); err != nil {
			slog.Error("Failed to create default ROI state", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to estimate"})
			return
		}
	}

	next, err := state.Dispatch(req.Action)
	if err != nil {
		status, message := roiErrorResponse(err)
		c.JSON(status, gin.H{"error": message})
		return
	}

	result, err := roi.Calculate(next.Profile)
	if err != nil {
		status, message := roiErrorResponse(err)
		c.JSON(status, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"state":     next,
		"result":    result,
		"formatted": roi.Format(result),
	})
}
