// File: handlers/vendor.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	vendorRepo "bookwala/database/repository/vendor"
	"bookwala/services/rules"

	"github.com/gin-gonic/gin"
)

// ListVendors is the public catalog listing, filtered and paginated.
func (h *HandlerBundle) ListVendors(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	offset, _ := strconv.ParseInt(c.DefaultQuery("offset", "0"), 10, 64)
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	vendors, err := h.Vendors.List(c.Request.Context(), c.Query("service_type"), c.Query("area"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list vendors"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vendors": vendors, "limit": limit, "offset": offset})
}

// GetVendor returns one vendor with its embedded catalog.
func (h *HandlerBundle) GetVendor(c *gin.Context) {
	vendor, err := h.Vendors.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, vendorRepo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "vendor not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch vendor"})
		return
	}
	c.JSON(http.StatusOK, vendor)
}

// VendorAvailability lists open slots for a vendor-local date.
func (h *HandlerBundle) VendorAvailability(c *gin.Context) {
	date := c.Query("date")
	if _, err := rules.AddDays(date, 0); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	slots, err := h.Availability.ListAvailable(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "availability unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "slots": slots})
}

// VendorSchedule is the vendor dashboard feed: booked slots grouped by date.
// Only the venue's own account can read it.
func (h *HandlerBundle) VendorSchedule(c *gin.Context) {
	if c.GetString("vendorID") != c.Param("id") {
		c.JSON(http.StatusForbidden, gin.H{"error": "schedule belongs to another vendor"})
		return
	}

	from, to := c.Query("from"), c.Query("to")
	if _, err := rules.AddDays(from, 0); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
		return
	}
	if _, err := rules.AddDays(to, 0); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
		return
	}
	if to < from {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must not precede from"})
		return
	}

	schedule, err := h.Availability.VendorSchedule(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "schedule unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": schedule})
}
