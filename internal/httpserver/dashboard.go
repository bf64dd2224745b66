package httpserver

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"medistore/internal/service/admin"
	"medistore/internal/service/identity"
	"medistore/internal/service/wholesale"
)

func (h *handlers) customerDashboard(c *gin.Context) {
	d, err := h.deps.Dashboard.Customer(c.Request.Context(), sessionFrom(c))
	if err != nil {
		writeError(c, h.logger, "customer dashboard", err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *handlers) doctorDashboard(c *gin.Context) {
	d, err := h.deps.Dashboard.Doctor(c.Request.Context(), sessionFrom(c))
	if err != nil {
		writeError(c, h.logger, "doctor dashboard", err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *handlers) wholesaleDashboard(c *gin.Context) {
	d, err := h.deps.Dashboard.Wholesale(c.Request.Context(), sessionFrom(c), c.Query("tab"))
	if err != nil {
		writeError(c, h.logger, "wholesale dashboard", err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *handlers) adminDashboard(c *gin.Context) {
	d, err := h.deps.Dashboard.Admin(c.Request.Context(), sessionFrom(c))
	if err != nil {
		writeError(c, h.logger, "admin dashboard", err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *handlers) wholesaleProfile(c *gin.Context) {
	p, err := h.deps.Wholesale.Profile(c.Request.Context(), sessionFrom(c))
	if err != nil {
		writeError(c, h.logger, "wholesale profile", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) saveWholesaleProfile(c *gin.Context) {
	var in wholesale.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid JSON")
		return
	}
	p, err := h.deps.Wholesale.SaveProfile(c.Request.Context(), sessionFrom(c), in)
	if err != nil {
		writeError(c, h.logger, "save wholesale profile", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) wholesaleProducts(c *gin.Context) {
	products, err := h.deps.Wholesale.Products(c.Request.Context(), sessionFrom(c), c.Query("q"))
	if err != nil {
		writeError(c, h.logger, "wholesale products", err)
		return
	}
	c.JSON(http.StatusOK, newList(products))
}

func (h *handlers) listQuotes(c *gin.Context) {
	quotes, err := h.deps.Wholesale.Quotes(c.Request.Context(), sessionFrom(c))
	if err != nil {
		writeError(c, h.logger, "list quotes", err)
		return
	}
	c.JSON(http.StatusOK, newList(quotes))
}

func (h *handlers) submitQuote(c *gin.Context) {
	var in wholesale.QuoteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid JSON")
		return
	}
	q, err := h.deps.Wholesale.SubmitQuote(c.Request.Context(), sessionFrom(c), in)
	if err != nil {
		writeError(c, h.logger, "submit quote", err)
		return
	}
	c.JSON(http.StatusCreated, q)
}

type verificationRequest struct {
	Verified *bool `json:"verified" binding:"required"`
}

func (h *handlers) setWholesaleVerified(c *gin.Context) {
	var req verificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "verified is required")
		return
	}
	if err := h.deps.Wholesale.SetVerified(c.Request.Context(), sessionFrom(c), c.Param("userId"), *req.Verified); err != nil {
		writeError(c, h.logger, "set wholesale verification", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) getSettings(c *gin.Context) {
	st, err := h.deps.Admin.Settings(c.Request.Context(), sessionFrom(c))
	if err != nil {
		writeError(c, h.logger, "get settings", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *handlers) saveSettings(c *gin.Context) {
	var in admin.SettingsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid JSON")
		return
	}
	st, err := h.deps.Admin.SaveSettings(c.Request.Context(), sessionFrom(c), in)
	if err != nil {
		writeError(c, h.logger, "save settings", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *handlers) adminDoctors(c *gin.Context) {
	docs, err := h.deps.Admin.Doctors(c.Request.Context(), sessionFrom(c))
	if err != nil {
		writeError(c, h.logger, "admin doctors", err)
		return
	}
	c.JSON(http.StatusOK, newList(docs))
}

func (h *handlers) addDoctor(c *gin.Context) {
	var in admin.DoctorInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid JSON")
		return
	}
	d, err := h.deps.Admin.AddDoctor(c.Request.Context(), sessionFrom(c), in)
	if err != nil {
		writeError(c, h.logger, "add doctor", err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *handlers) deleteDoctor(c *gin.Context) {
	if err := h.deps.Admin.DeleteDoctor(c.Request.Context(), sessionFrom(c), c.Param("id")); err != nil {
		writeError(c, h.logger, "delete doctor", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) createUser(c *gin.Context) {
	var in identity.CreateUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid JSON")
		return
	}
	id, err := h.deps.Admin.CreateUser(c.Request.Context(), sessionFrom(c), in)
	if err != nil {
		writeError(c, h.logger, "create user", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *handlers) exportCatalog(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.deps.Admin.ExportCatalog(c.Request.Context(), sessionFrom(c), &buf); err != nil {
		writeError(c, h.logger, "export catalog", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="medicines.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
