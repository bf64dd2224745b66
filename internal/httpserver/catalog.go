package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medistore/internal/service/catalog"
)

func (h *handlers) searchMedicines(c *gin.Context) {
	var in catalog.SearchInput
	if err := c.ShouldBindQuery(&in); err != nil {
		badRequest(c, "invalid query parameters")
		return
	}
	meds, err := h.deps.Catalog.SearchMedicines(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.logger, "search medicines", err)
		return
	}
	c.JSON(http.StatusOK, newList(toMedicineViews(meds)))
}

func (h *handlers) getMedicine(c *gin.Context) {
	m, err := h.deps.Catalog.Medicine(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "get medicine", err)
		return
	}
	c.JSON(http.StatusOK, toMedicineView(*m))
}

func (h *handlers) listCategories(c *gin.Context) {
	cats, err := h.deps.Catalog.Categories(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "list categories", err)
		return
	}
	c.JSON(http.StatusOK, newList(cats))
}

func (h *handlers) listDoctors(c *gin.Context) {
	docs, err := h.deps.Catalog.Doctors(c.Request.Context(), c.Query("specialty"))
	if err != nil {
		writeError(c, h.logger, "list doctors", err)
		return
	}
	c.JSON(http.StatusOK, newList(docs))
}

func (h *handlers) getDoctor(c *gin.Context) {
	d, err := h.deps.Catalog.Doctor(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "get doctor", err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *handlers) listLabTests(c *gin.Context) {
	tests, err := h.deps.Catalog.LabTests(c.Request.Context(), c.Query("category"))
	if err != nil {
		writeError(c, h.logger, "list lab tests", err)
		return
	}
	c.JSON(http.StatusOK, newList(tests))
}

func (h *handlers) listScanTests(c *gin.Context) {
	scans, err := h.deps.Catalog.ScanTests(c.Request.Context(), c.Query("type"))
	if err != nil {
		writeError(c, h.logger, "list scan tests", err)
		return
	}
	c.JSON(http.StatusOK, newList(scans))
}

func (h *handlers) listHealthPackages(c *gin.Context) {
	pkgs, err := h.deps.Catalog.HealthPackages(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "list health packages", err)
		return
	}
	c.JSON(http.StatusOK, newList(pkgs))
}
