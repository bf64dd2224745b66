package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"medistore/internal/service/booking"
	"medistore/internal/service/order"
)

func (h *handlers) placeOrder(c *gin.Context) {
	var in order.CheckoutInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid JSON")
		return
	}
	o, err := h.deps.Orders.PlaceOrder(c.Request.Context(), sessionFrom(c), in)
	if err != nil {
		writeError(c, h.logger, "place order", err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *handlers) listOrders(c *gin.Context) {
	orders, err := h.deps.Orders.ListOrders(c.Request.Context(), sessionFrom(c))
	if err != nil {
		writeError(c, h.logger, "list orders", err)
		return
	}
	c.JSON(http.StatusOK, newList(orders))
}

func (h *handlers) bookAppointment(c *gin.Context) {
	var in booking.AppointmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid JSON")
		return
	}
	conf, err := h.deps.Bookings.BookAppointment(c.Request.Context(), sessionFrom(c), in)
	if err != nil {
		writeError(c, h.logger, "book appointment", err)
		return
	}
	c.JSON(http.StatusCreated, conf)
}

func (h *handlers) bookLabTest(c *gin.Context) {
	var in booking.LabBookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid JSON")
		return
	}
	conf, err := h.deps.Bookings.BookLabTest(c.Request.Context(), sessionFrom(c), in)
	if err != nil {
		writeError(c, h.logger, "book lab test", err)
		return
	}
	c.JSON(http.StatusCreated, conf)
}

// uploadPrescription accepts multipart/form-data with a "file" part and
// optional "notes" and "requestId" fields.
func (h *handlers) uploadPrescription(c *gin.Context) {
	// Multipart overhead on top of the file itself.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.deps.MaxUploadBytes+64<<10)

	var in booking.PrescriptionInput
	fh, err := c.FormFile("file")
	switch {
	case err == nil:
		f, err := fh.Open()
		if err != nil {
			writeError(c, h.logger, "upload prescription", err)
			return
		}
		defer f.Close()
		in.File = &booking.PrescriptionFile{Name: fh.Filename, Size: fh.Size, Body: f}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// The service reports the missing file.
	default:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file is too large"})
			return
		}
		badRequest(c, "invalid multipart form")
		return
	}
	in.RequestID = c.PostForm("requestId")
	in.Notes = c.PostForm("notes")

	conf, err := h.deps.Bookings.UploadPrescription(c.Request.Context(), sessionFrom(c), in)
	if err != nil {
		writeError(c, h.logger, "upload prescription", err)
		return
	}
	c.JSON(http.StatusCreated, conf)
}
