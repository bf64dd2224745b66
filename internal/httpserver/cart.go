package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medistore/internal/domain"
)

type cartView struct {
	LineItems            []cartLineView `json:"lineItems"`
	TotalLineItemQty     int            `json:"totalLineItemQuantity"`
	Subtotal             priceAmount    `json:"subtotal"`
	RequiresPrescription bool           `json:"requiresPrescription"`
}

type cartLineView struct {
	ID                   string      `json:"id"`
	ProductID            string      `json:"productId"`
	Name                 string      `json:"name"`
	Brand                string      `json:"brand,omitempty"`
	Quantity             int         `json:"quantity"`
	Price                priceAmount `json:"price"`
	ListPrice            priceAmount `json:"listPrice"`
	TotalPrice           priceAmount `json:"totalPrice"`
	Image                string      `json:"image,omitempty"`
	RequiresPrescription bool        `json:"requiresPrescription"`
}

type priceAmount struct {
	CentAmount int64  `json:"centAmount"`
	Amount     string `json:"amount"`
}

func amount(cents int64) priceAmount {
	return priceAmount{CentAmount: cents, Amount: domain.FormatCents(cents)}
}

func toCartView(p domain.CartProjection) cartView {
	lines := make([]cartLineView, 0, len(p.Lines))
	for _, l := range p.Lines {
		lines = append(lines, cartLineView{
			ID:                   l.LineID,
			ProductID:            l.ProductID,
			Name:                 l.Name,
			Brand:                l.Brand,
			Quantity:             l.Quantity,
			Price:                amount(l.UnitPriceCents),
			ListPrice:            amount(l.ListPriceCents),
			TotalPrice:           amount(l.LineTotalCents()),
			Image:                l.ImageRef,
			RequiresPrescription: l.RequiresPrescription,
		})
	}
	return cartView{
		LineItems:            lines,
		TotalLineItemQty:     p.ItemCount,
		Subtotal:             amount(p.SubtotalCents),
		RequiresPrescription: domain.RequiresPrescription(p.Lines),
	}
}

type addItemRequest struct {
	MedicineID string `json:"medicineId" binding:"required"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *handlers) cartFor(c *gin.Context) (CartSession, bool) {
	cs, err := h.deps.Carts.For(c.Request.Context(), sessionFrom(c))
	if err != nil {
		writeError(c, h.logger, "open cart", err)
		return nil, false
	}
	return cs, true
}

func (h *handlers) getCart(c *gin.Context) {
	cs, ok := h.cartFor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toCartView(cs.Load(c.Request.Context())))
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "medicineId is required")
		return
	}
	med, err := h.deps.Catalog.Medicine(c.Request.Context(), req.MedicineID)
	if err != nil {
		writeError(c, h.logger, "add to cart", err)
		return
	}
	cs, ok := h.cartFor(c)
	if !ok {
		return
	}
	proj, err := cs.AddItem(c.Request.Context(), *med)
	if err != nil {
		writeError(c, h.logger, "add to cart", err)
		return
	}
	c.JSON(http.StatusOK, toCartView(proj))
}

func (h *handlers) setCartQuantity(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "quantity is required")
		return
	}
	cs, ok := h.cartFor(c)
	if !ok {
		return
	}
	proj, err := cs.SetQuantity(c.Request.Context(), c.Param("medicineId"), *req.Quantity)
	if err != nil {
		writeError(c, h.logger, "update cart", err)
		return
	}
	c.JSON(http.StatusOK, toCartView(proj))
}

func (h *handlers) removeCartItem(c *gin.Context) {
	cs, ok := h.cartFor(c)
	if !ok {
		return
	}
	proj, err := cs.RemoveItem(c.Request.Context(), c.Param("medicineId"))
	if err != nil {
		writeError(c, h.logger, "remove from cart", err)
		return
	}
	c.JSON(http.StatusOK, toCartView(proj))
}

func (h *handlers) clearCart(c *gin.Context) {
	cs, ok := h.cartFor(c)
	if !ok {
		return
	}
	proj, err := cs.Clear(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "clear cart", err)
		return
	}
	c.JSON(http.StatusOK, toCartView(proj))
}
