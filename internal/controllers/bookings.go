package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldbook/internal/service"
)

type BookingController struct {
	bookings *service.BookingSvc
	resp     responder
}

func NewBookingController(bookings *service.BookingSvc, logger *slog.Logger) *BookingController {
	return &BookingController{bookings: bookings, resp: newResponder(logger)}
}

func (b *BookingController) Index(c *gin.Context) {
	p, err := principal(c)
	if err != nil {
		b.resp.fail(c, err)
		return
	}
	list, err := b.bookings.List(c.Request.Context(), p)
	if err != nil {
		b.resp.fail(c, err)
		return
	}
	b.resp.ok(c, http.StatusOK, "success get data booking", list)
}

// Store books a field of the venue in the path.
func (b *BookingController) Store(c *gin.Context) {
	p, err := principal(c)
	if err != nil {
		b.resp.fail(c, err)
		return
	}
	venueID, err := idParam(c, "id")
	if err != nil {
		b.resp.fail(c, err)
		return
	}
	var in service.BookingInput
	if err := bind(c, &in); err != nil {
		b.resp.fail(c, err)
		return
	}
	booking, err := b.bookings.Create(c.Request.Context(), p, venueID, in)
	if err != nil {
		b.resp.fail(c, err)
		return
	}
	b.resp.ok(c, http.StatusCreated, "success booking", booking)
}

func (b *BookingController) Show(c *gin.Context) {
	p, err := principal(c)
	if err != nil {
		b.resp.fail(c, err)
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		b.resp.fail(c, err)
		return
	}
	booking, err := b.bookings.Detail(c.Request.Context(), p, id)
	if err != nil {
		b.resp.fail(c, err)
		return
	}
	b.resp.ok(c, http.StatusOK, "success get data booking with details", booking)
}

func (b *BookingController) Join(c *gin.Context) {
	p, err := principal(c)
	if err != nil {
		b.resp.fail(c, err)
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		b.resp.fail(c, err)
		return
	}
	res, err := b.bookings.Join(c.Request.Context(), p, id)
	if err != nil {
		b.resp.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        "success join",
		"already_joined": res.AlreadyJoined,
		"data":           res.Booking,
	})
}

func (b *BookingController) Unjoin(c *gin.Context) {
	p, err := principal(c)
	if err != nil {
		b.resp.fail(c, err)
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		b.resp.fail(c, err)
		return
	}
	booking, err := b.bookings.Unjoin(c.Request.Context(), p, id)
	if err != nil {
		b.resp.fail(c, err)
		return
	}
	b.resp.ok(c, http.StatusOK, "success unjoin", booking)
}

func (b *BookingController) Update(c *gin.Context) {
	p, err := principal(c)
	if err != nil {
		b.resp.fail(c, err)
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		b.resp.fail(c, err)
		return
	}
	var in service.BookingInput
	if err := bind(c, &in); err != nil {
		b.resp.fail(c, err)
		return
	}
	booking, err := b.bookings.Update(c.Request.Context(), p, id, in)
	if err != nil {
		b.resp.fail(c, err)
		return
	}
	b.resp.ok(c, http.StatusOK, "Booking has been updated", booking)
}

func (b *BookingController) Destroy(c *gin.Context) {
	p, err := principal(c)
	if err != nil {
		b.resp.fail(c, err)
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		b.resp.fail(c, err)
		return
	}
	if err := b.bookings.Delete(c.Request.Context(), p, id); err != nil {
		b.resp.fail(c, err)
		return
	}
	b.resp.ok(c, http.StatusOK, "booking has been deleted", nil)
}

func (b *BookingController) Schedules(c *gin.Context) {
	p, err := principal(c)
	if err != nil {
		b.resp.fail(c, err)
		return
	}
	list, err := b.bookings.Schedules(c.Request.Context(), p)
	if err != nil {
		b.resp.fail(c, err)
		return
	}
	b.resp.ok(c, http.StatusOK, "success get schedules", list)
}
