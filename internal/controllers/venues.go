package controllers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldbook/internal/service"
)

type VenueController struct {
	venues *service.VenueSvc
	resp   responder
}

func NewVenueController(venues *service.VenueSvc, logger *slog.Logger) *VenueController {
	return &VenueController{venues: venues, resp: newResponder(logger)}
}

func (v *VenueController) Index(c *gin.Context) {
	list, err := v.venues.List(c.Request.Context())
	if err != nil {
		v.resp.fail(c, err)
		return
	}
	v.resp.ok(c, http.StatusOK, "success get data", list)
}

func (v *VenueController) Show(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		v.resp.fail(c, err)
		return
	}
	venue, err := v.venues.Detail(c.Request.Context(), id)
	if err != nil {
		v.resp.fail(c, err)
		return
	}
	v.resp.ok(c, http.StatusOK, "get data by id success!!", venue)
}

func (v *VenueController) Store(c *gin.Context) {
	p, err := principal(c)
	if err != nil {
		v.resp.fail(c, err)
		return
	}
	var in service.VenueInput
	if err := bind(c, &in); err != nil {
		v.resp.fail(c, err)
		return
	}
	venue, err := v.venues.Create(c.Request.Context(), p, in)
	if err != nil {
		v.resp.fail(c, err)
		return
	}
	v.resp.ok(c, http.StatusCreated, "success input new venue", venue)
}

func (v *VenueController) Update(c *gin.Context) {
	p, err := principal(c)
	if err != nil {
		v.resp.fail(c, err)
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		v.resp.fail(c, err)
		return
	}
	var in service.VenueInput
	if err := bind(c, &in); err != nil {
		v.resp.fail(c, err)
		return
	}
	venue, err := v.venues.Update(c.Request.Context(), p, id, in)
	if err != nil {
		v.resp.fail(c, err)
		return
	}
	v.resp.ok(c, http.StatusOK, fmt.Sprintf("the venue with id %d has been updated!!", venue.ID), venue)
}

func (v *VenueController) Destroy(c *gin.Context) {
	p, err := principal(c)
	if err != nil {
		v.resp.fail(c, err)
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		v.resp.fail(c, err)
		return
	}
	if err := v.venues.Delete(c.Request.Context(), p, id); err != nil {
		v.resp.fail(c, err)
		return
	}
	v.resp.ok(c, http.StatusOK, "deleted!!", nil)
}
