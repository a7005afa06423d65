package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldbook/internal/service"
)

// FieldController serves fields nested under /venues/:id. The field id is
// the :field_id parameter.
type FieldController struct {
	fields *service.FieldSvc
	resp   responder
}

func NewFieldController(fields *service.FieldSvc, logger *slog.Logger) *FieldController {
	return &FieldController{fields: fields, resp: newResponder(logger)}
}

func (f *FieldController) Index(c *gin.Context) {
	venueID, err := idParam(c, "id")
	if err != nil {
		f.resp.fail(c, err)
		return
	}
	list, err := f.fields.List(c.Request.Context(), venueID)
	if err != nil {
		f.resp.fail(c, err)
		return
	}
	f.resp.ok(c, http.StatusOK, "success", list)
}

func (f *FieldController) Show(c *gin.Context) {
	venueID, id, err := fieldParams(c)
	if err != nil {
		f.resp.fail(c, err)
		return
	}
	field, err := f.fields.Detail(c.Request.Context(), venueID, id)
	if err != nil {
		f.resp.fail(c, err)
		return
	}
	f.resp.ok(c, http.StatusOK, "success", field)
}

func (f *FieldController) Store(c *gin.Context) {
	p, err := principal(c)
	if err != nil {
		f.resp.fail(c, err)
		return
	}
	venueID, err := idParam(c, "id")
	if err != nil {
		f.resp.fail(c, err)
		return
	}
	var in service.FieldInput
	if err := bind(c, &in); err != nil {
		f.resp.fail(c, err)
		return
	}
	field, err := f.fields.Create(c.Request.Context(), p, venueID, in)
	if err != nil {
		f.resp.fail(c, err)
		return
	}
	f.resp.ok(c, http.StatusCreated, "success input field", field)
}

func (f *FieldController) Update(c *gin.Context) {
	p, err := principal(c)
	if err != nil {
		f.resp.fail(c, err)
		return
	}
	venueID, id, err := fieldParams(c)
	if err != nil {
		f.resp.fail(c, err)
		return
	}
	var in service.FieldInput
	if err := bind(c, &in); err != nil {
		f.resp.fail(c, err)
		return
	}
	field, err := f.fields.Update(c.Request.Context(), p, venueID, id, in)
	if err != nil {
		f.resp.fail(c, err)
		return
	}
	f.resp.ok(c, http.StatusOK, "updated!!", field)
}

func (f *FieldController) Destroy(c *gin.Context) {
	p, err := principal(c)
	if err != nil {
		f.resp.fail(c, err)
		return
	}
	venueID, id, err := fieldParams(c)
	if err != nil {
		f.resp.fail(c, err)
		return
	}
	if err := f.fields.Delete(c.Request.Context(), p, venueID, id); err != nil {
		f.resp.fail(c, err)
		return
	}
	f.resp.ok(c, http.StatusOK, "deleted!!", nil)
}

func fieldParams(c *gin.Context) (venueID, id uint, err error) {
	if venueID, err = idParam(c, "id"); err != nil {
		return 0, 0, err
	}
	if id, err = idParam(c, "field_id"); err != nil {
		return 0, 0, err
	}
	return venueID, id, nil
}
