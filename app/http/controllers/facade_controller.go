package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/samber/lo"

	"github.com/km-arc/go-facade/framework/app"
	"github.com/km-arc/go-facade/framework/container"
	"github.com/km-arc/go-facade/framework/facade"
)

// FacadeController exposes the facade registry over HTTP.
type FacadeController struct {
	app.Controller
	reg *facade.Registry
	c   *container.Container
}

func NewFacadeController(reg *facade.Registry, c *container.Container) *FacadeController {
	return &FacadeController{reg: reg, c: c}
}

// Index lists every registered key, optionally filtered by ?phase=.
func (ctl *FacadeController) Index(w http.ResponseWriter, r *http.Request) {
	req, res := ctl.Request(r), ctl.Response(w)

	states := ctl.reg.Snapshot()
	if phase := req.Query("phase"); phase != "" {
		states = lo.Filter(states, func(s facade.Status, _ int) bool {
			return string(s.Phase) == phase
		})
	}
	res.Negotiate(req, http.StatusOK, map[string]any{"facades": states})
}

// Show returns the state of one key.
func (ctl *FacadeController) Show(w http.ResponseWriter, r *http.Request) {
	req, res := ctl.Request(r), ctl.Response(w)

	key, ok := ctl.key(w, r)
	if !ok {
		return
	}
	st, found := ctl.reg.State(key)
	if !found {
		res.NotFound(fmt.Sprintf("facade [%s] is not registered", key))
		return
	}
	res.Negotiate(req, http.StatusOK, st)
}

// Resolve resolves the key through its facade and reports the result.
func (ctl *FacadeController) Resolve(w http.ResponseWriter, r *http.Request) {
	req, res := ctl.Request(r), ctl.Response(w)

	key, ok := ctl.key(w, r)
	if !ok {
		return
	}
	inst, err := ctl.reg.GetInstance(key)
	switch {
	case errors.Is(err, facade.ErrServiceNotRegistered):
		res.NotFound(err.Error())
		return
	case err != nil:
		res.Error(http.StatusBadGateway, err.Error())
		return
	}
	st, _ := ctl.reg.State(key)
	res.Negotiate(req, http.StatusOK, map[string]any{
		"type":  fmt.Sprintf("%T", inst),
		"state": st,
	})
}

// Release drops the container's shared instance of the key.
func (ctl *FacadeController) Release(w http.ResponseWriter, r *http.Request) {
	req, res := ctl.Request(r), ctl.Response(w)

	key, ok := ctl.key(w, r)
	if !ok {
		return
	}
	if !ctl.reg.Registered(key) {
		res.NotFound(fmt.Sprintf("facade [%s] is not registered", key))
		return
	}
	if !ctl.c.Release(string(key)) {
		res.Error(http.StatusConflict, fmt.Sprintf("[%s] has no shared instance to release", key))
		return
	}
	st, _ := ctl.reg.State(key)
	res.Negotiate(req, http.StatusOK, st)
}

func (ctl *FacadeController) key(w http.ResponseWriter, r *http.Request) (facade.ServiceKey, bool) {
	raw := ctl.Request(r).RouteParam("key")
	key, err := url.PathUnescape(raw)
	if err != nil || key == "" {
		ctl.Response(w).Error(http.StatusBadRequest, "invalid facade key")
		return "", false
	}
	return facade.ServiceKey(key), true
}
