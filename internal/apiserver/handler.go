// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package apiserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/juju/clock"
	"github.com/juju/errors"

	"github.com/juju/ddosblock/core/firewall"
	"github.com/juju/ddosblock/internal/provider/google"
)

// maxRequestBody bounds the size of a block request body.
const maxRequestBody = 1 << 16

// Blocker blocks a single address.
type Blocker interface {
	Block(ctx context.Context, req firewall.BlockRequest) (firewall.Result, error)
}

// blockParams holds the fields of a block request body. A nil field was
// not supplied.
type blockParams struct {
	Type   *string `json:"type"`
	IP     *string `json:"ip"`
	Action *string `json:"action"`
}

// BlockHandler is an http.Handler that blocks the address named in the
// request body.
type BlockHandler struct {
	blocker Blocker
	metrics *Collector
	clock   clock.Clock
}

// NewBlockHandler returns a BlockHandler that dispatches to blocker and
// records its requests on metrics.
func NewBlockHandler(blocker Blocker, metrics *Collector, clock clock.Clock) *BlockHandler {
	return &BlockHandler{
		blocker: blocker,
		metrics: metrics,
		clock:   clock,
	}
}

// ServeHTTP is part of the http.Handler interface.
func (h *BlockHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := h.clock.Now()

	params, err := readBlockParams(r)
	if err != nil {
		logger.Debugf("rejecting block request: %v", err)
		h.metrics.rejected(params.typeLabel())
		sendText(w, http.StatusBadRequest, "Bad request")
		return
	}
	req := firewall.BlockRequest{
		Type: firewall.BlockType(*params.Type),
		IP:   *params.IP,
	}
	if err := req.Validate(); err != nil {
		logger.Debugf("rejecting block request: %v", err)
		h.metrics.rejected(*params.Type)
		sendText(w, http.StatusBadRequest, "Bad request")
		return
	}

	// A block runs to completion once started, even if the client goes away.
	result, err := h.blocker.Block(context.WithoutCancel(r.Context()), req)
	elapsed := h.clock.Now().Sub(start)
	switch {
	case errors.Is(err, errors.NotValid):
		logger.Debugf("rejecting block request: %v", err)
		h.metrics.rejected(*params.Type)
		sendText(w, http.StatusBadRequest, "Bad request")
	case err != nil:
		switch {
		case google.IsAuthorisationFailure(err):
			logger.Errorf("not authorised to block %s: %v", req.IP, err)
		case google.IsConflict(err):
			logger.Errorf("firewall changed concurrently while blocking %s: %v", req.IP, err)
		case google.IsNotFound(err):
			logger.Errorf("project or application not found while blocking %s: %v", req.IP, err)
		default:
			logger.Errorf("%v", err)
		}
		h.metrics.failed(req.Type, elapsed)
		sendText(w, http.StatusInternalServerError, fmt.Sprintf("Failed to block IP = %s: %v", req.IP, err))
	default:
		h.metrics.blocked(result, elapsed)
		sendText(w, http.StatusOK, "Blocked IP = "+req.IP)
	}
}

// readBlockParams reads the request body as a form when it is form
// encoded, and as JSON otherwise. Every field must be present.
func readBlockParams(r *http.Request) (blockParams, error) {
	var params blockParams
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		r.Body = io.NopCloser(io.LimitReader(r.Body, maxRequestBody))
		if err := r.ParseForm(); err != nil {
			return params, errors.NewNotValid(err, "form body")
		}
		params.Type = formValue(r, "type")
		params.IP = formValue(r, "ip")
		params.Action = formValue(r, "action")
	default:
		if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&params); err != nil {
			return params, errors.NewNotValid(err, "json body")
		}
	}

	switch {
	case params.Type == nil:
		return params, errors.NotValidf("missing type")
	case params.IP == nil:
		return params, errors.NotValidf("missing ip")
	case params.Action == nil:
		return params, errors.NotValidf("missing action")
	}
	return params, nil
}

func formValue(r *http.Request, key string) *string {
	values, ok := r.PostForm[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

func (p blockParams) typeLabel() string {
	if p.Type == nil {
		return unknownType
	}
	return *p.Type
}

func sendText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := io.WriteString(w, body); err != nil {
		logger.Debugf("cannot write response: %v", err)
	}
}
