package handlers

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"go-mouli/pkg/errs"
)

// HumaError maps a service-layer failure onto the corresponding HTTP
// error. Forbidden, NotFound and BadRequest stay distinct; anything
// outside the errs taxonomy becomes a 500 with the given fallback
// message so internal detail never leaks to clients.
func HumaError(err error, fallback string) error {
	switch {
	case errors.Is(err, errs.ErrForbidden):
		return huma.Error403Forbidden("You are not allowed to perform this operation")
	case errors.Is(err, errs.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, errs.ErrBadRequest):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, errs.ErrConflict):
		return huma.Error409Conflict(err.Error())
	default:
		return huma.Error500InternalServerError(fallback, err)
	}
}
