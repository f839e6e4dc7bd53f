package response

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/inkwave/inkchat/pkg/errcode"
)

// Response represents a standard API response
type Response struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

// Success sends a success response
func Success(ctx context.Context, c *app.RequestContext, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: 0,
		Msg:  "success",
		Data: data,
	})
}

// Error sends an error response. Business errors map to their HTTP status;
// anything else becomes a generic 500 without leaking internal detail.
func Error(ctx context.Context, c *app.RequestContext, err error) {
	if e, ok := err.(*errcode.Error); ok {
		c.JSON(e.Status, Response{Code: e.Code, Msg: e.Msg})
		return
	}

	c.JSON(http.StatusInternalServerError, Response{
		Code: errcode.ErrInternalServer.Code,
		Msg:  errcode.ErrInternalServer.Msg,
	})
}

// ErrorWithCode sends an error response with a specific business error
func ErrorWithCode(ctx context.Context, c *app.RequestContext, e *errcode.Error) {
	c.JSON(e.Status, Response{Code: e.Code, Msg: e.Msg})
}
