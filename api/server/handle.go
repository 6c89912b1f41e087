package server

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/photon-storage/go-common/log"

	"github.com/riskless-finance/riskless/api/service"
)

// handleFunc is a service method of the shape
// func(*gin.Context) (*resp, error). The shape is checked with
// reflection at route-registration time so a mismatched method fails
// at startup instead of at request time.
type handleFunc interface{}

var (
	ginContextType = reflect.TypeOf(&gin.Context{})
	errorType      = reflect.TypeOf((*error)(nil)).Elem()
)

func validateFunc(fn handleFunc) error {
	t := reflect.TypeOf(fn)
	if t == nil || t.Kind() != reflect.Func {
		return errors.New("handler is not a function")
	}

	if t.NumIn() != 1 || t.In(0) != ginContextType {
		return errors.New("handler must take a single *gin.Context")
	}

	if t.NumOut() != 2 {
		return errors.New("handler must return a response and an error")
	}

	if t.Out(0).Kind() != reflect.Ptr {
		return errors.New("handler response must be a pointer type")
	}

	if !t.Out(1).Implements(errorType) {
		return errors.New("handler second return value must be an error")
	}

	return nil
}

func (s *Server) handle(fn handleFunc) gin.HandlerFunc {
	if err := validateFunc(fn); err != nil {
		log.Fatal("invalid service handler", "error", err)
	}

	v := reflect.ValueOf(fn)
	return func(c *gin.Context) {
		out := v.Call([]reflect.Value{reflect.ValueOf(c)})
		if errVal := out[1].Interface(); errVal != nil {
			_ = c.Error(errVal.(error))
			c.Abort()
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"code": 0,
			"data": out[0].Interface(),
		})
	}
}

// handleError renders the last request error with its assigned API
// code; errors without a code fall back to the system error code.
func handleError() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 {
			return
		}

		err := errors.Cause(c.Errors.Last().Err)
		code, ok := service.ErrorCode[err]
		if !ok {
			code = service.ErrorCode[service.ErrSystem]
		}

		c.JSON(http.StatusOK, gin.H{
			"code":    code,
			"message": err.Error(),
		})
	}
}
