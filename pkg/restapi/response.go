package restapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"video-pipeline-service/pkg/errno"
)

// Response is the uniform envelope for the internal API.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success writes a 200 envelope with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    errno.OK.Code,
		Message: errno.OK.Message,
		Data:    data,
	})
}

// Failed maps err onto the envelope, keeping business codes stable.
func Failed(c *gin.Context, err error) {
	var biz *errno.BizError
	if errors.As(err, &biz) {
		c.JSON(httpStatus(biz.Errno), Response{Code: biz.Code(), Message: biz.Error()})
		return
	}
	var en *errno.Errno
	if errors.As(err, &en) {
		c.JSON(httpStatus(en), Response{Code: en.Code, Message: en.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, Response{
		Code:    errno.ErrInternalServer.Code,
		Message: err.Error(),
	})
}

func httpStatus(e *errno.Errno) int {
	switch {
	case e == nil:
		return http.StatusInternalServerError
	case e.Code == errno.ErrNotFound.Code || e == errno.ErrJobNotFound || e == errno.ErrContentUnavailable:
		return http.StatusNotFound
	case e.Code == errno.ErrUnauthorized.Code:
		return http.StatusUnauthorized
	case e.Code >= 20000 || e.Code == errno.ErrInvalidParam.Code:
		return http.StatusBadRequest
	case e.Code >= 500:
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}
