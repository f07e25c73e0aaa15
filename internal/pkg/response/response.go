package response

import (
	"Chatter/internal/api/dto"
	"Chatter/internal/service"
	"errors"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const (
	Ok                  = 200
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
)

// Success 成功返回封装
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.Response{
		Code:    Ok,
		Message: "success",
		Data:    data,
	})
}

// Fail 失败返回封装
func Fail(c *gin.Context, businessCode int, message string) {
	FailWithData(c, businessCode, message, nil)
}

// FailWithData 失败但需要附带数据，比如字段级校验信息
func FailWithData(c *gin.Context, businessCode int, message string, data interface{}) {
	c.JSON(http.StatusOK, dto.Response{
		Code:    businessCode,
		Message: message,
		Data:    data,
	})
}

// Error 处理错误
func Error(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		Fail(c, BadRequest, "参数错误")
		return
	}

	var unmarshalTypeError *json.UnmarshalTypeError
	if errors.As(err, &unmarshalTypeError) {
		Fail(c, BadRequest, "Json错误")
		return
	}

	code, ok := service.CodeOf(err)
	if !ok {
		log.ErrorContext(c.Request.Context(), "Error", "err", err)
		Fail(c, InternalServerError, service.UnExpectedError.Error())
		return
	}

	var pe *service.PipelineError
	if errors.As(err, &pe) {
		if code == InternalServerError {
			log.ErrorContext(c.Request.Context(), "publish pipeline error", "stage", pe.Stage, "err", err)
		}
		if len(pe.Fields) > 0 {
			FailWithData(c, code, pe.Kind.Error(), pe.Fields)
			return
		}
		Fail(c, code, pipelineMessage(pe))
		return
	}
	Fail(c, code, err.Error())
}

// pipelineMessage 已知原因直接展示，未知的底层错误只展示分类
func pipelineMessage(pe *service.PipelineError) string {
	if pe.Err != nil {
		if _, known := service.ErrorMap[pe.Err]; known {
			return pe.Err.Error()
		}
	}
	return pe.Kind.Error()
}
