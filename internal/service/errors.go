package service

import (
	"errors"
	"fmt"
	"strings"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
)

var (
	ErrParamInvalid     = errors.New("参数错误")
	ErrUserNotFound     = errors.New("用户不存在")
	ErrUserBan          = errors.New("用户已被封禁")
	ErrFileNotSupported = errors.New("不支持的文件类型")
	ErrFileTooLarge     = errors.New("文件过大")
	ErrPostNotFound     = errors.New("帖子不存在")
	ErrPublishInFlight  = errors.New("该草稿正在发布中")
	UnauthorizedError   = errors.New("权限不足")
	UnExpectedError     = errors.New("系统异常，请稍后重试")
)

// 发布流水线错误分类
var (
	ErrValidation  = errors.New("草稿校验失败")
	ErrConversion  = errors.New("正文格式转换失败")
	ErrUpload      = errors.New("上传失败")
	ErrPersistence = errors.New("帖子保存失败")
	ErrPurge       = errors.New("孤儿资源删除失败")
	ErrFanout      = errors.New("通知扇出失败")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:     BadRequest,
	ErrUserNotFound:     NotFound,
	ErrUserBan:          Unauthorized,
	ErrFileNotSupported: BadRequest,
	ErrFileTooLarge:     BadRequest,
	ErrPostNotFound:     NotFound,
	ErrPublishInFlight:  Conflict,
	UnauthorizedError:   Unauthorized,
	UnExpectedError:     InternalServerError,
	ErrValidation:       BadRequest,
	ErrConversion:       BadRequest,
	ErrUpload:           InternalServerError,
	ErrPersistence:      InternalServerError,
	ErrPurge:            InternalServerError,
	ErrFanout:           InternalServerError,
}

// Stage 发布状态
type Stage string

const (
	StageValidating     Stage = "VALIDATING"
	StageReconciling    Stage = "RECONCILING_ASSETS"
	StagePersisting     Stage = "PERSISTING"
	StageUploadingCover Stage = "UPLOADING_COVER"
	StageFanningOut     Stage = "FANNING_OUT"
	StageDone           Stage = "DONE"
	StageFailed         Stage = "FAILED"
)

// FieldError 单个字段的校验失败
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// PipelineError 流水线错误，errors.Is 同时匹配分类 Kind 与底层原因 Err
type PipelineError struct {
	Kind   error
	Stage  Stage
	Ref    string
	Fields []FieldError
	Err    error
}

func (e *PipelineError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Stage != "" {
		fmt.Fprintf(&b, " [%s]", e.Stage)
	}
	if e.Ref != "" {
		fmt.Fprintf(&b, " %s", e.Ref)
	}
	for _, f := range e.Fields {
		fmt.Fprintf(&b, "; %s: %s", f.Field, f.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *PipelineError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newPipelineError(kind error, stage Stage, err error) *PipelineError {
	return &PipelineError{Kind: kind, Stage: stage, Err: err}
}

// NewValidationError 校验失败，尚未产生任何副作用
func NewValidationError(fields []FieldError) *PipelineError {
	return &PipelineError{Kind: ErrValidation, Stage: StageValidating, Fields: fields}
}

// CodeOf 先按具体原因查业务码，找不到再按错误分类
func CodeOf(err error) (int, bool) {
	var pe *PipelineError
	if errors.As(err, &pe) {
		if pe.Err != nil {
			if code, ok := lookupCode(pe.Err); ok {
				return code, true
			}
		}
		return lookupCode(pe.Kind)
	}
	return lookupCode(err)
}

func lookupCode(err error) (int, bool) {
	if code, ok := ErrorMap[err]; ok {
		return code, true
	}
	for target, code := range ErrorMap {
		if errors.Is(err, target) {
			return code, true
		}
	}
	return 0, false
}
