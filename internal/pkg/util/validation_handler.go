package util

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = validate.RegisterValidation("notblank", validators.NotBlank)
}

// FieldViolation 字段校验失败
type FieldViolation struct {
	Field string
	Rule  string
	Param string
}

func (v FieldViolation) Message() string {
	if v.Param != "" {
		return fmt.Sprintf("字段 [%s] 校验失败，规则 [%s=%s]", v.Field, v.Rule, v.Param)
	}
	return fmt.Sprintf("字段 [%s] 校验失败，规则 [%s]", v.Field, v.Rule)
}

// ValidateFields 返回全部字段的校验失败
func ValidateFields(dto any) []FieldViolation {
	err := validate.Struct(dto)
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return []FieldViolation{{Field: "-", Rule: err.Error()}}
	}
	out := make([]FieldViolation, 0, len(vErrs))
	for _, fe := range vErrs {
		out = append(out, FieldViolation{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
	}
	return out
}
