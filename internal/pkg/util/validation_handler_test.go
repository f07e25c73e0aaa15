package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleDTO struct {
	Title string   `json:"title" validate:"required,min=5"`
	Tags  []string `json:"tags" validate:"min=1,dive,notblank"`
}

func TestValidateFields(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ValidateFields(&sampleDTO{Title: "Hello World", Tags: []string{"go"}}))

	violations := ValidateFields(&sampleDTO{Title: "Hi", Tags: []string{"  "}})
	require.Len(t, violations, 2)
	assert.Equal(t, "title", violations[0].Field)
	assert.Equal(t, "min", violations[0].Rule)
	assert.Equal(t, "字段 [title] 校验失败，规则 [min=5]", violations[0].Message())
	assert.Equal(t, "tags[0]", violations[1].Field)
	assert.Equal(t, "notblank", violations[1].Rule)

	assert.Len(t, ValidateFields(&sampleDTO{}), 2)
}
