package service

import (
	"Chatter/internal/api/dto"
	"Chatter/internal/pkg/content"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validDraft() *dto.DraftDTO {
	return &dto.DraftDTO{
		Title:    "Hello World",
		Body:     richBody(),
		Mode:     content.ModeRich,
		Tags:     []string{"go"},
		CoverURL: "https://cdn.example.com/chatter/post_covers/1",
	}
}

func fieldsOf(errs []FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestDraftValidator(t *testing.T) {
	t.Parallel()
	v := NewDraftValidator(1 << 10)

	cases := []struct {
		name   string
		mutate func(d *dto.DraftDTO)
		want   []string
	}{
		{name: "valid", mutate: func(*dto.DraftDTO) {}},
		{name: "short title", mutate: func(d *dto.DraftDTO) { d.Title = "Hey" }, want: []string{"title"}},
		{name: "short body", mutate: func(d *dto.DraftDTO) { d.Body = "<p>short</p>" }, want: []string{"body"}},
		{name: "no tags", mutate: func(d *dto.DraftDTO) { d.Tags = nil }, want: []string{"tags"}},
		{name: "blank tag", mutate: func(d *dto.DraftDTO) { d.Tags = []string{"go", "  "} }, want: []string{"tags[1]"}},
		{name: "unknown mode", mutate: func(d *dto.DraftDTO) { d.Mode = "HTML" }, want: []string{"mode"}},
		{name: "create without cover", mutate: func(d *dto.DraftDTO) { d.CoverURL = "" }, want: []string{"cover"}},
		{name: "edit without cover", mutate: func(d *dto.DraftDTO) { d.CoverURL = ""; d.PostID = 7 }},
		{name: "cover not image", mutate: func(d *dto.DraftDTO) {
			d.Cover = &dto.CoverFile{Data: []byte("hello")}
		}, want: []string{"cover"}},
		{name: "cover too large", mutate: func(d *dto.DraftDTO) {
			d.Cover = &dto.CoverFile{Data: make([]byte, 2<<10)}
		}, want: []string{"cover"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDraft()
			tc.mutate(d)
			got := fieldsOf(v.Validate(context.Background(), d))
			if len(tc.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.ElementsMatch(t, tc.want, got)
		})
	}
}

func TestDraftValidatorAcceptsImageCover(t *testing.T) {
	t.Parallel()
	d := validDraft()
	d.CoverURL = ""
	d.Cover = &dto.CoverFile{Data: pngBytes(t, 4, 4)}
	assert.Empty(t, NewDraftValidator(1<<20).Validate(context.Background(), d))
}

func TestDraftValidatorNilDraft(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"draft"}, fieldsOf(NewDraftValidator(1).Validate(context.Background(), nil)))
}
