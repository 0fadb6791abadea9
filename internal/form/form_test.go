package form_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phs9607/mysite/internal/form"
)

func TestQuestionSchema_Valid(t *testing.T) {
	values := url.Values{}
	values.Set("subject", "How do I use GORM preloads?")
	values.Set("content", "Details inside.")

	errs := form.QuestionSchema.Validate(values)

	assert.False(t, errs.Has(), "valid submission should produce no errors")
}

func TestQuestionSchema_EmptySubject(t *testing.T) {
	values := url.Values{}
	values.Set("subject", "   ")
	values.Set("content", "body")

	errs := form.QuestionSchema.Validate(values)

	assert.True(t, errs.Has())
	assert.Contains(t, errs, "subject")
	assert.NotContains(t, errs, "content")
}

func TestQuestionSchema_MissingBothFields(t *testing.T) {
	errs := form.QuestionSchema.Validate(url.Values{})

	assert.Contains(t, errs, "subject")
	assert.Contains(t, errs, "content")
}

func TestQuestionSchema_SubjectTooLong(t *testing.T) {
	values := url.Values{}
	values.Set("subject", strings.Repeat("x", 201))
	values.Set("content", "body")

	errs := form.QuestionSchema.Validate(values)

	assert.Contains(t, errs, "subject")
}

func TestAnswerSchema_RequiresContent(t *testing.T) {
	errs := form.AnswerSchema.Validate(url.Values{})
	assert.Contains(t, errs, "content")

	values := url.Values{}
	values.Set("content", "an answer")
	assert.False(t, form.AnswerSchema.Validate(values).Has())
}

func TestCommentSchema_RequiresContent(t *testing.T) {
	errs := form.CommentSchema.Validate(url.Values{})
	assert.Contains(t, errs, "content")
}
