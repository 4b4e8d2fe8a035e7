package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
)

func TestOKWithData(t *testing.T) {
	data := map[string]string{"key": "value"}
	resp := OKWithData(data)

	assert.True(t, resp.Success)
	assert.Empty(t, resp.Message)
	assert.Equal(t, data, resp.Data)
}

func TestOKWithList(t *testing.T) {
	items := []string{"a", "b"}
	resp := OKWithList(items, 10, 2, 0)

	assert.True(t, resp.Success)
	list, ok := resp.Data.(List)
	assert.True(t, ok)
	assert.Equal(t, items, list.Items)
	assert.Equal(t, 10, list.Meta.Total)
	assert.Equal(t, 2, list.Meta.Limit)
	assert.Equal(t, 0, list.Meta.Offset)
}

func TestError(t *testing.T) {
	msg := "something went wrong"
	resp := Error(msg)

	assert.False(t, resp.Success)
	assert.Equal(t, msg, resp.Message)
	assert.Nil(t, resp.Data)
}

func TestValidationError(t *testing.T) {
	type TestStruct struct {
		Email string `validate:"required,email"`
		ID    string `validate:"uuid"`
	}

	v := validator.New()
	ts := TestStruct{
		Email: "not-an-email",
		ID:    "not-a-uuid",
	}

	err := v.Struct(ts)
	assert.Error(t, err)

	validationErrors := err.(validator.ValidationErrors)
	resp := ValidationError(validationErrors)

	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Message)
	assert.Contains(t, resp.Message, "field Email must be a valid email")
	assert.Contains(t, resp.Message, "field ID can contain only uuid")
}

func TestValidationErrorRequired(t *testing.T) {
	type TestStruct struct {
		Name string `validate:"required"`
	}

	v := validator.New()
	ts := TestStruct{}

	err := v.Struct(ts)
	assert.Error(t, err)

	validationErrors := err.(validator.ValidationErrors)
	resp := ValidationError(validationErrors)

	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "field Name is a required field")
}
