package live

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionData_Getters(t *testing.T) {
	data := newActionData(map[string]interface{}{
		"name":     "Camiseta",
		"quantity": "3",
		"count":    float64(2),
		"hidden":   true,
		"checked":  "on",
		"tags":     []interface{}{"new", "", "promo"},
		"single":   "only",
	})

	assert.Equal(t, "Camiseta", data.GetString("name"))
	assert.Equal(t, "2", data.GetString("count"))
	assert.Equal(t, 3, data.GetInt("quantity"))
	assert.Equal(t, 2, data.GetInt("count"))
	assert.Equal(t, 0, data.GetInt("name"))
	assert.True(t, data.GetBool("hidden"))
	assert.True(t, data.GetBool("checked"))
	assert.False(t, data.GetBool("missing"))
	assert.Equal(t, []string{"new", "promo"}, data.GetStrings("tags"))
	assert.Equal(t, []string{"only"}, data.GetStrings("single"))
	assert.Nil(t, data.GetStrings("missing"))
	assert.True(t, data.Has("name"))
	assert.False(t, data.Has("nope"))
}

type signup struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

func TestActionContext_BindAndValidate(t *testing.T) {
	validate := validator.New()
	ctx := NewActionContext(context.Background(), "signup", "", map[string]interface{}{
		"name":  "",
		"email": "not-an-email",
	})

	var in signup
	err := ctx.BindAndValidate(&in, validate)
	require.Error(t, err)

	var multi MultiError
	require.True(t, errors.As(err, &multi))
	fields := errorFields(err)
	assert.Equal(t, "Campo obrigatório", fields["name"])
	assert.Equal(t, "Email inválido", fields["email"])
}

func TestActionContext_Redirect(t *testing.T) {
	ctx := &ActionContext{Action: "checkout", Data: newActionData(nil)}
	assert.NotNil(t, ctx.Context())
	assert.Empty(t, ctx.RedirectURL())

	ctx.Redirect("https://wa.me/5511999998888")
	assert.Equal(t, "https://wa.me/5511999998888", ctx.RedirectURL())
}

type domainFieldError struct{ field, msg string }

func (e *domainFieldError) Error() string     { return e.field + ": " + e.msg }
func (e *domainFieldError) FieldName() string { return e.field }
func (e *domainFieldError) Message() string   { return e.msg }

func TestErrorFields(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want map[string]string
	}{
		{name: "nil", err: nil, want: map[string]string{}},
		{
			name: "field error",
			err:  NewFieldError("slug", errors.New("em uso")),
			want: map[string]string{"slug": "em uso"},
		},
		{
			name: "multi error",
			err:  MultiError{{Field: "a", Message: "x"}, {Field: "b", Message: "y"}},
			want: map[string]string{"a": "x", "b": "y"},
		},
		{
			name: "wrapped domain error",
			err:  fmt.Errorf("save: %w", &domainFieldError{field: "whatsapp", msg: "número inválido"}),
			want: map[string]string{"whatsapp": "número inválido"},
		},
		{
			name: "anything else",
			err:  errors.New("boom"),
			want: map[string]string{GeneralField: "boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorFields(tt.err))
		})
	}
}
