package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrNotFound is returned by a StoreFactory when the requested page does not exist.
var ErrNotFound = errors.New("page not found")

// message represents an action message from the client (internal protocol)
type message struct {
	Action string                 `json:"action"`
	Data   map[string]interface{} `json:"data"`
}

// ActionData wraps action data with utilities for binding and validation
type ActionData struct {
	raw   map[string]interface{}
	bytes []byte // Cached JSON for efficient binding
}

// newActionData creates ActionData from a map (internal use only)
func newActionData(data map[string]interface{}) *ActionData {
	if data == nil {
		data = make(map[string]interface{})
	}
	return &ActionData{raw: data}
}

// Bind unmarshals the data into a struct
func (a *ActionData) Bind(v interface{}) error {
	// Lazy marshal to JSON
	if a.bytes == nil {
		var err error
		a.bytes, err = json.Marshal(a.raw)
		if err != nil {
			return fmt.Errorf("failed to marshal data: %w", err)
		}
	}

	return json.Unmarshal(a.bytes, v)
}

// BindAndValidate binds data to struct and validates it in one step
func (a *ActionData) BindAndValidate(v interface{}, validate *validator.Validate) error {
	if err := a.Bind(v); err != nil {
		return err
	}

	if err := validate.Struct(v); err != nil {
		return ValidationToMultiError(err)
	}

	return nil
}

// Raw returns the underlying map for direct access
func (a *ActionData) Raw() map[string]interface{} {
	return a.raw
}

// GetString extracts a string value
func (a *ActionData) GetString(key string) string {
	switch v := a.raw[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// GetStrings extracts a multi-value field. A single string counts as one value.
func (a *ActionData) GetStrings(key string) []string {
	switch v := a.raw[key].(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// GetInt extracts an int value. Form fields arrive as strings.
func (a *ActionData) GetInt(key string) int {
	switch v := a.raw[key].(type) {
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

// GetBool extracts a bool value
func (a *ActionData) GetBool(key string) bool {
	switch v := a.raw[key].(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "on" || v == "1"
	}
	return false
}

// Has checks if a key exists
func (a *ActionData) Has(key string) bool {
	_, exists := a.raw[key]
	return exists
}

// ActionContext provides context for a Change action
type ActionContext struct {
	Action string
	Data   *ActionData
	// UserID is the identity resolved by the Authenticator, "" for shoppers.
	UserID string

	ctx      context.Context
	redirect string
}

// NewActionContext builds an ActionContext outside of a request, mostly for tests.
func NewActionContext(ctx context.Context, action, userID string, data map[string]interface{}) *ActionContext {
	return &ActionContext{Action: action, Data: newActionData(data), UserID: userID, ctx: ctx}
}

// Context returns the request context the action runs in.
func (c *ActionContext) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// Redirect asks the client to navigate to url once the update is applied.
func (c *ActionContext) Redirect(url string) {
	c.redirect = url
}

// RedirectURL returns the pending redirect, if any.
func (c *ActionContext) RedirectURL() string {
	return c.redirect
}

// Bind is a convenience method that delegates to Data.Bind
func (c *ActionContext) Bind(v interface{}) error {
	return c.Data.Bind(v)
}

// BindAndValidate is a convenience method
func (c *ActionContext) BindAndValidate(v interface{}, validate *validator.Validate) error {
	return c.Data.BindAndValidate(v, validate)
}

// GetString is a convenience method
func (c *ActionContext) GetString(key string) string {
	return c.Data.GetString(key)
}

// GetStrings is a convenience method
func (c *ActionContext) GetStrings(key string) []string {
	return c.Data.GetStrings(key)
}

// GetInt is a convenience method
func (c *ActionContext) GetInt(key string) int {
	return c.Data.GetInt(key)
}

// GetBool is a convenience method
func (c *ActionContext) GetBool(key string) bool {
	return c.Data.GetBool(key)
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewFieldError creates a field-specific error
func NewFieldError(field string, err error) FieldError {
	return FieldError{Field: field, Message: err.Error()}
}

// MultiError is a collection of field errors (implements error interface)
type MultiError []FieldError

func (m MultiError) Error() string {
	if len(m) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range m {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// ValidationToMultiError converts go-playground/validator errors to MultiError
func ValidationToMultiError(err error) MultiError {
	var fieldErrors MultiError

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fieldErrors
	}

	for _, e := range validationErrs {
		fieldName := strings.ToLower(e.Field())

		var message string
		switch e.Tag() {
		case "required":
			message = "Campo obrigatório"
		case "min":
			message = fmt.Sprintf("Mínimo de %s caracteres", e.Param())
		case "max":
			message = fmt.Sprintf("Máximo de %s caracteres", e.Param())
		case "email":
			message = "Email inválido"
		case "url":
			message = "URL inválida"
		default:
			message = "Valor inválido"
		}

		fieldErrors = append(fieldErrors, FieldError{
			Field:   fieldName,
			Message: message,
		})
	}

	return fieldErrors
}

// fieldReporter is implemented by domain errors that belong to one input.
type fieldReporter interface {
	FieldName() string
	Message() string
}

// GeneralField is the errors key for messages not tied to an input.
const GeneralField = "_general"

// errorFields flattens an action error into per-field messages.
func errorFields(err error) map[string]string {
	fields := make(map[string]string)
	if err == nil {
		return fields
	}

	var multi MultiError
	var single FieldError
	var validationErrs validator.ValidationErrors
	var reporter fieldReporter

	switch {
	case errors.As(err, &multi):
		for _, fe := range multi {
			fields[fe.Field] = fe.Message
		}
	case errors.As(err, &single):
		fields[single.Field] = single.Message
	case errors.As(err, &validationErrs):
		for _, fe := range ValidationToMultiError(validationErrs) {
			fields[fe.Field] = fe.Message
		}
	case errors.As(err, &reporter):
		fields[reporter.FieldName()] = reporter.Message()
	default:
		fields[GeneralField] = err.Error()
	}
	return fields
}

// Store is any type that can handle state changes
type Store interface {
	Change(ctx *ActionContext) error
}

// StoreInitializer is an optional interface for stores that load data
// from the database. Init runs when the session is created and again on
// every full page load so a reload shows fresh data.
type StoreInitializer interface {
	Init(ctx context.Context) error
}

// parseActionFromHTTP parses an action message from HTTP POST request body (internal protocol)
func parseActionFromHTTP(r *http.Request) (message, error) {
	var msg message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		return message{}, fmt.Errorf("failed to parse action: %w", err)
	}
	if msg.Data == nil {
		msg.Data = make(map[string]interface{})
	}
	return msg, nil
}

// parseActionFromWebSocket parses an action message from WebSocket message bytes (internal protocol)
func parseActionFromWebSocket(data []byte) (message, error) {
	var msg message
	if err := json.Unmarshal(data, &msg); err != nil {
		return message{}, fmt.Errorf("failed to parse action: %w", err)
	}
	if msg.Data == nil {
		msg.Data = make(map[string]interface{})
	}
	return msg, nil
}
