package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/Monsters_Go/internal/domain"
)

const tagEther = "ether"

// requestValidator is shared by every handler; validator.Validate caches struct
// metadata and is safe for concurrent use.
var requestValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	if err := v.RegisterValidation(tagEther, isEtherAmount); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tagEther, err))
	}
	return v
})

// jsonFieldName reports fields by their wire name so clients see the key they sent.
func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return strings.ToLower(f.Name)
	default:
		return name
	}
}

func isEtherAmount(fl validator.FieldLevel) bool {
	_, err := domain.ParseEther(fl.Field().String())
	return err == nil
}

// ValidateRequest checks a decoded request body against its validate tags.
func ValidateRequest(req any) error {
	return requestValidator().Struct(req)
}

var fieldMessages = map[string]string{
	"required": "This field is required",
	"eth_addr": "Must be a 0x-prefixed 20-byte hex address",
	tagEther:   "Must be a decimal ether amount with at most 18 decimals",
}

// FieldErrors maps each failing field to a message safe to return to clients.
func FieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"error": "Invalid request format"}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "max":
		return "Must be at most " + fe.Param()
	case "min":
		return "Must be at least " + fe.Param()
	}
	return "Invalid value"
}
