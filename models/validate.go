package models

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their json names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// messages by field namespace, then by failed tag. notblank shares the required message.
var messages = map[string]map[string]string{
	"CreateListRequest.title":       {"required": "List Title is Required", "max": "Title is too long"},
	"CreateListRequest.description": {"max": "Description is too long"},
	"AddItemRequest.title":          {"required": "Item Title is Required", "max": "Title is too long"},
}

// Validate checks req against its validate tags and reports failures as a ValidationError.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), message(fe))
	}
	return verr
}

func message(fe validator.FieldError) string {
	tag := fe.Tag()
	if tag == "notblank" {
		tag = "required"
	}
	if msg, ok := messages[fe.Namespace()][tag]; ok {
		return msg
	}
	return fe.Field() + " is invalid"
}

func ValidateCreateList(title string, description *string) error {
	return Validate(&CreateListRequest{Title: title, Description: description})
}

func ValidateAddItem(title string) error {
	return Validate(&AddItemRequest{Title: title})
}
