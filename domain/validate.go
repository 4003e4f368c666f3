package domain

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks the validate tags of v and reports failures per JSON field.
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = message(fe)
	}
	return NewValidationError("Données invalides", fields)
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Ce champ est requis"
	case "email":
		return "Email invalide"
	case "oneof":
		return "Valeur invalide, attendu: " + fe.Param()
	case "min":
		if fe.Kind() == reflect.String {
			return "Au moins " + fe.Param() + " caractères"
		}
		return "Doit être au moins " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "Au plus " + fe.Param() + " caractères"
		}
		return "Doit être au plus " + fe.Param()
	case "gte":
		return "Doit être supérieur ou égal à " + fe.Param()
	case "lte":
		return "Doit être inférieur ou égal à " + fe.Param()
	case "hexcolor":
		return "Couleur hexadécimale invalide"
	case "url":
		return "URL invalide"
	default:
		return "Valeur invalide"
	}
}
