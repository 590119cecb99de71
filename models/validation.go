package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

// salario fits DECIMAL(18,2): at most 16 integer digits and 2 decimal places
const (
	salarioScale         = 2
	salarioIntegerDigits = 16
)

// fieldLabels holds the display name of each validated field
var fieldLabels = map[string]string{
	"Nome":              "Nome",
	"Endereco":          "Endereço",
	"Ramal":             "Ramal",
	"EmailProfissional": "Email Profissional",
	"Departamento":      "Departamento",
	"Salario":           "Salário",
}

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// required also rejects whitespace-only values
	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(err)
	}

	v.RegisterStructValidation(validateSalarioPrecision, Funcionario{})

	return v
}

func validateSalarioPrecision(sl validator.StructLevel) {
	f := sl.Current().Interface().(Funcionario)

	if !f.Salario.Equal(f.Salario.Truncate(salarioScale)) {
		sl.ReportError(f.Salario, "Salario", "Salario", "decimalscale", fmt.Sprint(salarioScale))
		return
	}
	if !f.Salario.Abs().LessThan(decimal.New(1, salarioIntegerDigits)) {
		sl.ReportError(f.Salario, "Salario", "Salario", "decimaldigits", fmt.Sprint(salarioIntegerDigits))
	}
}

func validateStruct(s any) ValidationErrors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Field: "", Message: err.Error()}}
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "notblank", "required":
		return fmt.Sprintf("O campo %s é obrigatório", label)
	case "max":
		return fmt.Sprintf("O campo %s deve ter no máximo %s caracteres", label, fe.Param())
	case "email":
		return fmt.Sprintf("O campo %s não é um endereço de email válido", label)
	case "gte":
		return fmt.Sprintf("O campo %s deve ser maior ou igual a zero", label)
	case "decimalscale":
		return fmt.Sprintf("O campo %s deve ter no máximo %s casas decimais", label, fe.Param())
	case "decimaldigits":
		return fmt.Sprintf("O campo %s deve ter no máximo %s dígitos inteiros", label, fe.Param())
	default:
		return fmt.Sprintf("O campo %s é inválido", label)
	}
}
