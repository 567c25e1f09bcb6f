// Package validate aplica as regras declarativas (tags `validate`) dos
// payloads de entrada antes de qualquer lógica de serviço.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"storerating/internal/domain"
	apperror "storerating/internal/errors"
)

const (
	passwordMinLen   = 8
	passwordMaxLen   = 16
	passwordSpecials = "!@#$%^&*"
)

// Validator encapsula o validator.Validate configurado com as regras do domínio.
type Validator struct {
	v *validator.Validate
}

// New cria o Validator com as regras customizadas "password" e "role".
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Usa o nome do campo JSON nos detalhes de erro.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return ValidPassword(fl.Field().String())
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return domain.UserRole(fl.Field().String()).Valid()
	})

	return &Validator{v: v}
}

// ValidPassword aplica a política de senha: 8 a 16 caracteres, ao menos uma
// letra maiúscula e um caractere especial de "!@#$%^&*".
func ValidPassword(p string) bool {
	if len(p) < passwordMinLen || len(p) > passwordMaxLen {
		return false
	}
	hasUpper := strings.IndexFunc(p, func(r rune) bool { return r >= 'A' && r <= 'Z' }) >= 0
	hasSpecial := strings.ContainsAny(p, passwordSpecials)
	return hasUpper && hasSpecial
}

// Struct valida o payload e devolve um ValidationError com o detalhe de cada campo.
func (val *Validator) Struct(payload interface{}) error {
	err := val.v.Struct(payload)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.NewInternalError("Falha ao validar payload.", err)
	}

	details := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, apperror.FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: messageFor(fe),
		})
	}
	return apperror.NewFieldValidationError("Falha de validação.", details)
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s é obrigatório", fe.Field())
	case "email":
		return "Informe um endereço de email válido"
	case "min":
		return fmt.Sprintf("%s deve ter no mínimo %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s deve ter no máximo %s", fe.Field(), fe.Param())
	case "uuid":
		return fmt.Sprintf("%s deve ser um UUID válido", fe.Field())
	case "password":
		return "A senha deve ter entre 8 e 16 caracteres, com ao menos uma letra maiúscula e um caractere especial"
	case "role":
		return "Papel inválido. Use admin, user ou store_owner"
	}
	return fmt.Sprintf("%s é inválido", fe.Field())
}
