package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Validator envuelve validator.Validate con las reglas propias del inventario.
type Validator struct {
	v *validator.Validate
}

// New crea el validador. Los errores usan el nombre json del campo y los decimal.Decimal
// se validan como números, de modo que aplican gt=0, gte=0, etc.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
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
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	return &Validator{v: v}
}

// Struct valida s según sus etiquetas `validate`.
func (x *Validator) Struct(s interface{}) error {
	return x.v.Struct(s)
}

// FieldErrors convierte el error de validación en un mapa campo → regla incumplida.
// Devuelve nil si err no proviene del validador.
func FieldErrors(err error) map[string]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		out[fe.Field()] = fe.Tag()
	}
	return out
}
