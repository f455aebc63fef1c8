package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	enLocale "github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// Validator checks request payloads against their `binding` tags and renders
// violations as English sentences.
type Validator interface {
	Engine() any
	ValidateStruct(obj any) error
	Translate(err error) string
}

var (
	defaultValidator Validator
	vOnce            sync.Once
)

func DefaultValidator() Validator {
	vOnce.Do(func() {
		defaultValidator = New()
	})
	return defaultValidator
}

// RegisterValidatorWithGin makes ShouldBind* use the RBAC rules. Call it before routes are served.
func RegisterValidatorWithGin() {
	binding.Validator = DefaultValidator().(*validatorImpl)
}

var _ binding.StructValidator = (*validatorImpl)(nil)

type validatorImpl struct {
	validate   *validator.Validate
	translator ut.Translator
}

func New() Validator {
	validate := validator.New()
	validate.SetTagName("binding")
	validate.RegisterTagNameFunc(fieldName)

	en := enLocale.New()
	translator, _ := ut.New(en, en).GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(fmt.Sprintf("register default translations: %v", err))
	}

	for _, r := range rules {
		if err := r.register(validate, translator); err != nil {
			panic(fmt.Sprintf("register validation %s: %v", r.tag, err))
		}
	}

	return &validatorImpl{validate: validate, translator: translator}
}

// fieldName reports violations under the JSON (or query) name the client sent.
func fieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		name, _, _ = strings.Cut(fld.Tag.Get("form"), ",")
	}
	if name == "-" {
		return ""
	}
	return name
}

func (v *validatorImpl) Engine() any {
	return v.validate
}

// ValidateStruct ignores non-struct payloads such as slices bound from a body.
func (v *validatorImpl) ValidateStruct(obj any) error {
	value := reflect.ValueOf(obj)
	if value.Kind() == reflect.Ptr {
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}
	return v.validate.Struct(obj)
}

// Translate renders validation errors as one message, violations joined by "; ".
// Other errors are returned as-is.
func (v *validatorImpl) Translate(err error) string {
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(v.translator))
	}
	return strings.Join(msgs, "; ")
}
