package validator

import (
	"strings"

	"go-rbac-api/domain"
	"go-rbac-api/pkg/utils"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

const (
	Email          = "email"
	RoleName       = "role_name"
	PermissionName = "permission_name"
	NotEmpty       = "not_empty"
)

type rule struct {
	tag     string
	fn      validator.Func
	message string
}

var rules = []rule{
	{
		tag:     Email,
		fn:      func(fl validator.FieldLevel) bool { return utils.IsEmail(fl.Field().String()) },
		message: "{0} must be a valid email address (local@domain.tld)",
	},
	{
		tag:     RoleName,
		fn:      func(fl validator.FieldLevel) bool { return domain.RoleName(fl.Field().String()).IsValid() },
		message: "{0} must be one of super_admin, admin, manager, user, guest",
	},
	{
		tag:     PermissionName,
		fn:      func(fl validator.FieldLevel) bool { return domain.PermissionName(fl.Field().String()).IsValid() },
		message: "{0} must be a known permission in resource:action form",
	},
	{
		tag:     NotEmpty,
		fn:      func(fl validator.FieldLevel) bool { return strings.TrimSpace(fl.Field().String()) != "" },
		message: "{0} cannot be empty",
	},
}

// register installs the rule and its English message. It overrides the
// built-in email tag, which accepts hosts without a TLD.
func (r rule) register(v *validator.Validate, trans ut.Translator) error {
	if err := v.RegisterValidation(r.tag, r.fn); err != nil {
		return err
	}
	return v.RegisterTranslation(r.tag, trans,
		func(t ut.Translator) error {
			return t.Add(r.tag, r.message, true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(r.tag, fe.Field())
			return msg
		},
	)
}
