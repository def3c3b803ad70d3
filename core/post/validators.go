package post

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/mwalimu/ratiba/core"
)

var (
	postTypeTag  = "posttype"
	postTypeText = "unknown post type"
)

// InitValidators registers post-specific validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(postTypeTag, postTypeValidation)
	core.RegisterCustomTranslation(validate, translator, postTypeTag, postTypeText)
}

func postTypeValidation(fl validator.FieldLevel) bool {
	t := Type(fl.Field().String())
	for _, known := range AllTypes {
		if t == known {
			return true
		}
	}
	return false
}
