package material

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/kidlearn/core"
)

var (
	typeTag  = "materialtype"
	typeText = "invalid material type"

	gradeTag  = "gradelevel"
	gradeText = "invalid grade level"
)

// InitValidators registers this package's custom validators and their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(typeTag, typeValidation)
	core.RegisterCustomTranslation(validate, translator, typeTag, typeText)

	_ = validate.RegisterValidation(gradeTag, gradeValidation)
	core.RegisterCustomTranslation(validate, translator, gradeTag, gradeText)
}

func typeValidation(fl validator.FieldLevel) bool {
	return contains(AllTypes, fl.Field().String())
}

func gradeValidation(fl validator.FieldLevel) bool {
	return contains(AllGradeLevels, fl.Field().String())
}

func contains(values []string, v string) bool {
	for _, val := range values {
		if v == val {
			return true
		}
	}
	return false
}
