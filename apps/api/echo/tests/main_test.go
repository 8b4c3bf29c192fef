package tests

import (
	"os"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/kidlearn/core"
	"github.com/trezcool/kidlearn/core/material"
	"github.com/trezcool/kidlearn/core/user"
)

var (
	conf       *core.Config
	validate   *validator.Validate
	translator ut.Translator
)

func TestMain(m *testing.M) {
	os.Setenv("ENV", "TEST")
	conf = core.NewConfig()

	validate = validator.New()
	translator = newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	material.InitValidators(validate, translator)

	os.Exit(m.Run())
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
