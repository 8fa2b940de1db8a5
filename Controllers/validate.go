package Controllers

import (
	english "github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New()

	locale := english.New()
	uni := ut.New(locale, locale)
	translator, _ = uni.GetTranslator("en")
	entranslations.RegisterDefaultTranslations(validate, translator)
}

// validationMessages flattens validator errors into user-facing strings.
func validationMessages(err error) []string {
	if errs, ok := err.(validator.ValidationErrors); ok {
		messages := make([]string, 0, len(errs))
		for _, fieldErr := range errs {
			messages = append(messages, fieldErr.Translate(translator))
		}
		return messages
	}
	return []string{err.Error()}
}
