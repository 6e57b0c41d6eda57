package validator

import (
	stderrors "errors"

	"github.com/go-playground/validator/v10"

	"github.com/infrastructure-search/internal/pkg/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateQueryRequest валидирует структуру запроса и переводит ошибки тегов
// required/max в коды MISSING_QUERY/QUERY_TOO_LONG
func ValidateQueryRequest(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errors.ErrInvalidQuery.WithMessage(err.Error())
	}

	switch fieldErrs[0].Tag() {
	case "required":
		return errors.ErrMissingQuery
	case "max":
		return errors.ErrQueryTooLong
	default:
		return errors.ErrInvalidQuery.WithMessage(fieldErrs[0].Error())
	}
}
