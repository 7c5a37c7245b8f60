package session

import (
	goerrors "errors"

	"github.com/go-playground/validator/v10"

	"github.com/tangem/tangem-artwork-go/pkg/artwork"
)

var (
	validate = validator.New()
)

func init() {
	err := validate.RegisterValidation("profile", isProfile)
	if err != nil {
		panic(err)
	}
}

func validateRequest(v interface{}) error {
	err := validate.Struct(v)
	if err != nil {
		var errs validator.ValidationErrors
		if goerrors.As(err, &errs) {
			return goerrors.Join(errs)
		}
		return err
	}
	return nil
}

func isProfile(fl validator.FieldLevel) bool {
	_, ok := artwork.ProfileByName(fl.Field().String())
	return ok
}
