package commands

import (
	apperrors "github.com/C-1995-O1-HALE-POPP/ris-system/pkg/errors"
	"github.com/C-1995-O1-HALE-POPP/ris-system/pkg/utils"
)

func validateStruct(s interface{}) error {
	if err := utils.ValidateStruct(s); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	return nil
}

func requireID(kind, id string) error {
	if id == "" {
		return apperrors.NewValidationError(kind + " id is required")
	}
	return nil
}
