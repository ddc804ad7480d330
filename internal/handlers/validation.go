package handlers

import (
	"errors"
	"slices"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

// RegisterValidators adds the catalog's custom binding rules to gin's validator.
//
//	category  one of models.Categories
//	objectid  a hex Mongo ObjectID
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding engine")
	}
	if err := v.RegisterValidation("category", validCategory); err != nil {
		return err
	}
	return v.RegisterValidation("objectid", validObjectID)
}

func validCategory(fl validator.FieldLevel) bool {
	return slices.Contains(models.Categories, fl.Field().String())
}

func validObjectID(fl validator.FieldLevel) bool {
	return primitive.IsValidObjectID(fl.Field().String())
}
