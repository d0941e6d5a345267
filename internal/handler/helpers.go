package handler

import (
	"errors"
	"net/http"
	"reflect"

	"comercio/internal/apierror"
	"comercio/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondServiceError maps service sentinel errors onto HTTP status codes.
// Unknown errors become a generic 500 so internals never leak to clients.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrSaleNotFound),
		errors.Is(err, service.ErrExpenseNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrDuplicateEntry):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrProductInactive),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrTotalMismatch),
		errors.Is(err, service.ErrEmptySale),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidPayment),
		errors.Is(err, service.ErrDebtRequiresClient),
		errors.Is(err, service.ErrSaleAlreadyPaid),
		errors.Is(err, service.ErrPaymentExceedsDebt),
		errors.Is(err, service.ErrExpenseNotPending):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("internal server error"))
	}
}
