package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"shopapi/internal/apierror"
	"shopapi/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// gte=0 work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// Report fields by their JSON key.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// fieldMessage turns a validator failure into a client-facing sentence.
func fieldMessage(fe validator.FieldError) string {
	numeric := isNumeric(fe.Kind())
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min":
		if numeric {
			return "Ensure this value is greater than or equal to " + fe.Param() + "."
		}
		return "Ensure this field has at least " + fe.Param() + " characters."
	case "max":
		if numeric {
			return "Ensure this value is less than or equal to " + fe.Param() + "."
		}
		return "Ensure this field has no more than " + fe.Param() + " characters."
	case "gte":
		return "Ensure this value is greater than or equal to " + fe.Param() + "."
	case "lt":
		return "Ensure this value is less than " + fe.Param() + "."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	}
	return "Invalid value."
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			c.JSON(http.StatusBadRequest, apierror.Field(typeErr.Field, "A valid "+typeErr.Type.String()+" is required."))
			return false
		}
		c.JSON(http.StatusBadRequest, apierror.Field("non_field_errors", "JSON parse error: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			_ = c.Error(err)
			return false
		}
		details := make(map[string][]string)
		for _, fe := range verrs {
			details[fe.Field()] = append(details[fe.Field()], fieldMessage(fe))
		}
		c.JSON(http.StatusBadRequest, apierror.NewValidation(details))
		return false
	}
	return true
}

// writeError maps service errors onto responses. Anything unrecognised is
// handed to the ErrorHandler middleware, which logs it and answers 500.
func writeError(c *gin.Context, err error) {
	var fe *service.FieldError
	switch {
	case errors.As(err, &fe):
		c.JSON(http.StatusBadRequest, apierror.Field(fe.Field, fe.Message))
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, apierror.New("Unable to log in with provided credentials."))
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, apierror.New("Invalid token."))
	case errors.Is(err, service.ErrCartItemNotFound):
		c.JSON(http.StatusNotFound, apierror.New("Item not found in cart"))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, apierror.New("Not found."))
	case errors.Is(err, service.ErrCartEmpty):
		c.JSON(http.StatusBadRequest, apierror.New("Cart is already empty"))
	default:
		_ = c.Error(err)
	}
}
