package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"
	"todoTracker/internal/handlers/dto"
	"todoTracker/internal/models/todo"
	"todoTracker/internal/service"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == target
}

// newValidator reports fields by their json names and knows the custom
// not_past and integer tags. now is the clock behind not_past.
func newValidator(now func() time.Time) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("not_past", func(fl validator.FieldLevel) bool {
		date, err := todo.ParseDate(fl.Field().String())
		if err != nil {
			// left to the datetime tag
			return true
		}
		return !date.Before(todo.Today(now()))
	})

	_ = v.RegisterValidation("integer", func(fl validator.FieldLevel) bool {
		_, err := strconv.Atoi(fl.Field().String())
		return err == nil
	})

	v.RegisterStructValidation(reportQueryRules, dto.ReportQuery{})
	return v
}

// reportQueryRules checks the cross-field rules of report filters:
// end >= start, min >= 0 and max >= min.
func reportQueryRules(sl validator.StructLevel) {
	q := sl.Current().Interface().(dto.ReportQuery)

	if q.Start != "" && q.End != "" {
		start, errStart := todo.ParseDate(q.Start)
		end, errEnd := todo.ParseDate(q.End)
		if errStart == nil && errEnd == nil && end.Before(start) {
			sl.ReportError(q.End, "end", "End", "after_or_equal", "start")
		}
	}

	lo, errMin := strconv.Atoi(q.Min)
	if q.Min != "" && errMin == nil && lo < 0 {
		sl.ReportError(q.Min, "min", "Min", "min", "0")
	}

	hi, errMax := strconv.Atoi(q.Max)
	if q.Min != "" && q.Max != "" && errMin == nil && errMax == nil && hi < lo {
		sl.ReportError(q.Max, "max", "Max", "gte_field", "min")
	}
}

// validateStruct runs the validator over s and converts its complaints into
// a validation BusinessError. It returns nil when s is valid.
func (h *TodoHandler) validateStruct(s any) error {
	err := h.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fields := make([]service.FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, service.FieldError{
			Field: fe.Field(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return service.NewFieldsError(fields...)
}

// decodeBody reads a JSON body into dst. An empty body leaves dst untouched.
// Decoding problems come back as a validation BusinessError.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.UseNumber()

	err := decoder.Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, dto.ErrInvalidDeveloper):
		return service.NewFieldsError(service.FieldError{Field: "developer", Rule: "developer"})
	case errors.As(err, &typeErr) && typeErr.Field != "":
		rule := "invalid"
		switch typeErr.Type.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			rule = "integer"
		}
		return service.NewFieldsError(service.FieldError{Field: typeErr.Field, Rule: rule})
	default:
		return service.NewFieldsError(service.FieldError{Field: "body", Rule: "json"})
	}
}

// parseIDs checks every bulk delete id and reports the bad ones by position.
func parseIDs(raw []any) ([]int64, error) {
	ids := make([]int64, 0, len(raw))
	var invalid []service.FieldError

	for i, value := range raw {
		field := "ids." + strconv.Itoa(i)

		number, ok := value.(json.Number)
		if !ok {
			invalid = append(invalid, service.FieldError{Field: field, Rule: "integer"})
			continue
		}
		id, err := number.Int64()
		if err != nil {
			invalid = append(invalid, service.FieldError{Field: field, Rule: "integer"})
			continue
		}
		ids = append(ids, id)
	}

	if len(invalid) > 0 {
		return nil, service.NewFieldsError(invalid...)
	}
	return ids, nil
}
