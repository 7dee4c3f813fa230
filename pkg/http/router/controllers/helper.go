package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/lintang-b-s/dynroute/pkg/util"
	"go.uber.org/zap"
)

type envelope map[string]any

// requestValidator is a validator with english error messages.
type requestValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func newRequestValidator() *requestValidator {
	validate := validator.New()
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)
	return &requestValidator{validate: validate, trans: trans}
}

func (rv *requestValidator) Struct(request any) error {
	err := rv.validate.Struct(request)
	if err == nil {
		return nil
	}
	vv := translateError(err, rv.trans)
	vvString := []string{}
	for _, v := range vv {
		vvString = append(vvString, v.Error())
	}
	return fmt.Errorf("validation error: %v", vvString)
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	for _, e := range validatorErrs {
		errs = append(errs, errors.New(e.Translate(trans)))
	}
	return errs
}

func writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func readJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("body contains badly-formed JSON: %w", err)
	}
	return r.Body.Close()
}

type responder struct {
	log *zap.Logger
}

func (rs responder) errorResponse(w http.ResponseWriter, r *http.Request, status int, code string, message string) {
	var resp errorResponse
	resp.Error.Code = code
	resp.Error.Message = message

	if err := writeJSON(w, status, envelope{"error": resp.Error}, nil); err != nil {
		rs.log.Error("write error response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (rs responder) BadRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	rs.errorResponse(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error())
}

func (rs responder) ServerErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	rs.log.Error("internal server error", zap.String("method", r.Method), zap.String("url", r.URL.String()),
		zap.Error(err))
	rs.errorResponse(w, r, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR",
		"the server encountered a problem and could not process your request")
}

// getStatusCode writes the error response matching the util.Error code of err.
func (rs responder) getStatusCode(w http.ResponseWriter, r *http.Request, err error) {
	code := util.ErrorCode(err)
	switch code {
	case util.ErrBadParamInput:
		rs.errorResponse(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error())
	case util.ErrNotFound:
		rs.errorResponse(w, r, http.StatusNotFound, "NOT_FOUND", err.Error())
	case util.ErrConflict:
		rs.errorResponse(w, r, http.StatusConflict, "CONFLICT", err.Error())
	case util.ErrNoPath:
		rs.errorResponse(w, r, http.StatusUnprocessableEntity, "NO_PATH", err.Error())
	case util.ErrEmptyNetwork:
		rs.errorResponse(w, r, http.StatusUnprocessableEntity, "EMPTY_NETWORK", err.Error())
	case util.ErrSourceFetch:
		rs.log.Warn("road network source unavailable", zap.Error(err))
		rs.errorResponse(w, r, http.StatusServiceUnavailable, "SOURCE_UNAVAILABLE", err.Error())
	default:
		rs.ServerErrorResponse(w, r, err)
	}
}
