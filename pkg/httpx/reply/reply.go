package reply

import (
	"context"
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"buff_autoaccept/pkg/contextx"
	"buff_autoaccept/pkg/errcodes"
	"buff_autoaccept/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	SupportID string `json:"supportId"`
}

type codedError interface {
	error
	ErrorCode() errcodes.ErrorCode
}

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

func OK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
}

func JSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger(ctx).Error("json.Encode", logx.Error(err))
	}
}

func Error(ctx context.Context, w http.ResponseWriter, err error) {
	logger(ctx).Error("error", logx.Error(err))

	response := errorResponse{
		Code:      errcodes.InternalServerError.String(),
		Message:   "internal error",
		SupportID: supportID(ctx),
	}

	var coded codedError
	if !errors.As(err, &coded) {
		JSON(ctx, w, http.StatusInternalServerError, response)
		return
	}

	response.Code = coded.ErrorCode().String()
	response.Message = coded.Error()

	JSON(ctx, w, statusFor(coded.ErrorCode()), response)
}

func statusFor(code errcodes.ErrorCode) int {
	switch code {
	case errcodes.ValidationError, errcodes.InvalidOfferID:
		return http.StatusBadRequest
	case errcodes.NotFound, errcodes.OfferNotFound, errcodes.OrderInfoMissing:
		return http.StatusNotFound
	case errcodes.Unauthorized:
		return http.StatusUnauthorized
	case errcodes.Forbidden:
		return http.StatusForbidden
	case errcodes.JournalUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func supportID(ctx context.Context) string {
	traceID, err := contextx.TraceIDFromContext(ctx)
	if err != nil {
		return "unsupported"
	}

	return traceID.String()
}
