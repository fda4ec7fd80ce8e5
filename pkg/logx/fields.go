package logx

const (
	FieldAppName         = "app-name"
	FieldAppVersion      = "app-version"
	FieldDurationMs      = "duration-ms"
	FieldError           = "error"
	FieldHTTPMethod      = "http-method"
	FieldHTTPRequest     = "http-request"
	FieldHTTPResponse    = "http-response"
	FieldIP              = "ip"
	FieldRequestBody     = "request-body"
	FieldRequestID       = "request-id"
	FieldResponseBody    = "response-body"
	FieldResponseHeaders = "response-headers"
	FieldResponseStatus  = "response-status"
	FieldStack           = "stack"
	FieldTraceID         = "trace-id"
	FieldURL             = "url"

	FieldOfferID      = "offer-id"
	FieldGame         = "game"
	FieldGoodsID      = "goods-id"
	FieldSalePrice    = "sale-price"
	FieldLowPrice     = "low-price"
	FieldSteamID      = "steam-id"
	FieldBoundSteamID = "bound-steam-id"
	FieldState        = "state"
	FieldPath         = "path"
	FieldCount        = "count"
	FieldNickname     = "nickname"
	FieldAttempt      = "attempt"
	FieldService      = "service"
)
