package model

// HttpResponse is the envelope used for error replies.
type HttpResponse struct {
	Success bool          `json:"success"`
	Code    int           `json:"code"`
	Data    []interface{} `json:"data"`
	Message string        `json:"message"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}
