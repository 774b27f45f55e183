package apimodels

type Response struct {
	Status  string      `json:"status"`            // fail/success
	Message string      `json:"message,omitempty"` // error message
	Data    interface{} `json:"data,omitempty"`    // payload
}

func NewError(message string) Response {
	return Response{
		Status:  "fail",
		Message: message,
	}
}

func NewErrorWithData(message string, data interface{}) Response {
	return Response{
		Status:  "fail",
		Message: message,
		Data:    data,
	}
}

func NewResponse(data interface{}) Response {
	return Response{
		Status: "success",
		Data:   data,
	}
}

type Pagination struct {
	Limit int `json:"limit" query:"limit"` // rows per page
	Page  int `json:"page" query:"page"`   // page, 1-based
}

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

func (r Pagination) GetPage() (page, limit int) {
	page = 1
	limit = DefaultPageLimit
	if r.Page > 0 {
		page = r.Page
	}
	if r.Limit > 0 {
		limit = r.Limit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

// PageResponse is the list envelope of the mock api: total counts rows after filtering.
type PageResponse[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}
