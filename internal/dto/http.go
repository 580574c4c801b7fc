package dto

// BaseResponse is the envelope of every API response.
type BaseResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *BaseResponse {
	return &BaseResponse{Success: true, Data: data}
}

func NewFailureResponse(message string) *BaseResponse {
	return &BaseResponse{Success: false, Message: message}
}

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	LotID string `json:"lotId" validate:"required"`
	Site  int    `json:"site" validate:"required,oneof=1 2"`
}
