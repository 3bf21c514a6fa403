package common

import (
	"encoding/json"
	"net/http"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// SingleResponse wraps a single resource payload.
type SingleResponse struct {
	Data interface{} `json:"data"`
}

// MultiResponse wraps list payloads together with pagination metadata.
type MultiResponse struct {
	Data     interface{} `json:"data"`
	PageInfo PageInfo    `json:"page_info"`
}

// PageInfo describes the window a list response was cut from.
// Page is 1-based, matching the query parameter contract.
type PageInfo struct {
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
}

// NewPageInfo computes pagination metadata for a total element count.
func NewPageInfo(page, size int, totalElements int64) PageInfo {
	totalPages := int(totalElements) / size
	if int(totalElements)%size != 0 {
		totalPages++
	}
	return PageInfo{
		Page:          page,
		Size:          size,
		TotalElements: totalElements,
		TotalPages:    totalPages,
	}
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Error: message})
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
