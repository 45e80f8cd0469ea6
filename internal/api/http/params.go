package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

const (
	paramID = "id"

	maxBodyBytes = 1 << 20
)

func pathID(r *http.Request) (int32, error) {
	raw := mux.Vars(r)[paramID]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, errBadRequest(fmt.Sprintf("invalid id %q", raw), err)
	}
	return int32(id), nil
}

// pageParams reads page and page_size; missing values are left at zero for
// the service to default.
func pageParams(r *http.Request) (int32, int32, error) {
	q := r.URL.Query()
	page, err := queryInt32(q.Get("page"))
	if err != nil {
		return 0, 0, errBadRequest("invalid page", err)
	}
	size, err := queryInt32(q.Get("page_size"))
	if err != nil {
		return 0, 0, errBadRequest("invalid page_size", err)
	}
	return page, size, nil
}

func queryInt32(raw string) (int32, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	return int32(v), err
}

// decodeJSON decodes an optional request body. An empty body, chunked or not,
// leaves dst as is. The router caps bodies at maxBodyBytes.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(dst)
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return nil
	case errors.As(err, &tooLarge):
		return &HTTPError{cause: err, Code: http.StatusRequestEntityTooLarge, Message: "request body too large"}
	default:
		return errBadRequest("Invalid request payload: "+err.Error(), err)
	}
}

type listResponse[T any] struct {
	Items    []T   `json:"items"`
	Total    int32 `json:"total"`
	Page     int32 `json:"page"`
	PageSize int32 `json:"page_size"`
}

func newListResponse[T any](items []T, total, page, pageSize int32) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Items: items, Total: total, Page: page, PageSize: pageSize}
}
