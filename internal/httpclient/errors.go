package httpclient

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is a received HTTP response with its body already read.
type Response struct {
	Status int
	Header http.Header
	// Data is the body decoded as a JSON object, or nil when the body is not one.
	Data map[string]any
	Raw  []byte
}

// ResponseError reports a response whose status is outside the 2xx range.
type ResponseError struct {
	Method   string
	URL      string
	Response *Response
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("Request failed with status code %d", e.Response.Status)
}

// Status returns the HTTP status code of the failed response.
func (e *ResponseError) Status() int {
	return e.Response.Status
}

// Decode unmarshals the raw error body into v.
func (e *ResponseError) Decode(v any) error {
	if len(e.Response.Raw) == 0 {
		return fmt.Errorf("empty response body")
	}
	return json.Unmarshal(e.Response.Raw, v)
}

// DecodeError reports a successful response whose body could not be decoded.
type DecodeError struct {
	Status int
	Raw    []byte
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not decode response (status %d): %v", e.Status, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func newResponse(status int, header http.Header, raw []byte) *Response {
	resp := &Response{Status: status, Header: header, Raw: raw}
	var data map[string]any
	if len(raw) > 0 && json.Unmarshal(raw, &data) == nil {
		resp.Data = data
	}
	return resp
}
