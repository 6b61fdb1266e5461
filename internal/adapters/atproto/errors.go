package atproto

import (
	"fmt"
	"net/http"

	"go.trai.ch/zerr"
)

// errMalformedResponse is returned when a successful response lacks a required field.
var errMalformedResponse = zerr.New("malformed service response")

// XRPCError is the error body returned by an XRPC endpoint.
type XRPCError struct {
	Status  int    `json:"-"`
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *XRPCError) Error() string {
	code := e.Code
	if code == "" {
		code = http.StatusText(e.Status)
	}
	if e.Message == "" {
		return fmt.Sprintf("xrpc %d %s", e.Status, code)
	}
	return fmt.Sprintf("xrpc %d %s: %s", e.Status, code, e.Message)
}

// Temporary reports whether the failure says something about service health
// rather than about the request itself.
func (e *XRPCError) Temporary() bool {
	return e.Status >= http.StatusInternalServerError || e.Status == http.StatusTooManyRequests
}
