// Copyright 2015 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package google

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/juju/errors"
	"google.golang.org/api/googleapi"
)

// IsAuthorisationFailure determines if the given error has an authorisation failure.
func IsAuthorisationFailure(err error) bool {
	if err == nil {
		return false
	}

	var gError *googleapi.Error
	if errors.As(err, &gError) {
		if _, ok := AuthorisationFailureStatusCodes[gError.Code]; ok && gError.Code != http.StatusBadRequest {
			return true
		}
	}

	var cause error
	switch e := errors.Cause(err).(type) {
	case *url.Error:
		cause = e
	case *googleapi.Error:
		cause = e
	default:
		return false
	}

	for code, descs := range AuthorisationFailureStatusCodes {
		for _, desc := range descs {
			if strings.Contains(cause.Error(), fmt.Sprintf(": %v %v", code, desc)) {
				return true
			}
		}
	}
	return false
}

// AuthorisationFailureStatusCodes contains http status code and
// description that signify authorisation difficulties.
//
// Google does not always use standard HTTP descriptions, which
// is why a single status code can map to multiple descriptions.
var AuthorisationFailureStatusCodes = map[int][]string{
	http.StatusUnauthorized:      {"Unauthorized"},
	http.StatusPaymentRequired:   {"Payment Required"},
	http.StatusForbidden:         {"Forbidden", "Access Not Configured"},
	http.StatusProxyAuthRequired: {"Proxy Auth Required"},
	// OAuth 2.0 also implements RFC#6749, so we need to cater for specific BadRequest errors.
	// https://tools.ietf.org/html/rfc6749#section-5.2
	http.StatusBadRequest: {"Bad Request"},
}

// IsNotFound reports if given error is of 'not found' type.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var gError *googleapi.Error
	if errors.As(err, &gError) {
		return gError.Code == http.StatusNotFound
	}
	return errors.Is(err, errors.NotFound)
}

// IsConflict reports whether err is a 409 from the API, which is what
// inserting a firewall that already exists returns.
func IsConflict(err error) bool {
	var gError *googleapi.Error
	return errors.As(err, &gError) && gError.Code == http.StatusConflict
}

// operationError collects the errors reported by a finished compute
// operation.
type operationError struct {
	name   string
	errors []string
}

func (e *operationError) Error() string {
	return fmt.Sprintf("operation %q failed: %s", e.name, strings.Join(e.errors, "; "))
}
