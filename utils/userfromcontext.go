package utils

import (
	"net/http"

	"eventra/globals"
	"eventra/visibility"
)

func GetUserIDFromRequest(r *http.Request) string {
	requestingUserID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok {
		return ""
	}
	return requestingUserID
}

func GetEmailFromRequest(r *http.Request) string {
	email, ok := r.Context().Value(globals.EmailKey).(string)
	if !ok {
		return ""
	}
	return email
}

// ViewerFromRequest builds the visibility viewer for the request; the zero
// viewer means anonymous.
func ViewerFromRequest(r *http.Request) visibility.Viewer {
	return visibility.Viewer{
		ID:    GetUserIDFromRequest(r),
		Email: GetEmailFromRequest(r),
	}
}
