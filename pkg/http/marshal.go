package http

import (
	"encoding/json"
	"net/http"
)

// MarshalJSON writes i as a JSON body with status 200.
func MarshalJSON(w http.ResponseWriter, i any) {
	MarshalJSONWithStatus(w, i, http.StatusOK)
}

func MarshalJSONWithStatus(w http.ResponseWriter, i any, status int) {
	w.Header().Set("content-type", ContentTypeJSON)
	w.WriteHeader(status)
	if i == nil {
		return
	}
	err := json.NewEncoder(w).Encode(i)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
