package handler

import (
	"net/http"
)

type Greeter interface {
	Greet(name string) string
}

type greetRequest struct {
	Name string `json:"name"`
}

type greetResponse struct {
	Message string `json:"message"`
}

func Greet(g Greeter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req greetRequest
		if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
			return
		}
		writeJSON(w, http.StatusOK, greetResponse{Message: g.Greet(req.Name)})
	}
}
