package response

import (
	"Memoria/internal/pkg/util"
	"Memoria/internal/service"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func run(err error) (int, map[string]interface{}) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	Error(c, err)

	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w.Code, body
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", service.ErrGroupNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", service.ErrPostNotFound), http.StatusNotFound},
		{"password required", service.ErrPasswordRequired, http.StatusBadRequest},
		{"password mismatch", service.ErrPasswordIncorrect, http.StatusForbidden},
		{"field rule", &util.ValidationError{Field: "Name", Rule: "max"}, http.StatusUnprocessableEntity},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := run(tc.err)
			if code != tc.want {
				t.Fatalf("status = %d, want %d", code, tc.want)
			}
			if int(body["code"].(float64)) != tc.want {
				t.Fatalf("body code = %v", body["code"])
			}
		})
	}
}

func TestUnexpectedErrorKeepsMessage(t *testing.T) {
	_, body := run(errors.New("disk full"))
	if body["message"] != "disk full" {
		t.Fatalf("message = %v", body["message"])
	}
}
