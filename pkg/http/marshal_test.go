package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarshalJSONWithStatus(t *testing.T) {
	type args struct {
		i      any
		status int
	}
	type res struct {
		statusCode int
		body       string
	}
	tests := []struct {
		name string
		args args
		res  res
	}{
		{
			"empty ok",
			args{
				nil,
				200,
			},
			res{
				200,
				"",
			},
		},
		{
			"string ok",
			args{
				"ok",
				200,
			},
			res{
				200,
				`"ok"
`,
			},
		},
		{
			"protocol error",
			args{
				map[string]string{"error": "invalid_grant"},
				400,
			},
			res{
				400,
				`{"error":"invalid_grant"}
`,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			MarshalJSONWithStatus(w, tt.args.i, tt.args.status)
			assert.Equal(t, ContentTypeJSON, w.Header().Get("content-type"))
			assert.Equal(t, tt.res.statusCode, w.Result().StatusCode)
			assert.Equal(t, tt.res.body, w.Body.String())
		})
	}
}

func TestMarshalJSON(t *testing.T) {
	w := httptest.NewRecorder()
	MarshalJSON(w, map[string]bool{"active": true})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"active":true}`, w.Body.String())
}
