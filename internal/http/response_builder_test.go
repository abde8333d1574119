package http

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseBuilderJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	NewResponse().Status(http.StatusCreated).Header("X-Test", "1").JSON(map[string]int{"n": 2}).Write(rr)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, "1", rr.Header().Get("X-Test"))
	assert.JSONEq(t, `{"n":2}`, rr.Body.String())
}

func TestResponseBuilderEncodeFailureIs500(t *testing.T) {
	b := NewResponse().JSON(math.Inf(1))
	require.Error(t, b.Err())

	rr := httptest.NewRecorder()
	b.Write(rr)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestResponseBuilderAttachment(t *testing.T) {
	rr := httptest.NewRecorder()
	NewResponse().Attachment("expense_data.csv", "text/csv; charset=utf-8", []byte("a,b")).Write(rr)

	assert.Equal(t, `attachment; filename="expense_data.csv"`, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "a,b", rr.Body.String())
}

func TestErrorResponses(t *testing.T) {
	cases := []struct {
		b    *ResponseBuilder
		code int
	}{
		{NotFoundError("nope"), http.StatusNotFound},
		{InternalServerError("boom"), http.StatusInternalServerError},
		{MethodNotAllowedError(), http.StatusMethodNotAllowed},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		tc.b.Write(rr)
		assert.Equal(t, tc.code, rr.Code)

		var body errorBody
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.NotEmpty(t, body.Error)
	}
}
