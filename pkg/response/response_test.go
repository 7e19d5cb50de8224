package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/training-registration-api/pkg/errors"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, rec
}

func TestErrorPutsValidationFieldsInMeta(t *testing.T) {
	c, rec := newContext()
	Error(c, appErrors.Validation("invalid registration payload", map[string]string{"email": "E-mail inválido"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	var apiErr map[string]interface{}
	require.NoError(t, json.Unmarshal(body["error"], &apiErr))
	assert.Equal(t, "VALIDATION_ERROR", apiErr["code"])
	assert.NotContains(t, apiErr, "fields")

	var meta struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(body["meta"], &meta))
	assert.Equal(t, "E-mail inválido", meta.Fields["email"])
}

func TestErrorRecordsServerFailures(t *testing.T) {
	c, rec := newContext()
	Error(c, errors.New("disk full"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Len(t, c.Errors, 1)
	assert.NotContains(t, rec.Body.String(), `"meta"`)
}

func TestAttachment(t *testing.T) {
	c, rec := newContext()
	Attachment(c, "inscricoes_treinamento_2030-05-01.csv", "text/csv; charset=utf-8", []byte("a;b"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="inscricoes_treinamento_2030-05-01.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "a;b", rec.Body.String())
}
