package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var response ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	return response
}

func TestWriteJSON(t *testing.T) {
	t.Run("writes body and content type", func(t *testing.T) {
		w := httptest.NewRecorder()

		err := WriteJSON(w, http.StatusOK, map[string]string{"message": "ok"})
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var response map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "ok", response["message"])
	})

	t.Run("nil data writes no body", func(t *testing.T) {
		w := httptest.NewRecorder()

		err := WriteJSON(w, http.StatusNoContent, nil)
		require.NoError(t, err)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestWriteOK(t *testing.T) {
	w := httptest.NewRecorder()

	err := WriteOK(w, map[string]string{"result": "listed"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, w.Code)

	var response SuccessResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "listed", response.Data.(map[string]interface{})["result"])
}

func TestWriteCreated(t *testing.T) {
	w := httptest.NewRecorder()

	err := WriteCreated(w, map[string]string{"id": "a3"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response SuccessResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "a3", response.Data.(map[string]interface{})["id"])
}

func TestWriteNoContent(t *testing.T) {
	w := httptest.NewRecorder()

	WriteNoContent(w)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestWriteBadRequest(t *testing.T) {
	w := httptest.NewRecorder()
	details := map[string]interface{}{"contact_phone": "too long"}

	err := WriteBadRequest(w, "Validation failed", details)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	response := decodeError(t, w)
	assert.Equal(t, "bad_request", response.Error)
	assert.Equal(t, "Validation failed", response.Message)
	assert.Equal(t, "too long", response.Details["contact_phone"])
}

func TestWriteForbidden(t *testing.T) {
	t.Run("with message", func(t *testing.T) {
		w := httptest.NewRecorder()

		err := WriteForbidden(w, "Access denied")
		require.NoError(t, err)

		assert.Equal(t, http.StatusForbidden, w.Code)
		response := decodeError(t, w)
		assert.Equal(t, "forbidden", response.Error)
		assert.Equal(t, "Access denied", response.Message)
	})

	t.Run("empty message gets the default", func(t *testing.T) {
		w := httptest.NewRecorder()

		require.NoError(t, WriteForbidden(w, ""))

		assert.Equal(t, "Access forbidden", decodeError(t, w).Message)
	})
}

func TestWriteNotFound(t *testing.T) {
	t.Run("with message", func(t *testing.T) {
		w := httptest.NewRecorder()

		err := WriteNotFound(w, "grid not found")
		require.NoError(t, err)

		assert.Equal(t, http.StatusNotFound, w.Code)
		response := decodeError(t, w)
		assert.Equal(t, "not_found", response.Error)
		assert.Equal(t, "grid not found", response.Message)
	})

	t.Run("empty message gets the default", func(t *testing.T) {
		w := httptest.NewRecorder()

		require.NoError(t, WriteNotFound(w, ""))

		assert.Equal(t, "Resource not found", decodeError(t, w).Message)
	})
}

func TestWriteConflict(t *testing.T) {
	w := httptest.NewRecorder()
	details := map[string]interface{}{
		"dependents": map[string]interface{}{"volunteer_registrations": 3},
	}

	err := WriteConflict(w, "dependent records block permanent deletion", details)
	require.NoError(t, err)

	assert.Equal(t, http.StatusConflict, w.Code)
	response := decodeError(t, w)
	assert.Equal(t, "conflict", response.Error)
	deps := response.Details["dependents"].(map[string]interface{})
	assert.Equal(t, float64(3), deps["volunteer_registrations"])
}

func TestWriteInternalServerError(t *testing.T) {
	t.Run("with message", func(t *testing.T) {
		w := httptest.NewRecorder()

		err := WriteInternalServerError(w, "storage unavailable")
		require.NoError(t, err)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		response := decodeError(t, w)
		assert.Equal(t, "internal_error", response.Error)
		assert.Equal(t, "storage unavailable", response.Message)
	})

	t.Run("empty message gets the default", func(t *testing.T) {
		w := httptest.NewRecorder()

		require.NoError(t, WriteInternalServerError(w, ""))

		assert.Equal(t, "Internal server error", decodeError(t, w).Message)
	})
}
