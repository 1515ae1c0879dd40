//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PeterBaptista/piano-midi/cmd"
	"github.com/PeterBaptista/piano-midi/model"
	"github.com/stretchr/testify/assert"
)

// one track, division 256, a single one-second note at 60 BPM
func minimalSMF() []byte {
	track := []byte{
		0x00, 0xFF, 0x51, 0x03, 0x0F, 0x42, 0x40, // set tempo 1000000 µs
		0x00, 0x90, 60, 100,
		0x82, 0x00, 0x80, 60, 0, // delta 256
	}
	data := []byte{
		'M', 'T', 'h', 'd', 0x00, 0x00, 0x00, 0x06,
		0x00, 0x01, 0x00, 0x01, 0x01, 0x00,
		'M', 'T', 'r', 'k', 0x00, 0x00, 0x00, byte(len(track)),
	}
	return append(data, track...)
}

func TestHealthE2E(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	cmd.HandleHealth(w, req)

	resp := w.Result()
	respBody, _ := io.ReadAll(resp.Body)

	assert := assert.New(t)
	assert.Equal(200, resp.StatusCode)

	var health model.HealthResponse
	err := json.Unmarshal(respBody, &health)
	assert.NoError(err)
	assert.Equal("healthy", health.Status)
}

func TestDecodeAndFetchE2E(t *testing.T) {
	router := cmd.NewRouter()

	req := httptest.NewRequest(http.MethodPost, "/decode", bytes.NewReader(minimalSMF()))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert := assert.New(t)
	assert.Equal(200, w.Result().StatusCode)

	var decoded model.DecodeResponse
	respBody, _ := io.ReadAll(w.Result().Body)
	err := json.Unmarshal(respBody, &decoded)
	assert.NoError(err)
	assert.NotEmpty(decoded.FileId)
	assert.Len(decoded.Notes, 1)
	assert.Equal(uint8(60), decoded.Notes[0].Pitch)
	assert.Equal(1.0, decoded.Duration)

	// the decoded file is fetchable afterwards
	req = httptest.NewRequest(http.MethodGet, "/files/"+decoded.FileId, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(200, w.Result().StatusCode)

	var fetched model.DecodeResponse
	respBody, _ = io.ReadAll(w.Result().Body)
	err = json.Unmarshal(respBody, &fetched)
	assert.NoError(err)
	assert.Equal(decoded.Notes, fetched.Notes)
}

func TestDecodeRejectsGarbageE2E(t *testing.T) {
	router := cmd.NewRouter()

	req := httptest.NewRequest(http.MethodPost, "/decode", bytes.NewReader([]byte("XXXX not midi")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert := assert.New(t)
	assert.Equal(400, w.Result().StatusCode)

	var errResp model.ErrorResponse
	respBody, _ := io.ReadAll(w.Result().Body)
	err := json.Unmarshal(respBody, &errResp)
	assert.NoError(err)
	assert.Equal("failed to parse file, select another", errResp.Error)
}

func TestUnknownFileIs404E2E(t *testing.T) {
	router := cmd.NewRouter()

	req := httptest.NewRequest(http.MethodGet, "/files/nope", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 404, w.Result().StatusCode)
}
