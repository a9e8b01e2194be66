package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/absensi-api/pkg/response"
)

func TestImportValidPayload(t *testing.T) {
	h := NewTransferHandler(nil, nil)

	body := `{
		"student": {"nim": "2110511001", "name": "Budi", "class": "TI-3A"},
		"records": [{"date": "2024-05-02", "status": "HADIR"}]
	}`
	c, w := testContext(t, http.MethodPost, "/transfer/import", body)
	h.Import(c)

	require.Equal(t, http.StatusOK, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	data := envelope.Data.(map[string]interface{})
	student := data["student"].(map[string]interface{})
	assert.Equal(t, "2110511001", student["nim"])
}

func TestImportRejectsInvalidPayloads(t *testing.T) {
	h := NewTransferHandler(nil, nil)

	tests := []struct {
		name        string
		body        string
		wantCode    string
		wantMessage string
	}{
		{
			name:        "malformed json",
			body:        `{not json`,
			wantCode:    "FORMAT_ERROR",
			wantMessage: "Payload tidak valid",
		},
		{
			name:        "incomplete student",
			body:        `{"student": {"nim": "", "name": "Budi", "class": "TI-3A"}, "records": []}`,
			wantCode:    "VALIDATION_ERROR",
			wantMessage: "Informasi mahasiswa tidak lengkap",
		},
		{
			name:        "missing records",
			body:        `{"student": {"nim": "2110511001", "name": "Budi", "class": "TI-3A"}}`,
			wantCode:    "FORMAT_ERROR",
			wantMessage: "Daftar absensi tidak ditemukan",
		},
		{
			name:        "unknown status",
			body:        `{"student": {"nim": "2110511001", "name": "Budi", "class": "TI-3A"}, "records": [{"date": "2024-05-02", "status": "BOLOS"}]}`,
			wantCode:    "VALIDATION_ERROR",
			wantMessage: "Status BOLOS tidak dikenali",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, w := testContext(t, http.MethodPost, "/transfer/import", tc.body)
			h.Import(c)

			require.Equal(t, http.StatusBadRequest, w.Code)

			var envelope response.Envelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tc.wantCode, envelope.Error.Code)
			assert.Equal(t, tc.wantMessage, envelope.Error.Message)
		})
	}
}
