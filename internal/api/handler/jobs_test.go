package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/joshaeeee/klyq-backend/internal/config"
	"github.com/joshaeeee/klyq-backend/internal/taskqueue"
)

func TestSubmitJob(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		validate func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name: "Corpo sem kind é rejeitado",
			body: `{"store_id":"store-1"}`,
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Contains(t, rec.Body.String(), "VAL_001")
			},
		},
		{
			name: "Kind sem handler registrado é rejeitado",
			body: `{"kind":"kind_inexistente","store_id":"store-1"}`,
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Contains(t, rec.Body.String(), "JOB_001")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dispatcher := taskqueue.NewDispatcher(config.TaskQueue{}, nil)

			req := httptest.NewRequest(http.MethodPost, "/v1/jobs", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			SubmitJob(dispatcher)(rec, req)
			tt.validate(t, rec)
		})
	}
}
