package taskqueue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffDelay(t *testing.T) {
	base := 30 * time.Second
	cap := 10 * time.Minute

	tests := []struct {
		name     string
		attempt  int
		expected time.Duration
	}{
		{name: "Primeira retentativa espera a base", attempt: 1, expected: 30 * time.Second},
		{name: "Segunda retentativa dobra", attempt: 2, expected: 1 * time.Minute},
		{name: "Terceira retentativa dobra de novo", attempt: 3, expected: 2 * time.Minute},
		{name: "Quarta retentativa", attempt: 4, expected: 4 * time.Minute},
		{name: "Quinta retentativa", attempt: 5, expected: 8 * time.Minute},
		{name: "Sexta retentativa bate no teto", attempt: 6, expected: 10 * time.Minute},
		{name: "Retentativas seguintes ficam no teto", attempt: 12, expected: 10 * time.Minute},
		{name: "Tentativa inválida vira a primeira", attempt: 0, expected: 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BackoffDelay(tt.attempt, base, cap))
		})
	}
}

func TestBackoffDelay_BaseAboveCap(t *testing.T) {
	assert.Equal(t, time.Second, BackoffDelay(1, 5*time.Second, time.Second))
}
