package syncErrors

import (
	"errors"
	"fmt"
	"time"
)

// Taxonomia de erros do núcleo de sincronização. Cada categoria carrega a
// política de retry que o chamador deve aplicar.

// TransientError indica uma falha de rede ou 5xx do lado da plataforma.
// Pode ser retentado com backoff.
type TransientError struct {
	Platform string
	Err      error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("erro transitório na plataforma %s: %v", e.Platform, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// CredentialInvalidError indica token expirado ou revogado. Nunca deve ser
// retentado; a conta conectada precisa ser marcada para reautorização.
type CredentialInvalidError struct {
	Platform  string
	AccountID string
	Err       error
}

func (e *CredentialInvalidError) Error() string {
	return fmt.Sprintf("credencial inválida para a conta %s na plataforma %s: %v", e.AccountID, e.Platform, e.Err)
}

func (e *CredentialInvalidError) Unwrap() error { return e.Err }

// UpstreamFormatError indica corpo de resposta malformado da plataforma.
// Retentado uma única vez (possível corrupção transitória) e então exposto.
type UpstreamFormatError struct {
	Platform string
	Err      error
}

func (e *UpstreamFormatError) Error() string {
	return fmt.Sprintf("resposta malformada da plataforma %s: %v", e.Platform, e.Err)
}

func (e *UpstreamFormatError) Unwrap() error { return e.Err }

// JobTimeExceededError indica que uma execução de job ultrapassou o limite
// rígido de tempo. Conta como tentativa falha e pode ser retentado.
type JobTimeExceededError struct {
	Kind  string
	Limit time.Duration
}

func (e *JobTimeExceededError) Error() string {
	return fmt.Sprintf("job %s excedeu o limite de tempo de %s", e.Kind, e.Limit)
}

// TerminalJobFailureError indica que um job esgotou as tentativas e foi
// marcado como FAILED permanentemente.
type TerminalJobFailureError struct {
	JobID    string
	Kind     string
	Attempts int
	LastErr  string
}

func (e *TerminalJobFailureError) Error() string {
	return fmt.Sprintf("job %s (%s) falhou permanentemente após %d tentativas: %s", e.JobID, e.Kind, e.Attempts, e.LastErr)
}

// ErrSignatureMismatch indica assinatura de webhook inválida. Rejeitado
// imediatamente, sem retry deste lado.
var ErrSignatureMismatch = errors.New("assinatura do webhook não confere")

// IsTransient informa se o erro pode ser retentado com backoff.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// IsCredentialInvalid informa se o erro é de credencial expirada/revogada.
func IsCredentialInvalid(err error) bool {
	var ce *CredentialInvalidError
	return errors.As(err, &ce)
}

// IsUpstreamFormat informa se o erro é de corpo malformado da plataforma.
func IsUpstreamFormat(err error) bool {
	var fe *UpstreamFormatError
	return errors.As(err, &fe)
}
