package taskqueue

import "time"

// BackoffDelay calcula o atraso antes da tentativa informada: exponencial
// com base e teto configuráveis. A primeira retentativa (attempt=1) espera
// base; cada retentativa seguinte dobra.
func BackoffDelay(attempt int, base, cap time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := base
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= cap {
			return cap
		}
	}

	if delay > cap {
		return cap
	}

	return delay
}
