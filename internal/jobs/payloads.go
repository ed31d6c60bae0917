package jobs

// SyncOrdersPayload limita a varredura de pedidos a uma janela. Zero
// significa varredura completa.
type SyncOrdersPayload struct {
	SinceHours int `json:"since_hours,omitempty"`
}

// SnapshotPayload restringe o snapshot de métricas a um período. Vazio
// computa todos os períodos suportados.
type SnapshotPayload struct {
	Period string `json:"period,omitempty"`
}
