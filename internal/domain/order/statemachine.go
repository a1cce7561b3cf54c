package order

import (
	"github.com/pacoficinas/oficina-api/internal/domain"
	"github.com/pacoficinas/oficina-api/internal/domain/entity"
)

// Eventos del ciclo de vida de una orden de servicio.
const (
	EventStart    = "start"
	EventPause    = "pause"
	EventResume   = "resume"
	EventComplete = "complete"
	EventInvoice  = "invoice"
	EventCancel   = "cancel"
)

// Transition describe el resultado de aplicar un evento: estado destino y
// efectos que el caso de uso debe ejecutar en la misma transacción.
type Transition struct {
	To               string
	SetClosedAt      bool // complete: fijar fecha de conclusión
	CreateReceivable bool // invoice: generar cuenta por cobrar por el total
	CreateCommission bool // invoice: devengar la comisión del mecánico asignado
}

// transitions es la única tabla de transiciones del sistema. Cualquier par
// (estado, evento) ausente es ilegal. cancel se resuelve aparte porque aplica
// a todo estado no terminal.
var transitions = map[string]map[string]Transition{
	entity.OrderOpen: {
		EventStart: {To: entity.OrderInProgress},
	},
	entity.OrderInProgress: {
		EventPause:    {To: entity.OrderAwaitingParts},
		EventComplete: {To: entity.OrderCompleted, SetClosedAt: true},
	},
	entity.OrderAwaitingParts: {
		EventResume: {To: entity.OrderInProgress},
	},
	entity.OrderCompleted: {
		EventInvoice: {To: entity.OrderInvoiced, CreateReceivable: true, CreateCommission: true},
	},
}

// terminal indica estados sin transiciones salientes.
func terminal(status string) bool {
	return status == entity.OrderInvoiced || status == entity.OrderCancelled
}

// Next resuelve la transición para (status, event). Devuelve
// domain.ErrInvalidTransition para cualquier par no contemplado, sin efectos.
func Next(status, event string) (Transition, error) {
	if event == EventCancel {
		if terminal(status) {
			return Transition{}, domain.ErrInvalidTransition
		}
		return Transition{To: entity.OrderCancelled}, nil
	}
	if byEvent, ok := transitions[status]; ok {
		if tr, ok := byEvent[event]; ok {
			return tr, nil
		}
	}
	return Transition{}, domain.ErrInvalidTransition
}

// Events lista los eventos conocidos (útil para validación de entrada).
func Events() []string {
	return []string{EventStart, EventPause, EventResume, EventComplete, EventInvoice, EventCancel}
}

// IsEvent indica si s es un evento reconocido por la tabla.
func IsEvent(s string) bool {
	for _, e := range Events() {
		if e == s {
			return true
		}
	}
	return false
}
