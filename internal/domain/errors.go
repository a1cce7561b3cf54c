package domain

import "errors"

// Errores de dominio (sin dependencias externas).
//
// Se dividen en tres familias: corregibles por el llamador (validación),
// operacionales (conflictos legítimos, no bugs) e infraestructura, que se
// propaga tal cual desde los adaptadores de persistencia.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Importación de NF-e
	ErrMalformedDocument = errors.New("el XML no es una NF-e válida")
	ErrEmptyDocument     = errors.New("la NF-e no contiene productos")
	ErrDuplicateImport   = errors.New("esta NF-e ya fue importada")

	// Ciclo de vida de órdenes de servicio y presupuestos
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrNotApproved       = errors.New("el presupuesto no está aprobado")
	ErrAlreadyConverted  = errors.New("el presupuesto ya fue convertido")

	// Inventario
	ErrInsufficientStock = errors.New("stock insuficiente")
)
