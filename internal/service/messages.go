package service

// Texts shown to the dashboard user.
const (
	summarySuccess = "Listo!"

	msgOrderCreated = "Orden creada exitosamente"
	msgOrderUpdated = "Orden actualizada exitosamente"

	summaryCreateFailed = "Orden no creada!"
	detailCreateFailed  = "Ocurrio un error mientras se creaba la orden."
	errCreateFailed     = "Error al crear la orden."

	summaryUpdateFailed = "Orden no actualizada!"
	detailUpdateFailed  = "Ocurrio un problema al intentar actualizar la orden."
	errUpdateFailed     = "Error al actualizar la orden"

	headerDeleteConfirm  = "Eliminar orden"
	messageDeleteConfirm = "¿Estas seguro de que quieres eliminar esta orden?"
	iconDeleteConfirm    = "pi pi-exclamation-triangle"
	summaryDeleted       = "Orden eliminada!"
	detailDeleted        = "La orden fue eliminada exitosamente."
	summaryDeleteFailed  = "Error al eliminar la orden"
	errDeleteFailed      = "Error al eliminar la orden"

	summaryFetchFailed       = "Error al obtener lista de ordenes"
	summaryFetchStatusFailed = "Error al obtener lista de ordenes por estado: %s"
	summaryStatusFailed      = "Error al actualizar el estado de la orden: %d a %s"
	detailUnknownError       = "Error desconocido"
)
