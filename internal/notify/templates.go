package notify

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Kind names the customer notification being sent.
type Kind string

const (
	KindProcesoIniciado Kind = "proceso_iniciado"
	KindListoRetiro     Kind = "listo_retiro"
	KindDespachoEnRuta  Kind = "despacho_en_ruta"
)

// procesoIniciadoMessage announces the comanda entered the wash line.
func procesoIniciadoMessage(nombreCliente, numeroOrden string) string {
	return fmt.Sprintf(
		"Hola %s, tu orden %s ya está en proceso en Lavandería El Cobre. Te avisaremos cuando esté lista. 🧺",
		nombreCliente, numeroOrden,
	)
}

// listoRetiroMessage announces the comanda is ready at the counter.
func listoRetiroMessage(nombreCliente, numeroOrden string, fechaLimite time.Time) string {
	return fmt.Sprintf(
		"Hola %s, tu orden %s está lista para retiro en Lavandería El Cobre. Puedes retirarla hasta el %s. ✅",
		nombreCliente, numeroOrden, fechaLimite.Format("02-01-2006"),
	)
}

// despachoEnRutaMessage announces the driver departed with the comanda.
func despachoEnRutaMessage(nombreCliente, numeroOrden, repartidor, vehiculo, patente string) string {
	return fmt.Sprintf(
		"Hola %s, tu orden %s va en camino. Repartidor: %s, vehículo %s patente %s. Ten a mano tu código de entrega. 🚚",
		nombreCliente, numeroOrden, repartidor, vehiculo, patente,
	)
}

// WhatsAppURL builds a wa.me deep link for the normalized phone and message.
func WhatsAppURL(telefono, mensaje string) string {
	digits := strings.TrimPrefix(telefono, "+")
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits, url.QueryEscape(mensaje))
}
