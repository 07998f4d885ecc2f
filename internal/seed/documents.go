package seed

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"github.com/johnwards/backoffice/internal/query"
)

// DefaultSeed makes the demo data set identical on every run.
const DefaultSeed = 20241101

// FirstMonth and Months bound the period covered by seeded documents.
var (
	FirstMonth = time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC)
	Months     = 14
)

// Generator draws deterministic document attributes.
type Generator struct {
	r *rand.Rand
}

// NewGenerator returns a Generator seeded with seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{r: rand.New(rand.NewPCG(seed, seed>>7))} //nolint:gosec // demo data
}

func (g *Generator) between(lo, hi int) int { return lo + g.r.IntN(hi-lo+1) }

func (g *Generator) pick(opts []weighted) string {
	total := 0
	for _, o := range opts {
		total += o.weight
	}
	n := g.r.IntN(total)
	for _, o := range opts {
		if n < o.weight {
			return o.value
		}
		n -= o.weight
	}
	return opts[len(opts)-1].value
}

func (g *Generator) amount(loCents, hiCents int) decimal.Decimal {
	return decimal.New(int64(g.between(loCents, hiCents)), -2)
}

func (g *Generator) day(month time.Time) query.Date {
	d := month.AddDate(0, 0, g.r.IntN(28))
	return query.NewDate(d.Year(), d.Month(), d.Day())
}

type weighted struct {
	value  string
	weight int
}

var (
	estadosFactura = []weighted{{"pagada", 60}, {"pendiente", 25}, {"vencida", 10}, {"anulada", 5}}
	estadosNota    = []weighted{{"aplicada", 70}, {"pendiente", 20}, {"anulada", 10}}
	motivosNota    = []weighted{{"devolucion", 40}, {"descuento", 30}, {"error_facturacion", 20}, {"garantia", 10}}
	estadosCompra  = []weighted{{"recibida", 55}, {"pendiente", 25}, {"parcial", 12}, {"cancelada", 8}}
	estadosOrden   = []weighted{{"cerrada", 50}, {"en_proceso", 20}, {"abierta", 20}, {"cancelada", 10}}
	motivosOrden   = []weighted{{"reparacion", 45}, {"mantenimiento", 30}, {"instalacion", 15}, {"garantia", 10}}
	tecnicos       = []weighted{{"Carlos Ibarra", 1}, {"Romina Paz", 1}, {"Diego Sosa", 1}, {"Valeria Luna", 1}}
	observaciones  = []string{"", "", "", "Entrega parcial", "Cliente solicita factura A", "Urgente", "Reprogramado"}
)

type factura struct {
	id         int64
	fecha      query.Date
	sucursalID int64
	clienteID  int64
	total      decimal.Decimal
}

// documents inserts invoices, credit notes, purchase orders and service orders
// month by month across the seeded period.
func documents(w *writer, g *Generator) error {
	var nextFactura, nextNota, nextCompra, nextOrden int64

	for m := 0; m < Months; m++ {
		month := FirstMonth.AddDate(0, m, 0)

		var emitidas []factura
		for i, n := 0, g.between(8, 15); i < n; i++ {
			nextFactura++
			f := factura{
				id:         nextFactura,
				fecha:      g.day(month),
				sucursalID: int64(g.between(1, 3)),
				clienteID:  int64(g.between(1, len(clientes))),
				total:      g.amount(15000, 2500000),
			}
			if err := w.insert("facturas",
				[]string{"id", "nro", "fecha", "estado", "sucursal_id", "cliente_id", "total", "observaciones"},
				f.id, fmt.Sprintf("FA-%05d", f.id), f.fecha, g.pick(estadosFactura),
				f.sucursalID, f.clienteID, f.total, nullable(observaciones[g.r.IntN(len(observaciones))]),
			); err != nil {
				return err
			}
			emitidas = append(emitidas, f)
		}

		for i, n := 0, g.between(2, 4); i < n; i++ {
			nextNota++
			f := emitidas[g.r.IntN(len(emitidas))]
			// A credit note never exceeds its invoice.
			total := f.total.Mul(decimal.New(int64(g.between(5, 100)), -2)).Round(2)
			if err := w.insert("notas_credito",
				[]string{"id", "nro", "fecha", "estado", "motivo", "sucursal_id", "cliente_id", "factura_id", "total", "observaciones"},
				nextNota, fmt.Sprintf("NC-%05d", nextNota), f.fecha, g.pick(estadosNota), g.pick(motivosNota),
				f.sucursalID, f.clienteID, f.id, total, nullable(fmt.Sprintf("Sobre factura FA-%05d", f.id)),
			); err != nil {
				return err
			}
		}

		for i, n := 0, g.between(3, 6); i < n; i++ {
			nextCompra++
			fecha := g.day(month)
			estado := g.pick(estadosCompra)
			var entrega any
			if estado == "recibida" || estado == "parcial" {
				t := fecha.Time().AddDate(0, 0, g.between(3, 20))
				entrega = query.NewDate(t.Year(), t.Month(), t.Day())
			}
			if err := w.insert("ordenes_compra",
				[]string{"id", "nro", "fecha", "estado", "proveedor_id", "sucursal_id", "total", "fecha_entrega", "observaciones"},
				nextCompra, fmt.Sprintf("OC-%05d", nextCompra), fecha, estado,
				int64(g.between(1, len(proveedores))), int64(g.between(1, len(sucursales))),
				g.amount(50000, 5000000), entrega, nullable(observaciones[g.r.IntN(len(observaciones))]),
			); err != nil {
				return err
			}
		}

		for i, n := 0, g.between(4, 7); i < n; i++ {
			nextOrden++
			if err := insertOrden(w, g, nextOrden, g.day(month)); err != nil {
				return err
			}
		}
	}

	// Orders still waiting for a visit date.
	for i := 0; i < 3; i++ {
		nextOrden++
		if err := insertOrden(w, g, nextOrden, nil); err != nil {
			return err
		}
	}

	return nil
}

func insertOrden(w *writer, g *Generator, id int64, fecha any) error {
	estado := g.pick(estadosOrden)
	if fecha == nil {
		estado = "abierta"
	}

	var sucursal, costo, cierre any
	if g.r.IntN(10) > 0 {
		sucursal = int64(g.between(1, 3))
	}
	if estado != "abierta" {
		costo = g.amount(2000, 300000)
	}
	if d, ok := fecha.(query.Date); ok && estado == "cerrada" {
		t := d.Time().AddDate(0, 0, g.between(1, 10))
		cierre = query.NewDate(t.Year(), t.Month(), t.Day())
	}

	return w.insert("ordenes_servicio",
		[]string{"id", "nro", "fecha", "estado", "motivo", "tecnico", "sucursal_id", "cliente_id", "costo", "fecha_cierre", "observaciones"},
		id, fmt.Sprintf("OS-%05d", id), fecha, estado, g.pick(motivosOrden), g.pick(tecnicos),
		sucursal, int64(g.between(1, len(clientes))), costo, cierre,
		nullable(observaciones[g.r.IntN(len(observaciones))]),
	)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
