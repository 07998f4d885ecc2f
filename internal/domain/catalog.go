package domain

import (
	"errors"
	"fmt"

	"github.com/johnwards/backoffice/internal/query"
)

// Catalog is the set of entities exposed by the API, in declaration order.
type Catalog struct {
	byName   map[string]*Entity
	entities []*Entity
}

// NewCatalog validates entities and indexes them by name.
func NewCatalog(entities ...Entity) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]*Entity, len(entities))}
	var errs []error
	for i := range entities {
		e := &entities[i]
		if err := e.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := c.byName[e.Name]; dup {
			errs = append(errs, fmt.Errorf("entity %s declared twice", e.Name))
			continue
		}
		c.byName[e.Name] = e
		c.entities = append(c.entities, e)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return c, nil
}

// Lookup returns the entity registered under name.
func (c *Catalog) Lookup(name string) (*Entity, bool) {
	e, ok := c.byName[name]
	return e, ok
}

// Entities returns every entity in declaration order.
func (c *Catalog) Entities() []*Entity {
	return c.entities
}

// Default returns the back-office catalog.
func Default() (*Catalog, error) {
	return NewCatalog(Backoffice()...)
}

var (
	dateRange = func(col string) []Filter {
		return []Filter{
			{Param: "fecha_desde", Column: col, Operator: query.Gte, Kind: query.KindDate},
			{Param: "fecha_hasta", Column: col, Operator: query.Lte, Kind: query.KindDate},
		}
	}
	eq = func(param string, kind query.Kind) Filter {
		return Filter{Param: param, Column: param, Operator: query.Eq, Kind: kind}
	}
	byEstado = func(alias string) query.Dimension {
		return query.Dimension{Key: "por_estado", Label: "COALESCE(" + alias + ".estado, 'Sin estado')"}
	}
	bySucursal = func(alias string) query.Dimension {
		return query.Dimension{
			Key:   "por_sucursal",
			Label: "COALESCE(s.nombre, 'Sin sucursal')",
			Joins: "LEFT JOIN sucursales s ON s.id = " + alias + ".sucursal_id",
		}
	}
	byCliente = func(alias string) query.Dimension {
		return query.Dimension{
			Key:   "por_cliente",
			Label: "COALESCE(c.nombre, 'Sin cliente')",
			Joins: "LEFT JOIN clientes c ON c.id = " + alias + ".cliente_id",
		}
	}
	byMotivo = func(alias string) query.Dimension {
		return query.Dimension{Key: "por_motivo", Label: "COALESCE(" + alias + ".motivo, 'Sin motivo')"}
	}
)

// Backoffice declares the documents and reference tables of the back office.
func Backoffice() []Entity {
	return []Entity{
		{
			Name:  "facturas",
			Title: "Facturas",
			Area:  "ventas",
			Table: "facturas",
			Alias: "f",
			Select: `f.id, f.nro, f.fecha, f.estado, f.sucursal_id, s.nombre AS sucursal,
				f.cliente_id, c.nombre AS cliente, f.total, f.observaciones`,
			Joins: `LEFT JOIN sucursales s ON s.id = f.sucursal_id
				LEFT JOIN clientes c ON c.id = f.cliente_id`,
			Sorts: map[string]query.Column{
				"fecha":    query.Col("f", "fecha"),
				"nro":      query.Col("f", "nro"),
				"estado":   query.Col("f", "estado"),
				"total":    query.Col("f", "total"),
				"cliente":  query.Col("c", "nombre"),
				"sucursal": query.Col("s", "nombre"),
			},
			DefaultSort:  "fecha",
			DefaultOrder: query.Desc,
			Search:       []string{"nro", "observaciones"},
			Filters: append(dateRange("fecha"),
				eq("estado", query.KindString),
				eq("sucursal_id", query.KindInt),
				eq("cliente_id", query.KindInt),
			),
			Numeric: []string{"total"},
			Dates:   []string{"fecha"},
			Report: &Report{
				Date:       "fecha",
				Amount:     "total",
				Measure:    query.BySum,
				Dimensions: []query.Dimension{byEstado("f"), bySucursal("f"), byCliente("f")},
			},
		},
		{
			Name:  "notas_credito",
			Title: "Notas de crédito",
			Area:  "ventas",
			Table: "notas_credito",
			Alias: "n",
			Select: `n.id, n.nro, n.fecha, n.estado, n.motivo, n.sucursal_id, s.nombre AS sucursal,
				n.cliente_id, c.nombre AS cliente, n.factura_id, fa.nro AS factura_nro, n.total, n.observaciones`,
			Joins: `LEFT JOIN sucursales s ON s.id = n.sucursal_id
				LEFT JOIN clientes c ON c.id = n.cliente_id
				LEFT JOIN facturas fa ON fa.id = n.factura_id`,
			Sorts: map[string]query.Column{
				"fecha":   query.Col("n", "fecha"),
				"nro":     query.Col("n", "nro"),
				"estado":  query.Col("n", "estado"),
				"motivo":  query.Col("n", "motivo"),
				"total":   query.Col("n", "total"),
				"cliente": query.Col("c", "nombre"),
			},
			DefaultSort:  "fecha",
			DefaultOrder: query.Desc,
			Search:       []string{"nro", "motivo", "observaciones"},
			Filters: append(dateRange("fecha"),
				eq("estado", query.KindString),
				eq("motivo", query.KindString),
				eq("sucursal_id", query.KindInt),
				eq("cliente_id", query.KindInt),
				eq("factura_id", query.KindInt),
			),
			Numeric: []string{"total"},
			Dates:   []string{"fecha"},
			Report: &Report{
				Date:       "fecha",
				Amount:     "total",
				Measure:    query.ByCount,
				Dimensions: []query.Dimension{byEstado("n"), byMotivo("n"), bySucursal("n")},
			},
		},
		{
			Name:  "ordenes_compra",
			Title: "Órdenes de compra",
			Area:  "compras",
			Table: "ordenes_compra",
			Alias: "oc",
			Select: `oc.id, oc.nro, oc.fecha, oc.estado, oc.proveedor_id, p.nombre AS proveedor,
				oc.sucursal_id, s.nombre AS sucursal, oc.total, oc.fecha_entrega, oc.observaciones`,
			Joins: `LEFT JOIN proveedores p ON p.id = oc.proveedor_id
				LEFT JOIN sucursales s ON s.id = oc.sucursal_id`,
			Sorts: map[string]query.Column{
				"fecha":         query.Col("oc", "fecha"),
				"nro":           query.Col("oc", "nro"),
				"estado":        query.Col("oc", "estado"),
				"total":         query.Col("oc", "total"),
				"fecha_entrega": query.Col("oc", "fecha_entrega"),
				"proveedor":     query.Col("p", "nombre"),
			},
			DefaultSort:  "fecha",
			DefaultOrder: query.Desc,
			Search:       []string{"nro", "observaciones"},
			Filters: append(dateRange("fecha"),
				eq("estado", query.KindString),
				eq("proveedor_id", query.KindInt),
				eq("sucursal_id", query.KindInt),
			),
			Numeric: []string{"total"},
			Dates:   []string{"fecha", "fecha_entrega"},
			Report: &Report{
				Date:    "fecha",
				Amount:  "total",
				Measure: query.BySum,
				Dimensions: []query.Dimension{
					byEstado("oc"),
					{
						Key:   "por_proveedor",
						Label: "COALESCE(p.nombre, 'Sin proveedor')",
						Joins: "LEFT JOIN proveedores p ON p.id = oc.proveedor_id",
					},
					bySucursal("oc"),
				},
			},
		},
		{
			Name:  "ordenes_servicio",
			Title: "Órdenes de servicio",
			Area:  "servicio_tecnico",
			Table: "ordenes_servicio",
			Alias: "o",
			Select: `o.id, o.nro, o.fecha, o.estado, o.motivo, o.tecnico, o.sucursal_id, s.nombre AS sucursal,
				o.cliente_id, c.nombre AS cliente, o.costo, o.fecha_cierre, o.observaciones`,
			Joins: `LEFT JOIN sucursales s ON s.id = o.sucursal_id
				LEFT JOIN clientes c ON c.id = o.cliente_id`,
			Sorts: map[string]query.Column{
				"fecha":   query.Col("o", "fecha"),
				"nro":     query.Col("o", "nro"),
				"estado":  query.Col("o", "estado"),
				"tecnico": query.Col("o", "tecnico"),
				"costo":   query.Col("o", "costo"),
			},
			DefaultSort:  "fecha",
			DefaultOrder: query.Desc,
			Search:       []string{"nro", "tecnico", "observaciones"},
			Filters: append(dateRange("fecha"),
				eq("estado", query.KindString),
				eq("motivo", query.KindString),
				eq("tecnico", query.KindString),
				eq("sucursal_id", query.KindInt),
				eq("cliente_id", query.KindInt),
			),
			Numeric: []string{"costo"},
			Dates:   []string{"fecha", "fecha_cierre"},
			Report: &Report{
				Date:    "fecha",
				Amount:  "costo",
				Measure: query.ByCount,
				Dimensions: []query.Dimension{
					byEstado("o"),
					byMotivo("o"),
					{Key: "por_tecnico", Label: "COALESCE(o.tecnico, 'Sin asignar')"},
					bySucursal("o"),
				},
			},
		},
		{
			Name:   "sucursales",
			Title:  "Sucursales",
			Area:   "referencia",
			Table:  "sucursales",
			Alias:  "s",
			Select: "s.id, s.nombre, s.ciudad, s.activa",
			Sorts: map[string]query.Column{
				"id":     query.Col("s", "id"),
				"nombre": query.Col("s", "nombre"),
				"ciudad": query.Col("s", "ciudad"),
			},
			DefaultSort:  "nombre",
			DefaultOrder: query.Asc,
			Search:       []string{"nombre", "ciudad"},
			Filters:      []Filter{eq("ciudad", query.KindString), eq("activa", query.KindBool)},
			Bools:        []string{"activa"},
		},
		{
			Name:   "clientes",
			Title:  "Clientes",
			Area:   "referencia",
			Table:  "clientes",
			Alias:  "c",
			Select: "c.id, c.nombre, c.documento, c.email, c.ciudad, c.activo, c.alta",
			Sorts: map[string]query.Column{
				"id":     query.Col("c", "id"),
				"nombre": query.Col("c", "nombre"),
				"ciudad": query.Col("c", "ciudad"),
				"alta":   query.Col("c", "alta"),
			},
			DefaultSort:  "nombre",
			DefaultOrder: query.Asc,
			Search:       []string{"nombre", "documento", "email"},
			Filters: []Filter{
				eq("ciudad", query.KindString),
				eq("activo", query.KindBool),
				{Param: "alta_desde", Column: "alta", Operator: query.Gte, Kind: query.KindDate},
				{Param: "alta_hasta", Column: "alta", Operator: query.Lte, Kind: query.KindDate},
			},
			Dates: []string{"alta"},
			Bools: []string{"activo"},
		},
		{
			Name:   "proveedores",
			Title:  "Proveedores",
			Area:   "referencia",
			Table:  "proveedores",
			Alias:  "p",
			Select: "p.id, p.nombre, p.documento, p.rubro, p.activo",
			Sorts: map[string]query.Column{
				"id":     query.Col("p", "id"),
				"nombre": query.Col("p", "nombre"),
				"rubro":  query.Col("p", "rubro"),
			},
			DefaultSort:  "nombre",
			DefaultOrder: query.Asc,
			Search:       []string{"nombre", "documento", "rubro"},
			Filters:      []Filter{eq("rubro", query.KindString), eq("activo", query.KindBool)},
			Bools:        []string{"activo"},
		},
		{
			Name:   "productos",
			Title:  "Productos",
			Area:   "referencia",
			Table:  "productos",
			Alias:  "pr",
			Select: "pr.id, pr.codigo, pr.nombre, pr.categoria, pr.precio, pr.activo",
			Sorts: map[string]query.Column{
				"id":        query.Col("pr", "id"),
				"codigo":    query.Col("pr", "codigo"),
				"nombre":    query.Col("pr", "nombre"),
				"categoria": query.Col("pr", "categoria"),
				"precio":    query.Col("pr", "precio"),
			},
			DefaultSort:  "codigo",
			DefaultOrder: query.Asc,
			Search:       []string{"codigo", "nombre"},
			Filters:      []Filter{eq("categoria", query.KindString), eq("activo", query.KindBool)},
			Numeric:      []string{"precio"},
			Bools:        []string{"activo"},
		},
	}
}
