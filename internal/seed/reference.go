package seed

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/johnwards/backoffice/internal/query"
)

type sucursalDef struct {
	id     int64
	nombre string
	ciudad string
	activa bool
}

var sucursales = []sucursalDef{
	{1, "Casa Central", "Córdoba", true},
	{2, "Sucursal Norte", "Córdoba", true},
	{3, "Sucursal Rosario", "Rosario", true},
	{4, "Depósito Sur", "Río Cuarto", false},
}

type clienteDef struct {
	id        int64
	nombre    string
	documento string
	ciudad    string
	activo    bool
}

var clientes = []clienteDef{
	{1, "Agropecuaria Los Álamos SA", "30-71234567-1", "Córdoba", true},
	{2, "Ferretería San Martín", "20-28765432-5", "Córdoba", true},
	{3, "Constructora Del Valle SRL", "30-70987654-3", "Rosario", true},
	{4, "María Fernández", "27-31456789-2", "Villa María", true},
	{5, "Transportes Mediterráneo", "30-69876543-8", "Córdoba", true},
	{6, "Hotel Sierras", "30-71555444-9", "Carlos Paz", true},
	{7, "Juan Pérez", "20-25111222-7", "Río Cuarto", false},
	{8, "Estudio Contable Ruiz", "20-30333444-1", "Rosario", true},
	{9, "Supermercados Unión", "30-70111222-4", "San Francisco", true},
	{10, "Clínica del Sol", "30-68999888-6", "Córdoba", true},
	{11, "Lucía Gómez", "27-35777666-0", "Rosario", true},
	{12, "Metalúrgica Centro", "30-71888777-2", "Córdoba", true},
}

type proveedorDef struct {
	id        int64
	nombre    string
	documento string
	rubro     string
	activo    bool
}

var proveedores = []proveedorDef{
	{1, "Distribuidora Andina", "30-70555111-3", "insumos", true},
	{2, "Electro Componentes SA", "30-71222333-5", "repuestos", true},
	{3, "Logística Express", "30-69444555-7", "fletes", true},
	{4, "Papelera del Litoral", "30-70666777-9", "librería", true},
	{5, "Importadora Pacífico", "30-71000999-1", "repuestos", false},
	{6, "Servicios Técnicos Integrales", "30-68777888-4", "servicios", true},
}

type productoDef struct {
	id        int64
	codigo    string
	nombre    string
	categoria string
	precio    string
	activo    bool
}

var productos = []productoDef{
	{1, "BOM-001", "Bomba centrífuga 1HP", "bombas", "185000.00", true},
	{2, "BOM-002", "Bomba sumergible 2HP", "bombas", "342500.50", true},
	{3, "MOT-010", "Motor trifásico 3HP", "motores", "410000.00", true},
	{4, "MOT-011", "Motor monofásico 1HP", "motores", "158900.99", true},
	{5, "TAB-100", "Tablero de comando", "tableros", "96000.00", true},
	{6, "CAB-220", "Cable tipo taller 3x2.5 (rollo)", "cables", "54300.00", true},
	{7, "VAL-050", "Válvula esférica 2\"", "valvulería", "23750.25", true},
	{8, "FIL-007", "Filtro de arena", "filtros", "128000.00", false},
	{9, "SEN-300", "Sensor de nivel", "sensores", "41200.00", true},
	{10, "REP-900", "Kit de sellos mecánicos", "repuestos", "18999.90", true},
}

// reference inserts branches, customers, suppliers and products.
func reference(w *writer) error {
	for _, s := range sucursales {
		if err := w.insert("sucursales", []string{"id", "nombre", "ciudad", "activa"},
			s.id, s.nombre, s.ciudad, s.activa); err != nil {
			return err
		}
	}

	for i, c := range clientes {
		alta := query.NewDate(2022, time.Month(1+i%12), 1+i*2)
		if err := w.insert("clientes", []string{"id", "nombre", "documento", "email", "ciudad", "activo", "alta"},
			c.id, c.nombre, c.documento, email(c.nombre), c.ciudad, c.activo, alta); err != nil {
			return err
		}
	}

	for _, p := range proveedores {
		if err := w.insert("proveedores", []string{"id", "nombre", "documento", "rubro", "activo"},
			p.id, p.nombre, p.documento, p.rubro, p.activo); err != nil {
			return err
		}
	}

	for _, p := range productos {
		if err := w.insert("productos", []string{"id", "codigo", "nombre", "categoria", "precio", "activo"},
			p.id, p.codigo, p.nombre, p.categoria, decimal.RequireFromString(p.precio), p.activo); err != nil {
			return err
		}
	}

	return nil
}

func email(nombre string) string {
	var b []rune
	for _, r := range nombre {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b = append(b, r)
		case r >= 'A' && r <= 'Z':
			b = append(b, r+('a'-'A'))
		case r == ' ' && len(b) > 0 && b[len(b)-1] != '.':
			b = append(b, '.')
		}
	}
	return string(b) + "@example.com"
}
