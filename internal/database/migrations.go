package database

// migrations is an ordered list of SQL migration groups. Each entry is a slice
// of SQL statements that are executed together in a single transaction. The
// version number is the 1-based index into this slice. Statements must run
// unchanged on both SQLite and PostgreSQL.
var migrations = [][]string{
	// Migration 1: reference data
	{
		`CREATE TABLE sucursales (
			id INTEGER PRIMARY KEY,
			nombre TEXT NOT NULL,
			ciudad TEXT,
			activa BOOLEAN NOT NULL DEFAULT TRUE
		)`,

		`CREATE TABLE clientes (
			id INTEGER PRIMARY KEY,
			nombre TEXT NOT NULL,
			documento TEXT,
			email TEXT,
			ciudad TEXT,
			activo BOOLEAN NOT NULL DEFAULT TRUE,
			alta DATE
		)`,

		`CREATE TABLE proveedores (
			id INTEGER PRIMARY KEY,
			nombre TEXT NOT NULL,
			documento TEXT,
			rubro TEXT,
			activo BOOLEAN NOT NULL DEFAULT TRUE
		)`,

		`CREATE TABLE productos (
			id INTEGER PRIMARY KEY,
			codigo TEXT NOT NULL,
			nombre TEXT NOT NULL,
			categoria TEXT,
			precio NUMERIC(14,2) NOT NULL DEFAULT 0,
			activo BOOLEAN NOT NULL DEFAULT TRUE
		)`,

		`CREATE UNIQUE INDEX idx_productos_codigo ON productos(codigo)`,
	},

	// Migration 2: documents
	{
		`CREATE TABLE facturas (
			id INTEGER PRIMARY KEY,
			nro TEXT NOT NULL,
			fecha DATE NOT NULL,
			estado TEXT NOT NULL,
			sucursal_id INTEGER REFERENCES sucursales(id),
			cliente_id INTEGER REFERENCES clientes(id),
			total NUMERIC(14,2) NOT NULL DEFAULT 0,
			observaciones TEXT
		)`,

		`CREATE TABLE notas_credito (
			id INTEGER PRIMARY KEY,
			nro TEXT NOT NULL,
			fecha DATE NOT NULL,
			estado TEXT NOT NULL,
			motivo TEXT,
			sucursal_id INTEGER REFERENCES sucursales(id),
			cliente_id INTEGER REFERENCES clientes(id),
			factura_id INTEGER REFERENCES facturas(id),
			total NUMERIC(14,2) NOT NULL DEFAULT 0,
			observaciones TEXT
		)`,

		`CREATE TABLE ordenes_compra (
			id INTEGER PRIMARY KEY,
			nro TEXT NOT NULL,
			fecha DATE NOT NULL,
			estado TEXT NOT NULL,
			proveedor_id INTEGER REFERENCES proveedores(id),
			sucursal_id INTEGER REFERENCES sucursales(id),
			total NUMERIC(14,2) NOT NULL DEFAULT 0,
			fecha_entrega DATE,
			observaciones TEXT
		)`,

		`CREATE TABLE ordenes_servicio (
			id INTEGER PRIMARY KEY,
			nro TEXT NOT NULL,
			fecha DATE,
			estado TEXT NOT NULL,
			motivo TEXT,
			tecnico TEXT,
			sucursal_id INTEGER REFERENCES sucursales(id),
			cliente_id INTEGER REFERENCES clientes(id),
			costo NUMERIC(14,2),
			fecha_cierre DATE,
			observaciones TEXT
		)`,

		`CREATE INDEX idx_facturas_fecha ON facturas(fecha)`,
		`CREATE INDEX idx_facturas_estado ON facturas(estado)`,
		`CREATE INDEX idx_notas_credito_fecha ON notas_credito(fecha)`,
		`CREATE INDEX idx_ordenes_compra_fecha ON ordenes_compra(fecha)`,
		`CREATE INDEX idx_ordenes_servicio_fecha ON ordenes_servicio(fecha)`,
	},
}
