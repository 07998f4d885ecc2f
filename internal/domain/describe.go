package domain

// Descriptor is the public description of an entity's query vocabulary.
type Descriptor struct {
	Name        string            `json:"nombre"`
	Title       string            `json:"titulo"`
	Area        string            `json:"area"`
	SortKeys    []string          `json:"orden"`
	DefaultSort string            `json:"orden_defecto"`
	DefaultDir  string            `json:"direccion_defecto"`
	Search      bool              `json:"busqueda"`
	Filters     []FilterDesc      `json:"filtros"`
	Report      *ReportDescriptor `json:"informe,omitempty"`
}

// FilterDesc describes one filter parameter.
type FilterDesc struct {
	Param    string `json:"parametro"`
	Kind     string `json:"tipo"`
	Operator string `json:"operador"`
}

// ReportDescriptor describes the informe of an entity.
type ReportDescriptor struct {
	Dimensions []string `json:"dimensiones"`
	Measure    string   `json:"medida"`
	HasAmount  bool     `json:"con_monto"`
}

// Describe returns the entity's descriptor.
func (e *Entity) Describe() Descriptor {
	d := Descriptor{
		Name:        e.Name,
		Title:       e.Title,
		Area:        e.Area,
		SortKeys:    e.SortKeys(),
		DefaultSort: e.DefaultSort,
		DefaultDir:  string(e.DefaultOrder),
		Search:      len(e.Search) > 0,
		Filters:     make([]FilterDesc, len(e.Filters)),
	}
	for i, f := range e.Filters {
		d.Filters[i] = FilterDesc{Param: f.Param, Kind: string(f.Kind), Operator: string(f.Operator)}
	}
	if r := e.Report; r != nil {
		rd := &ReportDescriptor{Measure: string(r.Measure), HasAmount: r.Amount != ""}
		for _, dim := range r.Dimensions {
			rd.Dimensions = append(rd.Dimensions, dim.Key)
		}
		d.Report = rd
	}
	return d
}

// Describe returns descriptors for every entity in the catalog.
func (c *Catalog) Describe() []Descriptor {
	out := make([]Descriptor, len(c.entities))
	for i, e := range c.entities {
		out[i] = e.Describe()
	}
	return out
}
