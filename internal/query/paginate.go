package query

// DefaultMaxLimit caps page sizes when a Paginator has no explicit maximum.
const DefaultMaxLimit = 500

// MaxOffset bounds the row offset; pages beyond it are clamped to the last
// page that still starts at or before MaxOffset.
const MaxOffset = 10_000_000

// Page is a resolved pagination window.
type Page struct {
	Page   int
	Limit  int
	Offset int
}

// Paginator clamps page/limit input.
type Paginator struct {
	DefaultLimit int
	MaxLimit     int
}

// Paginate clamps page and limit to at least 1, caps limit at MaxLimit and
// derives the offset. A zero limit is clamped to 1, not replaced by the
// default; use Limit for optional input.
func (p Paginator) Paginate(page, limit int) Page {
	maxLimit := p.MaxLimit
	if maxLimit <= 0 {
		maxLimit = DefaultMaxLimit
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if last := MaxOffset/limit + 1; page > last {
		page = last
	}
	return Page{Page: page, Limit: limit, Offset: (page - 1) * limit}
}

// Limit parses an optional limit parameter, using DefaultLimit when absent.
func (p Paginator) Limit(raw string) (int, error) {
	def := p.DefaultLimit
	if def <= 0 {
		def = 20
	}
	return Int("limit", raw, def)
}

// TotalPages is ceil(total/limit), 0 for an empty result.
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
