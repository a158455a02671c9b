package domain

// SortOrder is the creation-date ordering of a post listing.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// Valid reports whether o is asc or desc.
func (o SortOrder) Valid() bool {
	return o == OrderAsc || o == OrderDesc
}

// PageMeta describes where a page sits within the full result set.
type PageMeta struct {
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	LastPage int       `json:"lastPage"`
	Limit    int       `json:"limit"`
	Order    SortOrder `json:"order"`
}

// PostPage is one page of posts plus its metadata.
type PostPage struct {
	Data []Post   `json:"data"`
	Meta PageMeta `json:"meta"`
}

// LastPage returns ceil(total/limit), or 0 when limit is not positive.
func LastPage(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
