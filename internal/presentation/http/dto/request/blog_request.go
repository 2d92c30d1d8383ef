package request

// BlogFilterRequest narrows the blog listing
type BlogFilterRequest struct {
	Search   string `form:"search"`
	Tag      string `form:"tag"`
	Featured bool   `form:"featured"`
	Page     int    `form:"page"`
	PerPage  int    `form:"per_page"`
}
