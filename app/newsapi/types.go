package newsapi

// Source identifies the publisher of an article as reported by the provider.
type Source struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Article is the provider's raw wire shape. It is transient: records are
// normalized into database.Article before anything is persisted.
type Article struct {
	Source      Source `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

// HeadlinesResponse is the top-level response of the top-headlines endpoint.
type HeadlinesResponse struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
}

// Params holds the query parameters supported by the top-headlines endpoint.
// Zero-value fields are omitted from the request.
type Params struct {
	Country  string
	Category string
	Query    string
	PageSize int
	Page     int
}
