package models

type Category struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Bookmark struct {
	ID         int    `json:"id" db:"id"`
	URL        string `json:"url" db:"url"`
	Title      string `json:"title" db:"title"`
	CategoryID *int   `json:"category_id" db:"category_id"`
	Favorite   bool   `json:"favorite" db:"favorite"`
}
