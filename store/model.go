package store

type Note struct {
	ID        int    `json:"id" yaml:"id"`
	Content   string `json:"content" yaml:"content"`
	Important bool   `json:"important" yaml:"important"`
}

// SeedNotes is the collection a fresh server starts with.
func SeedNotes() []Note {
	return []Note{
		{ID: 1, Content: "HTML is easy", Important: true},
		{ID: 2, Content: "Browser can execute only JavaScript", Important: false},
		{ID: 3, Content: "GET and POST are the most important methods of HTTP protocol", Important: true},
	}
}
