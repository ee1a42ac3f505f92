package schema

// RankThingTable represents the 'thing' table
type RankThingTable struct {
	Table       string
	ID          string
	Name        string
	NameKey     string
	ImageURL    string
	Description string
	Likes       string
	Dislikes    string
	Adult       string
	CreatedAt   string
}

// RankThing is the schema definition for thing
var RankThing = RankThingTable{
	Table:       "thing",
	ID:          "id",
	Name:        "name",
	NameKey:     "name_key",
	ImageURL:    "image_url",
	Description: "description",
	Likes:       "likes",
	Dislikes:    "dislikes",
	Adult:       "adult",
	CreatedAt:   "created_at",
}

func (t RankThingTable) Columns() []string {
	return []string{t.ID, t.Name, t.NameKey, t.ImageURL, t.Description, t.Likes, t.Dislikes, t.Adult, t.CreatedAt}
}
