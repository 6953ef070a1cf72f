package document

import "time"

// Author identifies who wrote a document.
type Author struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
}

// Document is the record held by the store. Title and Content are treated as
// absent when empty; Author and Created are optional.
type Document struct {
	ID      string     `json:"id" bson:"_id"`
	Title   string     `json:"title" bson:"title"`
	Content string     `json:"content,omitempty" bson:"content,omitempty"`
	Author  *Author    `json:"author,omitempty" bson:"author,omitempty"`
	Created *time.Time `json:"created,omitempty" bson:"created,omitempty"`
}

// Clone returns a deep copy so callers never share the author or created
// pointers with a stored record.
func (d Document) Clone() Document {
	out := d
	if d.Author != nil {
		a := *d.Author
		out.Author = &a
	}
	if d.Created != nil {
		c := *d.Created
		out.Created = &c
	}
	return out
}

// SearchRequest holds independently optional criteria. A nil slice and an
// empty slice both mean "no constraint"; so does a nil time bound.
type SearchRequest struct {
	TitlePrefixes    []string   `json:"titlePrefixes,omitempty"`
	ContainsContents []string   `json:"containsContents,omitempty"`
	AuthorIDs        []string   `json:"authorIds,omitempty"`
	CreatedFrom      *time.Time `json:"createdFrom,omitempty"`
	CreatedTo        *time.Time `json:"createdTo,omitempty"`
}
