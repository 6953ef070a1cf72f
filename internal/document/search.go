package document

import (
	"slices"
	"strings"
)

// Matches reports whether d satisfies every present criterion of r.
// Missing document fields never satisfy a criterion that needs them.
func (r SearchRequest) Matches(d Document) bool {
	return r.matchTitle(d) &&
		r.matchContent(d) &&
		r.matchAuthor(d) &&
		r.matchCreated(d)
}

// IsEmpty is true when no criterion is present.
func (r SearchRequest) IsEmpty() bool {
	return len(r.TitlePrefixes) == 0 &&
		len(r.ContainsContents) == 0 &&
		len(r.AuthorIDs) == 0 &&
		r.CreatedFrom == nil &&
		r.CreatedTo == nil
}

func (r SearchRequest) matchTitle(d Document) bool {
	if len(r.TitlePrefixes) == 0 {
		return true
	}
	if d.Title == "" {
		return false
	}
	return slices.ContainsFunc(r.TitlePrefixes, func(p string) bool {
		return strings.HasPrefix(d.Title, p)
	})
}

func (r SearchRequest) matchContent(d Document) bool {
	if len(r.ContainsContents) == 0 {
		return true
	}
	if d.Content == "" {
		return false
	}
	return slices.ContainsFunc(r.ContainsContents, func(s string) bool {
		return strings.Contains(d.Content, s)
	})
}

func (r SearchRequest) matchAuthor(d Document) bool {
	if len(r.AuthorIDs) == 0 {
		return true
	}
	if d.Author == nil {
		return false
	}
	return slices.Contains(r.AuthorIDs, d.Author.ID)
}

// matchCreated applies the inclusive [CreatedFrom, CreatedTo] range.
func (r SearchRequest) matchCreated(d Document) bool {
	if r.CreatedFrom == nil && r.CreatedTo == nil {
		return true
	}
	if d.Created == nil {
		return false
	}
	if r.CreatedFrom != nil && d.Created.Before(*r.CreatedFrom) {
		return false
	}
	if r.CreatedTo != nil && d.Created.After(*r.CreatedTo) {
		return false
	}
	return true
}
