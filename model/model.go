package model

// Anthem is one hymn of the hymnal. Rows live in the anthems table.
type Anthem struct {
	ID    uint   `gorm:"column:idanthem;primaryKey" json:"id"`
	Title string `gorm:"column:title" json:"title"`
}

func (Anthem) TableName() string { return "anthems" }

// Verse is one stanza of an anthem. IsChorus marks the stanza that is
// repeated after every other one; an anthem has at most one.
type Verse struct {
	AnthemID uint   `gorm:"column:idanthem;primaryKey;autoIncrement:false" json:"anthemId"`
	Order    int    `gorm:"column:verseorder;primaryKey;autoIncrement:false" json:"order"`
	Text     string `gorm:"column:verse" json:"text"`
	IsChorus bool   `gorm:"column:ismainverse" json:"isChorus"`
}

func (Verse) TableName() string { return "verses" }

// Song is what the loader hands to the renderer: the title plus the verses
// already cleaned and split into body stanzas and chorus.
type Song struct {
	ID      uint     `json:"id"`
	Title   string   `json:"title"`
	Stanzas []string `json:"stanzas"`
	Chorus  string   `json:"chorus,omitempty"`
}

// HasChorus reports whether the song has a non-empty chorus.
func (s *Song) HasChorus() bool {
	return s.Chorus != ""
}

// Reorder returns the stanzas in slide order. See Reorder.
func (s *Song) Reorder() (slides []string, maxLines int) {
	return Reorder(s.Stanzas, s.Chorus)
}
