// Package catalog holds the immutable content every screen is built from:
// wheel sectors, flashcard animals, moods and sentence challenges.
package catalog

import (
	"fmt"
	"slices"
)

// Sector is one labeled, colored wedge of the spinning wheel.
type Sector struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// Animal is one flashcard hidden in the memory box.
type Animal struct {
	Word       string `json:"word"`
	Emoji      string `json:"emoji"`
	Color      string `json:"color"`
	Motion     string `json:"motion"`
	Background string `json:"background"`
}

// Mood is one button of the mood poll.
type Mood struct {
	ID    string `json:"id"`
	Emoji string `json:"emoji"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Challenge is one image prompt of the sentence exercise.
type Challenge struct {
	ID                 int      `json:"id"`
	ImageRef           string   `json:"image_ref"`
	AcceptableSubjects []string `json:"acceptable_subjects"`
	Kind               string   `json:"kind"`
}

// Accepts reports whether subject is a valid pronoun for the pictured referent.
func (c Challenge) Accepts(subject string) bool {
	return slices.Contains(c.AcceptableSubjects, subject)
}

// SentenceOptions lists the words offered for each sentence slot.
type SentenceOptions struct {
	Subjects    []string `json:"subjects"`
	Verbs       []string `json:"verbs"`
	Descriptors []string `json:"descriptors"`
}

// Catalog bundles the content of all screens.
type Catalog struct {
	Sectors    []Sector        `json:"sectors"`
	Animals    []Animal        `json:"animals"`
	Moods      []Mood          `json:"moods"`
	Challenges []Challenge     `json:"challenges"`
	Options    SentenceOptions `json:"options"`
}

// Default returns the built-in classroom catalog.
func Default() Catalog {
	return Catalog{
		Sectors: []Sector{
			{ID: 1, Label: "Good Morning", Icon: "☀️", Color: "#FFD700"},
			{ID: 2, Label: "Good Afternoon", Icon: "🌤️", Color: "#FF8C00"},
			{ID: 3, Label: "Good Evening", Icon: "🌇", Color: "#483D8B"},
			{ID: 4, Label: "Good Night", Icon: "🌙", Color: "#191970"},
		},
		Animals: []Animal{
			{Word: "LION", Emoji: "🦁", Color: "text-orange-600", Motion: "roar", Background: "bg-orange-100"},
			{Word: "RABBIT", Emoji: "🐰", Color: "text-pink-400", Motion: "jump", Background: "bg-pink-100"},
			{Word: "SNAKE", Emoji: "🐍", Color: "text-green-600", Motion: "slither", Background: "bg-green-100"},
			{Word: "MONKEY", Emoji: "🐒", Color: "text-amber-800", Motion: "jump", Background: "bg-amber-100"},
			{Word: "PENGUIN", Emoji: "🐧", Color: "text-slate-700", Motion: "waddle", Background: "bg-slate-100"},
			{Word: "BIRD", Emoji: "🐦", Color: "text-blue-400", Motion: "fly", Background: "bg-blue-100"},
			{Word: "ELEPHANT", Emoji: "🐘", Color: "text-gray-500", Motion: "heavy", Background: "bg-gray-100"},
			{Word: "FROG", Emoji: "🐸", Color: "text-lime-500", Motion: "jump", Background: "bg-lime-100"},
		},
		Moods: []Mood{
			{ID: "happy", Emoji: "😊", Label: "Happy", Color: "bg-yellow-400"},
			{ID: "sad", Emoji: "😢", Label: "Sad", Color: "bg-blue-400"},
			{ID: "angry", Emoji: "😡", Label: "Angry", Color: "bg-red-500"},
			{ID: "sleepy", Emoji: "😴", Label: "Sleepy", Color: "bg-purple-500"},
		},
		Challenges: []Challenge{
			{ID: 1, ImageRef: "https://cdn-icons-png.flaticon.com/512/616/616412.png", AcceptableSubjects: []string{"It", "He"}, Kind: "animal"},
			{ID: 2, ImageRef: "https://cdn-icons-png.flaticon.com/512/3048/3048122.png", AcceptableSubjects: []string{"He"}, Kind: "boy"},
			{ID: 3, ImageRef: "https://cdn-icons-png.flaticon.com/512/1998/1998614.png", AcceptableSubjects: []string{"It"}, Kind: "snake"},
			{ID: 4, ImageRef: "https://cdn-icons-png.flaticon.com/512/4333/4333609.png", AcceptableSubjects: []string{"I"}, Kind: "kid"},
			{ID: 5, ImageRef: "https://cdn-icons-png.flaticon.com/512/2314/2314660.png", AcceptableSubjects: []string{"They"}, Kind: "girl"},
		},
		Options: SentenceOptions{
			Subjects:    []string{"I", "He", "She", "It", "They", "We"},
			Verbs:       []string{"am", "is", "are"},
			Descriptors: []string{"Happy", "Sad", "Hungry", "Sleepy", "Strong", "Big", "Green", "Sick"},
		},
	}
}

// Validate checks the catalog is usable by every screen.
func (c Catalog) Validate() error {
	if len(c.Sectors) == 0 {
		return fmt.Errorf("%w: no sectors", ErrEmptyCatalog)
	}
	if len(c.Animals) == 0 {
		return fmt.Errorf("%w: no animals", ErrEmptyCatalog)
	}
	if len(c.Moods) == 0 {
		return fmt.Errorf("%w: no moods", ErrEmptyCatalog)
	}
	if len(c.Challenges) == 0 {
		return fmt.Errorf("%w: no challenges", ErrEmptyCatalog)
	}
	if len(c.Options.Subjects) == 0 || len(c.Options.Verbs) == 0 || len(c.Options.Descriptors) == 0 {
		return fmt.Errorf("%w: sentence options", ErrEmptyCatalog)
	}

	labels := make(map[string]struct{}, len(c.Sectors))
	for _, s := range c.Sectors {
		if _, dup := labels[s.Label]; dup {
			return fmt.Errorf("%w: sector label %q", ErrDuplicateEntry, s.Label)
		}
		labels[s.Label] = struct{}{}
	}
	ids := make(map[int]struct{}, len(c.Challenges))
	for _, ch := range c.Challenges {
		if _, dup := ids[ch.ID]; dup {
			return fmt.Errorf("%w: challenge id %d", ErrDuplicateEntry, ch.ID)
		}
		ids[ch.ID] = struct{}{}
	}
	moods := make(map[string]struct{}, len(c.Moods))
	for _, m := range c.Moods {
		if _, dup := moods[m.ID]; dup {
			return fmt.Errorf("%w: mood %q", ErrDuplicateEntry, m.ID)
		}
		moods[m.ID] = struct{}{}
	}
	return nil
}

// Challenge looks up a challenge by id.
func (c Catalog) Challenge(id int) (Challenge, bool) {
	for _, ch := range c.Challenges {
		if ch.ID == id {
			return ch, true
		}
	}
	return Challenge{}, false
}

// Mood looks up a mood by id.
func (c Catalog) Mood(id string) (Mood, bool) {
	for _, m := range c.Moods {
		if m.ID == id {
			return m, true
		}
	}
	return Mood{}, false
}

// HasSector reports whether label names a sector.
func (c Catalog) HasSector(label string) bool {
	return slices.ContainsFunc(c.Sectors, func(s Sector) bool { return s.Label == label })
}
