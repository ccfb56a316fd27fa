// Package festival defines the core domain types of the jury voting bot.
// It has no dependencies outside the standard library.
package festival

// JuryType selects the scoring flow a judge follows.
type JuryType string

const (
	JuryPopular   JuryType = "popular"
	JuryTechnical JuryType = "technical"
)

func (j JuryType) Valid() bool {
	return j == JuryPopular || j == JuryTechnical
}

// Role is what a presented credential admits the caller as.
type Role string

const (
	RolePopular   Role = "popular"
	RoleTechnical Role = "technical"
	RoleOwner     Role = "owner"
)

// Jury returns the jury a judge role joins. Owners have none.
func (r Role) Jury() (JuryType, bool) {
	switch r {
	case RolePopular:
		return JuryPopular, true
	case RoleTechnical:
		return JuryTechnical, true
	}
	return "", false
}

const (
	MinScore = 1.0
	MaxScore = 10.0

	// MaxOwners bounds the owner set.
	MaxOwners = 3
)

// Aspects are the technical scoring dimensions, in the order judges fill them.
var Aspects = []string{
	"Intonazione",
	"Interpretazione",
	"Tecnica Musicale/Strumentale",
	"Presenza Scenica",
}

const (
	CategoryYoungTalents = "Giovani Promesse"
	CategoryDream        = "Sogno nel cassetto"

	// DefaultCategory is used for artists that were stored without one.
	DefaultCategory = CategoryYoungTalents
)

// Categories lists the competition brackets in display order.
var Categories = []string{CategoryYoungTalents, CategoryDream}

func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Artist struct {
	Key      string `json:"key" yaml:"key"`
	Name     string `json:"name" yaml:"name"`
	Age      int    `json:"age" yaml:"age"`
	Song     string `json:"song" yaml:"song"`
	Photo    string `json:"photo,omitempty" yaml:"photo,omitempty"`
	Category string `json:"category" yaml:"category"`
}

// CategoryOrDefault returns the artist's bracket, falling back to DefaultCategory.
func (a Artist) CategoryOrDefault() string {
	if a.Category == "" {
		return DefaultCategory
	}
	return a.Category
}

// PopularVotes maps artist key -> judge id -> score.
type PopularVotes map[string]map[int64]float64

// TechnicalVotes maps artist key -> judge id -> aspect -> score.
type TechnicalVotes map[string]map[int64]map[string]float64

// Credentials hold the bcrypt hashes of the three shared secrets.
type Credentials struct {
	Popular   string `json:"popular"`
	Technical string `json:"technical"`
	Owner     string `json:"owner"`
}

// Limits are optional jury size ceilings. Nil means unlimited.
type Limits struct {
	Popular   *int `json:"popular,omitempty"`
	Technical *int `json:"technical,omitempty"`
}

// Document is the whole persisted state. Every save overwrites it.
type Document struct {
	Limits         Limits             `json:"limits"`
	HomePicture    string             `json:"homePicture,omitempty"`
	PopularVotes   PopularVotes       `json:"popularVotes"`
	TechnicalVotes TechnicalVotes     `json:"technicalVotes"`
	PopularJury    []int64            `json:"popularJury"`
	TechnicalJury  []int64            `json:"technicalJury"`
	JudgeTypes     map[int64]JuryType `json:"judgeTypes"`
	Credentials    Credentials        `json:"credentials"`
	Owners         []int64            `json:"owners"`
	Artists        []Artist           `json:"artists"`
	ActiveArtist   string             `json:"activeArtist,omitempty"`
}
