package models

type Team struct {
	ID           string   `json:"id" db:"id"`
	Name         string   `json:"name" db:"name"`
	ShortName    string   `json:"short_name" db:"short_name"`
	PrimaryColor string   `json:"primary_color" db:"primary_color"`
	Captain      string   `json:"captain,omitempty" db:"captain"`
	Players      []string `json:"players,omitempty" db:"players"`

	// NRR is a display copy of the team's standings row, kept equal to TeamStats.NRR.
	NRR float64 `json:"nrr" db:"nrr"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}
