package espn

import "encoding/json"

// Team is the subset of team metadata the site API returns that callers
// commonly need.
type Team struct {
	ID           string `json:"id"`
	UID          string `json:"uid"`
	Slug         string `json:"slug"`
	Abbreviation string `json:"abbreviation"`
	DisplayName  string `json:"displayName"`
	Location     string `json:"location"`
	Name         string `json:"name"`
	Color        string `json:"color"`
}

// TeamsResponse mirrors the nested sports/leagues/teams envelope of the
// /teams endpoint.
type TeamsResponse struct {
	Sports []struct {
		Leagues []struct {
			Teams []struct {
				Team Team `json:"team"`
			} `json:"teams"`
		} `json:"leagues"`
	} `json:"sports"`
}

// Teams flattens the envelope into a plain team list.
func (r *TeamsResponse) Teams() []Team {
	var teams []Team
	for _, s := range r.Sports {
		for _, l := range s.Leagues {
			for _, t := range l.Teams {
				teams = append(teams, t.Team)
			}
		}
	}
	return teams
}

// Event is one game on a scoreboard.
type Event struct {
	ID        string          `json:"id"`
	UID       string          `json:"uid"`
	Date      string          `json:"date"`
	Name      string          `json:"name"`
	ShortName string          `json:"shortName"`
	Status    json.RawMessage `json:"status"`
}

// Scoreboard is the /scoreboard response for one week.
type Scoreboard struct {
	Week struct {
		Number int `json:"number"`
	} `json:"week"`
	Season struct {
		Year int `json:"year"`
		Type int `json:"type"`
	} `json:"season"`
	Events []Event `json:"events"`
}

// Athlete is the player profile returned by the athletes endpoint.
type Athlete struct {
	ID          string `json:"id"`
	UID         string `json:"uid"`
	FullName    string `json:"fullName"`
	DisplayName string `json:"displayName"`
	Jersey      string `json:"jersey"`
	Position    struct {
		Abbreviation string `json:"abbreviation"`
		DisplayName  string `json:"displayName"`
	} `json:"position"`
	Team struct {
		ID string `json:"id"`
	} `json:"team"`
}

// athleteEnvelope is the wrapper the site API puts around a single player.
type athleteEnvelope struct {
	Athlete Athlete `json:"athlete"`
}

// GameSummary is the /summary response for one event. The box score and
// drive payloads vary by sport and game state, so they are surfaced raw.
type GameSummary struct {
	Header struct {
		ID     string `json:"id"`
		Season struct {
			Year int `json:"year"`
		} `json:"season"`
	} `json:"header"`
	BoxScore json.RawMessage `json:"boxscore"`
	Drives   json.RawMessage `json:"drives"`
}
