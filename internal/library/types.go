package library

// Game is one entry of the GetOwnedGames response.
type Game struct {
	AppID                    int    `json:"appid"`
	Name                     string `json:"name"`
	PlaytimeForever          int    `json:"playtime_forever"`
	Playtime2Weeks           int    `json:"playtime_2weeks,omitempty"`
	ImgIconURL               string `json:"img_icon_url,omitempty"`
	HasCommunityVisibleStats bool   `json:"has_community_visible_stats,omitempty"`
	RtimeLastPlayed          int64  `json:"rtime_last_played,omitempty"`
}

type ownedGamesResponse struct {
	Response *ownedGames `json:"response"`
}

type ownedGames struct {
	GameCount int    `json:"game_count"`
	Games     []Game `json:"games"`
}
