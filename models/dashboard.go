package models

type DashboardSummary struct {
	TotalPlayers      int               `json:"total_players"`
	TotalMatches      int               `json:"total_matches"`
	TotalReservations int               `json:"total_reservations"`
	TopPlayers        []User            `json:"top_players"`
	TodayMatches      []Match           `json:"today_matches"`
	CourtStatuses     []CourtLiveStatus `json:"court_statuses"`
}
