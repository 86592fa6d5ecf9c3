package domain

// AdminStats represents platform-wide statistics for the admin dashboard
type AdminStats struct {
	TotalUsers           int64                       `json:"total_users"`
	TotalCompetitions    int64                       `json:"total_competitions"`
	CompetitionsByStatus map[CompetitionStatus]int64 `json:"competitions_by_status"`
	TotalAttempts        int64                       `json:"total_attempts"`
	AttemptsByCompetition []CompetitionAggregate     `json:"attempts_by_competition"`
}
