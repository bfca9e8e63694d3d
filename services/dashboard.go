package services

import (
	"fmt"
	"sync"
	"time"

	"casedesk/models"

	"gorm.io/gorm"
)

const (
	// UpcomingDeadlineWindow is how far ahead the dashboard looks for deadlines
	UpcomingDeadlineWindow = 7 * 24 * time.Hour
	// RecentCasesLimit caps the dashboard's recent-cases list
	RecentCasesLimit = 5
	// UnknownClientName is rendered when a case's client has no usable name
	UnknownClientName = "Unknown Client"
)

// DashboardStats holds the firm's aggregate counts and recent cases
type DashboardStats struct {
	TotalCases        int64        `json:"total_cases"`
	ActiveCases       int64        `json:"active_cases"`
	UpcomingDeadlines int64        `json:"upcoming_deadlines"`
	TotalParties      int64        `json:"total_parties"`
	TotalDocuments    int64        `json:"total_documents"`
	RecentCases       []RecentCase `json:"recent_cases"`
}

// RecentCase is a dashboard row: a case with its client name resolved
type RecentCase struct {
	ID         string    `json:"id"`
	CaseNumber string    `json:"case_number"`
	Title      string    `json:"title"`
	CaseType   string    `json:"case_type"`
	Status     string    `json:"status"`
	ClientName string    `json:"client_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// GetDashboardStats computes the firm's dashboard: five exact counts and
// the five most recent cases with resolved client display names. The
// counts are independent queries run concurrently and joined before
// returning.
func GetDashboardStats(db *gorm.DB, firmID string) (*DashboardStats, error) {
	stats := &DashboardStats{}
	now := time.Now()

	counts := []struct {
		dest  *int64
		query func(tx *gorm.DB) *gorm.DB
	}{
		{&stats.TotalCases, func(tx *gorm.DB) *gorm.DB {
			return tx.Model(&models.Case{}).Where("firm_id = ?", firmID)
		}},
		{&stats.ActiveCases, func(tx *gorm.DB) *gorm.DB {
			return tx.Model(&models.Case{}).Where("firm_id = ? AND status = ?", firmID, models.CaseStatusActive)
		}},
		{&stats.UpcomingDeadlines, func(tx *gorm.DB) *gorm.DB {
			// Window is inclusive of the lower bound: due now counts
			return tx.Model(&models.Deadline{}).
				Where("firm_id = ? AND due_date >= ? AND due_date <= ?", firmID, now, now.Add(UpcomingDeadlineWindow))
		}},
		{&stats.TotalParties, func(tx *gorm.DB) *gorm.DB {
			return tx.Model(&models.Party{}).Where("firm_id = ?", firmID)
		}},
		{&stats.TotalDocuments, func(tx *gorm.DB) *gorm.DB {
			return tx.Model(&models.Document{}).Where("firm_id = ? AND is_template = ?", firmID, false)
		}},
	}

	var wg sync.WaitGroup
	errs := make([]error, len(counts))
	for i, count := range counts {
		wg.Add(1)
		go func(i int, dest *int64, build func(tx *gorm.DB) *gorm.DB) {
			defer wg.Done()
			errs[i] = build(db.Session(&gorm.Session{NewDB: true})).Count(dest).Error
		}(i, count.dest, count.query)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("failed to compute dashboard counts: %w", err)
		}
	}

	recent, err := getRecentCases(db, firmID)
	if err != nil {
		return nil, err
	}
	stats.RecentCases = recent

	return stats, nil
}

// getRecentCases fetches the newest cases and resolves their client
// names with a concurrent fan-out joined in input order.
func getRecentCases(db *gorm.DB, firmID string) ([]RecentCase, error) {
	var cases []models.Case
	if err := db.Where("firm_id = ?", firmID).
		Order("created_at DESC").
		Limit(RecentCasesLimit).
		Find(&cases).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch recent cases: %w", err)
	}

	recent := make([]RecentCase, len(cases))
	var wg sync.WaitGroup
	for i := range cases {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := cases[i]
			clientName := UnknownClientName
			var client models.Party
			if err := db.Session(&gorm.Session{NewDB: true}).
				Where("firm_id = ?", firmID).
				First(&client, "id = ?", c.ClientID).Error; err == nil {
				clientName = client.DisplayNameOr(UnknownClientName)
			}
			recent[i] = RecentCase{
				ID:         c.ID,
				CaseNumber: c.CaseNumber,
				Title:      c.Title,
				CaseType:   c.CaseType,
				Status:     c.Status,
				ClientName: clientName,
				CreatedAt:  c.CreatedAt,
			}
		}(i)
	}
	wg.Wait()

	return recent, nil
}
