package jobs

import (
	"log"
	"time"

	"casedesk/config"
	"casedesk/models"
	"casedesk/services"

	"gorm.io/gorm"
)

// SweepDeadlines marks pending deadlines past their due date as overdue
// and sends reminder emails for deadlines whose reminder date has
// arrived. Runs on the server's hourly ticker.
func SweepDeadlines(database *gorm.DB, cfg *config.Config) {
	now := time.Now()

	// Pending past the due date becomes Overdue
	result := database.Model(&models.Deadline{}).
		Where("status = ? AND due_date < ?", models.DeadlineStatusPending, now).
		Update("status", models.DeadlineStatusOverdue)
	if result.Error != nil {
		log.Printf("Error marking overdue deadlines: %v", result.Error)
	} else if result.RowsAffected > 0 {
		log.Printf("Marked %d deadlines as overdue", result.RowsAffected)
	}

	// Reminders that have entered their window and not yet been sent
	var due []models.Deadline
	err := database.Preload("AssignedTo").Preload("Case").
		Where("status = ?", models.DeadlineStatusPending).
		Where("reminder_date IS NOT NULL AND reminder_date <= ?", now).
		Where("reminder_sent_at IS NULL").
		Find(&due).Error
	if err != nil {
		log.Printf("Error fetching deadlines for reminders: %v", err)
		return
	}

	for _, d := range due {
		if d.AssignedTo == nil || d.AssignedTo.Email == "" {
			continue
		}

		caseNumber := ""
		if d.Case != nil {
			caseNumber = d.Case.CaseNumber
		}

		email := services.BuildDeadlineReminderEmail(
			d.AssignedTo.Email,
			d.AssignedTo.Name,
			d.Title,
			caseNumber,
			d.DueDate.Format("Monday, January 2, 2006"),
		)
		if err := services.SendEmail(cfg, email); err != nil {
			log.Printf("Failed to send reminder for deadline %s: %v", d.ID, err)
			continue
		}

		sentAt := time.Now()
		database.Model(&d).Update("reminder_sent_at", sentAt)
	}
}
