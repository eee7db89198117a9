package database

import (
	"fmt"
	"log"
	"time"

	"api/models"
	"api/utils"

	"gorm.io/gorm"
)

// SeedDemoData wipes the database and loads a demo data set: a few accounts,
// an ended competition with scored submissions, a running and an upcoming
// competition, and one exhibition. The caller is expected to run the
// lifecycle engine afterwards so the ended competition carries winners.
func SeedDemoData() error {
	for _, model := range []interface{}{
		&models.Submission{}, &models.Competition{}, &models.Exhibition{}, &models.User{},
	} {
		if err := DB.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("failed to wipe table: %w", err)
		}
	}

	hashed, err := utils.HashPassword("123456")
	if err != nil {
		return err
	}

	users := []models.User{
		{Email: "admin01@mail.com", Password: hashed, Role: models.RoleAdmin},
		{Email: "staff01@mail.com", Password: hashed, Role: models.RoleStaff},
		{Email: "student01@mail.com", Password: hashed, Role: models.RoleStudent},
		{Email: "student02@mail.com", Password: hashed, Role: models.RoleStudent},
		{Email: "student03@mail.com", Password: hashed, Role: models.RoleStudent},
	}
	if err := DB.Create(&users).Error; err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	now := time.Now()
	ended := models.Competition{
		Name:        "Spring Art Challenge",
		Description: "Seasonal painting contest",
		Start:       now.AddDate(0, 0, -30),
		End:         now.AddDate(0, 0, -2),
		Background:  "/images/competitions/demo-spring.jpg",
		Awards:      "Gold, Silver, Bronze",
	}
	running := models.Competition{
		Name:        "Summer Photography Open",
		Description: "Open photography contest",
		Start:       now.AddDate(0, 0, -5),
		End:         now.AddDate(0, 0, 10),
		Background:  "/images/competitions/demo-summer.jpg",
		Awards:      "Grand prize",
	}
	upcoming := models.Competition{
		Name:        "Autumn Sculpture Prize",
		Description: "Sculpture showcase and prize",
		Start:       now.AddDate(0, 0, 14),
		End:         now.AddDate(0, 0, 44),
		Background:  "/images/competitions/demo-autumn.jpg",
		Awards:      "Jury prize",
	}
	for _, c := range []*models.Competition{&ended, &running, &upcoming} {
		if err := DB.Create(c).Error; err != nil {
			return fmt.Errorf("failed to seed competition: %w", err)
		}
	}

	scorer := "staff01@mail.com"
	scoredAt := now.AddDate(0, 0, -3)
	submissions := []models.Submission{
		{CompetitionID: ended.ID, Author: "student01@mail.com", Image: "/images/submissions/demo-01.jpg", Score: 8, ScoredBy: &scorer, ScoredAt: &scoredAt},
		{CompetitionID: ended.ID, Author: "student02@mail.com", Image: "/images/submissions/demo-02.jpg", Score: 8, ScoredBy: &scorer, ScoredAt: &scoredAt},
		{CompetitionID: ended.ID, Author: "student03@mail.com", Image: "/images/submissions/demo-03.jpg", Score: 5, ScoredBy: &scorer, ScoredAt: &scoredAt},
		{CompetitionID: running.ID, Author: "student01@mail.com", Image: "/images/submissions/demo-04.jpg"},
	}
	if err := DB.Create(&submissions).Error; err != nil {
		return fmt.Errorf("failed to seed submissions: %w", err)
	}
	if err := DB.Model(&ended).Update("total_submissions", 3).Error; err != nil {
		return err
	}
	if err := DB.Model(&running).Update("total_submissions", 1).Error; err != nil {
		return err
	}

	exhibition := models.Exhibition{
		Name:        "Young Artists Exhibition",
		Description: "Selected works from past competitions",
		Location:    "Main Gallery Hall",
		Background:  "/images/exhibitions/demo-hall.jpg",
		Start:       now.AddDate(0, 0, -1),
		End:         now.AddDate(0, 0, 30),
		Artwork: []models.Artwork{
			{Image: submissions[0].Image, Author: submissions[0].Author, SubmissionID: submissions[0].ID},
			{Image: submissions[1].Image, Author: submissions[1].Author, SubmissionID: submissions[1].ID},
		},
		TotalSubmissions: 2,
	}
	if err := DB.Create(&exhibition).Error; err != nil {
		return fmt.Errorf("failed to seed exhibition: %w", err)
	}

	log.Println("Demo data seeded")
	return nil
}
