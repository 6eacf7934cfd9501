package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/campus-events/model"
	"github.com/sahilchouksey/campus-events/utils/auth"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// demoPassword is shared by every seeded non-admin account
const demoPassword = "campus-demo-2024"

// Seeder handles database seeding operations
type Seeder struct {
	db            *gorm.DB
	adminEmail    string
	adminPassword string
	now           func() time.Time
}

// NewSeeder creates a new seeder instance. The admin account is only
// created when both credentials are set.
func NewSeeder(db *gorm.DB, adminEmail, adminPassword string) *Seeder {
	return &Seeder{
		db:            db,
		adminEmail:    strings.ToLower(strings.TrimSpace(adminEmail)),
		adminPassword: adminPassword,
		now:           time.Now,
	}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Info("🌱 Starting database seeding...")

	// Run seeds in order (respecting foreign key constraints)
	if err := s.SeedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := s.SeedDemoUsers(); err != nil {
		return fmt.Errorf("failed to seed demo users: %w", err)
	}

	if err := s.SeedDemoEvents(); err != nil {
		return fmt.Errorf("failed to seed demo events: %w", err)
	}

	log.Info("✅ Database seeding completed successfully!")
	return nil
}

// SeedAdminUser creates the default admin user
func (s *Seeder) SeedAdminUser() error {
	// Check if admin already exists
	var count int64
	if err := s.db.Model(&model.UserProfile{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Info("⏭️  Admin user already exists, skipping...")
		return nil
	}

	if s.adminEmail == "" || s.adminPassword == "" {
		log.Warn("ADMIN_EMAIL and ADMIN_PASSWORD are not set, skipping admin user creation")
		return nil
	}

	passwordHash, err := auth.HashPassword(s.adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &model.UserProfile{
		FirstName:    "System",
		LastName:     "Administrator",
		Email:        s.adminEmail,
		Department:   model.DepartmentAdministration,
		Designation:  "Administrator",
		Role:         model.RoleAdmin,
		PasswordHash: passwordHash,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Infof("✅ Created admin user: %s", admin.Email)
	return nil
}

// SeedDemoUsers creates one teacher, two students and a parent
func (s *Seeder) SeedDemoUsers() error {
	var count int64
	if err := s.db.Model(&model.UserProfile{}).Where("role <> ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Info("⏭️  Demo users already exist, skipping...")
		return nil
	}

	passwordHash, err := auth.HashPassword(demoPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	users := []model.UserProfile{
		{FirstName: "Meera", LastName: "Iyer", Email: "meera.iyer@campus.test", Department: model.DepartmentComputerScience, Designation: "Assistant Professor", Role: model.RoleTeacher},
		{FirstName: "Arjun", LastName: "Rao", Email: "arjun.rao@campus.test", Department: model.DepartmentComputerScience, Designation: "Student", Role: model.RoleStudent},
		{FirstName: "Kavya", LastName: "Menon", Email: "kavya.menon@campus.test", Department: model.DepartmentArts, Designation: "Student", Role: model.RoleStudent},
		{FirstName: "Ravi", LastName: "Rao", Email: "ravi.rao@campus.test", Role: model.RoleParent},
	}
	for i := range users {
		users[i].PasswordHash = passwordHash
	}

	if err := s.db.Create(&users).Error; err != nil {
		return err
	}

	log.Infof("✅ Created %d demo users (password: %s)", len(users), demoPassword)
	return nil
}

// SeedDemoEvents creates an approved and a pending event proposed by the demo teacher
func (s *Seeder) SeedDemoEvents() error {
	var count int64
	if err := s.db.Model(&model.Event{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Info("⏭️  Events already exist, skipping...")
		return nil
	}

	var teacher model.UserProfile
	if err := s.db.Where("role = ?", model.RoleTeacher).Order("id ASC").First(&teacher).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			log.Warn("No teacher found, skipping demo events")
			return nil
		}
		return err
	}

	today := s.now()
	day := func(offset int) datatypes.Date {
		d := today.AddDate(0, 0, offset)
		return datatypes.Date(time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location()))
	}
	events := []model.Event{
		{
			Title:             "Intro to Go Workshop",
			Description:       "Hands-on session on building HTTP services in Go.",
			EventType:         model.EventTypeWorkshop,
			Department:        model.DepartmentComputerScience,
			Date:              day(7),
			StartTime:         datatypes.NewTime(10, 0, 0, 0),
			EndTime:           datatypes.NewTime(13, 0, 0, 0),
			Venue:             "Lab 3",
			StaffCoordinators: datatypes.NewJSONSlice([]string{"Meera Iyer"}),
			EquipmentRequired: datatypes.NewJSONSlice([]string{"Projector", "Laptops"}),
			Status:            model.EventStatusApproved,
			CreatedByID:       teacher.ID,
		},
		{
			Title:             "Annual Cultural Fest",
			Description:       "Music, dance and drama across departments.",
			EventType:         model.EventTypeCulturalFest,
			Department:        model.DepartmentArts,
			Date:              day(21),
			Venue:             "Main Auditorium",
			StaffCoordinators: datatypes.NewJSONSlice([]string{"Meera Iyer"}),
			EquipmentRequired: datatypes.NewJSONSlice([]string{"Sound system"}),
			Status:            model.EventStatusPending,
			CreatedByID:       teacher.ID,
		},
	}

	if err := s.db.Create(&events).Error; err != nil {
		return err
	}

	log.Infof("✅ Created %d demo events", len(events))
	return nil
}

// RunSeeds is a convenience function to run all seeds
func RunSeeds(db *gorm.DB, adminEmail, adminPassword string) error {
	return NewSeeder(db, adminEmail, adminPassword).SeedAll()
}
