package inmemdb

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/studyhub/core/announcement"
	"github.com/trezcool/studyhub/core/chat"
	"github.com/trezcool/studyhub/core/resource"
	"github.com/trezcool/studyhub/core/user"
)

// SeedPassword is the password of every seeded user.
const SeedPassword = "password123"

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

var (
	seedUsers = []user.User{
		{
			ID: "1", Name: "John Student", Email: "student@example.com", Phone: "1234567890",
			Role: user.RoleStudent, RollNo: "CS2001", Branch: "Computer Science",
			IsActive: true, CreatedAt: ts("2023-01-15T10:30:00Z"),
		},
		{
			ID: "2", Name: "Jane Teacher", Email: "teacher@example.com", Phone: "0987654321",
			Role: user.RoleTeacher, Department: "Computer Science",
			IsActive: true, CreatedAt: ts("2023-01-10T08:30:00Z"),
		},
		{
			ID: "3", Name: "Admin User", Email: "admin@example.com", Phone: "5555555555",
			Role: user.RoleAdmin,
			IsActive: true, CreatedAt: ts("2023-01-01T00:00:00Z"),
		},
	}

	seedResources = map[resource.Category][]resource.Resource{
		resource.Notes: {
			{
				ID: "1", Title: "Data Structures and Algorithms",
				Description: "Comprehensive notes on arrays, linked lists, trees, and graphs",
				Branch:      "Computer Science", Year: "2", Semester: "1", Subject: "Data Structures",
				FileURL:      "https://example.com/dsa-notes.pdf",
				ThumbnailURL: "https://images.pexels.com/photos/1181671/pexels-photo-1181671.jpeg",
				UploadedBy:   "Jane Teacher", UploadDate: ts("2023-09-15T10:30:00Z"),
				Stats: resource.Stats{Likes: 45, Views: 120, Downloads: resource.Downloads(67), Bookmarks: 28},
			},
			{
				ID: "2", Title: "Database Management Systems",
				Description: "SQL queries, normalization, and transaction management",
				Branch:      "Computer Science", Year: "2", Semester: "2", Subject: "DBMS",
				FileURL:      "https://example.com/dbms-notes.pdf",
				ThumbnailURL: "https://images.pexels.com/photos/1181373/pexels-photo-1181373.jpeg",
				UploadedBy:   "John Professor", UploadDate: ts("2023-09-20T14:45:00Z"),
				Stats: resource.Stats{Likes: 38, Views: 95, Downloads: resource.Downloads(52), Bookmarks: 19},
			},
			{
				ID: "3", Title: "Computer Networks",
				Description: "OSI model, TCP/IP, and network security fundamentals",
				Branch:      "Computer Science", Year: "3", Semester: "1", Subject: "Networks",
				FileURL:      "https://example.com/networks-notes.pdf",
				ThumbnailURL: "https://images.pexels.com/photos/2881229/pexels-photo-2881229.jpeg",
				UploadedBy:   "Jane Teacher", UploadDate: ts("2023-09-25T09:15:00Z"),
				Stats: resource.Stats{Likes: 52, Views: 130, Downloads: resource.Downloads(78), Bookmarks: 35},
			},
		},
		resource.Syllabus: {
			{
				ID: "1", Title: "Computer Science Curriculum 2023-24",
				Description: "Complete syllabus for all CS courses for the academic year 2023-24",
				Branch:      "Computer Science", Year: resource.Any, Semester: resource.Any,
				FileURL:      "https://example.com/cs-syllabus.pdf",
				ThumbnailURL: "https://images.pexels.com/photos/1370296/pexels-photo-1370296.jpeg",
				UploadedBy:   "Admin", UploadDate: ts("2023-08-01T08:00:00Z"),
				Stats: resource.Stats{Likes: 120, Views: 450, Downloads: resource.Downloads(300), Bookmarks: 80},
			},
			{
				ID: "2", Title: "Electrical Engineering Syllabus",
				Description: "Electrical Engineering curriculum for 2023-24",
				Branch:      "Electrical Engineering", Year: resource.Any, Semester: resource.Any,
				FileURL:      "https://example.com/ee-syllabus.pdf",
				ThumbnailURL: "https://images.pexels.com/photos/159888/pexels-photo-159888.jpeg",
				UploadedBy:   "Admin", UploadDate: ts("2023-08-02T10:30:00Z"),
				Stats: resource.Stats{Likes: 85, Views: 320, Downloads: resource.Downloads(190), Bookmarks: 45},
			},
		},
		resource.Videos: {
			{
				ID: "1", Title: "Introduction to Machine Learning",
				Description: "Fundamentals of ML algorithms and applications",
				Branch:      "Computer Science", Year: "3", Semester: "2", Subject: "Machine Learning",
				VideoURL:     "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
				ThumbnailURL: "https://images.pexels.com/photos/2599244/pexels-photo-2599244.jpeg",
				Duration:     "45:30",
				UploadedBy:   "Dr. Sarah Johnson", UploadDate: ts("2023-09-10T15:20:00Z"),
				Stats: resource.Stats{Likes: 75, Views: 280, Bookmarks: 42},
			},
			{
				ID: "2", Title: "Quantum Computing Basics",
				Description: "Introduction to quantum bits and quantum gates",
				Branch:      "Computer Science", Year: "4", Semester: "1", Subject: "Quantum Computing",
				VideoURL:     "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
				ThumbnailURL: "https://images.pexels.com/photos/8294611/pexels-photo-8294611.jpeg",
				Duration:     "50:15",
				UploadedBy:   "Prof. Michael Chen", UploadDate: ts("2023-09-18T11:45:00Z"),
				Stats: resource.Stats{Likes: 60, Views: 180, Bookmarks: 38},
			},
		},
		resource.PYQs: {
			{
				ID: "1", Title: "Data Structures Final Exam 2022",
				Description: "Previous year questions for DS final exam",
				Branch:      "Computer Science", Year: "2", Semester: "1", Subject: "Data Structures",
				FileURL:      "https://example.com/ds-pyq-2022.pdf",
				ThumbnailURL: "https://images.pexels.com/photos/4145153/pexels-photo-4145153.jpeg",
				UploadedBy:   "Admin", UploadDate: ts("2023-07-20T09:00:00Z"),
				Stats: resource.Stats{Likes: 95, Views: 350, Downloads: resource.Downloads(230), Bookmarks: 65},
			},
			{
				ID: "2", Title: "Operating Systems Midterm 2023",
				Description: "Previous year questions for OS midterm",
				Branch:      "Computer Science", Year: "3", Semester: "1", Subject: "Operating Systems",
				FileURL:      "https://example.com/os-pyq-2023.pdf",
				ThumbnailURL: "https://images.pexels.com/photos/4145153/pexels-photo-4145153.jpeg",
				UploadedBy:   "Admin", UploadDate: ts("2023-08-15T14:30:00Z"),
				Stats: resource.Stats{Likes: 78, Views: 280, Downloads: resource.Downloads(190), Bookmarks: 50},
			},
		},
	}

	seedMessages = []chat.Message{
		{
			ID: "1", Content: "Hi everyone! Does anyone have notes for today's lecture?",
			Sender: "4", SenderName: "Alice Student", SenderRole: user.RoleStudent,
			ChatType: chat.StudentStudent, Timestamp: ts("2023-10-12T08:30:00Z"),
		},
		{
			ID: "2", Content: "Yes, I took detailed notes. I can share them after class.",
			Sender: "5", SenderName: "Bob Student", SenderRole: user.RoleStudent,
			ChatType: chat.StudentStudent, Timestamp: ts("2023-10-12T08:32:00Z"),
		},
		{
			ID: "3", Content: "That would be great! Thanks Bob!",
			Sender: "4", SenderName: "Alice Student", SenderRole: user.RoleStudent,
			ChatType: chat.StudentStudent, Timestamp: ts("2023-10-12T08:33:00Z"),
		},
		{
			ID: "4", Content: "Professor, I had a question about today's assignment deadline.",
			Sender: "4", SenderName: "Alice Student", SenderRole: user.RoleStudent,
			ChatType: chat.StudentTeacher, Timestamp: ts("2023-10-12T10:15:00Z"),
		},
		{
			ID: "5", Content: "Hi Alice, the deadline is Friday at 11:59 PM. Let me know if you need an extension.",
			Sender: "2", SenderName: "Jane Teacher", SenderRole: user.RoleTeacher,
			ChatType: chat.StudentTeacher, Timestamp: ts("2023-10-12T10:18:00Z"),
		},
		{
			ID: "6", Content: "Thank you! That works for me.",
			Sender: "4", SenderName: "Alice Student", SenderRole: user.RoleStudent,
			ChatType: chat.StudentTeacher, Timestamp: ts("2023-10-12T10:20:00Z"),
		},
	}

	seedAnnouncements = []announcement.Announcement{
		{
			ID: "1", Title: "End Semester Examination Schedule",
			Content:  "The end semester examinations will commence from December 1st, 2023. The detailed schedule has been uploaded to the portal.",
			Target:   []string{announcement.TargetAll},
			Priority: announcement.High, CreatedBy: "Admin User", CreatedAt: ts("2023-10-15T08:00:00Z"),
		},
		{
			ID: "2", Title: "Workshop on Machine Learning",
			Content:  "A workshop on Machine Learning basics will be conducted on October 25th, 2023. All interested students can register through the portal.",
			Target:   []string{"Computer Science"},
			Priority: announcement.Medium, CreatedBy: "Admin User", CreatedAt: ts("2023-10-14T10:30:00Z"),
		},
	}
)

// Seed loads the demo users, resources, chat messages and announcements.
func (db *DB) Seed() error {
	ctx := context.Background()

	usrRepo := NewUserRepository(db)
	for _, usr := range seedUsers {
		if err := usr.SetPassword(SeedPassword); err != nil {
			return errors.Wrap(err, "hashing seed password")
		}
		if _, err := usrRepo.CreateUser(ctx, usr); err != nil {
			return errors.Wrapf(err, "seeding user %s", usr.Email)
		}
	}

	resRepo := NewResourceRepository(db)
	for _, c := range resource.Categories {
		for _, r := range seedResources[c] {
			if _, err := resRepo.CreateResource(ctx, c, r); err != nil {
				return errors.Wrapf(err, "seeding %s %s", c, r.ID)
			}
		}
	}

	msgRepo := NewMessageRepository(db)
	for _, msg := range seedMessages {
		if _, err := msgRepo.CreateMessage(ctx, msg); err != nil {
			return errors.Wrapf(err, "seeding message %s", msg.ID)
		}
	}

	annRepo := NewAnnouncementRepository(db)
	for _, a := range seedAnnouncements {
		if _, err := annRepo.CreateAnnouncement(ctx, a); err != nil {
			return errors.Wrapf(err, "seeding announcement %s", a.ID)
		}
	}
	return nil
}
