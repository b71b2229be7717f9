package board

import "time"

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// SampleTasks returns the seed cards of a new task board.
func SampleTasks() []Card[Task] {
	return []Card[Task]{
		{
			Title:       "Design user authentication",
			Description: "Login, registration and password reset",
			Status:      StatusDone,
			Priority:    PriorityHigh,
			DueDate:     day(2024, time.January, 15),
			Details:     Task{Assignee: "Alice", Tags: []string{"auth", "security"}},
		},
		{
			Title:       "Resume upload",
			Description: "Accept PDF and DOC resumes",
			Status:      StatusDone,
			Priority:    PriorityMedium,
			DueDate:     day(2024, time.January, 20),
			Details:     Task{Assignee: "Bob", Tags: []string{"upload", "resume"}},
		},
		{
			Title:       "Kanban board UI",
			Description: "Drag and drop task board",
			Status:      StatusInProgress,
			Priority:    PriorityHigh,
			DueDate:     day(2024, time.January, 25),
			Details:     Task{Assignee: "Carol", Tags: []string{"kanban", "ui"}},
		},
		{
			Title:       "Resume analysis",
			Description: "Score resumes against job descriptions",
			Status:      StatusReview,
			Priority:    PriorityUrgent,
			DueDate:     day(2024, time.January, 30),
			Details:     Task{Assignee: "Dave", Tags: []string{"ai", "analysis"}},
		},
		{
			Title:       "Database tuning",
			Description: "Indexes and query optimisation",
			Status:      StatusTodo,
			Priority:    PriorityMedium,
			DueDate:     day(2024, time.February, 5),
			Details:     Task{Assignee: "Erin", Tags: []string{"database", "performance"}},
		},
		{
			Title:       "API documentation",
			Description: "Document every endpoint",
			Status:      StatusBacklog,
			Priority:    PriorityLow,
			DueDate:     day(2024, time.February, 10),
			Details:     Task{Assignee: "Frank", Tags: []string{"docs", "api"}},
		},
	}
}

// SampleApplications returns the seed cards of a new application board.
func SampleApplications() []Card[Application] {
	return []Card[Application]{
		{
			Title:    "Acme Corp - Senior Frontend Engineer",
			Status:   StatusClosed,
			Priority: PriorityDream,
			DueDate:  day(2024, time.February, 1),
			Details: Application{
				Company: "Acme Corp", Position: "Senior Frontend Engineer", Result: ResultOffer,
				Salary: "30K-45K", Location: "Hangzhou", AppliedOn: day(2024, time.January, 15),
				Contacts: []string{"Hiring manager", "Recruiter"}, Notes: "Offer accepted",
				Tags: []string{"frontend", "react"},
			},
		},
		{
			Title:    "Globex - Full Stack Engineer",
			Status:   StatusInterviewing,
			Priority: PriorityHigh,
			DueDate:  day(2024, time.February, 5),
			Details: Application{
				Company: "Globex", Position: "Full Stack Engineer",
				Salary: "28K-40K", Location: "Beijing", AppliedOn: day(2024, time.January, 18),
				Contacts: []string{"Tech lead"}, Notes: "Second round passed, waiting for final",
				Tags: []string{"fullstack", "vue"},
			},
		},
		{
			Title:    "Initech - Node.js Backend Engineer",
			Status:   StatusInterviewing,
			Priority: PriorityHigh,
			DueDate:  day(2024, time.February, 10),
			Details: Application{
				Company: "Initech", Position: "Node.js Backend Engineer",
				Salary: "25K-35K", Location: "Beijing", AppliedOn: day(2024, time.January, 22),
				Notes: "Preparing technical test", Tags: []string{"backend", "node"},
			},
		},
		{
			Title:    "Umbrella - Frontend Engineer",
			Status:   StatusApplied,
			Priority: PriorityMedium,
			Details: Application{
				Company: "Umbrella", Position: "Frontend Engineer",
				Salary: "22K-32K", Location: "Beijing", AppliedOn: day(2024, time.January, 25),
				Notes: "Waiting for interview invite", Tags: []string{"frontend", "ai"},
			},
		},
		{
			Title:    "Hooli - Frontend Intern",
			Status:   StatusInterested,
			Priority: PriorityLow,
			Details: Application{
				Company: "Hooli", Position: "Frontend Intern",
				Salary: "8K-12K", Location: "Beijing", Notes: "Polish portfolio first",
				Tags: []string{"internship", "ui"},
			},
		},
		{
			Title:    "Soylent - Game Frontend Engineer",
			Status:   StatusClosed,
			Priority: PriorityMedium,
			Details: Application{
				Company: "Soylent", Position: "Game Frontend Engineer", Result: ResultRejected,
				Salary: "24K-35K", Location: "Guangzhou", AppliedOn: day(2024, time.January, 10),
				Notes: "Lacked game development experience", Tags: []string{"games", "frontend"},
			},
		},
	}
}
