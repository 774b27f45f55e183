package seeder

import "talentflow-backend/models"

var jobTitles = []string{
	"Frontend Developer", "Backend Engineer", "Full Stack Developer", "Data Analyst",
	"UI/UX Designer", "QA Engineer", "Project Manager", "DevOps Engineer",
	"Mobile App Developer", "Machine Learning Engineer", "Data Scientist",
	"Product Manager", "Security Analyst", "Cloud Architect", "Software Engineer Intern",
	"System Administrator", "Technical Writer", "Business Analyst", "AI Researcher",
	"Database Administrator", "Game Developer", "Blockchain Developer",
	"Automation Tester", "Network Engineer", "Support Engineer",
}

var jobTags = []string{
	"Remote", "On-site", "Hybrid", "Full-time", "Part-time", "Contract",
	"Urgent", "Fresher", "Experienced", "Hot Role",
}

var jobTypes = []string{"Full-time", "Part-time", "Internship", "Contract", "Remote"}

var jobLocations = []string{"Bangalore", "Hyderabad", "Pune", "Remote", "Mumbai", "Chennai"}

var firstNames = []string{
	"Aman", "Neha", "Riya", "Karan", "Raj", "Pooja", "Rohit",
	"Sanya", "Vivek", "Simran", "Anjali", "Ishaan", "Kavita",
}

var lastNames = []string{
	"Sharma", "Verma", "Patel", "Rathore", "Gupta", "Jain",
	"Singh", "Yadav", "Joshi", "Agarwal", "Mehta",
}

// file questions are never seeded
var seedQuestionTypes = []models.QuestionType{
	models.QuestionShortText,
	models.QuestionLongText,
	models.QuestionSingleChoice,
	models.QuestionMultiChoice,
	models.QuestionNumeric,
}

const (
	openJobShare       = 0.8
	requiredShare      = 0.7
	seededAssessments  = 3
	questionsPerSeeded = 10
)
