package model

import "strings"

// Form describes one of the public lead-capture forms.
type Form struct {
	Key           string   `json:"key"`
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle"`
	FormType      FormType `json:"formType"`
	Fields        []string `json:"fields"`
	InterestField string   `json:"interestField,omitempty"`
	InterestLabel string   `json:"interestLabel,omitempty"`
	Interests     []string `json:"interests,omitempty"`
}

var requestFields = []string{"name", "role", "email", "phone", "organization", "message"}

// Forms is the catalog of public forms in display order.
var Forms = []Form{
	{
		Key:      "contact",
		Title:    "Get In Touch",
		Subtitle: "Questions about training, hiring or partnerships? Send us a message.",
		FormType: FormTypeContact,
		Fields:   []string{"name", "email", "role", "message"},
	},
	{
		Key:           "workshop",
		Title:         "Request a Workshop",
		Subtitle:      "Host an expert-led session or bootcamp at your institution.",
		FormType:      FormTypeServiceRequest,
		Fields:        requestFields,
		InterestField: "workshopType",
		InterestLabel: "Workshop Type",
		Interests:     []string{"AI/ML Workshop", "Full Stack Bootcamp", "Hardware/IoT", "Hackathon", "Other"},
	},
	{
		Key:           "crt",
		Title:         "CRT Training Inquiry",
		Subtitle:      "Equip your students with industry-ready skills.",
		FormType:      FormTypeServiceRequest,
		Fields:        requestFields,
		InterestField: "trainingType",
		InterestLabel: "Training Focus",
		Interests:     []string{"Full Stack Development", "Aptitude & Reasoning", "Soft Skills & Interview Prep", "Complete CRT Package"},
	},
	{
		Key:      "campus-drive",
		Title:    "Host a Campus Drive",
		Subtitle: "Partner with SkillXL for your hiring needs.",
		FormType: FormTypeServiceRequest,
		Fields:   requestFields,
	},
	{
		Key:      "partner",
		Title:    "Partner With Us",
		Subtitle: "Join the SkillXL ecosystem as a college or company partner.",
		FormType: FormTypeServiceRequest,
		Fields:   requestFields,
	},
	{
		Key:           "academic-projects",
		Title:         "Request Academic Projects",
		Subtitle:      "Get industry-standard projects, mentorship, and certification for final year students.",
		FormType:      FormTypeServiceRequest,
		Fields:        requestFields,
		InterestField: "projectDomain",
		InterestLabel: "Project Domain",
		Interests:     []string{"Full Stack Web App", "AI/Machine Learning", "IoT & Embedded Systems", "Data Science", "Blockchain", "Other"},
	},
	{
		Key:           "organization",
		Title:         "SkillXL for Your Organization",
		Subtitle:      "Partner with us to transform your talent and opportunities.",
		FormType:      FormTypeServiceRequest,
		Fields:        requestFields,
		InterestField: "serviceType",
		InterestLabel: "Service Type",
		Interests:     []string{"CRT & Placement Training", "Workshops & Skill Dev", "Academic Projects", "Staffing Solutions", "Expert Consultancy", "Other"},
	},
}

// LookupForm returns the form registered under key.
func LookupForm(key string) (Form, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, f := range Forms {
		if f.Key == key {
			return f, true
		}
	}
	return Form{}, false
}

// Payload assembles a Create payload from raw form values keyed by field name.
func (f Form) Payload(values map[string]string) *Submission {
	s := &Submission{
		FormType: f.FormType,
		Name:     values["name"],
		Email:    values["email"],
		Role:     values["role"],
		Message:  values["message"],
	}
	if f.FormType == FormTypeServiceRequest {
		s.RequestCategory = f.Key
		s.Phone = values["phone"]
		s.Organization = values["organization"]
		if f.InterestField != "" {
			s.ServiceInterest = values[f.InterestField]
		}
	}
	return s
}
