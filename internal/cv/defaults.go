package cv

// Default returns the sample CV new sessions start from.
func Default() Data {
	return Data{
		Personal: PersonalInfo{
			Name:     "Alex Doe",
			Title:    "Senior Frontend Developer",
			Phone:    "+1 (123) 456-7890",
			Email:    "alex.doe@example.com",
			Location: "San Francisco, CA",
			Website:  "alexdoe.dev",
			Summary:  "Innovative Senior Frontend Developer with 8+ years of experience building and maintaining responsive and scalable web applications. Proficient in React, TypeScript, and modern JavaScript frameworks. Passionate about creating seamless user experiences and writing clean, efficient code.",
		},
		Experience: []Experience{
			{
				ID:          "exp1",
				Company:     "Tech Solutions Inc.",
				Role:        "Senior Frontend Developer",
				StartDate:   "Jan 2020",
				EndDate:     "Present",
				Description: "- Led the development of a new customer-facing dashboard using React and TypeScript, resulting in a 20% increase in user engagement.\n- Mentored junior developers, providing code reviews and guidance on best practices.\n- Collaborated with UX/UI designers to implement complex and interactive features.",
			},
			{
				ID:          "exp2",
				Company:     "Web Innovators",
				Role:        "Frontend Developer",
				StartDate:   "Jun 2016",
				EndDate:     "Dec 2019",
				Description: "- Developed and maintained client websites using JavaScript, HTML, and CSS.\n- Improved website performance by optimizing assets and code, reducing load times by 30%.",
			},
		},
		Education: []Education{
			{
				ID:          "edu1",
				Institution: "University of Technology",
				Degree:      "B.S. in Computer Science",
				StartDate:   "Sep 2012",
				EndDate:     "May 2016",
				Description: "Graduated with honors. Member of the university coding club and participated in multiple hackathons.",
			},
		},
		Projects: []Project{
			{
				ID:          "proj1",
				Name:        "Open Source Design System",
				Role:        "Maintainer",
				Link:        "github.com/alexdoe/ds",
				StartDate:   "2021",
				EndDate:     "Present",
				Description: "- Component library used by 40+ internal teams.\n- Automated visual regression testing in CI.",
			},
		},
		Skills: []Skill{
			{ID: "skill1", Name: "React & Next.js"},
			{ID: "skill2", Name: "TypeScript"},
			{ID: "skill3", Name: "JavaScript (ES6+)"},
			{ID: "skill4", Name: "Tailwind CSS"},
			{ID: "skill5", Name: "Node.js"},
			{ID: "skill6", Name: "UI/UX Design"},
			{ID: "skill7", Name: "REST APIs"},
			{ID: "skill8", Name: "Agile Methodologies"},
		},
		Languages: []Language{
			{ID: "lang1", Name: "English", Level: "Native"},
			{ID: "lang2", Name: "Spanish", Level: "Professional"},
		},
		Interests: []Interest{
			{ID: "int1", Name: "Photography"},
			{ID: "int2", Name: "Rock climbing"},
			{ID: "int3", Name: "Open source"},
		},
	}
}
