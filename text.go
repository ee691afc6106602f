package main

// Section copy that is part of the page layout rather than the portfolio data.
var (
	AboutHeading = `About Me`
	AboutIntro   = `A little about who I am, what I build, and what keeps me curious.`

	SkillsHeading = `Skills & Expertise`
	SkillsIntro   = `The tools and technologies I reach for most, and how comfortable I am with each.`

	ProjectsHeading = `Featured Projects`
	ProjectsIntro   = `A selection of things I've built. Click a project for the details.`

	ExperienceHeading = `Work Experience`
	EducationHeading  = `Education`

	ContactBadge   = `Get in Touch`
	ContactHeading = `Let's Connect`
	ContactIntro   = `Have a question or want to work together? Feel free to reach out!`

	ChatTitle       = `Chat with AI Assistant`
	ChatPlaceholder = `Type a message...`
)
